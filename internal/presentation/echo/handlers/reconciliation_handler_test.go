package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/payhook/internal/domain"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListSettlements_Returns200(t *testing.T) {
	p := samplePayment()
	p.Status = domain.PaymentStatusSucceeded
	p.NotificationState = domain.NotificationStateFailed
	svc := new(mockPaymentService)
	svc.On("ListUnconfirmedSettlements", mock.Anything).Return([]domain.Payment{*p}, nil)
	h := NewReconciliationHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reconciliation/settlements", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListSettlements(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count    int              `json:"count"`
		Payments []domain.Payment `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, domain.NotificationStateFailed, resp.Payments[0].NotificationState)
}

func TestRenotify_Returns202(t *testing.T) {
	p := samplePayment()
	p.Status = domain.PaymentStatusSucceeded
	svc := new(mockPaymentService)
	svc.On("RenotifySettlement", mock.Anything, "pay_42").Return(p, nil)
	h := NewReconciliationHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reconciliation/settlements/pay_42/renotify", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("pay_42")

	require.NoError(t, h.Renotify(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRenotify_NotPending(t *testing.T) {
	svc := new(mockPaymentService)
	svc.On("RenotifySettlement", mock.Anything, "pay_42").Return(nil, apperrors.ErrSettlementNotPending())
	h := NewReconciliationHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reconciliation/settlements/pay_42/renotify", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("pay_42")

	err := h.Renotify(c)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SETTLEMENT_NOT_PENDING", appErr.Code)
}
