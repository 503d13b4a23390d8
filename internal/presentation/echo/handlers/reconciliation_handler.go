package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/payhook/internal/domain"
)

type ReconciliationHandler struct {
	payments domain.PaymentService
}

func NewReconciliationHandler(payments domain.PaymentService) *ReconciliationHandler {
	return &ReconciliationHandler{payments: payments}
}

func (h *ReconciliationHandler) ListSettlements(c echo.Context) error {
	payments, err := h.payments.ListUnconfirmedSettlements(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":    len(payments),
		"payments": payments,
	})
}

func (h *ReconciliationHandler) Renotify(c echo.Context) error {
	payment, err := h.payments.RenotifySettlement(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, payment)
}
