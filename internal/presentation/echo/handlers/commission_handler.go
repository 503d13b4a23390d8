package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/payhook/internal/domain"
)

type CommissionHandler struct {
	ledger domain.CommissionLedger
}

func NewCommissionHandler(ledger domain.CommissionLedger) *CommissionHandler {
	return &CommissionHandler{ledger: ledger}
}

func (h *CommissionHandler) Report(c echo.Context) error {
	report, err := h.ledger.Report(c.Request().Context(), c.Param("referrerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}

func (h *CommissionHandler) MarkPaid(c echo.Context) error {
	record, err := h.ledger.MarkPaid(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}
