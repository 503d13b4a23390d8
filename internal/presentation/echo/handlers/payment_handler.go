package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/payhook/internal/domain"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
)

type PaymentHandler struct {
	payments domain.PaymentService
}

func NewPaymentHandler(payments domain.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req domain.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidPaymentRequest("invalid request body")
	}

	payment, err := h.payments.CreatePayment(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	payment, err := h.payments.GetPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}
