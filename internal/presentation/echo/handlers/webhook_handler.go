package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/payhook/internal/domain"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhooks domain.WebhookService
}

func NewWebhookHandler(webhooks domain.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// Receive passes the raw body through untouched; signatures are computed over
// the exact bytes the provider sent.
func (h *WebhookHandler) Receive(c echo.Context) error {
	provider := c.Param("provider")

	header, ok := h.webhooks.SignatureHeader(provider)
	if !ok {
		return apperrors.ErrWebhookProviderUnknown()
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.ErrWebhookTooLarge()
		}
		return apperrors.ErrMalformedWebhook("unreadable body")
	}

	var signature string
	if header != "" {
		signature = c.Request().Header.Get(header)
	}

	result, err := h.webhooks.Handle(c.Request().Context(), provider, payload, signature)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
