package echo

import (
	"errors"
	"net/http"
	"strings"

	echofw "github.com/labstack/echo/v4"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
)

func CustomHTTPErrorHandler(err error, c echofw.Context) {
	if c.Response().Committed {
		return
	}

	lang := parseAcceptLanguage(c.Request().Header.Get("Accept-Language"))

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		localized := appErr.Localize(lang)
		_ = c.JSON(localized.HTTPCode, map[string]interface{}{
			"code":      localized.Code,
			"message":   localized.Message,
			"retryable": localized.Retryable(),
		})
		return
	}

	var echoErr *echofw.HTTPError
	if errors.As(err, &echoErr) {
		_ = c.JSON(echoErr.Code, map[string]interface{}{
			"code":    "HTTP_ERROR",
			"message": http.StatusText(echoErr.Code),
		})
		return
	}

	internalErr := apperrors.ErrInternal().Localize(lang)
	_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"code":    internalErr.Code,
		"message": internalErr.Message,
	})
}

func parseAcceptLanguage(header string) string {
	if header == "" {
		return "en"
	}
	parts := strings.Split(header, ",")
	lang := strings.TrimSpace(parts[0])
	lang = strings.Split(lang, ";")[0]
	if lang == "" || lang == "*" {
		return "en"
	}
	return lang
}
