package errors

import "net/http"

func ErrAuthenticationFailed() *AppError {
	return New("AUTHENTICATION_FAILED", http.StatusUnauthorized, messages["en"]["AUTHENTICATION_FAILED"])
}

func ErrMalformedWebhook(detail string) *AppError {
	return withDetail("MALFORMED_WEBHOOK", http.StatusBadRequest, detail)
}

func ErrWebhookProviderUnknown() *AppError {
	return New("WEBHOOK_PROVIDER_UNKNOWN", http.StatusNotFound, messages["en"]["WEBHOOK_PROVIDER_UNKNOWN"])
}

func ErrLockStoreUnavailable() *AppError {
	return New("LOCK_STORE_UNAVAILABLE", http.StatusServiceUnavailable, messages["en"]["LOCK_STORE_UNAVAILABLE"])
}

func ErrWebhookTooLarge() *AppError {
	return New("WEBHOOK_TOO_LARGE", http.StatusRequestEntityTooLarge, messages["en"]["WEBHOOK_TOO_LARGE"])
}
