package errors

import "net/http"

func ErrPaymentNotFound() *AppError {
	return New("PAYMENT_NOT_FOUND", http.StatusNotFound, messages["en"]["PAYMENT_NOT_FOUND"])
}

func ErrPaymentConcurrentUpdate() *AppError {
	return New("PAYMENT_CONCURRENT_UPDATE", http.StatusConflict, messages["en"]["PAYMENT_CONCURRENT_UPDATE"])
}

func ErrProviderCreationFailed(detail string) *AppError {
	return withDetail("PROVIDER_CREATION_FAILED", http.StatusBadGateway, detail)
}

func ErrInvalidPaymentRequest(detail string) *AppError {
	return withDetail("INVALID_PAYMENT_REQUEST", http.StatusBadRequest, detail)
}

func ErrInvalidCurrency(currency string) *AppError {
	return withDetail("INVALID_CURRENCY", http.StatusBadRequest, currency)
}

func ErrInvalidPaymentMode() *AppError {
	return New("INVALID_PAYMENT_MODE", http.StatusBadRequest, messages["en"]["INVALID_PAYMENT_MODE"])
}

func ErrSettlementNotPending() *AppError {
	return New("SETTLEMENT_NOT_PENDING", http.StatusConflict, messages["en"]["SETTLEMENT_NOT_PENDING"])
}

func ErrCommissionNotFound() *AppError {
	return New("COMMISSION_NOT_FOUND", http.StatusNotFound, messages["en"]["COMMISSION_NOT_FOUND"])
}

func ErrUnauthorized() *AppError {
	return New("UNAUTHORIZED", http.StatusUnauthorized, messages["en"]["UNAUTHORIZED"])
}

func ErrInternal() *AppError {
	return New("INTERNAL_ERROR", http.StatusInternalServerError, messages["en"]["INTERNAL_ERROR"])
}
