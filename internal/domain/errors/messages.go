package errors

import "strings"

var messages = map[string]Messages{
	"en": {
		"AUTHENTICATION_FAILED":     "webhook signature could not be verified",
		"MALFORMED_WEBHOOK":         "webhook payload could not be parsed",
		"WEBHOOK_PROVIDER_UNKNOWN":  "webhook provider is not configured",
		"WEBHOOK_TOO_LARGE":         "webhook payload exceeds the 1 MiB limit",
		"LOCK_STORE_UNAVAILABLE":    "event lock store is unavailable, retry later",
		"PAYMENT_NOT_FOUND":         "payment not found",
		"PAYMENT_CONCURRENT_UPDATE": "payment was updated concurrently, retry later",
		"PROVIDER_CREATION_FAILED":  "payment provider could not create the payment",
		"INVALID_PAYMENT_REQUEST":   "invalid payment request",
		"INVALID_CURRENCY":          "currency is not supported; valid currencies: USD, EUR, IDR, THB",
		"INVALID_PAYMENT_MODE":      "payment mode must be 'checkout' or 'direct-intent'",
		"SETTLEMENT_NOT_PENDING":    "payment has no unconfirmed settlement notification",
		"COMMISSION_NOT_FOUND":      "commission not found",
		"UNAUTHORIZED":              "a valid X-API-Key header is required",
		"INTERNAL_ERROR":            "an internal error occurred",
	},
	"es": {
		"AUTHENTICATION_FAILED":     "no se pudo verificar la firma del webhook",
		"MALFORMED_WEBHOOK":         "no se pudo interpretar el contenido del webhook",
		"WEBHOOK_PROVIDER_UNKNOWN":  "el proveedor del webhook no esta configurado",
		"WEBHOOK_TOO_LARGE":         "el contenido del webhook supera el limite de 1 MiB",
		"LOCK_STORE_UNAVAILABLE":    "el almacen de bloqueos no esta disponible, reintente mas tarde",
		"PAYMENT_NOT_FOUND":         "pago no encontrado",
		"PAYMENT_CONCURRENT_UPDATE": "el pago fue actualizado concurrentemente, reintente mas tarde",
		"PROVIDER_CREATION_FAILED":  "el proveedor de pagos no pudo crear el pago",
		"INVALID_PAYMENT_REQUEST":   "solicitud de pago invalida",
		"INVALID_CURRENCY":          "moneda no soportada; monedas validas: USD, EUR, IDR, THB",
		"INVALID_PAYMENT_MODE":      "el modo de pago debe ser 'checkout' o 'direct-intent'",
		"SETTLEMENT_NOT_PENDING":    "el pago no tiene una notificacion de liquidacion pendiente",
		"COMMISSION_NOT_FOUND":      "comision no encontrada",
		"UNAUTHORIZED":              "se requiere un encabezado X-API-Key valido",
		"INTERNAL_ERROR":            "ocurrio un error interno",
	},
}

func baseLanguage(lang string) string {
	base := strings.SplitN(lang, "-", 2)[0]
	return strings.TrimSpace(strings.ToLower(base))
}

func GetMessage(code string, lang string) string {
	base := baseLanguage(lang)

	if langMessages, ok := messages[base]; ok {
		if msg, ok := langMessages[code]; ok {
			return msg
		}
	}

	if base != "en" {
		if msg, ok := messages["en"][code]; ok {
			return msg
		}
	}

	return code
}

func Localize(err *AppError, lang string) *AppError {
	var msg string
	if err.translations != nil {
		var ok bool
		if msg, ok = err.translations[baseLanguage(lang)]; !ok {
			msg = err.Message
		}
	} else {
		msg = GetMessage(err.Code, lang)
	}
	if err.detail != "" {
		msg = msg + ": " + err.detail
	}

	return &AppError{
		Code:         err.Code,
		Message:      msg,
		HTTPCode:     err.HTTPCode,
		detail:       err.detail,
		translations: err.translations,
	}
}
