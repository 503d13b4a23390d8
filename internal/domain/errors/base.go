package errors

import "fmt"

type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	HTTPCode int    `json:"-"`

	detail       string
	translations Messages
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Localize(lang string) *AppError {
	return Localize(e, lang)
}

// Retryable reports whether a provider should redeliver a webhook that failed
// with this error.
func (e *AppError) Retryable() bool {
	return e.HTTPCode >= 500 || e.HTTPCode == 409
}

func New(code string, httpCode int, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

type Messages map[string]string

func newAppError(code string, httpCode int, msgs Messages) *AppError {
	msg, ok := msgs["en"]
	if !ok {
		msg = code
	}
	err := New(code, httpCode, msg)
	err.translations = msgs
	return err
}

func withDetail(code string, httpCode int, detail string) *AppError {
	err := New(code, httpCode, fmt.Sprintf("%s: %s", messages["en"][code], detail))
	err.detail = detail
	return err
}
