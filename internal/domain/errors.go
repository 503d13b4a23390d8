package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSignatureInvalid  = errors.New("webhook signature invalid")
	ErrSecretMissing     = errors.New("webhook secret not configured")
	ErrMalformedPayload  = errors.New("webhook payload malformed")
	ErrLockStoreDown     = errors.New("lock store unavailable")
	ErrUnknownProvider   = errors.New("unknown webhook provider")
	ErrProviderRejected  = errors.New("payment provider rejected request")
	ErrCircuitOpen       = errors.New("circuit breaker open")
	ErrNotificationEpoch = errors.New("stale notification epoch")
)

// PermanentDeliveryError marks a notification the receiver rejected outright.
// Retrying it cannot succeed.
type PermanentDeliveryError struct {
	StatusCode int
	Body       string
}

func (e *PermanentDeliveryError) Error() string {
	return fmt.Sprintf("receiver rejected notification with status %d: %s", e.StatusCode, e.Body)
}

func IsPermanentDelivery(err error) bool {
	var perr *PermanentDeliveryError
	return errors.As(err, &perr)
}
