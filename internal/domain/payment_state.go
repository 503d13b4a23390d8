package domain

import "fmt"

type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// CanTransitionTo encodes the forward-only lifecycle. failed and refunded are
// the only exits besides settlement, and refunded is reachable only from
// succeeded.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusCreated:
		return target == PaymentStatusProcessing || target == PaymentStatusSucceeded || target == PaymentStatusFailed
	case PaymentStatusProcessing:
		return target == PaymentStatusSucceeded || target == PaymentStatusFailed
	case PaymentStatusSucceeded:
		return target == PaymentStatusRefunded
	default:
		return false
	}
}

type ModeKind string

const (
	ModeCheckout     ModeKind = "checkout"
	ModeDirectIntent ModeKind = "direct-intent"
)

// PaymentMode is either CheckoutMode or DirectIntentMode; a payment never
// carries both a checkout URL and a client secret.
type PaymentMode interface {
	Kind() ModeKind
	Value() string
	InitialStatus() PaymentStatus
}

type CheckoutMode struct {
	URL string
}

func (CheckoutMode) Kind() ModeKind { return ModeCheckout }
func (m CheckoutMode) Value() string { return m.URL }
func (CheckoutMode) InitialStatus() PaymentStatus { return PaymentStatusProcessing }

type DirectIntentMode struct {
	ClientSecret string
}

func (DirectIntentMode) Kind() ModeKind { return ModeDirectIntent }
func (m DirectIntentMode) Value() string { return m.ClientSecret }
func (DirectIntentMode) InitialStatus() PaymentStatus { return PaymentStatusCreated }

func NewPaymentMode(kind ModeKind, value string) (PaymentMode, error) {
	switch kind {
	case ModeCheckout:
		return CheckoutMode{URL: value}, nil
	case ModeDirectIntent:
		return DirectIntentMode{ClientSecret: value}, nil
	default:
		return nil, fmt.Errorf("unknown payment mode %q", kind)
	}
}

func (k ModeKind) Valid() bool {
	return k == ModeCheckout || k == ModeDirectIntent
}
