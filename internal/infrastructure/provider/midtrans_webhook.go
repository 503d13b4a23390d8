package provider

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/shopspring/decimal"
)

type midtransNotification struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// MidtransVerifier authenticates HTTP notifications. Midtrans signs inside the
// body, so no header is consulted.
type MidtransVerifier struct {
	serverKey     string
	allowUnsigned bool
}

func NewMidtransVerifier(serverKey string, allowUnsigned bool) *MidtransVerifier {
	return &MidtransVerifier{serverKey: serverKey, allowUnsigned: allowUnsigned}
}

func (v *MidtransVerifier) Provider() string {
	return MidtransName
}

func (v *MidtransVerifier) SignatureHeader() string {
	return ""
}

func (v *MidtransVerifier) Verify(payload []byte, _ string) (*domain.WebhookEvent, error) {
	if v.serverKey == "" && !v.allowUnsigned {
		return nil, domain.ErrSecretMissing
	}

	var n midtransNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		if v.serverKey != "" {
			return nil, domain.ErrSignatureInvalid
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if v.serverKey != "" {
		expected := MidtransSignature(n.OrderID, n.StatusCode, n.GrossAmount, v.serverKey)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
			return nil, domain.ErrSignatureInvalid
		}
	}

	if n.TransactionID == "" || n.TransactionStatus == "" || n.OrderID == "" {
		return nil, fmt.Errorf("%w: transaction_id, transaction_status and order_id are required", domain.ErrMalformedPayload)
	}

	var amount decimal.Decimal
	if n.GrossAmount != "" {
		parsed, err := decimal.NewFromString(n.GrossAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: gross_amount %q", domain.ErrMalformedPayload, n.GrossAmount)
		}
		amount = parsed
	}

	return &domain.WebhookEvent{
		ID:        n.TransactionID + ":" + n.TransactionStatus,
		Provider:  MidtransName,
		Type:      midtransEventType(n.TransactionStatus, n.FraudStatus),
		PaymentID: n.OrderID,
		Metadata: domain.ProviderMetadata{
			ProviderRef: n.TransactionID,
			Amount:      amount,
		},
		Payload: payload,
	}, nil
}

func midtransEventType(status, fraud string) domain.EventType {
	switch status {
	case "settlement":
		return domain.EventPaymentSucceeded
	case "capture":
		if fraud == "accept" {
			return domain.EventPaymentSucceeded
		}
	case "deny", "cancel", "expire", "failure":
		return domain.EventPaymentFailed
	case "refund":
		return domain.EventRefundCompleted
	}
	return domain.EventType("midtrans." + status)
}

func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	hash := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(hash[:])
}
