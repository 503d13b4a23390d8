package provider

import (
	"fmt"
	"testing"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverKey = "SB-Mid-server-test"

func midtransPayload(status, fraud, signature string) []byte {
	return []byte(fmt.Sprintf(`{"transaction_id":"trx_1","transaction_status":%q,"fraud_status":%q,"order_id":"pay_42","status_code":"200","gross_amount":"150000.00","signature_key":%q}`,
		status, fraud, signature))
}

func signed(status, fraud string) []byte {
	return midtransPayload(status, fraud, MidtransSignature("pay_42", "200", "150000.00", serverKey))
}

func TestMidtransVerify_StatusMapping(t *testing.T) {
	v := NewMidtransVerifier(serverKey, false)

	tests := []struct {
		status, fraud string
		want          domain.EventType
		known         bool
	}{
		{"settlement", "", domain.EventPaymentSucceeded, true},
		{"capture", "accept", domain.EventPaymentSucceeded, true},
		{"capture", "challenge", "midtrans.capture", false},
		{"deny", "", domain.EventPaymentFailed, true},
		{"cancel", "", domain.EventPaymentFailed, true},
		{"expire", "", domain.EventPaymentFailed, true},
		{"failure", "", domain.EventPaymentFailed, true},
		{"refund", "", domain.EventRefundCompleted, true},
		{"pending", "", "midtrans.pending", false},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			event, err := v.Verify(signed(tt.status, tt.fraud), "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, event.Type)
			_, known := event.Type.MappedStatus()
			assert.Equal(t, tt.known, known)
			assert.Equal(t, "trx_1:"+tt.status, event.ID)
			assert.Equal(t, "pay_42", event.PaymentID)
			assert.Equal(t, "trx_1", event.Metadata.ProviderRef)
			assert.Equal(t, "150000", event.Metadata.Amount.String())
		})
	}
}

func TestMidtransVerify_BadSignature(t *testing.T) {
	v := NewMidtransVerifier(serverKey, false)

	_, err := v.Verify(midtransPayload("settlement", "", "deadbeef"), "")
	assert.ErrorIs(t, err, domain.ErrSignatureInvalid)
}

func TestMidtransVerify_MissingServerKey(t *testing.T) {
	v := NewMidtransVerifier("", false)

	_, err := v.Verify(signed("settlement", ""), "")
	assert.ErrorIs(t, err, domain.ErrSecretMissing)
}

func TestMidtransSignatureIsDeterministic(t *testing.T) {
	sig := MidtransSignature("pay_42", "200", "150000.00", serverKey)

	assert.Len(t, sig, 128)
	assert.Equal(t, sig, MidtransSignature("pay_42", "200", "150000.00", serverKey))
	assert.NotEqual(t, sig, MidtransSignature("pay_42", "201", "150000.00", serverKey))
}
