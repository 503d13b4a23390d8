package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/shopspring/decimal"
)

const SimulatorSignatureHeader = "X-Webhook-Signature"

type simulatorEnvelope struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Created int64         `json:"created"`
	Data    simulatorData `json:"data"`
}

type simulatorData struct {
	PaymentID  string          `json:"payment_id"`
	OrderID    string          `json:"order_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	CustomerID string          `json:"customer_id"`
	ReferrerID string          `json:"referrer_id"`
	ReceiptURL string          `json:"receipt_url"`
}

// SimulatorVerifier checks signatures of the form "t=<unix>,v1=<hex>", where
// v1 is HMAC-SHA256 over "<t>.<payload>".
type SimulatorVerifier struct {
	secret        string
	tolerance     time.Duration
	allowUnsigned bool
	now           func() time.Time
}

func NewSimulatorVerifier(secret string, tolerance time.Duration, allowUnsigned bool) *SimulatorVerifier {
	return &SimulatorVerifier{
		secret:        secret,
		tolerance:     tolerance,
		allowUnsigned: allowUnsigned,
		now:           time.Now,
	}
}

func (v *SimulatorVerifier) Provider() string {
	return SimulatorName
}

func (v *SimulatorVerifier) SignatureHeader() string {
	return SimulatorSignatureHeader
}

func (v *SimulatorVerifier) Verify(payload []byte, signature string) (*domain.WebhookEvent, error) {
	if v.secret == "" {
		if !v.allowUnsigned {
			return nil, domain.ErrSecretMissing
		}
	} else if err := v.checkSignature(payload, signature); err != nil {
		return nil, err
	}

	var env simulatorEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if env.ID == "" || env.Type == "" {
		return nil, fmt.Errorf("%w: id and type are required", domain.ErrMalformedPayload)
	}

	eventType := domain.EventType(env.Type)
	if _, known := eventType.MappedStatus(); known && env.Data.PaymentID == "" {
		return nil, fmt.Errorf("%w: data.payment_id is required", domain.ErrMalformedPayload)
	}

	return &domain.WebhookEvent{
		ID:        env.ID,
		Provider:  SimulatorName,
		Type:      eventType,
		PaymentID: env.Data.PaymentID,
		Metadata: domain.ProviderMetadata{
			ReceiptURL: env.Data.ReceiptURL,
			ReferrerID: env.Data.ReferrerID,
			Amount:     env.Data.Amount,
		},
		Payload: payload,
	}, nil
}

func (v *SimulatorVerifier) checkSignature(payload []byte, header string) error {
	ts, sig, ok := parseSignatureHeader(header)
	if !ok {
		return domain.ErrSignatureInvalid
	}

	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return domain.ErrSignatureInvalid
	}
	age := v.now().Sub(time.Unix(seconds, 0))
	if v.tolerance > 0 && (age > v.tolerance || age < -v.tolerance) {
		return domain.ErrSignatureInvalid
	}

	expected := computeHMAC(v.secret, ts, payload)
	given, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(expected, given) {
		return domain.ErrSignatureInvalid
	}
	return nil
}

func parseSignatureHeader(header string) (ts, sig string, ok bool) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			sig = value
		}
	}
	return ts, sig, ts != "" && sig != ""
}

func computeHMAC(secret, ts string, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignSimulatorPayload builds the signature header value a simulator webhook
// sender would attach.
func SignSimulatorPayload(secret string, at time.Time, payload []byte) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(computeHMAC(secret, ts, payload))
}
