package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mirola777/payhook/internal/domain"
)

// HTTPSender posts status changes to the Order service. A 4xx answer is a
// domain.PermanentDeliveryError; 5xx and transport failures are retryable.
type HTTPSender struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPSender(baseURL, apiKey string, timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSender) Send(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n.Payload)
	if err != nil {
		return &domain.PermanentDeliveryError{Body: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/payment-status", bytes.NewReader(body))
	if err != nil {
		return &domain.PermanentDeliveryError{Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.IdempotencyKey)
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post payment status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &domain.PermanentDeliveryError{StatusCode: resp.StatusCode, Body: string(msg)}
	}
	return fmt.Errorf("order service responded %d: %s", resp.StatusCode, string(msg))
}
