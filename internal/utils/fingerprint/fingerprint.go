package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/mirola777/payhook/internal/domain"
)

func Compute(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", hash)
}

// NotificationKey is stable for one settlement of one payment. Redelivery of
// the same status change reuses it; a new epoch produces a new key.
func NotificationKey(paymentID string, status domain.PaymentStatus, epoch int) string {
	return Compute(paymentID, string(status), strconv.Itoa(epoch))
}
