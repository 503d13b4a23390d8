package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mirola777/payhook/internal/domain"
)

const SimulatorName = "simulator"

// Simulator is a deterministic stand-in for a hosted checkout provider. A few
// reserved user ids trigger provider-side failures.
type Simulator struct {
	checkoutBaseURL string
}

func NewSimulator() *Simulator {
	return &Simulator{checkoutBaseURL: "https://checkout.simulator.local/session/"}
}

func (s *Simulator) Name() string {
	return SimulatorName
}

func (s *Simulator) Create(_ context.Context, payment *domain.Payment, mode domain.ModeKind) (*domain.ProviderPayment, error) {
	if err := resolveOutcome(payment.UserID); err != nil {
		return nil, err
	}

	ref := "sim_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	switch mode {
	case domain.ModeCheckout:
		return &domain.ProviderPayment{
			Reference: ref,
			Mode:      domain.CheckoutMode{URL: s.checkoutBaseURL + ref},
		}, nil
	case domain.ModeDirectIntent:
		return &domain.ProviderPayment{
			Reference: ref,
			Mode:      domain.DirectIntentMode{ClientSecret: ref + "_secret_" + uuid.NewString()[:8]},
		}, nil
	default:
		return nil, fmt.Errorf("simulator: unsupported mode %q", mode)
	}
}

func resolveOutcome(userID string) error {
	switch userID {
	case "user_provider_down":
		return fmt.Errorf("simulator: provider unavailable: %w", domain.ErrProviderRejected)
	case "user_declined":
		return fmt.Errorf("simulator: customer blocked by risk rules: %w", domain.ErrProviderRejected)
	default:
		return nil
	}
}
