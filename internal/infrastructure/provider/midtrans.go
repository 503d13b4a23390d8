package provider

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/mirola777/payhook/internal/domain"
)

const MidtransName = "midtrans"

type snapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// Midtrans creates Snap transactions. The payment id is sent as the Midtrans
// order_id, so notifications map straight back to the payment.
type Midtrans struct {
	snap snapCreator
}

func NewMidtrans(serverKey, env string) *Midtrans {
	var client snap.Client

	environment := midtrans.Sandbox
	if env == "production" {
		environment = midtrans.Production
	}
	client.New(serverKey, environment)

	return &Midtrans{snap: &client}
}

func (m *Midtrans) Name() string {
	return MidtransName
}

func (m *Midtrans) Create(_ context.Context, payment *domain.Payment, mode domain.ModeKind) (*domain.ProviderPayment, error) {
	if payment.Currency != domain.CurrencyIDR {
		return nil, fmt.Errorf("midtrans: currency %s not supported: %w", payment.Currency, domain.ErrProviderRejected)
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  payment.ID,
			GrossAmt: payment.Amount.Round(0).IntPart(),
		},
		CustomField1: payment.OrderID,
	}

	resp, snapErr := m.snap.CreateTransaction(req)
	if snapErr != nil {
		return nil, fmt.Errorf("midtrans: %s: %w", snapErr.Message, domain.ErrProviderRejected)
	}

	switch mode {
	case domain.ModeCheckout:
		return &domain.ProviderPayment{
			Reference: payment.ID,
			Mode:      domain.CheckoutMode{URL: resp.RedirectURL},
		}, nil
	case domain.ModeDirectIntent:
		return &domain.ProviderPayment{
			Reference: payment.ID,
			Mode:      domain.DirectIntentMode{ClientSecret: resp.Token},
		}, nil
	default:
		return nil, fmt.Errorf("midtrans: unsupported mode %q", mode)
	}
}
