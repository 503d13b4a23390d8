package commission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mirola777/payhook/internal/domain"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	checkReferrerPresent = "referrer_present"
	checkNotSelfReferral = "not_self_referral"
	checkFirstForOrder   = "first_for_order"
	checkAboveMinimum    = "above_minimum"
)

type Settings struct {
	Rate      decimal.Decimal
	MinAmount decimal.Decimal
}

type Ledger struct {
	repo     domain.CommissionRepository
	settings Settings
	log      *zap.Logger
	now      func() time.Time
}

func NewLedger(repo domain.CommissionRepository, settings Settings, log *zap.Logger) *Ledger {
	return &Ledger{
		repo:     repo,
		settings: settings,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Accrue records the referral commission for an order. It returns nil, nil
// when a guard rejects the order, and the existing record when the order was
// already accrued.
func (l *Ledger) Accrue(ctx context.Context, req domain.AccrueRequest) (*domain.CommissionRecord, error) {
	log := l.log.With(zap.String("order_id", req.OrderID), zap.String("referrer_id", req.ReferrerID))

	if req.ReferrerID == "" {
		return nil, nil
	}
	if req.ReferrerID == req.CustomerID {
		log.Warn("self-referral rejected", zap.String("customer_id", req.CustomerID))
		return nil, nil
	}

	existing, err := l.repo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("find commission for order %s: %w", req.OrderID, err)
	}
	if existing != nil {
		return existing, nil
	}

	if req.Amount.LessThan(l.settings.MinAmount) {
		log.Info("order below commission minimum",
			zap.String("amount", req.Amount.String()),
			zap.String("min_amount", l.settings.MinAmount.String()))
		return nil, nil
	}

	now := l.now()
	audit, err := json.Marshal(domain.CommissionAudit{
		Rate:         l.settings.Rate,
		MinAmount:    l.settings.MinAmount,
		ChecksPassed: []string{checkReferrerPresent, checkNotSelfReferral, checkFirstForOrder, checkAboveMinimum},
		CalculatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	record := &domain.CommissionRecord{
		ID:          "com_" + uuid.NewString(),
		ReferrerID:  req.ReferrerID,
		CustomerID:  req.CustomerID,
		OrderID:     req.OrderID,
		OrderAmount: req.Amount,
		Amount:      req.Amount.Mul(l.settings.Rate),
		Status:      domain.CommissionStatusPending,
		Audit:       datatypes.JSON(audit),
		CreatedAt:   now,
	}

	created, err := l.repo.CreateIfAbsent(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create commission for order %s: %w", req.OrderID, err)
	}
	if !created {
		winner, err := l.repo.FindByOrderID(ctx, req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("find commission for order %s: %w", req.OrderID, err)
		}
		return winner, nil
	}

	log.Info("commission accrued", zap.String("commission_id", record.ID), zap.String("amount", record.Amount.String()))
	return record, nil
}

func (l *Ledger) MarkPaid(ctx context.Context, commissionID string) (*domain.CommissionRecord, error) {
	record, err := l.repo.FindByID(ctx, commissionID)
	if err != nil {
		l.log.Error("failed to load commission", zap.String("commission_id", commissionID), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}
	if record == nil {
		return nil, apperrors.ErrCommissionNotFound()
	}
	if record.Status == domain.CommissionStatusPaid {
		return record, nil
	}

	if _, err := l.repo.MarkPaid(ctx, commissionID, l.now()); err != nil {
		l.log.Error("failed to mark commission paid", zap.String("commission_id", commissionID), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}

	record, err = l.repo.FindByID(ctx, commissionID)
	if err != nil || record == nil {
		l.log.Error("failed to reload commission", zap.String("commission_id", commissionID), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}
	return record, nil
}

func (l *Ledger) Report(ctx context.Context, referrerID string) (*domain.CommissionReport, error) {
	records, err := l.repo.ListByReferrer(ctx, referrerID)
	if err != nil {
		l.log.Error("failed to list commissions", zap.String("referrer_id", referrerID), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}

	report := &domain.CommissionReport{
		ReferrerID:       referrerID,
		TotalCommissions: len(records),
		TotalAmount:      decimal.Zero,
		PendingAmount:    decimal.Zero,
		PaidAmount:       decimal.Zero,
		Commissions:      records,
	}
	if report.Commissions == nil {
		report.Commissions = []domain.CommissionRecord{}
	}

	for _, r := range records {
		report.TotalAmount = report.TotalAmount.Add(r.Amount)
		switch r.Status {
		case domain.CommissionStatusPaid:
			report.PaidAmount = report.PaidAmount.Add(r.Amount)
		default:
			report.PendingAmount = report.PendingAmount.Add(r.Amount)
		}
	}
	return report, nil
}
