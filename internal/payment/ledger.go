// Package payment records payment intents and their lifecycle.
package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resellerbot/internal/metrics"
	"resellerbot/internal/models"
	"resellerbot/internal/pkg/utils"
	"resellerbot/internal/repository"
)

// RecentLimit is the size of the administrator's payment list.
const RecentLimit = 30

const maxRecentLimit = 200

const timestampLayout = "2006-01-02T15:04:05"

var (
	ErrNotFound    = errors.New("payment not found")
	ErrNotPending  = errors.New("payment is not pending")
	ErrUnknownPlan = errors.New("unknown plan code")
)

// Quote is the price of a plan at the current exchange rate.
type Quote struct {
	PlanCode    string
	AmountUSD   float64
	AmountLocal float64
	Rate        float64
}

// Submission is a payment intent backed by a receipt.
type Submission struct {
	UserID       int64
	Role         models.Role
	Method       models.PaymentMethod
	PlanCode     string
	ItemID       string
	AmountUSD    float64
	AmountLocal  float64
	ReceiptMsgID int
}

// Ledger creates and resolves payments.
type Ledger struct {
	settings *repository.SettingRepository
	payments *repository.PaymentRepository
	clock    utils.Clock
	logger   *zap.Logger
}

// NewLedger creates a ledger.
func NewLedger(settings *repository.SettingRepository, payments *repository.PaymentRepository, clock utils.Clock, logger *zap.Logger) *Ledger {
	return &Ledger{settings: settings, payments: payments, clock: clock, logger: logger}
}

// WithTx returns a ledger whose reads and writes join tx.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{
		settings: l.settings.WithTx(tx),
		payments: l.payments.WithTx(tx),
		clock:    l.clock,
		logger:   l.logger,
	}
}

// Quote prices a plan code from the current settings.
func (l *Ledger) Quote(planCode string) (*Quote, error) {
	prices, err := l.settings.Prices()
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}
	usd, err := PriceOf(prices, planCode)
	if err != nil {
		return nil, err
	}
	return &Quote{
		PlanCode:    planCode,
		AmountUSD:   usd,
		AmountLocal: LocalAmount(usd, prices.Rate),
		Rate:        prices.Rate,
	}, nil
}

// Submit records a pending payment. The rate in effect at submission is stored with it.
func (l *Ledger) Submit(ctx context.Context, sub Submission) (*models.Payment, error) {
	if !sub.Method.Valid() {
		return nil, fmt.Errorf("unsupported payment method %q", sub.Method)
	}
	if !ValidPlan(sub.PlanCode) {
		return nil, ErrUnknownPlan
	}
	rate, err := l.settings.GetFloat(repository.KeyRate, 0)
	if err != nil {
		return nil, fmt.Errorf("read rate: %w", err)
	}

	p := &models.Payment{
		ID:           utils.NewPaymentID(),
		UserID:       sub.UserID,
		Role:         string(sub.Role),
		Method:       string(sub.Method),
		AmountUSD:    sub.AmountUSD,
		AmountLocal:  sub.AmountLocal,
		Plan:         sub.PlanCode,
		ItemID:       sub.ItemID,
		ReceiptMsgID: sub.ReceiptMsgID,
		Status:       string(models.PaymentPending),
		Created:      l.clock().Format(timestampLayout),
		RateUsed:     rate,
	}
	if err := l.payments.Create(p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	metrics.PaymentsSubmittedTotal.WithLabelValues(kindOf(p), p.Method).Inc()
	l.logger.Info("Payment submitted",
		zap.String("payment_id", p.ID),
		zap.Int64("user_id", p.UserID),
		zap.String("plan", p.Plan),
		zap.Float64("amount_usd", p.AmountUSD),
	)
	return p, nil
}

// Get returns a payment by id.
func (l *Ledger) Get(id string) (*models.Payment, error) {
	p, err := l.payments.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Pending returns a payment that can still be resolved.
func (l *Ledger) Pending(id string) (*models.Payment, error) {
	p, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if p.Status != string(models.PaymentPending) {
		return nil, ErrNotPending
	}
	return p, nil
}

// Resolve moves a pending payment to a terminal status. Only one caller can win per id.
func (l *Ledger) Resolve(id string, status models.PaymentStatus) error {
	n, err := l.payments.Resolve(id, status)
	if err != nil {
		return fmt.Errorf("resolve payment: %w", err)
	}
	if n != 1 {
		return ErrNotPending
	}
	return nil
}

// Recent lists the latest payments, newest first.
func (l *Ledger) Recent(limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return l.payments.Recent(limit)
}

// HistoryLimit is how many of their own payments a user sees.
const HistoryLimit = 5

// History returns the latest payments submitted by userID, newest first.
func (l *Ledger) History(userID int64) ([]models.Payment, error) {
	return l.payments.FindByUserID(userID, HistoryLimit)
}

// PendingCount returns how many payments await a decision.
func (l *Ledger) PendingCount() (int64, error) {
	return l.payments.CountByStatus(models.PaymentPending)
}

func kindOf(p *models.Payment) string {
	switch {
	case p.IsResellerPlan():
		return "reseller"
	case p.IsClientRenewal():
		return "client"
	default:
		return "other"
	}
}
