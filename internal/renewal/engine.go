package renewal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resellerbot/internal/directory"
	"resellerbot/internal/messages"
	"resellerbot/internal/metrics"
	"resellerbot/internal/models"
	"resellerbot/internal/notify"
	"resellerbot/internal/payment"
	"resellerbot/internal/pkg/utils"
	"resellerbot/internal/repository"
)

const auditTimeLayout = "2006-01-02T15:04:05"

// Repos bundles the repositories touched while resolving a payment.
type Repos struct {
	Setting  *repository.SettingRepository
	Reseller *repository.ResellerRepository
	Client   *repository.ClientRepository
	Audit    *repository.AuditRepository
}

// Engine resolves pending payments. Each resolution is one transaction covering the
// domain effect, the audit entry and the status change.
type Engine struct {
	db       *gorm.DB
	repos    Repos
	ledger   *payment.Ledger
	notifier notify.Notifier
	texts    *messages.Catalog
	clock    utils.Clock
	logger   *zap.Logger
}

// NewEngine creates an engine.
func NewEngine(db *gorm.DB, repos Repos, ledger *payment.Ledger, notifier notify.Notifier, texts *messages.Catalog, clock utils.Clock, logger *zap.Logger) *Engine {
	return &Engine{
		db:       db,
		repos:    repos,
		ledger:   ledger,
		notifier: notifier,
		texts:    texts,
		clock:    clock,
		logger:   logger,
	}
}

// Outcome describes an applied approval.
type Outcome struct {
	Payment *models.Payment
	// Prorate is the informational upgrade difference; zero for renewals.
	Prorate float64
	// NewExpiry is the client's expiry after a renewal.
	NewExpiry string
	Audit     string
}

// txScope is the engine's view of the database inside one transaction.
type txScope struct {
	ledger    *payment.Ledger
	settings  *repository.SettingRepository
	resellers *repository.ResellerRepository
	clients   *repository.ClientRepository
	audit     *repository.AuditRepository
}

func (e *Engine) scope(tx *gorm.DB) *txScope {
	return &txScope{
		ledger:    e.ledger.WithTx(tx),
		settings:  e.repos.Setting.WithTx(tx),
		resellers: e.repos.Reseller.WithTx(tx),
		clients:   e.repos.Client.WithTx(tx),
		audit:     e.repos.Audit.WithTx(tx),
	}
}

// Approve applies a pending payment's effect and marks it approved. The submitter is
// notified after commit; delivery failures do not affect the result.
func (e *Engine) Approve(ctx context.Context, paymentID string, actorID int64) (*Outcome, error) {
	var out *Outcome
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := e.scope(tx)
		p, err := s.ledger.Pending(paymentID)
		if err != nil {
			return err
		}

		switch {
		case p.IsResellerPlan():
			out, err = e.applyUpgrade(s, p, actorID)
		case p.IsClientRenewal():
			out, err = e.applyRenewal(s, p, actorID)
		default:
			err = payment.ErrUnknownPlan
		}
		if err != nil {
			return err
		}
		if err := s.ledger.Resolve(p.ID, models.PaymentApproved); err != nil {
			return err
		}
		p.Status = string(models.PaymentApproved)
		out.Payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsResolvedTotal.WithLabelValues(string(models.PaymentApproved)).Inc()
	e.logger.Info("Payment approved",
		zap.String("payment_id", out.Payment.ID),
		zap.String("plan", out.Payment.Plan),
		zap.String("item_id", out.Payment.ItemID),
		zap.Int64("actor_id", actorID),
		zap.Float64("prorate", out.Prorate),
	)
	e.notifier.Notify(ctx, out.Payment.UserID, e.texts.T(messages.PaymentApproved))
	return out, nil
}

// applyUpgrade switches the reseller to the purchased tier and keeps the expiry.
func (e *Engine) applyUpgrade(s *txScope, p *models.Payment, actorID int64) (*Outcome, error) {
	newTier := models.ResellerTier(p.Plan)
	if !newTier.Valid() {
		return nil, payment.ErrUnknownPlan
	}
	reseller, err := s.resellers.FindByID(p.ItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, directory.ErrResellerNotFound
	}
	if err != nil {
		return nil, err
	}

	prices, err := s.settings.Prices()
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}
	extra := 0.0
	start, serr := utils.ParseDate(reseller.Started)
	expiry, eerr := utils.ParseDate(reseller.Expires)
	if serr == nil && eerr == nil {
		extra = Prorate(prices.Reseller[models.ResellerTier(reseller.Plan)], prices.Reseller[newTier], start, expiry, e.clock.Today())
	}

	if err := s.resellers.UpdatePlan(reseller.ID, string(newTier)); err != nil {
		return nil, fmt.Errorf("update reseller plan: %w", err)
	}
	meta := fmt.Sprintf("rid=%s; old=%s; new=%s; extra=%s", reseller.ID, reseller.Plan, newTier, utils.FormatAmount(extra))
	if err := e.appendAudit(s, actorID, models.AuditResellerUpgrade, meta); err != nil {
		return nil, err
	}
	return &Outcome{Prorate: extra, Audit: meta}, nil
}

// applyRenewal extends a client's expiry without stacking past-due days.
func (e *Engine) applyRenewal(s *txScope, p *models.Payment, actorID int64) (*Outcome, error) {
	days, ok := payment.ClientPlanDays(p.Plan)
	if !ok {
		return nil, payment.ErrUnknownPlan
	}
	client, err := s.clients.FindBySlug(p.ItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, directory.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	today := e.clock.Today()
	current, err := utils.ParseDate(client.Expires)
	if err != nil {
		current = today
	}
	newExpiry := utils.FormatDate(RenewedExpiry(current, today, days))
	if err := s.clients.UpdateExpires(client.Slug, newExpiry); err != nil {
		return nil, fmt.Errorf("update client expiry: %w", err)
	}
	meta := fmt.Sprintf("slug=%s; +%dd -> %s", client.Slug, days, newExpiry)
	if err := e.appendAudit(s, actorID, models.AuditClientRenew, meta); err != nil {
		return nil, err
	}
	return &Outcome{NewExpiry: newExpiry, Audit: meta}, nil
}

// Reject marks a pending payment rejected and tells the submitter why.
// An empty reason is replaced by the catalog default. Amounts are left untouched.
func (e *Engine) Reject(ctx context.Context, paymentID string, actorID int64, reason string) (*models.Payment, string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = e.texts.T(messages.DefaultReason)
	}

	var rejected *models.Payment
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := e.scope(tx)
		p, err := s.ledger.Pending(paymentID)
		if err != nil {
			return err
		}
		if err := s.ledger.Resolve(p.ID, models.PaymentRejected); err != nil {
			return err
		}
		meta := fmt.Sprintf("pid=%s; reason=%s", p.ID, reason)
		if err := e.appendAudit(s, actorID, models.AuditRejectPayment, meta); err != nil {
			return err
		}
		p.Status = string(models.PaymentRejected)
		rejected = p
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	metrics.PaymentsResolvedTotal.WithLabelValues(string(models.PaymentRejected)).Inc()
	e.logger.Info("Payment rejected",
		zap.String("payment_id", rejected.ID),
		zap.String("plan", rejected.Plan),
		zap.Int64("actor_id", actorID),
		zap.String("reason", reason),
	)
	e.notifier.Notify(ctx, rejected.UserID, e.texts.T(messages.PaymentRejected, "reason", reason))
	return rejected, reason, nil
}

func (e *Engine) appendAudit(s *txScope, actorID int64, action, meta string) error {
	entry := &models.AuditEntry{
		ActorID: actorID,
		Action:  action,
		Meta:    meta,
		Created: e.clock().Format(auditTimeLayout),
	}
	if err := s.audit.Append(entry); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}
