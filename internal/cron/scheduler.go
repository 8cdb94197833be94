package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"resellerbot/internal/directory"
	"resellerbot/internal/messages"
	"resellerbot/internal/metrics"
	"resellerbot/internal/models"
	"resellerbot/internal/notify"
)

// DefaultExpirySpec runs the expiry scan at the top of every hour.
const DefaultExpirySpec = "0 0 * * * *"

// Scheduler manages all cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	expirySpec string
	dir        *directory.Directory
	notifier   notify.Notifier
	texts      *messages.Catalog
	logger     *zap.Logger
}

// New creates a new cron scheduler. Specs carry a seconds field and are evaluated in loc.
func New(expirySpec string, loc *time.Location, dir *directory.Directory, notifier notify.Notifier, texts *messages.Catalog, logger *zap.Logger) *Scheduler {
	if expirySpec == "" {
		expirySpec = DefaultExpirySpec
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		expirySpec: expirySpec,
		dir:        dir,
		notifier:   notifier,
		texts:      texts,
		logger:     logger,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() error {
	s.logger.Info("Starting cron scheduler...")

	if _, err := s.cron.AddFunc(s.expirySpec, func() {
		s.logger.Debug("Running: expiry scan")
		s.ScanExpiries(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule expiry scan %q: %w", s.expirySpec, err)
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started", zap.String("expiry_spec", s.expirySpec))
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// ── Expiry scan ───────────────────────────────────────────────────────

// ScanExpiries warns owners whose client expires tomorrow and tells owners of expired
// clients that the service is paused. It returns the number of notices sent.
// The scan never aborts: failures are logged and the next run starts over.
func (s *Scheduler) ScanExpiries(ctx context.Context) int {
	defer s.recoverFromPanic("scanExpiries")

	tomorrow, expired, err := s.dir.ExpiryNotices()
	if err != nil {
		s.logger.Error("Expiry scan failed", zap.Error(err))
		return 0
	}

	sent := 0
	for _, c := range tomorrow {
		if s.notice(ctx, c, "tomorrow", messages.ExpiresTomorrow) {
			sent++
		}
	}
	for _, c := range expired {
		if s.notice(ctx, c, "expired", messages.Expired) {
			sent++
		}
	}
	s.logger.Info("Expiry scan finished",
		zap.Int("expires_tomorrow", len(tomorrow)),
		zap.Int("expired", len(expired)),
		zap.Int("sent", sent),
	)
	return sent
}

// notice sends one expiry message; a panic here only skips this client.
func (s *Scheduler) notice(ctx context.Context, c models.Client, kind string, key messages.Key) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Expiry notice panicked", zap.String("slug", c.Slug), zap.Any("error", r))
			ok = false
		}
	}()
	s.notifier.Notify(ctx, c.OwnerID, s.texts.T(key, "slug", c.Slug))
	metrics.ExpiryNoticesTotal.WithLabelValues(kind).Inc()
	return true
}

func (s *Scheduler) recoverFromPanic(jobName string) {
	if r := recover(); r != nil {
		s.logger.Error("Cron job panicked", zap.String("job", jobName), zap.Any("error", r))
	}
}
