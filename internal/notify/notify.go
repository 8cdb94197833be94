// Package notify pushes outbound messages without blocking the caller.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"resellerbot/internal/metrics"
)

// Notifier delivers best-effort messages. Failures are never reported to the caller.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string)
	Forward(ctx context.Context, to, fromChat int64, messageID int)
}

// Sender is the transport a Dispatcher delivers through.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	ForwardMessage(ctx context.Context, chatID, fromChatID int64, messageID int) error
}

// Dispatcher sends each message on its own goroutine and logs failures.
type Dispatcher struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher over sender.
func NewDispatcher(sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger, timeout: 10 * time.Second}
}

// Notify sends text to userID. A zero id is ignored.
func (d *Dispatcher) Notify(ctx context.Context, userID int64, text string) {
	if userID == 0 {
		return
	}
	d.dispatch(ctx, "text", userID, func(ctx context.Context) error {
		return d.sender.SendMessage(ctx, userID, text)
	})
}

// Forward copies a message from fromChat into to.
func (d *Dispatcher) Forward(ctx context.Context, to, fromChat int64, messageID int) {
	if to == 0 || messageID == 0 {
		return
	}
	d.dispatch(ctx, "forward", to, func(ctx context.Context) error {
		return d.sender.ForwardMessage(ctx, to, fromChat, messageID)
	})
}

func (d *Dispatcher) dispatch(parent context.Context, kind string, to int64, send func(context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// The triggering request may finish before delivery does.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
		defer cancel()

		if err := send(ctx); err != nil {
			metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
			d.logger.Warn("Notification failed", zap.String("kind", kind), zap.Int64("to", to), zap.Error(err))
			return
		}
		metrics.NotificationsTotal.WithLabelValues(kind, "ok").Inc()
	}()
}

// Wait blocks until every dispatched message finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
