package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"resellerbot/internal/metrics"
)

// DefaultDedupTTL is how long a delivered update_id is remembered.
const DefaultDedupTTL = 10 * time.Minute

const dedupKeyPrefix = "resellerbot:update:"

// UpdateDeduper tracks processed Telegram update IDs.
type UpdateDeduper interface {
	// Seen marks updateID as delivered and reports whether it already was.
	Seen(ctx context.Context, updateID int64) (bool, error)
}

type redisUpdateDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUpdateDeduper remembers update IDs in Redis with SETNX and a TTL.
func NewRedisUpdateDeduper(client *redis.Client, ttl time.Duration) UpdateDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &redisUpdateDeduper{client: client, ttl: ttl}
}

func (d *redisUpdateDeduper) Seen(ctx context.Context, updateID int64) (bool, error) {
	key := dedupKeyPrefix + strconv.FormatInt(updateID, 10)
	ok, err := d.client.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	// SETNX refuses an existing key: the update was already delivered.
	return !ok, nil
}

type memoryUpdateDeduper struct {
	mu     sync.Mutex
	seen   map[int64]time.Time
	ttl    time.Duration
	now    func() time.Time
	nextGC time.Time
}

// NewMemoryUpdateDeduper keeps update IDs in process memory. A nil now uses time.Now.
func NewMemoryUpdateDeduper(ttl time.Duration, now func() time.Time) UpdateDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	if now == nil {
		now = time.Now
	}
	return &memoryUpdateDeduper{
		seen:   make(map[int64]time.Time),
		ttl:    ttl,
		now:    now,
		nextGC: now().Add(ttl),
	}
}

func (d *memoryUpdateDeduper) Seen(_ context.Context, updateID int64) (bool, error) {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[updateID]; ok && exp.After(now) {
		return true, nil
	}
	d.seen[updateID] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		d.sweep(now)
	}
	return false, nil
}

// sweep drops expired ids. Callers hold d.mu.
func (d *memoryUpdateDeduper) sweep(now time.Time) {
	for id, exp := range d.seen {
		if !exp.After(now) {
			delete(d.seen, id)
		}
	}
	d.nextGC = now.Add(d.ttl)
}

// NewUpdateDeduper builds a Redis deduper and falls back to in-memory on failure.
// The returned error reports the failed ping; the deduper is usable either way.
func NewUpdateDeduper(addr, pass string, db int, ttl time.Duration) (UpdateDeduper, error) {
	if addr == "" {
		return NewMemoryUpdateDeduper(ttl, nil), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return NewMemoryUpdateDeduper(ttl, nil), err
	}

	return NewRedisUpdateDeduper(client, ttl), nil
}

// TelegramUpdateDedup drops duplicate Telegram webhook updates by update_id.
// Bodies without an update_id, and deduper errors, pass through untouched.
func TelegramUpdateDedup(deduper UpdateDeduper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}
			updateID, ok := peekUpdateID(c.Request())
			if !ok {
				return next(c)
			}

			duplicate, err := deduper.Seen(c.Request().Context(), updateID)
			switch {
			case err != nil:
				c.Logger().Warnf("update dedup unavailable: %v", err)
			case duplicate:
				metrics.WebhookUpdatesTotal.WithLabelValues("duplicate").Inc()
				// Telegram only needs a 2xx response to stop retries.
				return c.NoContent(http.StatusOK)
			default:
				metrics.WebhookUpdatesTotal.WithLabelValues("accepted").Inc()
			}
			return next(c)
		}
	}
}

// peekUpdateID reads update_id from the request body and restores the body for the next handler.
func peekUpdateID(req *http.Request) (int64, bool) {
	if req.Body == nil {
		return 0, false
	}
	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return 0, false
	}

	var payload struct {
		UpdateID int64 `json:"update_id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.UpdateID == 0 {
		return 0, false
	}
	return payload.UpdateID, true
}
