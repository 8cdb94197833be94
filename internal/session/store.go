package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[int64]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore keeps sessions in process memory. A ttl of zero keeps them until overwritten.
func NewMemoryStore(ttl time.Duration, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{
		sessions: make(map[int64]Session),
		ttl:      ttl,
		now:      now,
	}
}

func (m *memoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		delete(m.sessions, userID)
		return nil, nil
	}
	return &s, nil
}

func (m *memoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.UpdatedAt = m.now()
	m.sessions[s.UserID] = *s
	return nil
}

func (m *memoryStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore keeps sessions as JSON values that expire after ttl (zero disables expiry).
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, prefix: "flow:session", ttl: ttl}
}

func (r *redisStore) key(userID int64) string {
	return r.prefix + ":" + strconv.FormatInt(userID, 10)
}

func (r *redisStore) Get(ctx context.Context, userID int64) (*Session, error) {
	raw, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt entry is treated as no open flow.
		_ = r.client.Del(ctx, r.key(userID)).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(s.UserID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, r.key(userID)).Err()
}

// NewStore builds a Redis-backed store and falls back to memory when addr is empty or unreachable.
// The returned error reports the failed ping; the store is usable either way.
func NewStore(addr, pass string, db int, ttl time.Duration) (Store, error) {
	if addr == "" {
		return NewMemoryStore(ttl, nil), nil
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
		return NewMemoryStore(ttl, nil), err
	}

	return NewRedisStore(client, ttl), nil
}
