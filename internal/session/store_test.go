package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resellerbot/internal/models"
	"resellerbot/internal/session"
)

func exerciseStore(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, &session.Session{
		UserID: 42, Mode: session.ModePay, Step: session.StepMethod, As: models.RoleClient,
		PlanCode: "client_90", ItemID: "42", AmountUSD: 14, AmountLocal: 6300, Rate: 450,
	}))

	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.StepMethod, got.Step)
	assert.Equal(t, "client_90", got.PlanCode)
	assert.Equal(t, 6300.0, got.AmountLocal)

	// Starting another flow overwrites the open one.
	require.NoError(t, store.Save(ctx, &session.Session{UserID: 42, Mode: session.ModeNewClient, Step: session.StepClientID}))
	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, session.ModeNewClient, got.Mode)
	assert.Empty(t, got.PlanCode)

	require.NoError(t, store.Delete(ctx, 42))
	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, session.NewMemoryStore(time.Hour, nil))
}

func TestMemoryStore_ExpiresStaleSessions(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := session.NewMemoryStore(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &session.Session{UserID: 1, Mode: session.ModePay, Step: session.StepTarget}))

	now = now.Add(59 * time.Minute)
	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(2 * time.Minute)
	got, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := session.NewMemoryStore(0, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &session.Session{UserID: 1, Mode: session.ModePay, Step: session.StepTarget}))
	now = now.AddDate(1, 0, 0)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, session.NewRedisStore(client, time.Hour))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := session.NewRedisStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &session.Session{UserID: 7, Mode: session.ModePay, Step: session.StepReceipt}))
	assert.Equal(t, time.Hour, mr.TTL("flow:session:7"))

	mr.FastForward(2 * time.Hour)
	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_CorruptEntryIsDropped(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, mr.Set("flow:session:9", "{not json"))

	got, err := session.NewRedisStore(client, 0).Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("flow:session:9"))
}

func TestNewStore_EmptyAddrUsesMemory(t *testing.T) {
	store, err := session.NewStore("", "", 0, time.Minute)
	require.NoError(t, err)
	exerciseStore(t, store)
}
