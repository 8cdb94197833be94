package middleware_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"resellerbot/internal/middleware"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPIAuth(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		token  string
		status int
	}{
		{"missing token", "secret", "", http.StatusUnauthorized},
		{"wrong token", "secret", "guess", http.StatusUnauthorized},
		{"valid token", "secret", "secret", http.StatusOK},
		{"api disabled", "", "anything", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/api/ping", okHandler, middleware.APIAuth(tt.key))

			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			if tt.token != "" {
				req.Header.Set("Token", tt.token)
			}
			assert.Equal(t, tt.status, serve(e, req).Code)
		})
	}
}

func TestTelegramIPCheck(t *testing.T) {
	e := echo.New()
	e.POST("/bot/webhook", okHandler, middleware.TelegramIPCheck())

	for ip, want := range map[string]int{
		"149.154.167.220": http.StatusOK,
		"91.108.6.1":      http.StatusOK,
		"127.0.0.1":       http.StatusOK,
		"203.0.113.9":     http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/bot/webhook", nil)
		req.RemoteAddr = ip + ":443"
		assert.Equal(t, want, serve(e, req).Code, ip)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(middleware.RequestLogger(zap.New(core)))
	e.GET("/api/ping", okHandler)
	e.GET("/api/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "nope")
	})

	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/api/ping", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, httptest.NewRequest(http.MethodGet, "/api/fail", nil)).Code)

	require.Equal(t, 1, logs.FilterMessage("API request").Len())
	entry := logs.FilterMessage("API request").All()[0]
	assert.Equal(t, "/api/ping", entry.ContextMap()["route"])
	assert.EqualValues(t, http.StatusOK, entry.ContextMap()["status"])

	failed := logs.FilterMessage("API request failed").All()
	require.Len(t, failed, 1)
	assert.EqualValues(t, http.StatusBadRequest, failed[0].ContextMap()["status"])
}

func exerciseDeduper(t *testing.T, d middleware.UpdateDeduper) {
	t.Helper()
	ctx := context.Background()

	seen, err := d.Seen(ctx, 7)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = d.Seen(ctx, 7)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = d.Seen(ctx, 8)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryDeduper(t *testing.T) {
	exerciseDeduper(t, middleware.NewMemoryUpdateDeduper(time.Minute, nil))
}

func TestMemoryDeduper_Forgets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	d := middleware.NewMemoryUpdateDeduper(time.Minute, func() time.Time { return now })
	ctx := context.Background()

	seen, _ := d.Seen(ctx, 7)
	assert.False(t, seen)

	now = now.Add(2 * time.Minute)
	seen, _ = d.Seen(ctx, 7)
	assert.False(t, seen, "expired id is delivered again")
}

func TestRedisDeduper(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseDeduper(t, middleware.NewRedisUpdateDeduper(client, time.Minute))
	assert.True(t, mr.Exists("resellerbot:update:7"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("resellerbot:update:7"))
}

func TestNewUpdateDeduper_FallsBack(t *testing.T) {
	d, err := middleware.NewUpdateDeduper("", "", 0, 0)
	require.NoError(t, err)
	exerciseDeduper(t, d)

	d, err = middleware.NewUpdateDeduper("127.0.0.1:1", "", 0, time.Minute)
	assert.Error(t, err)
	require.NotNil(t, d)
	exerciseDeduper(t, d)
}

func TestTelegramUpdateDedup(t *testing.T) {
	e := echo.New()
	calls := 0
	var bodies []string
	e.POST("/bot/webhook", func(c echo.Context) error {
		calls++
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(c.Request().Body)
		bodies = append(bodies, buf.String())
		return c.NoContent(http.StatusOK)
	}, middleware.TelegramUpdateDedup(middleware.NewMemoryUpdateDeduper(time.Minute, nil)))

	post := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/bot/webhook", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return serve(e, req).Code
	}

	update := `{"update_id":101,"message":{"text":"hi"}}`
	assert.Equal(t, http.StatusOK, post(update))
	assert.Equal(t, http.StatusOK, post(update))
	assert.Equal(t, 1, calls, "duplicate is acknowledged without reaching the bot")
	assert.Equal(t, update, bodies[0], "body is replayed to the handler")

	assert.Equal(t, http.StatusOK, post(`{"no_id":true}`))
	assert.Equal(t, http.StatusOK, post(`not json`))
	assert.Equal(t, 3, calls)
}
