package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resellerbot/internal/middleware"
	"resellerbot/internal/payment"
	"resellerbot/internal/repository"
	"resellerbot/internal/router"
	"resellerbot/internal/testutil"
)

func newServer(t *testing.T, webhook http.Handler) *echo.Echo {
	t.Helper()
	db := testutil.NewDB(t)
	ledger := payment.NewLedger(repository.NewSettingRepository(db), repository.NewPaymentRepository(db), testutil.Clock(), zap.NewNop())
	e := echo.New()
	router.Setup(e, db, ledger, zap.NewNop(), "secret", middleware.NewMemoryUpdateDeduper(time.Minute, nil), webhook)
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newServer(t, nil)
	rec := do(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMetrics(t *testing.T) {
	e := newServer(t, nil)
	rec := do(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPI_RequiresToken(t *testing.T) {
	e := newServer(t, nil)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/payments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.Header.Set("Token", "secret")
	rec = do(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestWebhook_PollingModeHasNoRoute(t *testing.T) {
	e := newServer(t, nil)
	rec := do(e, httptest.NewRequest(http.MethodPost, "/bot/webhook", strings.NewReader(`{"update_id":1}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhook_Guarded(t *testing.T) {
	delivered := 0
	e := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered++
		w.WriteHeader(http.StatusOK)
	}))

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/bot/webhook", strings.NewReader(`{"update_id":55}`))
		req.RemoteAddr = ip + ":443"
		return do(e, req).Code
	}

	assert.Equal(t, http.StatusForbidden, post("198.51.100.4"))
	require.Equal(t, http.StatusOK, post("149.154.167.50"))
	require.Equal(t, http.StatusOK, post("149.154.167.50"))
	assert.Equal(t, 1, delivered)
}
