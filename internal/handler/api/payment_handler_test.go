package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resellerbot/internal/handler/api"
	"resellerbot/internal/models"
	"resellerbot/internal/payment"
	"resellerbot/internal/repository"
	"resellerbot/internal/testutil"
)

type envelope struct {
	Status bool            `json:"status"`
	Msg    string          `json:"msg"`
	Obj    json.RawMessage `json:"obj"`
}

func setup(t *testing.T, n int) (*echo.Echo, []*models.Payment) {
	t.Helper()
	db := testutil.NewDB(t)
	ledger := payment.NewLedger(repository.NewSettingRepository(db), repository.NewPaymentRepository(db), testutil.Clock(), zap.NewNop())

	var created []*models.Payment
	for i := 0; i < n; i++ {
		p, err := ledger.Submit(context.Background(), payment.Submission{
			UserID: 3000, Role: models.RoleClient, Method: models.MethodLocalCurrency,
			PlanCode: "client_30", ItemID: "3000", AmountUSD: 5, AmountLocal: 2250,
		})
		require.NoError(t, err)
		created = append(created, p)
	}

	h := api.NewPaymentHandler(ledger, zap.NewNop())
	e := echo.New()
	e.GET("/api/payments", h.List)
	e.GET("/api/payments/:id", h.Get)
	return e, created
}

func get(t *testing.T, e *echo.Echo, target string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestList(t *testing.T) {
	e, _ := setup(t, 3)

	code, body := get(t, e, "/api/payments")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, body.Status)

	var obj struct {
		Payments []api.PaymentItem `json:"payments"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body.Obj, &obj))
	assert.Equal(t, 3, obj.Count)
	assert.Equal(t, "client_30", obj.Payments[0].Plan)
	assert.Equal(t, 2250.0, obj.Payments[0].AmountLocal)
	assert.Equal(t, string(models.PaymentPending), obj.Payments[0].Status)

	_, body = get(t, e, "/api/payments?limit=2")
	require.NoError(t, json.Unmarshal(body.Obj, &obj))
	assert.Equal(t, 2, obj.Count)
}

func TestList_RejectsBadLimit(t *testing.T) {
	e, _ := setup(t, 0)
	for _, q := range []string{"?limit=abc", "?limit=0", "?limit=-5"} {
		code, body := get(t, e, "/api/payments"+q)
		assert.Equal(t, http.StatusBadRequest, code, q)
		assert.False(t, body.Status)
	}
}

func TestGet(t *testing.T) {
	e, created := setup(t, 1)

	code, body := get(t, e, "/api/payments/"+created[0].ID)
	require.Equal(t, http.StatusOK, code)
	var item api.PaymentItem
	require.NoError(t, json.Unmarshal(body.Obj, &item))
	assert.Equal(t, created[0].ID, item.ID)
	assert.Equal(t, int64(3000), item.UserID)

	code, body = get(t, e, "/api/payments/ffffffffff")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Payment not found", body.Msg)
}
