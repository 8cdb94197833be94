package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"resellerbot/internal/models"
	"resellerbot/internal/payment"
)

// PaymentHandler serves read-only views of the payment ledger.
type PaymentHandler struct {
	ledger *payment.Ledger
	logger *zap.Logger
}

func NewPaymentHandler(ledger *payment.Ledger, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger, logger: logger}
}

// PaymentItem is one ledger entry as exposed by the API.
type PaymentItem struct {
	ID          string  `json:"id"`
	UserID      int64   `json:"user_id"`
	Role        string  `json:"role"`
	Method      string  `json:"type"`
	AmountUSD   float64 `json:"amount_usd"`
	AmountLocal float64 `json:"amount_cup"`
	Plan        string  `json:"plan"`
	ItemID      string  `json:"item_id"`
	Status      string  `json:"status"`
	Created     string  `json:"created"`
	RateUsed    float64 `json:"rate_used"`
}

func toItem(p *models.Payment) PaymentItem {
	return PaymentItem{
		ID:          p.ID,
		UserID:      p.UserID,
		Role:        p.Role,
		Method:      p.Method,
		AmountUSD:   p.AmountUSD,
		AmountLocal: p.AmountLocal,
		Plan:        p.Plan,
		ItemID:      p.ItemID,
		Status:      p.Status,
		Created:     p.Created,
		RateUsed:    p.RateUsed,
	}
}

// List returns the most recent payments, newest first.
// GET /api/payments?limit=
func (h *PaymentHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit", payment.RecentLimit)
	if err != nil || limit <= 0 {
		return errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
	}

	payments, err := h.ledger.Recent(limit)
	if err != nil {
		h.logger.Error("Failed to list payments", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to retrieve payments")
	}

	items := make([]PaymentItem, 0, len(payments))
	for i := range payments {
		items = append(items, toItem(&payments[i]))
	}
	return successResponse(c, "Successful", map[string]interface{}{
		"payments": items,
		"count":    len(items),
	})
}

// Get returns one payment.
// GET /api/payments/:id
func (h *PaymentHandler) Get(c echo.Context) error {
	p, err := h.ledger.Get(c.Param("id"))
	if errors.Is(err, payment.ErrNotFound) {
		return errorResponse(c, http.StatusNotFound, "Payment not found")
	}
	if err != nil {
		h.logger.Error("Failed to read payment", zap.String("payment_id", c.Param("id")), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Failed to retrieve payment")
	}
	return successResponse(c, "Successful", toItem(p))
}
