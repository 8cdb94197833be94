// Package session tracks the per-user state of open conversation flows.
package session

import (
	"context"
	"time"

	"resellerbot/internal/models"
)

// Mode names a conversation flow.
type Mode string

const (
	ModePay       Mode = "pay"
	ModeNewClient Mode = "newcli"
)

// Step is the position of a user inside a flow.
type Step string

const (
	StepTarget   Step = "target"
	StepPlan     Step = "plan_selection"
	StepMethod   Step = "pay_method"
	StepReceipt  Step = "awaiting_receipt"
	StepClientID Step = "awaiting_client_id"
)

// Session is the open flow of one user.
type Session struct {
	UserID int64       `json:"user_id"`
	Mode   Mode        `json:"mode"`
	Step   Step        `json:"step"`
	As     models.Role `json:"as"`

	// Payment flow selections.
	PlanCode    string               `json:"plan_code,omitempty"`
	ItemID      string               `json:"item_id,omitempty"`
	AmountUSD   float64              `json:"amount_usd,omitempty"`
	AmountLocal float64              `json:"amount_local,omitempty"`
	Rate        float64              `json:"rate,omitempty"`
	Method      models.PaymentMethod `json:"method,omitempty"`
	Prorate     float64              `json:"prorate,omitempty"`

	// New-client flow: the reseller the client is created under.
	ResellerID string `json:"reseller_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps at most one session per user. Get returns (nil, nil) when the user has no open flow.
type Store interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID int64) error
}
