package models

import "strings"

// Payment maps to the `payments` table. Rows are never deleted.
type Payment struct {
	ID           string  `gorm:"column:id;primaryKey;size:32" json:"id"`
	UserID       int64   `gorm:"column:user_id;not null;index" json:"user_id"`
	Role         string  `gorm:"column:role;size:16;not null" json:"role"`
	Method       string  `gorm:"column:type;size:16;not null" json:"type"`
	AmountUSD    float64 `gorm:"column:amount_usd;not null" json:"amount_usd"`
	AmountLocal  float64 `gorm:"column:amount_cup;not null" json:"amount_cup"`
	Plan         string  `gorm:"column:plan;size:32;not null" json:"plan"`
	ItemID       string  `gorm:"column:item_id;size:64;not null" json:"item_id"`
	ReceiptMsgID int     `gorm:"column:receipt_msg_id" json:"receipt_msg_id"`
	Status       string  `gorm:"column:status;size:16;not null;index" json:"status"`
	Created      string  `gorm:"column:created;size:32;not null;index" json:"created"`
	RateUsed     float64 `gorm:"column:rate_used;not null" json:"rate_used"`
}

func (Payment) TableName() string {
	return "payments"
}

// Plan code prefixes select the effect applied on approval.
const (
	ResellerPlanPrefix = "res_"
	ClientPlanPrefix   = "client_"
)

// IsResellerPlan reports whether the payment buys a reseller tier.
func (p *Payment) IsResellerPlan() bool {
	return strings.HasPrefix(p.Plan, ResellerPlanPrefix)
}

// IsClientRenewal reports whether the payment renews a client.
func (p *Payment) IsClientRenewal() bool {
	return strings.HasPrefix(p.Plan, ClientPlanPrefix)
}
