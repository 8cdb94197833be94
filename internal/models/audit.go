package models

// AuditEntry maps to the append-only `audit` table.
type AuditEntry struct {
	ID      uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID int64  `gorm:"column:actor_id;not null" json:"actor_id"`
	Action  string `gorm:"column:action;size:64;not null" json:"action"`
	Meta    string `gorm:"column:meta;type:text" json:"meta"`
	Created string `gorm:"column:created;size:32;not null" json:"created"`
}

func (AuditEntry) TableName() string {
	return "audit"
}

// Audit actions.
const (
	AuditResellerUpgrade = "approve_reseller_upgrade"
	AuditClientRenew     = "approve_client_renew"
	AuditRejectPayment   = "reject_payment"
)
