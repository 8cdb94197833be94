package models

// Setting maps to the `settings` key/value table.
type Setting struct {
	Key   string `gorm:"column:key;primaryKey;size:100" json:"key"`
	Value string `gorm:"column:value;type:text;not null" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}

// Role is the resolved role of a chat user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReseller Role = "reseller"
	RoleClient   Role = "client"
	RoleGuest    Role = "guest"
)

// ResellerTier identifies a reseller plan.
type ResellerTier string

const (
	TierBasic      ResellerTier = "res_b"
	TierPro        ResellerTier = "res_p"
	TierEnterprise ResellerTier = "res_e"
)

// ResellerTiers lists reseller plans from cheapest to most expensive.
var ResellerTiers = []ResellerTier{TierBasic, TierPro, TierEnterprise}

// Valid reports whether t is one of the known reseller plans.
func (t ResellerTier) Valid() bool {
	for _, known := range ResellerTiers {
		if t == known {
			return true
		}
	}
	return false
}

// Client service plan templates.
const (
	ServicePlanStandard = "plan_standard"
	ServicePlanPlus     = "plan_plus"
	ServicePlanPro      = "plan_pro"
)

// ServiceStatus is the run state of a client's service.
type ServiceStatus string

const (
	ServiceActive  ServiceStatus = "active"
	ServiceStopped ServiceStatus = "stopped"
	ServiceUnknown ServiceStatus = "unknown"
)

// PaymentStatus is the lifecycle state of a ledger entry.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentMethod is the rail a payment was made through.
type PaymentMethod string

const (
	// MethodBalance is the internal-balance rail.
	MethodBalance PaymentMethod = "saldo"
	// MethodLocalCurrency is the local-currency rail.
	MethodLocalCurrency PaymentMethod = "cup"
)

// Valid reports whether m is a supported rail.
func (m PaymentMethod) Valid() bool {
	return m == MethodBalance || m == MethodLocalCurrency
}

// APIResponse is the envelope of every admin API response.
type APIResponse struct {
	Status bool        `json:"status"`
	Msg    string      `json:"msg"`
	Obj    interface{} `json:"obj"`
}
