// Package messages holds the user-facing texts and menu labels of each locale.
package messages

import (
	"html"
	"strings"
)

// Key identifies a text in the catalog.
type Key string

const (
	WelcomeGuest    Key = "welcome_guest"
	WelcomeAdmin    Key = "welcome_admin"
	WelcomeReseller Key = "welcome_reseller"
	WelcomeClient   Key = "welcome_client"
	WelcomeClientNA Key = "welcome_client_na"

	NoPermission Key = "no_permission"
	GenericError Key = "generic_error"
	NotAvailable Key = "not_available"

	OwnerSet        Key = "owner_set"
	ResellerCreated Key = "reseller_created"
	ContactSet      Key = "contact_set"
	InvalidContact  Key = "invalid_contact"
	RateSet         Key = "rate_set"
	InvalidRate     Key = "invalid_rate"
	PriceSet        Key = "price_set"
	InvalidPrice    Key = "invalid_price"
	UsageClientAdd  Key = "usage_client_add"

	ResellersTitle Key = "resellers_title"
	ResellersEmpty Key = "resellers_empty"
	ResellerLine   Key = "reseller_line"
	ClientsTitle   Key = "clients_title"
	ClientsEmpty   Key = "clients_empty"
	ClientLine     Key = "client_line"
	MyClientsTitle Key = "my_clients_title"
	MyClientsEmpty Key = "my_clients_empty"
	SettingsTitle  Key = "settings_title"
	SettingLine    Key = "setting_line"
	SettingsHint   Key = "settings_hint"
	PendingCount   Key = "pending_count"

	AskClientID      Key = "ask_client_id"
	InvalidID        Key = "invalid_id"
	ClientCreated    Key = "client_created"
	ClientExists     Key = "client_exists"
	ResellerLimit    Key = "reseller_limit"
	ResellerNotFound Key = "reseller_not_found"
	NotRegistered    Key = "not_registered"

	MyPlan         Key = "my_plan"
	MyPayments     Key = "my_payments"
	MyPaymentLine  Key = "my_payment_line"
	ServiceToggled Key = "service_toggled"
	SupportContact Key = "support_contact"
	SupportNone    Key = "support_none"
	BossContact    Key = "boss_contact"

	PayPick        Key = "pay_pick"
	PayPlansTitle  Key = "pay_plans_title"
	PayPlanLine    Key = "pay_plan_line"
	PayTermsTitle  Key = "pay_terms_title"
	PayTermLine    Key = "pay_term_line"
	PayPickClient  Key = "pay_pick_client"
	NoClients      Key = "no_clients"
	PayMethod      Key = "pay_method"
	PayProrate     Key = "pay_prorate"
	PayInstruction Key = "pay_instruction"
	ReceiptPrompt  Key = "receipt_prompt"
	ReceiptRetry   Key = "receipt_retry"
	ReceiptOK      Key = "receipt_ok"
	ResellerOnly   Key = "reseller_only"
	FlowExpired    Key = "flow_expired"

	AdminPending      Key = "admin_pending"
	PaymentsTitle     Key = "payments_title"
	PaymentsEmpty     Key = "payments_empty"
	PaymentLine       Key = "payment_line"
	PaymentsHint      Key = "payments_hint"
	Approved          Key = "approved"
	Rejected          Key = "rejected"
	PaymentApproved   Key = "payment_approved"
	PaymentRejected   Key = "payment_rejected"
	DefaultReason     Key = "default_reason"
	PaymentNotFound   Key = "payment_not_found"
	PaymentNotPending Key = "payment_not_pending"

	ExpiresTomorrow Key = "expires_tomorrow"
	Expired         Key = "expired"

	BtnResellerPlan Key = "btn_reseller_plan"
	BtnRenewClient  Key = "btn_renew_client"
	BtnSendReceipt  Key = "btn_send_receipt"
	BtnBack         Key = "btn_back"
	BtnBalance      Key = "btn_balance"
	BtnLocal        Key = "btn_local"
	BtnOpenChat     Key = "btn_open_chat"
	BtnDays         Key = "btn_days"

	TierBasic      Key = "tier_res_b"
	TierPro        Key = "tier_res_p"
	TierEnterprise Key = "tier_res_e"
)

// Action is a reply-keyboard button.
type Action string

const (
	MenuResellers    Action = "resellers"
	MenuClients      Action = "clients"
	MenuPayments     Action = "payments"
	MenuSettings     Action = "settings"
	MenuMyClients    Action = "my_clients"
	MenuCreateClient Action = "create_client"
	MenuPay          Action = "pay"
	MenuBossSupport  Action = "boss_support"
	MenuMyPlan       Action = "my_plan"
	MenuToggle       Action = "toggle"
	MenuSupport      Action = "support"
)

// Catalog renders texts of one locale.
type Catalog struct {
	locale string
	texts  map[Key]string
	labels map[Action]string
}

// DefaultLocale is used for unknown locales.
const DefaultLocale = "es"

// New returns the catalog of locale, falling back to DefaultLocale.
func New(locale string) *Catalog {
	texts, ok := catalogs[locale]
	if !ok {
		locale = DefaultLocale
		texts = catalogs[locale]
	}
	return &Catalog{locale: locale, texts: texts, labels: menuLabels[locale]}
}

// Locale returns the catalog's language code.
func (c *Catalog) Locale() string {
	return c.locale
}

// T renders key, replacing {name} placeholders with the given name/value pairs.
// Values are HTML-escaped.
func (c *Catalog) T(key Key, pairs ...string) string {
	text, ok := c.texts[key]
	if !ok {
		text = catalogs[DefaultLocale][key]
	}
	if len(pairs) == 0 {
		return text
	}
	repl := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		repl = append(repl, "{"+pairs[i]+"}", html.EscapeString(pairs[i+1]))
	}
	return strings.NewReplacer(repl...).Replace(text)
}

// Label returns the reply-keyboard text of a menu action.
func (c *Catalog) Label(a Action) string {
	return c.labels[a]
}

// ActionOf maps a reply-keyboard text back to its action.
func (c *Catalog) ActionOf(text string) (Action, bool) {
	text = strings.TrimSpace(text)
	for action, label := range c.labels {
		if label == text {
			return action, true
		}
	}
	return "", false
}

// Labels returns every menu label of the locale.
func (c *Catalog) Labels() map[Action]string {
	out := make(map[Action]string, len(c.labels))
	for k, v := range c.labels {
		out[k] = v
	}
	return out
}
