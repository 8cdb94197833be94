// Package command implements the slash commands and the reply-keyboard menus of each role.
package command

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"resellerbot/internal/directory"
	"resellerbot/internal/flow"
	"resellerbot/internal/messages"
	"resellerbot/internal/models"
	"resellerbot/internal/payment"
	"resellerbot/internal/pkg/utils"
	"resellerbot/internal/renewal"
	"resellerbot/internal/repository"
)

// ErrPermission is returned when the caller's role may not run a command.
var ErrPermission = errors.New("permission denied")

// Handler executes commands and menu actions on behalf of a chat user.
type Handler struct {
	dir            *directory.Directory
	ledger         *payment.Ledger
	engine         *renewal.Engine
	flows          *flow.Controller
	settings       *repository.SettingRepository
	texts          *messages.Catalog
	supportContact string
	logger         *zap.Logger
}

// Deps bundles the collaborators of a Handler.
type Deps struct {
	Directory *directory.Directory
	Ledger    *payment.Ledger
	Engine    *renewal.Engine
	Flows     *flow.Controller
	Settings  *repository.SettingRepository
	Texts     *messages.Catalog
	// SupportContact is the operator handle, with or without a leading @.
	SupportContact string
	Logger         *zap.Logger
}

// New creates a handler.
func New(d Deps) *Handler {
	return &Handler{
		dir:            d.Directory,
		ledger:         d.Ledger,
		engine:         d.Engine,
		flows:          d.Flows,
		settings:       d.Settings,
		texts:          d.Texts,
		supportContact: strings.TrimPrefix(strings.TrimSpace(d.SupportContact), "@"),
		logger:         d.Logger,
	}
}

// Commands lists the slash commands Execute understands.
var Commands = []string{
	"start", "set_owner", "reseller_add", "reseller_contact", "set_rate",
	"set_price", "payments", "approve", "reject", "client_add",
}

// Execute runs a slash command. name has no leading slash; args are the
// whitespace-separated words after it. ok is false for unknown commands.
func (h *Handler) Execute(ctx context.Context, userID int64, name string, args []string) (reply *flow.Reply, ok bool, err error) {
	ok = true
	switch strings.ToLower(name) {
	case "start":
		reply, err = h.start(userID)
	case "set_owner":
		reply, err = h.setOwner(userID, args)
	case "reseller_add":
		reply, err = h.addReseller(userID, args)
	case "reseller_contact":
		reply, err = h.resellerContact(userID, args)
	case "set_rate":
		reply, err = h.setRate(userID, args)
	case "set_price":
		reply, err = h.setPrice(userID, args)
	case "payments":
		reply, err = h.payments(userID)
	case "approve":
		reply, err = h.approve(ctx, userID, args)
	case "reject":
		reply, err = h.reject(ctx, userID, args)
	case "client_add":
		reply, err = h.addClient(userID, args)
	default:
		return nil, false, nil
	}
	return reply, ok, err
}

// Menu runs the action behind a reply-keyboard button.
func (h *Handler) Menu(ctx context.Context, userID int64, action messages.Action) (*flow.Reply, error) {
	switch action {
	case messages.MenuResellers:
		return h.resellers(userID)
	case messages.MenuClients:
		return h.clients(userID)
	case messages.MenuPayments:
		return h.payments(userID)
	case messages.MenuSettings:
		return h.settingsView(userID)
	case messages.MenuMyClients:
		return h.myClients(userID)
	case messages.MenuCreateClient:
		return h.createClient(ctx, userID)
	case messages.MenuPay:
		return h.pay(ctx, userID)
	case messages.MenuBossSupport:
		return h.bossSupport(userID)
	case messages.MenuMyPlan:
		return h.myPlan(userID)
	case messages.MenuToggle:
		return h.toggle(userID)
	case messages.MenuSupport:
		return h.support(userID)
	}
	return nil, nil
}

// ErrorReply converts an error returned by Execute or Menu into a user-facing reply.
// Unexpected errors are logged and answered with a generic text.
func (h *Handler) ErrorReply(userID int64, err error) *flow.Reply {
	var limitErr *directory.LimitError
	switch {
	case errors.Is(err, ErrPermission):
		return h.text(messages.NoPermission)
	case errors.Is(err, payment.ErrNotFound):
		return h.text(messages.PaymentNotFound)
	case errors.Is(err, payment.ErrNotPending):
		return h.text(messages.PaymentNotPending)
	case errors.Is(err, directory.ErrResellerNotFound):
		return h.text(messages.ResellerNotFound)
	case errors.Is(err, directory.ErrClientNotFound):
		return h.text(messages.NotRegistered)
	case errors.Is(err, directory.ErrOwnerHasClient):
		return h.text(messages.ClientExists)
	case errors.Is(err, directory.ErrInvalidContact):
		return h.text(messages.InvalidContact)
	case errors.As(err, &limitErr):
		return &flow.Reply{Text: h.texts.T(messages.ResellerLimit, "limit", strconv.Itoa(limitErr.Limit))}
	}
	h.logger.Error("Command failed", zap.Int64("user_id", userID), zap.Error(err))
	return h.text(messages.GenericError)
}

// require resolves the caller's role and fails with ErrPermission unless it is one of allowed.
func (h *Handler) require(userID int64, allowed ...models.Role) (models.Role, error) {
	role, err := h.dir.RoleOf(userID)
	if err != nil {
		return "", err
	}
	for _, r := range allowed {
		if role == r {
			return role, nil
		}
	}
	return role, ErrPermission
}

func (h *Handler) text(key messages.Key, pairs ...string) *flow.Reply {
	return &flow.Reply{Text: h.texts.T(key, pairs...)}
}

func (h *Handler) tierName(plan string) string {
	switch models.ResellerTier(plan) {
	case models.TierBasic:
		return h.texts.T(messages.TierBasic)
	case models.TierPro:
		return h.texts.T(messages.TierPro)
	case models.TierEnterprise:
		return h.texts.T(messages.TierEnterprise)
	}
	return plan
}

func (h *Handler) handle(contact string) string {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return h.texts.T(messages.NotAvailable)
	}
	if !strings.HasPrefix(contact, "@") {
		contact = "@" + contact
	}
	return contact
}

// parseUserID parses a positive numeric chat id.
func parseUserID(s string) (int64, bool) {
	s = strings.TrimSpace(utils.NormalizeDigits(s))
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseAmount parses a decimal, accepting a comma separator. NaN and infinities are rejected.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(utils.NormalizeDigits(s)), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
