package command

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"resellerbot/internal/directory"
	"resellerbot/internal/flow"
	"resellerbot/internal/messages"
	"resellerbot/internal/models"
	"resellerbot/internal/payment"
	"resellerbot/internal/pkg/utils"
	"resellerbot/internal/repository"
)

// DefaultContact is stored for resellers created without a contact handle.
const DefaultContact = "@contacto"

var paymentIDPattern = regexp.MustCompile(`^[a-f0-9]{10,}$`)

func (h *Handler) start(userID int64) (*flow.Reply, error) {
	role, err := h.dir.RoleOf(userID)
	if err != nil {
		return nil, err
	}
	switch role {
	case models.RoleAdmin:
		return &flow.Reply{Text: h.texts.T(messages.WelcomeAdmin), Menu: role}, nil
	case models.RoleReseller:
		return &flow.Reply{Text: h.texts.T(messages.WelcomeReseller), Menu: role}, nil
	case models.RoleClient:
		c, err := h.dir.ClientByOwner(userID)
		if err != nil {
			return &flow.Reply{Text: h.texts.T(messages.WelcomeClientNA), Menu: role}, nil
		}
		return &flow.Reply{
			Text: h.texts.T(messages.WelcomeClient, "plan", c.Plan, "expires", c.Expires, "slug", c.Slug),
			Menu: role,
		}, nil
	}
	return &flow.Reply{Text: h.texts.T(messages.WelcomeGuest, "support", h.handle(h.supportContact)), Menu: models.RoleGuest}, nil
}

// setOwner may be run by the current owner, or by anyone while no owner is set.
func (h *Handler) setOwner(userID int64, args []string) (*flow.Reply, error) {
	owner, err := h.settings.OwnerID()
	if err != nil {
		return nil, err
	}
	if owner != 0 && owner != userID {
		return nil, ErrPermission
	}
	if len(args) < 1 {
		return h.text(messages.InvalidID), nil
	}
	id, ok := parseUserID(args[0])
	if !ok {
		return h.text(messages.InvalidID), nil
	}
	if err := h.settings.Set(repository.KeyOwnerID, strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	h.logger.Info("Owner changed", zap.Int64("previous", owner), zap.Int64("owner_id", id), zap.Int64("actor_id", userID))

	reply := h.text(messages.OwnerSet, "id", strconv.FormatInt(id, 10))
	if id == userID {
		reply.Menu = models.RoleAdmin
	}
	return reply, nil
}

func (h *Handler) addReseller(userID int64, args []string) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return h.text(messages.InvalidID), nil
	}
	id, ok := parseUserID(args[0])
	if !ok {
		return h.text(messages.InvalidID), nil
	}
	r, err := h.dir.CreateReseller(strconv.FormatInt(id, 10), models.TierBasic, DefaultContact)
	if err != nil {
		return nil, err
	}
	return h.text(messages.ResellerCreated, "rid", r.ID, "plan", h.tierName(r.Plan), "expires", r.Expires), nil
}

func (h *Handler) resellerContact(userID int64, args []string) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return h.text(messages.InvalidContact), nil
	}
	id, ok := parseUserID(args[0])
	if !ok {
		return h.text(messages.InvalidID), nil
	}
	rid := strconv.FormatInt(id, 10)
	contact, err := h.dir.SetContact(rid, args[1])
	if err != nil {
		return nil, err
	}
	return h.text(messages.ContactSet, "rid", rid, "contact", contact), nil
}

func (h *Handler) setRate(userID int64, args []string) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return h.text(messages.InvalidRate), nil
	}
	rate, ok := parseAmount(args[0])
	if !ok || rate <= 0 {
		return h.text(messages.InvalidRate), nil
	}
	value := utils.FormatAmount(rate)
	if err := h.settings.Set(repository.KeyRate, value); err != nil {
		return nil, err
	}
	h.logger.Info("Exchange rate changed", zap.Float64("rate", rate), zap.Int64("actor_id", userID))
	return h.text(messages.RateSet, "rate", value), nil
}

func (h *Handler) setPrice(userID int64, args []string) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return h.text(messages.InvalidPrice), nil
	}
	code := strings.ToLower(args[0])
	key, known := repository.PriceKeys[code]
	price, ok := parseAmount(args[1])
	if !known || !ok || price < 0 {
		return h.text(messages.InvalidPrice), nil
	}
	value := utils.FormatAmount(price)
	if err := h.settings.Set(key, value); err != nil {
		return nil, err
	}
	h.logger.Info("Price changed", zap.String("code", code), zap.Float64("usd", price), zap.Int64("actor_id", userID))
	return h.text(messages.PriceSet, "code", code, "value", value), nil
}

func (h *Handler) payments(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := h.ledger.Recent(payment.RecentLimit)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return h.text(messages.PaymentsEmpty), nil
	}
	lines := make([]string, 0, len(list)+2)
	lines = append(lines, h.texts.T(messages.PaymentsTitle))
	for _, p := range list {
		lines = append(lines, h.texts.T(messages.PaymentLine,
			"id", p.ID,
			"status", p.Status,
			"usd", utils.FormatAmount(p.AmountUSD),
			"local", utils.FormatAmount(p.AmountLocal),
			"role", p.Role,
			"method", p.Method,
			"plan", p.Plan,
			"item", p.ItemID,
			"uid", strconv.FormatInt(p.UserID, 10),
		))
	}
	lines = append(lines, h.texts.T(messages.PaymentsHint))
	return &flow.Reply{Text: strings.Join(lines, "\n")}, nil
}

func (h *Handler) approve(ctx context.Context, userID int64, args []string) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(args) < 1 || !paymentIDPattern.MatchString(args[0]) {
		return h.text(messages.PaymentNotFound), nil
	}
	out, err := h.engine.Approve(ctx, args[0], userID)
	if err != nil {
		return nil, err
	}
	return h.text(messages.Approved, "pid", out.Payment.ID), nil
}

func (h *Handler) reject(ctx context.Context, userID int64, args []string) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(args) < 1 || !paymentIDPattern.MatchString(args[0]) {
		return h.text(messages.PaymentNotFound), nil
	}
	reason := strings.Trim(strings.Join(args[1:], " "), `"'“”«»`)
	p, _, err := h.engine.Reject(ctx, args[0], userID, reason)
	if err != nil {
		return nil, err
	}
	return h.text(messages.Rejected, "pid", p.ID), nil
}

func (h *Handler) addClient(userID int64, args []string) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return h.text(messages.UsageClientAdd), nil
	}
	ownerID, ok := parseUserID(args[0])
	rid, rok := parseUserID(args[1])
	if !ok || !rok {
		return h.text(messages.UsageClientAdd), nil
	}
	c, err := h.dir.CreateClient(directory.NewClient{OwnerID: ownerID, ResellerID: strconv.FormatInt(rid, 10)})
	if err != nil {
		return nil, err
	}
	return h.text(messages.ClientCreated, "slug", c.Slug, "rid", c.ResellerID, "expires", c.Expires), nil
}
