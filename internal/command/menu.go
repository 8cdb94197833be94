package command

import (
	"context"
	"strconv"
	"strings"

	"resellerbot/internal/flow"
	"resellerbot/internal/messages"
	"resellerbot/internal/models"
	"resellerbot/internal/pkg/utils"
)

func (h *Handler) resellers(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := h.dir.Resellers()
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return h.text(messages.ResellersEmpty), nil
	}
	clients, err := h.dir.AllClients()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(list))
	for _, c := range clients {
		counts[c.ResellerID]++
	}

	lines := []string{h.texts.T(messages.ResellersTitle)}
	for _, r := range list {
		lines = append(lines, h.texts.T(messages.ResellerLine,
			"id", r.ID,
			"plan", h.tierName(r.Plan),
			"expires", r.Expires,
			"contact", h.handle(r.Contact),
			"clients", strconv.Itoa(counts[r.ID]),
		))
	}
	return &flow.Reply{Text: strings.Join(lines, "\n")}, nil
}

func (h *Handler) clients(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := h.dir.AllClients()
	if err != nil {
		return nil, err
	}
	return h.clientList(list, messages.ClientsTitle, messages.ClientsEmpty), nil
}

func (h *Handler) myClients(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleReseller); err != nil {
		return nil, err
	}
	list, err := h.dir.ClientsOf(strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, err
	}
	return h.clientList(list, messages.MyClientsTitle, messages.MyClientsEmpty), nil
}

func (h *Handler) clientList(list []models.Client, title, empty messages.Key) *flow.Reply {
	if len(list) == 0 {
		return h.text(empty)
	}
	lines := []string{h.texts.T(title)}
	for _, c := range list {
		lines = append(lines, h.texts.T(messages.ClientLine,
			"slug", c.Slug,
			"owner", strconv.FormatInt(c.OwnerID, 10),
			"rid", c.ResellerID,
			"expires", c.Expires,
			"status", c.SvcStatus,
		))
	}
	return &flow.Reply{Text: strings.Join(lines, "\n")}
}

func (h *Handler) settingsView(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	all, err := h.settings.All()
	if err != nil {
		return nil, err
	}
	lines := []string{h.texts.T(messages.SettingsTitle)}
	for _, s := range all {
		lines = append(lines, h.texts.T(messages.SettingLine, "key", s.Key, "value", s.Value))
	}
	pending, err := h.ledger.PendingCount()
	if err != nil {
		return nil, err
	}
	lines = append(lines, h.texts.T(messages.PendingCount, "count", strconv.FormatInt(pending, 10)))
	lines = append(lines, h.texts.T(messages.SettingsHint))
	return &flow.Reply{Text: strings.Join(lines, "\n")}, nil
}

// createClient checks the reseller's capacity before asking for the client id.
func (h *Handler) createClient(ctx context.Context, userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleReseller); err != nil {
		return nil, err
	}
	rid := strconv.FormatInt(userID, 10)
	if err := h.dir.CheckCapacity(rid); err != nil {
		return nil, err
	}
	return h.flows.StartNewClient(ctx, userID, rid)
}

func (h *Handler) pay(ctx context.Context, userID int64) (*flow.Reply, error) {
	role, err := h.require(userID, models.RoleReseller, models.RoleClient)
	if err != nil {
		return nil, err
	}
	return h.flows.StartPayment(ctx, userID, role)
}

func (h *Handler) bossSupport(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleReseller); err != nil {
		return nil, err
	}
	reply := h.text(messages.BossContact, "contact", h.handle(h.supportContact))
	if h.supportContact != "" {
		reply.Inline = [][]flow.Button{{{Text: h.texts.T(messages.BtnOpenChat), URL: "https://t.me/" + h.supportContact}}}
	}
	return reply, nil
}

func (h *Handler) myPlan(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleClient); err != nil {
		return nil, err
	}
	c, err := h.dir.ClientByOwner(userID)
	if err != nil {
		return nil, err
	}
	lines := []string{h.texts.T(messages.MyPlan, "plan", c.Plan, "expires", c.Expires, "status", c.SvcStatus, "slug", c.Slug)}

	history, err := h.ledger.History(userID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		lines = append(lines, h.texts.T(messages.MyPayments))
		for _, p := range history {
			lines = append(lines, h.texts.T(messages.MyPaymentLine,
				"created", dateOf(p.Created),
				"usd", utils.FormatAmount(p.AmountUSD),
				"plan", p.Plan,
				"status", p.Status,
			))
		}
	}
	return &flow.Reply{Text: strings.Join(lines, "\n")}, nil
}

// dateOf keeps the calendar date of a stored timestamp.
func dateOf(ts string) string {
	if len(ts) >= len(utils.DateLayout) {
		return ts[:len(utils.DateLayout)]
	}
	return ts
}

func (h *Handler) toggle(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleClient); err != nil {
		return nil, err
	}
	c, err := h.dir.ClientByOwner(userID)
	if err != nil {
		return nil, err
	}
	status, err := h.dir.ToggleService(c.Slug)
	if err != nil {
		return nil, err
	}
	return h.text(messages.ServiceToggled, "slug", c.Slug, "status", string(status)), nil
}

// support shows the contact of the client's reseller with a chat link.
func (h *Handler) support(userID int64) (*flow.Reply, error) {
	if _, err := h.require(userID, models.RoleClient); err != nil {
		return nil, err
	}
	c, err := h.dir.ClientByOwner(userID)
	if err != nil {
		return nil, err
	}
	r, err := h.dir.Reseller(c.ResellerID)
	if err != nil || strings.TrimSpace(r.Contact) == "" {
		return h.text(messages.SupportNone), nil
	}
	contact := h.handle(r.Contact)
	return &flow.Reply{
		Text:   h.texts.T(messages.SupportContact, "contact", contact),
		Inline: [][]flow.Button{{{Text: h.texts.T(messages.BtnOpenChat), URL: "https://t.me/" + strings.TrimPrefix(contact, "@")}}},
	}, nil
}
