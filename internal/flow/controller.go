// Package flow drives the multi-step payment and client-creation conversations.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"resellerbot/internal/directory"
	"resellerbot/internal/messages"
	"resellerbot/internal/metrics"
	"resellerbot/internal/models"
	"resellerbot/internal/notify"
	"resellerbot/internal/payment"
	"resellerbot/internal/pkg/utils"
	"resellerbot/internal/renewal"
	"resellerbot/internal/repository"
	"resellerbot/internal/session"
)

var tierNames = map[models.ResellerTier]messages.Key{
	models.TierBasic:      messages.TierBasic,
	models.TierPro:        messages.TierPro,
	models.TierEnterprise: messages.TierEnterprise,
}

// Input is an inbound chat message relevant to an open flow.
type Input struct {
	Text      string
	HasMedia  bool
	MessageID int
	Username  string
}

// Controller moves users through the flow state machines.
type Controller struct {
	store    session.Store
	dir      *directory.Directory
	ledger   *payment.Ledger
	settings *repository.SettingRepository
	notifier notify.Notifier
	texts    *messages.Catalog
	clock    utils.Clock
	logger   *zap.Logger
}

// Deps bundles the collaborators of a Controller.
type Deps struct {
	Store     session.Store
	Directory *directory.Directory
	Ledger    *payment.Ledger
	Settings  *repository.SettingRepository
	Notifier  notify.Notifier
	Texts     *messages.Catalog
	Clock     utils.Clock
	Logger    *zap.Logger
}

// NewController creates a controller.
func NewController(d Deps) *Controller {
	return &Controller{
		store:    d.Store,
		dir:      d.Directory,
		ledger:   d.Ledger,
		settings: d.Settings,
		notifier: d.Notifier,
		texts:    d.Texts,
		clock:    d.Clock,
		logger:   d.Logger,
	}
}

// StartPayment opens a payment flow, replacing any open flow of the user.
func (c *Controller) StartPayment(ctx context.Context, userID int64, as models.Role) (*Reply, error) {
	s := &session.Session{UserID: userID, Mode: session.ModePay, Step: session.StepTarget, As: as}
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return c.targetReply(false), nil
}

// StartNewClient opens the client-creation flow for a reseller.
func (c *Controller) StartNewClient(ctx context.Context, userID int64, resellerID string) (*Reply, error) {
	s := &session.Session{
		UserID:     userID,
		Mode:       session.ModeNewClient,
		Step:       session.StepClientID,
		As:         models.RoleReseller,
		ResellerID: resellerID,
	}
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return &Reply{Text: c.texts.T(messages.AskClientID), Menu: models.RoleReseller}, nil
}

// HandleCallback applies a button press. It returns (nil, nil) when the user has no open
// payment flow, and ErrUnknownCallback for data outside the protocol.
func (c *Controller) HandleCallback(ctx context.Context, userID int64, data string) (*Reply, error) {
	ev, err := ParseCallback(data)
	if err != nil {
		metrics.FlowEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		return nil, err
	}
	s, err := c.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Mode != session.ModePay {
		metrics.FlowEventsTotal.WithLabelValues(ev.Kind.String(), "ignored").Inc()
		return nil, nil
	}

	reply, err := c.applyEvent(ctx, s, ev)
	if err != nil {
		return nil, err
	}
	outcome := "ok"
	if reply == nil {
		outcome = "ignored"
	} else if reply.Alert {
		outcome = "refused"
	}
	metrics.FlowEventsTotal.WithLabelValues(ev.Kind.String(), outcome).Inc()
	return reply, nil
}

func (c *Controller) applyEvent(ctx context.Context, s *session.Session, ev Event) (*Reply, error) {
	switch ev.Kind {
	case EventPickPlan:
		return c.onPickPlan(ctx, s)
	case EventResellerTier:
		return c.onResellerTier(ctx, s, ev.Tier)
	case EventPickClient:
		return c.onPickClient(ctx, s)
	case EventClientSlug:
		return c.onClientSlug(ctx, s, ev.Slug)
	case EventTerm:
		return c.onTerm(ctx, s, ev.Days)
	case EventMethod:
		return c.onMethod(ctx, s, ev.Method)
	case EventReceipt:
		if s.Step != session.StepReceipt {
			return nil, nil
		}
		return &Reply{Text: c.texts.T(messages.ReceiptPrompt), Alert: true}, nil
	case EventBack:
		resetSelection(s)
		s.Step = session.StepTarget
		if err := c.store.Save(ctx, s); err != nil {
			return nil, err
		}
		return c.targetReply(true), nil
	}
	return nil, nil
}

func (c *Controller) onPickPlan(ctx context.Context, s *session.Session) (*Reply, error) {
	if s.As != models.RoleReseller {
		return c.alert(messages.ResellerOnly), nil
	}
	prices, err := c.settings.Prices()
	if err != nil {
		return nil, err
	}
	resetSelection(s)
	s.Step = session.StepPlan
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}

	lines := []string{c.texts.T(messages.PayPlansTitle)}
	row := make([]Button, 0, len(models.ResellerTiers))
	for _, tier := range models.ResellerTiers {
		name := c.texts.T(tierNames[tier])
		usd := prices.Reseller[tier]
		lines = append(lines, c.texts.T(messages.PayPlanLine,
			"name", name,
			"usd", utils.FormatAmount(usd),
			"local", utils.FormatAmount(payment.LocalAmount(usd, prices.Rate)),
		))
		row = append(row, callback(name, Event{Kind: EventResellerTier, Tier: tier}))
	}
	return &Reply{
		Text:   strings.Join(lines, "\n"),
		Inline: [][]Button{row, {c.backButton()}},
		Edit:   true,
	}, nil
}

func (c *Controller) onResellerTier(ctx context.Context, s *session.Session, tier models.ResellerTier) (*Reply, error) {
	if s.As != models.RoleReseller {
		return c.alert(messages.ResellerOnly), nil
	}
	q, err := c.ledger.Quote(string(tier))
	if err != nil {
		return nil, err
	}
	resellerID := strconv.FormatInt(s.UserID, 10)
	extra, err := c.upgradeQuote(resellerID, tier)
	if err != nil {
		return nil, err
	}

	s.PlanCode = q.PlanCode
	s.ItemID = resellerID
	s.AmountUSD, s.AmountLocal, s.Rate = q.AmountUSD, q.AmountLocal, q.Rate
	s.Prorate = extra
	s.Method = ""
	s.Step = session.StepMethod
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return c.methodReply(s, Event{Kind: EventPickPlan}), nil
}

// upgradeQuote is the informational prorated difference shown before paying for a tier.
func (c *Controller) upgradeQuote(resellerID string, tier models.ResellerTier) (float64, error) {
	r, err := c.dir.Reseller(resellerID)
	if errors.Is(err, directory.ErrResellerNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	prices, err := c.settings.Prices()
	if err != nil {
		return 0, err
	}
	start, serr := utils.ParseDate(r.Started)
	expiry, eerr := utils.ParseDate(r.Expires)
	if serr != nil || eerr != nil {
		return 0, nil
	}
	return renewal.Prorate(prices.Reseller[models.ResellerTier(r.Plan)], prices.Reseller[tier], start, expiry, c.clock.Today()), nil
}

func (c *Controller) onPickClient(ctx context.Context, s *session.Session) (*Reply, error) {
	if s.As == models.RoleClient {
		client, err := c.dir.ClientByOwner(s.UserID)
		if errors.Is(err, directory.ErrClientNotFound) {
			return c.alert(messages.NotRegistered), nil
		}
		if err != nil {
			return nil, err
		}
		return c.selectClient(ctx, s, client.Slug)
	}

	clients, err := c.dir.ClientsOf(strconv.FormatInt(s.UserID, 10))
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return c.alert(messages.NoClients), nil
	}
	resetSelection(s)
	s.Step = session.StepPlan
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}

	var rows [][]Button
	var row []Button
	for _, cl := range clients {
		row = append(row, callback("👤 "+cl.Slug, Event{Kind: EventClientSlug, Slug: cl.Slug}))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Button{c.backButton()})
	return &Reply{Text: c.texts.T(messages.PayPickClient), Inline: rows, Edit: true}, nil
}

func (c *Controller) onClientSlug(ctx context.Context, s *session.Session, slug string) (*Reply, error) {
	if s.As != models.RoleReseller {
		return c.alert(messages.NoPermission), nil
	}
	client, err := c.dir.ClientBySlug(slug)
	if errors.Is(err, directory.ErrClientNotFound) {
		return c.alert(messages.NotRegistered), nil
	}
	if err != nil {
		return nil, err
	}
	if client.ResellerID != strconv.FormatInt(s.UserID, 10) {
		return c.alert(messages.NoPermission), nil
	}
	return c.selectClient(ctx, s, client.Slug)
}

func (c *Controller) selectClient(ctx context.Context, s *session.Session, slug string) (*Reply, error) {
	prices, err := c.settings.Prices()
	if err != nil {
		return nil, err
	}
	resetSelection(s)
	s.ItemID = slug
	s.Step = session.StepPlan
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}

	lines := []string{c.texts.T(messages.PayTermsTitle, "slug", slug)}
	row := make([]Button, 0, len(payment.ClientTerms))
	for _, days := range payment.ClientTerms {
		d := strconv.Itoa(days)
		lines = append(lines, c.texts.T(messages.PayTermLine, "days", d, "usd", utils.FormatAmount(prices.Client[days])))
		row = append(row, callback(c.texts.T(messages.BtnDays, "days", d), Event{Kind: EventTerm, Days: days}))
	}
	return &Reply{
		Text:   strings.Join(lines, "\n"),
		Inline: [][]Button{row, {c.backButton()}},
		Edit:   true,
	}, nil
}

func (c *Controller) onTerm(ctx context.Context, s *session.Session, days int) (*Reply, error) {
	if s.ItemID == "" || s.Step == session.StepTarget {
		return c.alert(messages.PayPickClient), nil
	}
	if models.ResellerTier(s.PlanCode).Valid() {
		// A tier was chosen; the term buttons belong to a stale message.
		return nil, nil
	}
	q, err := c.ledger.Quote(payment.ClientPlanCode(days))
	if err != nil {
		return nil, err
	}
	s.PlanCode = q.PlanCode
	s.AmountUSD, s.AmountLocal, s.Rate = q.AmountUSD, q.AmountLocal, q.Rate
	s.Prorate = 0
	s.Method = ""
	s.Step = session.StepMethod
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return c.methodReply(s, Event{Kind: EventPickClient}), nil
}

func (c *Controller) onMethod(ctx context.Context, s *session.Session, method models.PaymentMethod) (*Reply, error) {
	if s.PlanCode == "" || (s.Step != session.StepMethod && s.Step != session.StepReceipt) {
		return nil, nil
	}
	key := repository.KeyPayTextCup
	if method == models.MethodBalance {
		key = repository.KeyPayTextSaldo
	}
	template, err := c.settings.Get(key, "")
	if err != nil {
		return nil, err
	}
	s.Method = method
	s.Step = session.StepReceipt
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}

	instructions := strings.ReplaceAll(template, "{amount}", utils.FormatAmount(s.AmountLocal))
	return &Reply{
		Text: c.texts.T(messages.PayInstruction, "txt", instructions),
		Inline: [][]Button{
			{callback(c.texts.T(messages.BtnSendReceipt), Event{Kind: EventReceipt})},
			{c.backButton()},
		},
		Edit: true,
	}, nil
}

// HandleMessage feeds a chat message to the user's open flow. It returns (nil, nil)
// when no open flow expects a message.
func (c *Controller) HandleMessage(ctx context.Context, userID int64, in Input) (*Reply, error) {
	s, err := c.store.Get(ctx, userID)
	if err != nil || s == nil {
		return nil, err
	}
	switch {
	case s.Mode == session.ModeNewClient && s.Step == session.StepClientID:
		return c.onClientID(ctx, s, in)
	case s.Mode == session.ModePay && s.Step == session.StepReceipt:
		return c.onReceipt(ctx, s, in)
	}
	return nil, nil
}

func (c *Controller) onClientID(ctx context.Context, s *session.Session, in Input) (*Reply, error) {
	text := strings.TrimSpace(utils.NormalizeDigits(in.Text))
	ownerID, err := strconv.ParseInt(text, 10, 64)
	if err != nil || ownerID <= 0 {
		return &Reply{Text: c.texts.T(messages.InvalidID), Menu: models.RoleReseller}, nil
	}

	client, err := c.dir.CreateClient(directory.NewClient{OwnerID: ownerID, ResellerID: s.ResellerID})
	if derr := c.store.Delete(ctx, s.UserID); derr != nil {
		c.logger.Warn("Failed to clear flow", zap.Int64("user_id", s.UserID), zap.Error(derr))
	}

	var limitErr *directory.LimitError
	switch {
	case err == nil:
		return &Reply{
			Text: c.texts.T(messages.ClientCreated, "slug", client.Slug, "rid", client.ResellerID, "expires", client.Expires),
			Menu: models.RoleReseller,
		}, nil
	case errors.As(err, &limitErr):
		return &Reply{Text: c.texts.T(messages.ResellerLimit, "limit", strconv.Itoa(limitErr.Limit)), Menu: models.RoleReseller}, nil
	case errors.Is(err, directory.ErrResellerNotFound):
		return &Reply{Text: c.texts.T(messages.ResellerNotFound), Menu: models.RoleReseller}, nil
	case errors.Is(err, directory.ErrOwnerHasClient):
		return &Reply{Text: c.texts.T(messages.ClientExists), Menu: models.RoleReseller}, nil
	}
	return nil, fmt.Errorf("create client: %w", err)
}

func (c *Controller) onReceipt(ctx context.Context, s *session.Session, in Input) (*Reply, error) {
	if !in.HasMedia {
		return &Reply{Text: c.texts.T(messages.ReceiptRetry)}, nil
	}

	p, err := c.ledger.Submit(ctx, payment.Submission{
		UserID:       s.UserID,
		Role:         s.As,
		Method:       s.Method,
		PlanCode:     s.PlanCode,
		ItemID:       s.ItemID,
		AmountUSD:    s.AmountUSD,
		AmountLocal:  s.AmountLocal,
		ReceiptMsgID: in.MessageID,
	})
	if err != nil {
		return nil, err
	}
	if err := c.store.Delete(ctx, s.UserID); err != nil {
		c.logger.Warn("Failed to clear flow", zap.Int64("user_id", s.UserID), zap.Error(err))
	}

	if owner, err := c.settings.OwnerID(); err != nil {
		c.logger.Warn("Failed to read owner id", zap.Error(err))
	} else if owner != 0 {
		c.notifier.Notify(ctx, owner, c.texts.T(messages.AdminPending,
			"uid", strconv.FormatInt(p.UserID, 10),
			"usd", utils.FormatAmount(p.AmountUSD),
			"local", utils.FormatAmount(p.AmountLocal),
			"method", p.Method,
			"plan", p.Plan,
			"item", p.ItemID,
			"pid", p.ID,
		))
		c.notifier.Forward(ctx, owner, s.UserID, in.MessageID)
	}

	return &Reply{Text: c.texts.T(messages.ReceiptOK, "pid", p.ID), Menu: s.As}, nil
}

func (c *Controller) targetReply(edit bool) *Reply {
	return &Reply{
		Text: c.texts.T(messages.PayPick),
		Inline: [][]Button{{
			callback(c.texts.T(messages.BtnResellerPlan), Event{Kind: EventPickPlan}),
			callback(c.texts.T(messages.BtnRenewClient), Event{Kind: EventPickClient}),
		}},
		Edit: edit,
	}
}

func (c *Controller) methodReply(s *session.Session, back Event) *Reply {
	text := c.texts.T(messages.PayMethod,
		"usd", utils.FormatAmount(s.AmountUSD),
		"local", utils.FormatAmount(s.AmountLocal),
	)
	if s.Prorate > 0 {
		text += c.texts.T(messages.PayProrate, "extra", utils.FormatAmount(s.Prorate))
	}
	return &Reply{
		Text: text,
		Inline: [][]Button{
			{
				callback(c.texts.T(messages.BtnBalance), Event{Kind: EventMethod, Method: models.MethodBalance}),
				callback(c.texts.T(messages.BtnLocal), Event{Kind: EventMethod, Method: models.MethodLocalCurrency}),
			},
			{callback(c.texts.T(messages.BtnBack), back)},
		},
		Edit: true,
	}
}

func (c *Controller) backButton() Button {
	return callback(c.texts.T(messages.BtnBack), Event{Kind: EventBack})
}

func (c *Controller) alert(key messages.Key) *Reply {
	return &Reply{Text: c.texts.T(key), Alert: true}
}

func resetSelection(s *session.Session) {
	s.PlanCode = ""
	s.ItemID = ""
	s.AmountUSD, s.AmountLocal, s.Rate, s.Prorate = 0, 0, 0, 0
	s.Method = ""
}
