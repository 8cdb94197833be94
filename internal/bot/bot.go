package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"resellerbot/internal/command"
	"resellerbot/internal/config"
	"resellerbot/internal/flow"
	"resellerbot/internal/messages"
)

// Bot wraps the telebot instance and handlers.
type Bot struct {
	tb         *tele.Bot
	webhook    *tele.Webhook
	useWebhook bool
	cfg        *config.Config
	commands   *command.Handler
	flows      *flow.Controller
	texts      *messages.Catalog
	keyboard   *KeyboardBuilder
	logger     *zap.Logger
}

// New creates and configures a new Bot instance.
func New(cfg *config.Config, commands *command.Handler, flows *flow.Controller, texts *messages.Catalog, logger *zap.Logger) (*Bot, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Bot.UpdateMode))
	if mode == "" {
		mode = "auto"
	}

	useWebhook := true
	switch mode {
	case "polling":
		useWebhook = false
	case "webhook":
		useWebhook = true
	default: // auto
		useWebhook = strings.TrimSpace(cfg.Bot.WebhookURL) != ""
	}

	var poller tele.Poller
	var webhook *tele.Webhook
	if useWebhook {
		if strings.TrimSpace(cfg.Bot.WebhookURL) == "" {
			return nil, fmt.Errorf("BOT_WEBHOOK_URL is required when BOT_UPDATE_MODE=webhook")
		}
		webhook = &tele.Webhook{
			Listen:   "", // mounted on Echo instead of telebot's own server
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
		poller = webhook
	} else {
		poller = &tele.LongPoller{Timeout: 10 * time.Second}
	}

	pref := tele.Settings{
		Token:     cfg.Bot.Token,
		Poller:    poller,
		ParseMode: tele.ModeHTML,
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("user_id", c.Sender().ID))
			}
			logger.Error("telebot error", fields...)
		},
	}

	tb, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telebot: %w", err)
	}

	b := &Bot{
		tb:         tb,
		webhook:    webhook,
		useWebhook: useWebhook,
		cfg:        cfg,
		commands:   commands,
		flows:      flows,
		texts:      texts,
		keyboard:   NewKeyboardBuilder(texts),
		logger:     logger,
	}

	b.registerHandlers()

	return b, nil
}

// WebhookHandler returns the webhook handler for mounting on Echo.
// Returns nil when running in long-polling mode.
func (b *Bot) WebhookHandler() http.Handler {
	if b.webhook == nil {
		return nil
	}
	return b.webhook
}

// Start begins polling/webhook processing. It blocks until Stop.
func (b *Bot) Start() {
	if b.useWebhook {
		b.logger.Info("Starting Telegram bot", zap.String("mode", "webhook"), zap.String("webhook_url", b.cfg.Bot.WebhookURL))
	} else {
		// Long polling requires webhook to be removed first.
		if err := b.tb.RemoveWebhook(true); err != nil {
			b.logger.Warn("Failed to remove webhook before long polling", zap.Error(err))
		}
		b.logger.Info("Starting Telegram bot", zap.String("mode", "polling"))
	}
	b.tb.Start()
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) registerHandlers() {
	for _, name := range command.Commands {
		b.tb.Handle("/"+name, b.handleCommand(name))
	}
	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(tele.OnPhoto, b.handleMedia)
	b.tb.Handle(tele.OnDocument, b.handleMedia)
	b.tb.Handle(tele.OnCallback, b.handleCallback)
}

// ── Commands ──────────────────────────────────────────────────────────

func (b *Bot) handleCommand(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		reply, _, err := b.commands.Execute(context.Background(), userID, name, commandArgs(c.Message().Payload))
		if err != nil {
			return b.render(c, b.commands.ErrorReply(userID, err))
		}
		return b.render(c, reply)
	}
}

// commandArgs splits a command payload into words.
func commandArgs(payload string) []string {
	return strings.Fields(payload)
}

// ── Text routing ──────────────────────────────────────────────────────

// handleText routes menu labels first; anything else is offered to the open flow.
func (b *Bot) handleText(c tele.Context) error {
	userID := c.Sender().ID
	ctx := context.Background()

	if action, ok := b.texts.ActionOf(c.Text()); ok {
		reply, err := b.commands.Menu(ctx, userID, action)
		if err != nil {
			return b.render(c, b.commands.ErrorReply(userID, err))
		}
		return b.render(c, reply)
	}

	reply, err := b.flows.HandleMessage(ctx, userID, flow.Input{
		Text:      c.Text(),
		MessageID: c.Message().ID,
		Username:  c.Sender().Username,
	})
	if err != nil {
		return b.render(c, b.commands.ErrorReply(userID, err))
	}
	return b.render(c, reply)
}

// ── Photo / document receipts ─────────────────────────────────────────

func (b *Bot) handleMedia(c tele.Context) error {
	userID := c.Sender().ID
	reply, err := b.flows.HandleMessage(context.Background(), userID, flow.Input{
		Text:      c.Message().Caption,
		HasMedia:  true,
		MessageID: c.Message().ID,
		Username:  c.Sender().Username,
	})
	if err != nil {
		return b.render(c, b.commands.ErrorReply(userID, err))
	}
	return b.render(c, reply)
}

// ── Callback queries ──────────────────────────────────────────────────

func (b *Bot) handleCallback(c tele.Context) error {
	userID := c.Sender().ID
	data := c.Callback().Data

	reply, err := b.flows.HandleCallback(context.Background(), userID, data)
	switch {
	case errors.Is(err, flow.ErrUnknownCallback):
		b.logger.Debug("Unknown callback", zap.String("data", data), zap.Int64("user_id", userID))
		return c.Respond()
	case err != nil:
		return b.render(c, b.commands.ErrorReply(userID, err))
	case reply == nil:
		return c.Respond()
	}
	return b.render(c, reply)
}

// ── Rendering ─────────────────────────────────────────────────────────

func (b *Bot) render(c tele.Context, r *flow.Reply) error {
	if r == nil {
		return nil
	}
	if c.Callback() != nil {
		if r.Alert {
			return c.Respond(&tele.CallbackResponse{Text: r.Text, ShowAlert: true})
		}
		_ = c.Respond()
	}

	markup := b.keyboard.Inline(r.Inline)
	if markup == nil && r.Menu != "" {
		markup = b.keyboard.Menu(r.Menu)
	}
	opts := []interface{}{tele.ModeHTML, tele.NoPreview}
	if markup != nil {
		opts = append(opts, markup)
	}

	if r.Edit && c.Callback() != nil && c.Callback().Message != nil {
		err := c.Edit(r.Text, opts...)
		if err == nil || strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		b.logger.Debug("Edit failed, sending instead", zap.Error(err))
	}
	return c.Send(r.Text, opts...)
}
