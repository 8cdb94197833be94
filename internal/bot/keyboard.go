package bot

import (
	tele "gopkg.in/telebot.v3"

	"resellerbot/internal/flow"
	"resellerbot/internal/messages"
	"resellerbot/internal/models"
)

// menuLayouts is the reply-keyboard layout of each role, two buttons per row.
var menuLayouts = map[models.Role][][]messages.Action{
	models.RoleAdmin: {
		{messages.MenuResellers, messages.MenuClients},
		{messages.MenuPayments, messages.MenuSettings},
	},
	models.RoleReseller: {
		{messages.MenuMyClients, messages.MenuCreateClient},
		{messages.MenuPay, messages.MenuBossSupport},
	},
	models.RoleClient: {
		{messages.MenuMyPlan, messages.MenuToggle},
		{messages.MenuPay, messages.MenuSupport},
	},
}

// KeyboardBuilder constructs Telegram keyboards from the locale's labels.
type KeyboardBuilder struct {
	texts *messages.Catalog
}

// NewKeyboardBuilder creates a new keyboard builder.
func NewKeyboardBuilder(texts *messages.Catalog) *KeyboardBuilder {
	return &KeyboardBuilder{texts: texts}
}

// Menu builds the reply keyboard of a role. Guests get the keyboard removed.
func (kb *KeyboardBuilder) Menu(role models.Role) *tele.ReplyMarkup {
	layout, ok := menuLayouts[role]
	if !ok {
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(layout))
	for _, actions := range layout {
		btns := make([]tele.Btn, 0, len(actions))
		for _, a := range actions {
			btns = append(btns, menu.Text(kb.texts.Label(a)))
		}
		rows = append(rows, menu.Row(btns...))
	}
	menu.Reply(rows...)
	return menu
}

// Inline builds an inline keyboard. Callback data is passed through verbatim so it
// stays inside the flow's token protocol. Returns nil for an empty layout.
func (kb *KeyboardBuilder) Inline(rows [][]flow.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	keyboard := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		keyboard = append(keyboard, btns)
	}
	return &tele.ReplyMarkup{InlineKeyboard: keyboard}
}
