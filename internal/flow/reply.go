package flow

import "resellerbot/internal/models"

// Button is an inline button: a callback when Data is set, a link when URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Reply is a transport-neutral answer to an inbound event.
type Reply struct {
	Text   string
	Inline [][]Button
	// Alert answers a callback with a popup and leaves the message untouched.
	Alert bool
	// Edit replaces the message the callback came from.
	Edit bool
	// Menu attaches the reply keyboard of a role; empty keeps the current one.
	Menu models.Role
}

func callback(text string, e Event) Button {
	return Button{Text: text, Data: e.Token()}
}
