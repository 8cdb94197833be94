package testutil

import (
	"context"
	"strings"
	"sync"
)

// Message is a text recorded by Notifier.
type Message struct {
	To   int64
	Text string
}

// Forwarded is a forward recorded by Notifier.
type Forwarded struct {
	To, From  int64
	MessageID int
}

// Notifier records outbound messages synchronously.
type Notifier struct {
	mu        sync.Mutex
	Messages  []Message
	Forwarded []Forwarded
}

func (n *Notifier) Notify(_ context.Context, userID int64, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, Message{To: userID, Text: text})
}

func (n *Notifier) Forward(_ context.Context, to, fromChat int64, messageID int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Forwarded = append(n.Forwarded, Forwarded{To: to, From: fromChat, MessageID: messageID})
}

// To returns the texts sent to userID.
func (n *Notifier) To(userID int64) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, m := range n.Messages {
		if m.To == userID {
			out = append(out, m.Text)
		}
	}
	return out
}

// Contains reports whether any text sent to userID contains sub.
func (n *Notifier) Contains(userID int64, sub string) bool {
	for _, text := range n.To(userID) {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}
