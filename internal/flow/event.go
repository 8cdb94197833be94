package flow

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"resellerbot/internal/models"
	"resellerbot/internal/payment"
)

// ErrUnknownCallback is returned for callback data outside the payment-flow protocol.
var ErrUnknownCallback = errors.New("unknown callback data")

const namespace = "pay"

// EventKind is the closed set of payment-flow transitions a button can request.
type EventKind int

const (
	EventPickPlan     EventKind = iota + 1 // pay:plan
	EventPickClient                        // pay:client
	EventResellerTier                      // pay:res_b|res_p|res_e
	EventClientSlug                        // pay:cli:<slug>
	EventTerm                              // pay:c:30|90|365
	EventMethod                            // pay:m:saldo|cup
	EventReceipt                           // pay:receipt
	EventBack                              // pay:back
)

var eventNames = map[EventKind]string{
	EventPickPlan:     "plan",
	EventPickClient:   "client",
	EventResellerTier: "tier",
	EventClientSlug:   "cli",
	EventTerm:         "term",
	EventMethod:       "method",
	EventReceipt:      "receipt",
	EventBack:         "back",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a parsed callback. Only the field matching Kind is set.
type Event struct {
	Kind   EventKind
	Tier   models.ResellerTier
	Slug   string
	Days   int
	Method models.PaymentMethod
}

var slugToken = regexp.MustCompile(`^[A-Za-z0-9_]{1,48}$`)

// ParseCallback parses `pay:action[:parameter]` callback data.
func ParseCallback(data string) (Event, error) {
	// telebot prefixes data of its own buttons with \f.
	data = strings.TrimSpace(strings.TrimPrefix(data, "\f"))
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 || parts[0] != namespace {
		return Event{}, ErrUnknownCallback
	}

	action := parts[1]
	if len(parts) == 2 {
		switch {
		case action == "plan":
			return Event{Kind: EventPickPlan}, nil
		case action == "client":
			return Event{Kind: EventPickClient}, nil
		case action == "receipt":
			return Event{Kind: EventReceipt}, nil
		case action == "back":
			return Event{Kind: EventBack}, nil
		case models.ResellerTier(action).Valid():
			return Event{Kind: EventResellerTier, Tier: models.ResellerTier(action)}, nil
		}
		return Event{}, ErrUnknownCallback
	}

	param := parts[2]
	switch action {
	case "cli":
		if slugToken.MatchString(param) {
			return Event{Kind: EventClientSlug, Slug: param}, nil
		}
	case "c":
		days, err := strconv.Atoi(param)
		if err == nil {
			if _, ok := payment.ClientPlanDays(payment.ClientPlanCode(days)); ok {
				return Event{Kind: EventTerm, Days: days}, nil
			}
		}
	case "m":
		if m := models.PaymentMethod(param); m.Valid() {
			return Event{Kind: EventMethod, Method: m}, nil
		}
	}
	return Event{}, ErrUnknownCallback
}

// Token renders the callback data of e.
func (e Event) Token() string {
	switch e.Kind {
	case EventPickPlan:
		return namespace + ":plan"
	case EventPickClient:
		return namespace + ":client"
	case EventResellerTier:
		return namespace + ":" + string(e.Tier)
	case EventClientSlug:
		return namespace + ":cli:" + e.Slug
	case EventTerm:
		return namespace + ":c:" + strconv.Itoa(e.Days)
	case EventMethod:
		return namespace + ":m:" + string(e.Method)
	case EventReceipt:
		return namespace + ":receipt"
	case EventBack:
		return namespace + ":back"
	}
	return ""
}
