// Package metrics provides Prometheus instrumentation for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "resellerbot"

var (
	// PaymentsSubmittedTotal counts ledger entries created, by plan kind and method.
	PaymentsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_submitted_total",
			Help:      "Payments submitted with a receipt, by plan kind and method.",
		},
		[]string{"kind", "method"},
	)

	// PaymentsResolvedTotal counts administrator decisions by outcome.
	PaymentsResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_resolved_total",
			Help:      "Payments resolved by the administrator, by status.",
		},
		[]string{"status"},
	)

	// NotificationsTotal counts outbound notifications by result.
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Outbound notifications by kind and result.",
		},
		[]string{"kind", "result"},
	)

	// FlowEventsTotal counts conversation-flow callbacks by event and outcome.
	FlowEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_events_total",
			Help:      "Conversation-flow callbacks by event and outcome.",
		},
		[]string{"event", "outcome"},
	)

	// ExpiryNoticesTotal counts expiry notices sent by the scan.
	ExpiryNoticesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiry_notices_total",
			Help:      "Expiry notices produced by the periodic scan, by kind.",
		},
		[]string{"kind"},
	)

	// WebhookUpdatesTotal counts webhook deliveries, split into accepted and duplicate.
	WebhookUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_updates_total",
			Help:      "Telegram webhook deliveries by result.",
		},
		[]string{"result"},
	)

	// APIRequestsTotal counts admin API requests.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Admin API requests by route and status code.",
		},
		[]string{"route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		PaymentsSubmittedTotal,
		PaymentsResolvedTotal,
		NotificationsTotal,
		FlowEventsTotal,
		ExpiryNoticesTotal,
		WebhookUpdatesTotal,
		APIRequestsTotal,
	)
}
