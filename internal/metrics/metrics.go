// Package metrics exposes the client's Prometheus instrumentation, served on
// the optional local debug listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barbearia_poll_checks_total",
		Help: "Notification poll attempts by outcome (ok, error, unauthorized).",
	}, []string{"outcome"})

	NotificationsShown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barbearia_notifications_shown_total",
		Help: "Notifications surfaced to the user after deduplication.",
	})

	SoundsPlayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barbearia_notification_sounds_total",
		Help: "Audible cues actually played (after the cooldown gate).",
	})

	ChatReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barbearia_chat_reconnects_total",
		Help: "Realtime channel reconnect attempts.",
	})

	ChatMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barbearia_chat_messages_sent_total",
		Help: "Messages emitted over the realtime channel.",
	})

	ChatEventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barbearia_chat_events_received_total",
		Help: "Server events received over the realtime channel, by event name.",
	}, []string{"event"})
)
