package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gather",
		Name:      "chat_messages_sent_total",
		Help:      "Messages accepted by the send endpoint.",
	})

	notificationsPresented = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gather",
		Name:      "notifications_presented_total",
		Help:      "Chat notifications pushed to notification streams.",
	})

	chatSessionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gather",
		Name:      "chat_sessions_open",
		Help:      "Live chat SSE streams currently attached.",
	})
)
