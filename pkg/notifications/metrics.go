package notifications

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	outcomeDelivered = "delivered"
	outcomeFailed    = "failed"
	outcomeSkipped   = "skipped"

	pushJob = "ci_notify"
)

// Metrics counts notification outcomes. The process is short lived, so they are pushed, not scraped.
type Metrics struct {
	registry      *prometheus.Registry
	notifications *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ci_notify_notifications_total",
		Help: "Notifications by provider and outcome",
	}, []string{"provider", "outcome"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(notifications)

	return &Metrics{
		registry:      registry,
		notifications: notifications,
	}
}

func (m *Metrics) observe(provider string, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(provider, outcome).Inc()
}

// Push sends the collected metrics to a Prometheus Pushgateway, grouped by repository and workflow
func (m *Metrics) Push(ctx context.Context, pushgatewayURL string, repository string, workflow string) error {
	return push.New(pushgatewayURL, pushJob).
		Gatherer(m.registry).
		Grouping("repository", repository).
		Grouping("workflow", workflow).
		PushContext(ctx)
}
