package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func counterValue(t *testing.T, m *Metrics, provider string, outcome string) float64 {
	families, err := m.registry.Gather()
	assert.Nil(t, err)

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["provider"] == provider && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func Test_metricsObserveOutcomes(t *testing.T) {
	hook := newFakeWebhook(http.StatusOK)
	defer hook.server.Close()

	metrics := NewMetrics()
	manager := testManager([]string{"failure"}, hook.server.URL)
	manager.Metrics = metrics

	manager.Notify(context.Background(), testMessage("success"))
	manager.Notify(context.Background(), testMessage("failure"))

	assert.Equal(t, float64(1), counterValue(t, metrics, "slack", outcomeSkipped))
	assert.Equal(t, float64(1), counterValue(t, metrics, "slack", outcomeDelivered))
	assert.Equal(t, float64(0), counterValue(t, metrics, "slack", outcomeFailed))
}

func Test_nilMetricsIsNoop(t *testing.T) {
	var metrics *Metrics
	metrics.observe("slack", outcomeDelivered)
}

func Test_metricsPush(t *testing.T) {
	var method, path, body string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	metrics := NewMetrics()
	metrics.observe("slack", outcomeDelivered)

	err := metrics.Push(context.Background(), gateway.URL, "test/test", "CI")
	assert.Nil(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Contains(t, path, "/metrics/job/ci_notify")
	assert.Contains(t, path, "workflow/CI")
	assert.Contains(t, body, "ci_notify_notifications_total")
}
