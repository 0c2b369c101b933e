package whatsappx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts webhook and send traffic. A nil *Metrics records nothing.
type Metrics struct {
	webhooks     *prometheus.CounterVec
	sends        *prometheus.CounterVec
	sendDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		webhooks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wacloud",
			Name:      "webhooks_total",
			Help:      "Webhook requests by event kind and outcome",
		}, []string{"kind", "result"}),
		sends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wacloud",
			Name:      "messages_sent_total",
			Help:      "Outbound messages by type and outcome",
		}, []string{"type", "result"}),
		sendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wacloud",
			Name:      "send_duration_seconds",
			Help:      "Latency of Cloud API send requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}
}

func (m *Metrics) webhook(kind, result string) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) sent(msgType string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.sends.WithLabelValues(msgType, result).Inc()
	m.sendDuration.WithLabelValues(msgType).Observe(time.Since(started).Seconds())
}
