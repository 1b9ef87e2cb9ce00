package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты доставки кухонного тикета.
const (
	DeliverySent             = "sent"
	DeliveryRetry            = "retry"
	DeliveryFailed           = "failed"
	DeliveryDeadLettered     = "dead_lettered"
	DeliveryDeadLetterFailed = "dead_letter_failed"
)

// OutboxMetrics описывает доставку кухонных тикетов из outbox.
type OutboxMetrics struct {
	deliveries *prometheus.CounterVec
	pending    prometheus.Gauge
	oldestAge  prometheus.Gauge
}

// NewOutboxMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewOutboxMetrics() *OutboxMetrics {
	return NewOutboxMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOutboxMetricsWithRegisterer регистрирует метрики в указанном registerer.
func NewOutboxMetricsWithRegisterer(registerer prometheus.Registerer) *OutboxMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OutboxMetrics{
		deliveries: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "restaurant_kitchen_ticket_deliveries_total",
			Help: "Kitchen ticket delivery attempts grouped by result",
		}, []string{"result"}),
		pending: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "restaurant_kitchen_tickets_pending",
			Help: "Kitchen tickets waiting in the outbox",
		}),
		oldestAge: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "restaurant_kitchen_ticket_oldest_pending_age_seconds",
			Help: "Age in seconds of the oldest pending kitchen ticket",
		}),
	}
}

// RecordDelivery учитывает результат одной попытки доставки.
func (m *OutboxMetrics) RecordDelivery(result string) {
	m.deliveries.WithLabelValues(result).Inc()
}

// SetBacklog обновляет размер очереди и возраст самого старого тикета.
func (m *OutboxMetrics) SetBacklog(pending int, oldest, now time.Time) {
	m.pending.Set(float64(pending))
	if pending == 0 || oldest.IsZero() {
		m.oldestAge.Set(0)
		return
	}
	m.oldestAge.Set(max(now.Sub(oldest).Seconds(), 0))
}
