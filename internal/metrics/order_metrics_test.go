package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, label string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := vec.WithLabelValues(label).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewOrderMetrics(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	if m.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if m.dishesAdded == nil {
		t.Error("dishesAdded counter should not be nil")
	}
	if m.ordersStored == nil {
		t.Error("ordersStored counter should not be nil")
	}
	if m.storedOrders == nil {
		t.Error("storedOrders gauge should not be nil")
	}
	if m.orderTotal == nil {
		t.Error("orderTotal histogram should not be nil")
	}
}

func TestNewOrderMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewOrderMetricsWithRegisterer(reg)
	second := NewOrderMetricsWithRegisterer(reg)

	first.RecordOrderCreated(domain.OrderKindBulk)
	second.RecordOrderCreated(domain.OrderKindBulk)

	if got := counterValue(t, first.ordersCreated, "bulk"); got != 2 {
		t.Errorf("expected shared counter value 2, got %f", got)
	}
}

func TestRecordOrderCreated(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOrderCreated(domain.OrderKindStandard)
	m.RecordOrderCreated(domain.OrderKindStandard)
	m.RecordOrderCreated(domain.OrderKindBulk)

	if got := counterValue(t, m.ordersCreated, "standard"); got != 2 {
		t.Errorf("expected 2 standard orders, got %f", got)
	}
	if got := counterValue(t, m.ordersCreated, "bulk"); got != 1 {
		t.Errorf("expected 1 bulk order, got %f", got)
	}
}

func TestRecordOrderStored(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOrderStored(domain.OrderKindStandard, 350, 1)
	m.RecordOrderStored(domain.OrderKindBulk, 315, 2)

	metric := &dto.Metric{}
	if err := m.ordersStored.Write(metric); err != nil {
		t.Fatalf("failed to write counter: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("expected 2 stored orders, got %f", metric.Counter.GetValue())
	}

	gauge := &dto.Metric{}
	if err := m.storedOrders.Write(gauge); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gauge.Gauge.GetValue() != 2 {
		t.Errorf("expected store size 2, got %f", gauge.Gauge.GetValue())
	}

	hist := &dto.Metric{}
	observer, err := m.orderTotal.GetMetricWithLabelValues("bulk")
	if err != nil {
		t.Fatalf("failed to get histogram: %v", err)
	}
	if err := observer.(prometheus.Histogram).Write(hist); err != nil {
		t.Fatalf("failed to write histogram: %v", err)
	}
	if hist.Histogram.GetSampleCount() != 1 {
		t.Errorf("expected 1 bulk sample, got %d", hist.Histogram.GetSampleCount())
	}
	if hist.Histogram.GetSampleSum() != 315 {
		t.Errorf("expected sample sum 315, got %f", hist.Histogram.GetSampleSum())
	}
}

func TestNotifier_CountsDishesByKind(t *testing.T) {
	m := NewOrderMetricsWithRegisterer(prometheus.NewRegistry())
	notifier := NewNotifier(m)

	standard := domain.NewOrder(domain.NewCustomer("Alice"))
	bulk := domain.NewBulkOrder(domain.NewCustomer("Bob"))
	standard.Attach(notifier)
	bulk.Attach(notifier)

	standard.AddDish(domain.NewDish("Pizza", 150))
	standard.AddDish(domain.NewDish("Sushi", 200))
	bulk.AddDish(domain.NewDish("Burger", 120))

	if got := counterValue(t, m.dishesAdded, "standard"); got != 2 {
		t.Errorf("expected 2 standard dishes, got %f", got)
	}
	if got := counterValue(t, m.dishesAdded, "bulk"); got != 1 {
		t.Errorf("expected 1 bulk dish, got %f", got)
	}
}
