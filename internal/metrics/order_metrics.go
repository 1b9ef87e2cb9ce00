package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// OrderMetrics содержит метрики заказов ресторана.
type OrderMetrics struct {
	ordersCreated *prometheus.CounterVec
	dishesAdded   *prometheus.CounterVec
	ordersStored  prometheus.Counter
	storedOrders  prometheus.Gauge
	orderTotal    *prometheus.HistogramVec
}

// NewOrderMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer регистрирует метрики в указанном registerer.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "restaurant_orders_created_total",
			Help: "Total number of orders created grouped by kind",
		}, []string{"kind"}),
		dishesAdded: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "restaurant_dishes_added_total",
			Help: "Total number of dishes added to orders grouped by order kind",
		}, []string{"kind"}),
		ordersStored: registerCounter(registerer, prometheus.CounterOpts{
			Name: "restaurant_orders_stored_total",
			Help: "Total number of orders registered in the order store",
		}),
		storedOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "restaurant_order_store_size",
			Help: "Current number of orders in the order store",
		}),
		orderTotal: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "restaurant_order_total",
			Help:    "Order totals at the moment the order is stored",
			Buckets: []float64{50, 100, 200, 350, 500, 1000, 2500, 5000},
		}, []string{"kind"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated(kind domain.OrderKind) {
	m.ordersCreated.WithLabelValues(string(kind)).Inc()
}

// RecordDishAdded увеличивает счётчик добавленных блюд.
func (m *OrderMetrics) RecordDishAdded(kind domain.OrderKind) {
	m.dishesAdded.WithLabelValues(string(kind)).Inc()
}

// RecordOrderStored фиксирует сохранение заказа, его итог и текущий размер хранилища.
func (m *OrderMetrics) RecordOrderStored(kind domain.OrderKind, total float64, storeSize int) {
	m.ordersStored.Inc()
	m.storedOrders.Set(float64(storeSize))
	m.orderTotal.WithLabelValues(string(kind)).Observe(total)
}

// Notifier — наблюдатель заказа, считающий добавленные блюда.
type Notifier struct {
	metrics *OrderMetrics
}

// NewNotifier создаёт наблюдателя поверх OrderMetrics.
func NewNotifier(metrics *OrderMetrics) *Notifier {
	return &Notifier{metrics: metrics}
}

// Notify учитывает добавленное блюдо.
func (n *Notifier) Notify(order *domain.Order) {
	n.metrics.RecordDishAdded(order.Kind())
}

var _ domain.KitchenNotifier = (*Notifier)(nil)
