package app

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/metrics"
	"github.com/vladislavdragonenkov/restaurant/internal/notifier"
	"github.com/vladislavdragonenkov/restaurant/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Store        domain.OrderStore
	Factory      *domain.OrderFactory
	OutboxRepo   domain.OutboxRepository
	TimelineRepo domain.TimelineRepository
	Metrics      *metrics.OrderMetrics
	OutboxStats  *metrics.OutboxMetrics
	Logger       *log.Entry
}

// NewDependencies собирает зависимости вокруг общего экземпляра хранилища
// заказов и регистрирует метрики в prometheus.DefaultRegisterer.
func NewDependencies(cfg Config, out io.Writer, logger *log.Entry) *Dependencies {
	return NewDependenciesWithStore(cfg, out, memory.Instance(), prometheus.DefaultRegisterer, logger)
}

// NewDependenciesWithStore собирает зависимости поверх переданного хранилища.
// Каждый заказ фабрики получает наблюдателей в порядке: кухня, хронология,
// outbox, метрики.
func NewDependenciesWithStore(
	cfg Config,
	out io.Writer,
	store domain.OrderStore,
	registerer prometheus.Registerer,
	logger *log.Entry,
) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	outboxRepo := memory.NewOutboxRepository()
	timelineRepo := memory.NewTimelineRepository()
	orderMetrics := metrics.NewOrderMetricsWithRegisterer(registerer)

	factory := domain.NewOrderFactory(
		domain.WithBulkDiscount(cfg.BulkDiscount),
		domain.WithObservers(
			notifier.NewKitchen(out, logger.WithField("component", "kitchen-notifier")),
			notifier.NewTimeline(timelineRepo, logger.WithField("component", "timeline-notifier")),
			notifier.NewOutbox(outboxRepo, logger.WithField("component", "outbox-notifier")),
			metrics.NewNotifier(orderMetrics),
		),
	)

	return &Dependencies{
		Store:        store,
		Factory:      factory,
		OutboxRepo:   outboxRepo,
		TimelineRepo: timelineRepo,
		Metrics:      orderMetrics,
		OutboxStats:  metrics.NewOutboxMetricsWithRegisterer(registerer),
		Logger:       logger,
	}
}
