package notifier

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// Timeline записывает событие dish_added в хронологию заказа.
type Timeline struct {
	repo   domain.TimelineRepository
	logger *log.Entry
	now    func() time.Time
}

// NewTimeline создаёт наблюдателя поверх репозитория хронологии.
func NewTimeline(repo domain.TimelineRepository, logger *log.Entry) *Timeline {
	if logger == nil {
		logger = log.WithField("component", "timeline-notifier")
	}
	return &Timeline{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Notify добавляет в хронологию последнее добавленное блюдо.
func (t *Timeline) Notify(order *domain.Order) {
	dishes := order.Dishes()
	if len(dishes) == 0 {
		return
	}
	last := dishes[len(dishes)-1]

	err := t.repo.Append(domain.TimelineEvent{
		OrderID:  order.ID(),
		Type:     domain.TimelineDishAdded,
		Reason:   last.Name,
		Occurred: t.now(),
	})
	if err != nil {
		t.logger.WithError(err).WithField("order_id", order.ID()).Warn("failed to append timeline event")
	}
}

var _ domain.KitchenNotifier = (*Timeline)(nil)
