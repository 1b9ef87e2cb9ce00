package notifier

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// TicketDish — блюдо в кухонном тикете.
type TicketDish struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// KitchenTicket — payload события kitchen.dish_added.
type KitchenTicket struct {
	OrderID            string       `json:"order_id"`
	Kind               string       `json:"kind"`
	Customer           string       `json:"customer"`
	Dish               TicketDish   `json:"dish"`
	Items              []TicketDish `json:"items"`
	DiscountPercentage *int         `json:"discount_percentage,omitempty"`
	Total              float64      `json:"total"`
	IssuedAt           time.Time    `json:"issued_at"`
}

// Outbox ставит кухонный тикет в transactional outbox на каждое добавленное блюдо.
type Outbox struct {
	repo   domain.OutboxRepository
	logger *log.Entry
	now    func() time.Time
}

// NewOutbox создаёт наблюдателя, пишущего тикеты в repo.
func NewOutbox(repo domain.OutboxRepository, logger *log.Entry) *Outbox {
	if logger == nil {
		logger = log.WithField("component", "outbox-notifier")
	}
	return &Outbox{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Notify сериализует тикет и ставит его в очередь на публикацию.
func (o *Outbox) Notify(order *domain.Order) {
	ticket := NewKitchenTicket(order, o.now())
	payload, err := json.Marshal(ticket)
	if err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID()).Error("failed to marshal kitchen ticket")
		return
	}

	msg, err := o.repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID(),
		EventType:     domain.KitchenEventDishAdded,
		Payload:       payload,
	})
	if err != nil {
		o.logger.WithError(err).WithField("order_id", order.ID()).Warn("failed to enqueue kitchen ticket")
		return
	}

	o.logger.WithFields(log.Fields{
		"order_id":  order.ID(),
		"outbox_id": msg.ID,
		"dish":      ticket.Dish.Name,
	}).Debug("kitchen ticket enqueued")
}

// NewKitchenTicket собирает тикет по текущему состоянию заказа.
func NewKitchenTicket(order *domain.Order, issuedAt time.Time) KitchenTicket {
	dishes := order.Dishes()
	items := make([]TicketDish, len(dishes))
	for i, d := range dishes {
		items[i] = TicketDish{Name: d.Name, Price: d.Price}
	}

	ticket := KitchenTicket{
		OrderID:  order.ID(),
		Kind:     string(order.Kind()),
		Customer: customerName(order),
		Items:    items,
		Total:    order.CalculateTotal(),
		IssuedAt: issuedAt,
	}
	if len(items) > 0 {
		ticket.Dish = items[len(items)-1]
	}
	if pct, ok := order.DiscountPercentage(); ok {
		ticket.DiscountPercentage = &pct
	}
	return ticket
}

var _ domain.KitchenNotifier = (*Outbox)(nil)
