package domain

import "time"

const (
	// TimelineDishAdded — в заказ добавлено блюдо.
	TimelineDishAdded = "dish_added"
	// TimelineOrderStored — заказ сохранён в хранилище.
	TimelineOrderStored = "order_stored"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}

// KitchenEventDishAdded — тип события outbox о добавлении блюда в заказ.
const KitchenEventDishAdded = "kitchen.dish_added"
