package health

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// OrderStoreChecker сообщает размер хранилища заказов. Хранилище в памяти,
// поэтому проверка unhealthy только при отсутствии хранилища.
type OrderStoreChecker struct {
	store domain.OrderStore
}

// NewOrderStoreChecker создаёт проверку хранилища заказов.
func NewOrderStoreChecker(store domain.OrderStore) *OrderStoreChecker {
	return &OrderStoreChecker{store: store}
}

// Check выполняет проверку
func (c *OrderStoreChecker) Check() Check {
	start := time.Now()
	if c.store == nil {
		return Check{Name: "order_store", Status: StatusUnhealthy, Message: "order store is not initialized"}
	}
	return Check{
		Name:       "order_store",
		Status:     StatusHealthy,
		Message:    fmt.Sprintf("%d orders", c.store.Len()),
		DurationMs: time.Since(start).Milliseconds(),
	}
}

// OutboxChecker переходит в degraded, когда очередь кухонных тикетов
// превышает порог.
type OutboxChecker struct {
	repo      domain.OutboxRepository
	threshold int
}

// NewOutboxChecker создаёт проверку backlog outbox.
func NewOutboxChecker(repo domain.OutboxRepository, threshold int) *OutboxChecker {
	return &OutboxChecker{repo: repo, threshold: threshold}
}

// Check выполняет проверку
func (c *OutboxChecker) Check() Check {
	start := time.Now()
	stats, err := c.repo.Stats()
	duration := time.Since(start).Milliseconds()
	if err != nil {
		return Check{Name: "outbox", Status: StatusUnhealthy, Message: err.Error(), DurationMs: duration}
	}

	check := Check{
		Name:       "outbox",
		Status:     StatusHealthy,
		Message:    fmt.Sprintf("%d pending", stats.PendingCount),
		DurationMs: duration,
	}
	if c.threshold > 0 && stats.PendingCount > c.threshold {
		check.Status = StatusDegraded
	}
	return check
}
