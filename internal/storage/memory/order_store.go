package memory

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

var (
	instanceMu sync.Mutex
	instance   *OrderStore
)

// OrderStore — in-memory хранилище всех заказов процесса.
// Общий экземпляр доступен через Instance; для DI и тестов — NewStandaloneOrderStore.
type OrderStore struct {
	mu     sync.RWMutex
	orders []*domain.Order
	logger *log.Entry
}

// Instance возвращает общий экземпляр хранилища, создавая его при первом обращении.
func Instance() *OrderStore {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == nil {
		instance = newOrderStore()
		instance.logger.Debug("order store initialized")
	}
	return instance
}

// NewOrderStore явно создаёт общий экземпляр. Если он уже существует,
// возвращает ErrStoreAlreadyInitialized, а не существующий экземпляр.
func NewOrderStore() (*OrderStore, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return nil, domain.ErrStoreAlreadyInitialized
	}
	instance = newOrderStore()
	return instance, nil
}

// NewStandaloneOrderStore создаёт независимое хранилище, не затрагивая общий экземпляр.
func NewStandaloneOrderStore() *OrderStore {
	return newOrderStore()
}

// ResetInstance сбрасывает общий экземпляр. Используется только в тестах.
func ResetInstance() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = nil
}

func newOrderStore() *OrderStore {
	return &OrderStore{logger: log.WithField("component", "order-store")}
}

// AddOrder добавляет ссылку на заказ. Повторное добавление того же заказа не отсекается.
func (s *OrderStore) AddOrder(order *domain.Order) {
	s.mu.Lock()
	s.orders = append(s.orders, order)
	total := len(s.orders)
	s.mu.Unlock()

	if order != nil {
		s.logger.WithFields(log.Fields{
			"order_id":     order.ID(),
			"kind":         order.Kind(),
			"total_orders": total,
		}).Debug("order stored")
	}
}

// ListOrders возвращает копию списка заказов в порядке добавления.
func (s *OrderStore) ListOrders() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, len(s.orders))
	copy(result, s.orders)
	return result
}

// Len возвращает количество сохранённых заказов.
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

var _ domain.OrderStore = (*OrderStore)(nil)
