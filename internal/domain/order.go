package domain

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OrderKind — вариант заказа. Поведение расчёта суммы выбирается по нему.
type OrderKind string

const (
	// OrderKindStandard — обычный заказ без скидки.
	OrderKindStandard OrderKind = "standard"
	// OrderKindBulk — оптовый заказ с процентной скидкой.
	OrderKindBulk OrderKind = "bulk"
)

// DefaultBulkDiscountPercentage — скидка оптового заказа по умолчанию, в процентах.
const DefaultBulkDiscountPercentage = 10

// Valid проверяет, что вариант заказа поддерживается.
func (k OrderKind) Valid() bool {
	switch k {
	case OrderKindStandard, OrderKindBulk:
		return true
	default:
		return false
	}
}

// Order агрегирует блюда клиента и подписанных на заказ наблюдателей.
// Оптовый заказ отличается только тегом Kind и процентом скидки.
type Order struct {
	mu sync.RWMutex

	id                 string
	kind               OrderKind
	customer           *Customer
	dishes             []Dish
	discountPercentage int
	observers          []KitchenNotifier
	createdAt          time.Time
}

// NewOrder создаёт обычный заказ.
func NewOrder(customer *Customer) *Order {
	return newOrder(OrderKindStandard, customer, 0)
}

// NewBulkOrder создаёт оптовый заказ со скидкой DefaultBulkDiscountPercentage.
func NewBulkOrder(customer *Customer) *Order {
	return newOrder(OrderKindBulk, customer, DefaultBulkDiscountPercentage)
}

// NewBulkOrderWithDiscount создаёт оптовый заказ с заданной скидкой. Диапазон не проверяется.
func NewBulkOrderWithDiscount(customer *Customer, percentage int) *Order {
	return newOrder(OrderKindBulk, customer, percentage)
}

func newOrder(kind OrderKind, customer *Customer, discount int) *Order {
	return &Order{
		id:                 uuid.NewString(),
		kind:               kind,
		customer:           customer,
		discountPercentage: discount,
		createdAt:          time.Now().UTC(),
	}
}

// ID возвращает идентификатор заказа.
func (o *Order) ID() string { return o.id }

// Kind возвращает вариант заказа.
func (o *Order) Kind() OrderKind { return o.kind }

// IsBulk сообщает, является ли заказ оптовым.
func (o *Order) IsBulk() bool { return o.kind == OrderKindBulk }

// Customer возвращает клиента заказа (общий указатель, не копию).
func (o *Order) Customer() *Customer { return o.customer }

// CreatedAt возвращает момент создания заказа.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Dishes возвращает копию блюд в порядке добавления.
func (o *Order) Dishes() []Dish {
	o.mu.RLock()
	defer o.mu.RUnlock()

	result := make([]Dish, len(o.dishes))
	copy(result, o.dishes)
	return result
}

// DiscountPercentage возвращает скидку и true для оптового заказа, (0, false) — для обычного.
func (o *Order) DiscountPercentage() (int, bool) {
	if o.kind != OrderKindBulk {
		return 0, false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.discountPercentage, true
}

// SetDiscountPercentage меняет скидку оптового заказа. Значения вне 0..100 допустимы.
func (o *Order) SetDiscountPercentage(percentage int) error {
	if o.kind != OrderKindBulk {
		return ErrDiscountNotApplicable
	}
	o.mu.Lock()
	o.discountPercentage = percentage
	o.mu.Unlock()
	return nil
}

// AddDish добавляет блюдо и синхронно уведомляет наблюдателей в порядке подписки.
// Блюдо уже добавлено к моменту вызова Notify.
func (o *Order) AddDish(dish Dish) {
	o.mu.Lock()
	o.dishes = append(o.dishes, dish)
	observers := make([]KitchenNotifier, len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	for _, observer := range observers {
		observer.Notify(o)
	}
}

// Subtotal возвращает сумму цен блюд без учёта скидки.
func (o *Order) Subtotal() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.subtotalLocked()
}

func (o *Order) subtotalLocked() float64 {
	var sum float64
	for _, d := range o.dishes {
		sum += d.Price
	}
	return sum
}

// CalculateTotal возвращает итог заказа. Для оптового заказа: base × (1 − pct/100).
func (o *Order) CalculateTotal() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	base := o.subtotalLocked()
	switch o.kind {
	case OrderKindBulk:
		return base - base*(float64(o.discountPercentage)/100)
	default:
		return base
	}
}

// Attach подписывает наблюдателя на добавление блюд. nil игнорируется.
func (o *Order) Attach(observer KitchenNotifier) {
	if observer == nil {
		return
	}
	o.mu.Lock()
	o.observers = append(o.observers, observer)
	o.mu.Unlock()
}

// Detach удаляет первое вхождение наблюдателя или возвращает ErrObserverNotAttached.
// Несравнимые наблюдатели (функции, значения со слайсами или map) найти нельзя:
// для них Detach всегда возвращает ErrObserverNotAttached.
func (o *Order) Detach(observer KitchenNotifier) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, existing := range o.observers {
		if sameObserver(existing, observer) {
			o.observers = append(o.observers[:i:i], o.observers[i+1:]...)
			return nil
		}
	}
	return ErrObserverNotAttached
}

// sameObserver сравнивает наблюдателей через ==, только если оба значения сравнимы.
func sameObserver(a, b KitchenNotifier) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// ObserverCount возвращает количество подписанных наблюдателей.
func (o *Order) ObserverCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.observers)
}

func (o *Order) String() string {
	dishes := o.Dishes()
	parts := make([]string, len(dishes))
	for i, d := range dishes {
		parts[i] = d.String()
	}
	list := "[" + strings.Join(parts, ", ") + "]"

	if pct, ok := o.DiscountPercentage(); ok {
		return fmt.Sprintf("BulkOrder(customer=%s, dishes=%s, discount=%d%%)", o.customer, list, pct)
	}
	return fmt.Sprintf("Order(customer=%s, dishes=%s)", o.customer, list)
}
