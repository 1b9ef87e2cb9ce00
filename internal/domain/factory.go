package domain

import "strings"

// FactoryOption настраивает OrderFactory.
type FactoryOption func(*OrderFactory)

// WithBulkDiscount задаёт скидку, которую получают новые оптовые заказы.
func WithBulkDiscount(percentage int) FactoryOption {
	return func(f *OrderFactory) {
		f.bulkDiscount = percentage
	}
}

// WithObservers подписывает наблюдателей на каждый созданный заказ.
func WithObservers(observers ...KitchenNotifier) FactoryOption {
	return func(f *OrderFactory) {
		f.observers = append(f.observers, observers...)
	}
}

// OrderFactory создаёт заказ нужного варианта по строковому типу.
type OrderFactory struct {
	bulkDiscount int
	observers    []KitchenNotifier
}

// NewOrderFactory создаёт фабрику со скидкой DefaultBulkDiscountPercentage.
func NewOrderFactory(options ...FactoryOption) *OrderFactory {
	f := &OrderFactory{bulkDiscount: DefaultBulkDiscountPercentage}
	for _, option := range options {
		option(f)
	}
	return f
}

// CreateOrder создаёт заказ. kind сравнивается без учёта регистра: "bulk" даёт оптовый
// заказ, любая другая строка (включая пустую) — обычный. nil kind и nil customer — ошибки.
func (f *OrderFactory) CreateOrder(kind *string, customer *Customer) (*Order, error) {
	if customer == nil {
		return nil, ErrCustomerRequired
	}
	if kind == nil {
		return nil, ErrOrderKindRequired
	}

	var order *Order
	if strings.EqualFold(*kind, string(OrderKindBulk)) {
		order = NewBulkOrderWithDiscount(customer, f.bulkDiscount)
	} else {
		order = NewOrder(customer)
	}

	for _, observer := range f.observers {
		order.Attach(observer)
	}
	return order, nil
}

// KindPtr — вспомогательная функция для передачи типа заказа в CreateOrder.
func KindPtr(kind string) *string {
	return &kind
}
