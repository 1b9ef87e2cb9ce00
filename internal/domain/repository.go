package domain

// OrderStore описывает хранилище всех принятых заказов.
type OrderStore interface {
	// AddOrder добавляет ссылку на заказ в конец списка, без дедупликации.
	AddOrder(order *Order)
	// ListOrders возвращает копию списка заказов в порядке добавления.
	ListOrders() []*Order
	// Len возвращает количество сохранённых заказов.
	Len() int
}
