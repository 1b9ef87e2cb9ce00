package domain

// Menu — упорядоченный список блюд. Дубликаты допускаются, удаление не поддерживается.
type Menu struct {
	dishes []Dish
}

// NewMenu создаёт пустое меню.
func NewMenu() *Menu {
	return &Menu{}
}

// AddDish добавляет блюдо в конец меню.
func (m *Menu) AddDish(dish Dish) {
	m.dishes = append(m.dishes, dish)
}

// ContainsDish ищет блюдо с тем же названием и ценой (линейный проход).
func (m *Menu) ContainsDish(dish Dish) bool {
	for _, d := range m.dishes {
		if d.Equal(dish) {
			return true
		}
	}
	return false
}

// ListDishes возвращает копию списка блюд в порядке добавления.
func (m *Menu) ListDishes() []Dish {
	result := make([]Dish, len(m.dishes))
	copy(result, m.dishes)
	return result
}

// Len возвращает количество блюд в меню.
func (m *Menu) Len() int {
	return len(m.dishes)
}
