package domain

import (
	"fmt"
	"strconv"
)

// Dish — позиция меню: название и цена. Сравнивается по значению.
type Dish struct {
	Name  string
	Price float64
}

// NewDish создаёт блюдо.
func NewDish(name string, price float64) Dish {
	return Dish{Name: name, Price: price}
}

// Equal сообщает, совпадает ли other с блюдом по названию и цене.
// Значения других типов никогда не равны блюду.
func (d Dish) Equal(other any) bool {
	switch o := other.(type) {
	case Dish:
		return d == o
	case *Dish:
		return o != nil && d == *o
	default:
		return false
	}
}

// FormatPrice выводит цену без лишних нулей: 150, 315, 12.5.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func (d Dish) String() string {
	return fmt.Sprintf("Dish(name=%q, price=%s)", d.Name, FormatPrice(d.Price))
}
