package domain

import "fmt"

// Customer — клиент ресторана. Заказы хранят указатель на общего клиента.
type Customer struct {
	Name string
}

// NewCustomer создаёт клиента с указанным именем.
func NewCustomer(name string) *Customer {
	return &Customer{Name: name}
}

// Equal сравнивает клиентов по имени; nil равен только nil.
func (c *Customer) Equal(other *Customer) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name
}

func (c *Customer) String() string {
	if c == nil {
		return "Customer(<nil>)"
	}
	return fmt.Sprintf("Customer(name=%q)", c.Name)
}
