package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/notifier"
)

// printer запоминает первую ошибку записи и пропускает дальнейший вывод.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// RunDemo выполняет демонстрационный сценарий: меню, стандартный заказ Alice,
// оптовый заказ Bob со скидкой и вывод содержимого хранилища.
func RunDemo(out io.Writer, deps *Dependencies) error {
	p := &printer{w: out}

	p.printf("===== Restaurant Order Management System =====\n\n")

	p.printf("Setting up menu...\n")
	menu := domain.NewMenu()
	menu.AddDish(domain.NewDish("Pizza", 150))
	menu.AddDish(domain.NewDish("Sushi", 200))
	menu.AddDish(domain.NewDish("Burger", 120))
	menu.AddDish(domain.NewDish("Salad", 80))

	p.printf("Menu items:\n")
	for _, dish := range menu.ListDishes() {
		p.printf("- %s: $%s\n", dish.Name, domain.FormatPrice(dish.Price))
	}
	p.printf("\n")

	pizza := domain.NewDish("Pizza", 150)
	if menu.ContainsDish(pizza) {
		p.printf("Menu contains %s\n\n", pizza.Name)
	}

	p.printf("Creating a standard order...\n")
	standard, err := createOrder(deps, "standard", domain.NewCustomer("Alice"))
	if err != nil {
		return err
	}

	p.printf("Adding dishes to Alice's order...\n")
	standard.AddDish(domain.NewDish("Pizza", 150))
	standard.AddDish(domain.NewDish("Sushi", 200))
	p.printf("Total for Alice's order: $%s\n\n", domain.FormatPrice(standard.CalculateTotal()))

	p.printf("Creating a bulk order with discount...\n")
	bulk, err := createOrder(deps, "bulk", domain.NewCustomer("Bob"))
	if err != nil {
		return err
	}

	p.printf("Adding dishes to Bob's bulk order...\n")
	bulk.AddDish(domain.NewDish("Burger", 120))
	bulk.AddDish(domain.NewDish("Salad", 80))
	bulk.AddDish(domain.NewDish("Pizza", 150))

	pct, _ := bulk.DiscountPercentage()
	p.printf("Original total for Bob's order: $%s\n", domain.FormatPrice(bulk.Subtotal()))
	p.printf("Discounted total (%d%% off): $%s\n\n", pct, formatDiscountedTotal(bulk.CalculateTotal()))

	p.printf("Storing orders in database...\n")
	storeOrder(deps, standard)
	storeOrder(deps, bulk)

	p.printf("\nCurrent orders in DB:\n")
	for i, order := range deps.Store.ListOrders() {
		p.printf("%d. %s\n", i+1, FormatStoredOrder(order))
	}

	return p.err
}

func createOrder(deps *Dependencies, kind string, customer *domain.Customer) (*domain.Order, error) {
	order, err := deps.Factory.CreateOrder(domain.KindPtr(kind), customer)
	if err != nil {
		return nil, fmt.Errorf("create %s order: %w", kind, err)
	}
	deps.Metrics.RecordOrderCreated(order.Kind())
	deps.Logger.WithField("order_id", order.ID()).WithField("kind", order.Kind()).Debug("order created")
	return order, nil
}

func storeOrder(deps *Dependencies, order *domain.Order) {
	deps.Store.AddOrder(order)
	size := deps.Store.Len()
	deps.Metrics.RecordOrderStored(order.Kind(), order.CalculateTotal(), size)

	err := deps.TimelineRepo.Append(domain.TimelineEvent{
		OrderID:  order.ID(),
		Type:     domain.TimelineOrderStored,
		Reason:   fmt.Sprintf("position %d", size),
		Occurred: time.Now().UTC(),
	})
	if err != nil {
		deps.Logger.WithError(err).WithField("order_id", order.ID()).Warn("failed to append timeline event")
	}
}

// FormatStoredOrder форматирует заказ для списка хранилища:
// "Order for Alice: Pizza ($150)" или
// "Bulk Order for Bob: Burger ($120) with 10% discount".
func FormatStoredOrder(order *domain.Order) string {
	name := ""
	if c := order.Customer(); c != nil {
		name = c.Name
	}
	items := notifier.FormatItems(order.Dishes())

	if pct, ok := order.DiscountPercentage(); ok {
		return fmt.Sprintf("Bulk Order for %s: %s with %d%% discount", name, items, pct)
	}
	return fmt.Sprintf("Order for %s: %s", name, items)
}

// formatDiscountedTotal всегда печатает дробную часть: 315 -> "315.0".
func formatDiscountedTotal(total float64) string {
	s := strconv.FormatFloat(total, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
