package acceptance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/storage/memory"
)

// countingKitchen считает уведомления кухни.
type countingKitchen struct {
	count int
}

func (k *countingKitchen) Notify(*domain.Order) { k.count++ }

type ordersTestContext struct {
	menu    *domain.Menu
	prices  map[string]float64
	factory *domain.OrderFactory
	kitchen *countingKitchen
	store   *memory.OrderStore
	orders  map[string]*domain.Order
	err     error
}

func (c *ordersTestContext) reset() {
	c.menu = domain.NewMenu()
	c.prices = make(map[string]float64)
	c.kitchen = &countingKitchen{}
	c.factory = domain.NewOrderFactory(domain.WithObservers(c.kitchen))
	c.store = memory.NewStandaloneOrderStore()
	c.orders = make(map[string]*domain.Order)
	c.err = nil
}

func (c *ordersTestContext) aMenuWithDishes(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		name := row.Cells[0].Value
		price, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("price of %s: %w", name, err)
		}
		c.menu.AddDish(domain.NewDish(name, price))
		c.prices[name] = price
	}
	return nil
}

func (c *ordersTestContext) theMenuContains(name string, price float64) error {
	if !c.menu.ContainsDish(domain.NewDish(name, price)) {
		return fmt.Errorf("expected menu to contain %s ($%v)", name, price)
	}
	return nil
}

func (c *ordersTestContext) theMenuDoesNotContain(name string, price float64) error {
	if c.menu.ContainsDish(domain.NewDish(name, price)) {
		return fmt.Errorf("expected menu not to contain %s ($%v)", name, price)
	}
	return nil
}

func (c *ordersTestContext) anOrderFor(kind, customer string) error {
	order, err := c.factory.CreateOrder(domain.KindPtr(kind), domain.NewCustomer(customer))
	if err != nil {
		return err
	}
	c.orders[customer] = order
	return nil
}

func (c *ordersTestContext) order(customer string) (*domain.Order, error) {
	order, ok := c.orders[customer]
	if !ok {
		return nil, fmt.Errorf("no order for %s", customer)
	}
	return order, nil
}

func (c *ordersTestContext) customerOrders(customer, dish string) error {
	order, err := c.order(customer)
	if err != nil {
		return err
	}
	price, ok := c.prices[dish]
	if !ok {
		return fmt.Errorf("%s is not on the menu", dish)
	}
	order.AddDish(domain.NewDish(dish, price))
	return nil
}

func (c *ordersTestContext) theKitchenIsDetachedFrom(customer string) error {
	order, err := c.order(customer)
	if err != nil {
		return err
	}
	return order.Detach(c.kitchen)
}

func (c *ordersTestContext) theTotalIs(customer string, want float64) error {
	order, err := c.order(customer)
	if err != nil {
		return err
	}
	if got := order.CalculateTotal(); got != want {
		return fmt.Errorf("expected total %v for %s, got %v", want, customer, got)
	}
	return nil
}

func (c *ordersTestContext) theSubtotalIs(customer string, want float64) error {
	order, err := c.order(customer)
	if err != nil {
		return err
	}
	if got := order.Subtotal(); got != want {
		return fmt.Errorf("expected subtotal %v for %s, got %v", want, customer, got)
	}
	return nil
}

func (c *ordersTestContext) theDiscountIs(customer string, want int) error {
	order, err := c.order(customer)
	if err != nil {
		return err
	}
	got, ok := order.DiscountPercentage()
	if !ok {
		return fmt.Errorf("order for %s has no discount", customer)
	}
	if got != want {
		return fmt.Errorf("expected discount %d%%, got %d%%", want, got)
	}
	return nil
}

func (c *ordersTestContext) theKitchenReceivedNotifications(want int) error {
	if c.kitchen.count != want {
		return fmt.Errorf("expected %d kitchen notifications, got %d", want, c.kitchen.count)
	}
	return nil
}

func (c *ordersTestContext) anOrderIsCreatedWithoutACustomer(kind string) error {
	_, c.err = c.factory.CreateOrder(domain.KindPtr(kind), nil)
	return nil
}

func (c *ordersTestContext) theOrderIsRejectedAsAnInvalidArgument() error {
	if c.err == nil {
		return errors.New("expected an error, got nil")
	}
	if !domain.IsInvalidArgument(c.err) {
		return fmt.Errorf("expected invalid argument, got %v", c.err)
	}
	return nil
}

func (c *ordersTestContext) theOrderIsStored(customer string) error {
	order, err := c.order(customer)
	if err != nil {
		return err
	}
	c.store.AddOrder(order)
	return nil
}

func (c *ordersTestContext) theStoreListsOrdersFor(count int, customers string) error {
	orders := c.store.ListOrders()
	if len(orders) != count {
		return fmt.Errorf("expected %d stored orders, got %d", count, len(orders))
	}
	names := make([]string, len(orders))
	for i, order := range orders {
		names[i] = order.Customer().Name
	}
	if got := strings.Join(names, ", "); got != customers {
		return fmt.Errorf("expected orders for %q, got %q", customers, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ordersTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a menu with dishes:$`, tc.aMenuWithDishes)
	ctx.Step(`^a "([^"]*)" order for "([^"]*)"$`, tc.anOrderFor)

	// When steps
	ctx.Step(`^"([^"]*)" orders "([^"]*)"$`, tc.customerOrders)
	ctx.Step(`^the kitchen is detached from "([^"]*)"'s order$`, tc.theKitchenIsDetachedFrom)
	ctx.Step(`^a "([^"]*)" order is created without a customer$`, tc.anOrderIsCreatedWithoutACustomer)
	ctx.Step(`^the order for "([^"]*)" is stored$`, tc.theOrderIsStored)

	// Then steps
	ctx.Step(`^the menu contains "([^"]*)" priced (\d+(?:\.\d+)?)$`, tc.theMenuContains)
	ctx.Step(`^the menu does not contain "([^"]*)" priced (\d+(?:\.\d+)?)$`, tc.theMenuDoesNotContain)
	ctx.Step(`^the total for "([^"]*)" is (\d+(?:\.\d+)?)$`, tc.theTotalIs)
	ctx.Step(`^the subtotal for "([^"]*)" is (\d+(?:\.\d+)?)$`, tc.theSubtotalIs)
	ctx.Step(`^the discount for "([^"]*)" is (\d+)%$`, tc.theDiscountIs)
	ctx.Step(`^the kitchen received (\d+) notifications$`, tc.theKitchenReceivedNotifications)
	ctx.Step(`^the order is rejected as an invalid argument$`, tc.theOrderIsRejectedAsAnInvalidArgument)
	ctx.Step(`^the store lists (\d+) orders for "([^"]*)"$`, tc.theStoreListsOrdersFor)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
