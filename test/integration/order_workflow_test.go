package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama/mocks"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/restaurant/internal/metrics"
	"github.com/vladislavdragonenkov/restaurant/internal/notifier"
	"github.com/vladislavdragonenkov/restaurant/internal/service/outbox"
	"github.com/vladislavdragonenkov/restaurant/internal/storage/memory"
)

// OrderWorkflowTestSuite проверяет путь заказа от меню до хранилища и Kafka.
type OrderWorkflowTestSuite struct {
	suite.Suite
	logger   *log.Entry
	kitchen  *bytes.Buffer
	store    *memory.OrderStore
	timeline domain.TimelineRepository
	outbox   *memory.OutboxRepository
	factory  *domain.OrderFactory
	menu     *domain.Menu
}

func (suite *OrderWorkflowTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	suite.logger = baseLogger.WithField("component", "integration-test")

	suite.kitchen = &bytes.Buffer{}
	suite.store = memory.NewStandaloneOrderStore()
	suite.timeline = memory.NewTimelineRepository()
	suite.outbox = memory.NewOutboxRepository()

	suite.factory = domain.NewOrderFactory(domain.WithObservers(
		notifier.NewKitchen(suite.kitchen, suite.logger),
		notifier.NewTimeline(suite.timeline, suite.logger),
		notifier.NewOutbox(suite.outbox, suite.logger),
		metrics.NewNotifier(metrics.NewOrderMetricsWithRegisterer(prometheus.NewRegistry())),
	))

	suite.menu = domain.NewMenu()
	for _, dish := range []domain.Dish{
		domain.NewDish("Pizza", 150),
		domain.NewDish("Sushi", 200),
		domain.NewDish("Burger", 120),
		domain.NewDish("Salad", 80),
	} {
		suite.menu.AddDish(dish)
	}
}

func (suite *OrderWorkflowTestSuite) createOrder(kind, customer string, dishes ...string) *domain.Order {
	order, err := suite.factory.CreateOrder(domain.KindPtr(kind), domain.NewCustomer(customer))
	suite.Require().NoError(err)

	for _, name := range dishes {
		var found bool
		for _, dish := range suite.menu.ListDishes() {
			if dish.Name == name {
				order.AddDish(dish)
				found = true
				break
			}
		}
		suite.Require().True(found, "dish %s is not on the menu", name)
	}
	return order
}

func (suite *OrderWorkflowTestSuite) TestMenuLookup() {
	suite.True(suite.menu.ContainsDish(domain.NewDish("Pizza", 150)))
	suite.False(suite.menu.ContainsDish(domain.NewDish("Pizza", 140)))
	suite.Equal(4, suite.menu.Len())
}

func (suite *OrderWorkflowTestSuite) TestStandardAndBulkOrders() {
	alice := suite.createOrder("standard", "Alice", "Pizza", "Sushi")
	bob := suite.createOrder("bulk", "Bob", "Burger", "Salad", "Pizza")

	suite.Equal(350.0, alice.CalculateTotal())
	suite.Equal(350.0, bob.Subtotal())
	suite.Equal(315.0, bob.CalculateTotal())

	suite.store.AddOrder(alice)
	suite.store.AddOrder(bob)

	orders := suite.store.ListOrders()
	suite.Require().Len(orders, 2)
	suite.Same(alice, orders[0])
	suite.Same(bob, orders[1])
}

func (suite *OrderWorkflowTestSuite) TestKitchenOutput() {
	suite.createOrder("standard", "Alice", "Pizza", "Sushi")
	suite.createOrder("bulk", "Bob", "Burger")

	expected := "Kitchen notified of new order: Standard Order for Alice\n" +
		"Items: Pizza ($150)\n" +
		"Kitchen notified of new order: Standard Order for Alice\n" +
		"Items: Pizza ($150), Sushi ($200)\n" +
		"Kitchen notified of new order: Bulk Order for Bob with 10% discount\n" +
		"Items: Burger ($120)\n"
	suite.Equal(expected, suite.kitchen.String())
}

func (suite *OrderWorkflowTestSuite) TestTimelineTracksDishes() {
	order := suite.createOrder("standard", "Alice", "Pizza", "Sushi")

	events, err := suite.timeline.List(order.ID())
	suite.Require().NoError(err)
	suite.Require().Len(events, 2)
	suite.Equal("Pizza", events[0].Reason)
	suite.Equal("Sushi", events[1].Reason)
}

func (suite *OrderWorkflowTestSuite) TestKitchenTicketsReachKafka() {
	bob := suite.createOrder("bulk", "Bob", "Burger", "Salad", "Pizza")

	mockProducer := mocks.NewSyncProducer(suite.T(), nil)
	var totals []float64
	for i := 0; i < 3; i++ {
		mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var envelope kafka.Envelope
			if err := json.Unmarshal(val, &envelope); err != nil {
				return err
			}
			var ticket notifier.KitchenTicket
			if err := json.Unmarshal(envelope.Payload, &ticket); err != nil {
				return err
			}
			totals = append(totals, ticket.Total)
			return nil
		})
	}

	producer := kafka.NewProducerWithSyncProducer(mockProducer, suite.logger)
	dispatcher := outbox.NewDispatcher(
		suite.outbox,
		kafka.NewOutboxPublisher(producer, kafka.TopicKitchenEvents),
		outbox.WithLogger(suite.logger),
		outbox.WithRetryDelay(0),
	)

	result := dispatcher.Drain(context.Background())
	suite.Equal(outbox.Result{Sent: 3}, result)
	suite.Require().NoError(mockProducer.Close())

	suite.Equal([]float64{108, 180, 315}, totals)
	suite.Equal(315.0, bob.CalculateTotal())

	stats, err := suite.outbox.Stats()
	suite.Require().NoError(err)
	suite.Zero(stats.PendingCount)
}

func (suite *OrderWorkflowTestSuite) TestFactoryRejectsMissingInput() {
	_, err := suite.factory.CreateOrder(domain.KindPtr("bulk"), nil)
	suite.ErrorIs(err, domain.ErrCustomerRequired)

	_, err = suite.factory.CreateOrder(nil, domain.NewCustomer("Alice"))
	suite.ErrorIs(err, domain.ErrOrderKindRequired)
}

func TestOrderWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(OrderWorkflowTestSuite))
}

func TestSharedOrderStore(t *testing.T) {
	memory.ResetInstance()
	t.Cleanup(memory.ResetInstance)

	first := memory.Instance()
	first.AddOrder(domain.NewOrder(domain.NewCustomer("Alice")))

	second := memory.Instance()
	require.Same(t, first, second)
	require.Equal(t, 1, second.Len())

	_, err := memory.NewOrderStore()
	require.ErrorIs(t, err, domain.ErrStoreAlreadyInitialized)
}
