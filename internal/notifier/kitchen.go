// Package notifier содержит наблюдателей заказа: вывод для кухни,
// запись хронологии и постановку кухонных тикетов в outbox.
package notifier

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// Kitchen печатает уведомление для кухни при каждом добавлении блюда.
type Kitchen struct {
	out    io.Writer
	logger *log.Entry
}

// NewKitchen создаёт уведомитель, пишущий в out (по умолчанию os.Stdout).
func NewKitchen(out io.Writer, logger *log.Entry) *Kitchen {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = log.WithField("component", "kitchen-notifier")
	}
	return &Kitchen{out: out, logger: logger}
}

// Notify выводит заголовок заказа и текущий список блюд.
func (k *Kitchen) Notify(order *domain.Order) {
	var header string
	if pct, ok := order.DiscountPercentage(); ok {
		header = fmt.Sprintf("Bulk Order for %s with %d%% discount", customerName(order), pct)
	} else {
		header = fmt.Sprintf("Standard Order for %s", customerName(order))
	}

	_, err := fmt.Fprintf(k.out, "Kitchen notified of new order: %s\nItems: %s\n", header, FormatItems(order.Dishes()))
	if err != nil {
		k.logger.WithError(err).WithField("order_id", order.ID()).Warn("failed to write kitchen notification")
	}
}

// FormatItems форматирует блюда как "Pizza ($150), Sushi ($200)".
func FormatItems(dishes []domain.Dish) string {
	parts := make([]string, len(dishes))
	for i, d := range dishes {
		parts[i] = fmt.Sprintf("%s ($%s)", d.Name, domain.FormatPrice(d.Price))
	}
	return strings.Join(parts, ", ")
}

func customerName(order *domain.Order) string {
	if c := order.Customer(); c != nil {
		return c.Name
	}
	return ""
}

var _ domain.KitchenNotifier = (*Kitchen)(nil)
