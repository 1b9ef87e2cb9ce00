package app

import (
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/messaging/kafka"
)

// Config описывает настройки запуска приложения.
type Config struct {
	LogLevel  string
	LogFormat string

	// BulkDiscount — скидка, которую фабрика назначает оптовым заказам.
	BulkDiscount int

	// MetricsAddr пустой: демонстрация выполняется и процесс завершается.
	MetricsAddr string

	KafkaBrokers      []string
	KafkaTopic        string
	OutboxMaxAttempts int
	OutboxRetryDelay  time.Duration

	// OutboxPollInterval — пауза между фоновыми отправками тикетов,
	// пока процесс живёт ради MetricsAddr.
	OutboxPollInterval time.Duration
}

// DefaultConfig возвращает конфигурацию, при которой программа просто
// выполняет демонстрационный сценарий.
func DefaultConfig() Config {
	return Config{
		LogLevel:           "info",
		LogFormat:          "text",
		BulkDiscount:       domain.DefaultBulkDiscountPercentage,
		KafkaTopic:         kafka.TopicKitchenEvents,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   50 * time.Millisecond,
		OutboxPollInterval: time.Second,
	}
}
