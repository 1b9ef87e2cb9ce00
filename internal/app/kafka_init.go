package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
	"github.com/vladislavdragonenkov/restaurant/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/restaurant/internal/service/outbox"
)

// initKafkaProducer инициализирует Kafka producer если brokers не пустой.
// Возвращает nil, nil если brokers пустой.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, kitchen tickets stay in outbox")
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}

// newKitchenDispatcher собирает доставку тикетов из outbox приложения.
// deadLetter может быть nil: тогда не доставленные тикеты только помечаются failed.
func newKitchenDispatcher(cfg Config, deps *Dependencies, publisher, deadLetter domain.OutboxPublisher) *outbox.Dispatcher {
	options := []outbox.Option{
		outbox.WithLogger(deps.Logger.WithField("component", "kitchen-dispatcher")),
		outbox.WithAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryDelay(cfg.OutboxRetryDelay),
		outbox.WithInterval(cfg.OutboxPollInterval),
	}
	if deps.OutboxStats != nil {
		options = append(options, outbox.WithMetrics(deps.OutboxStats))
	}
	if deadLetter != nil {
		options = append(options, outbox.WithDeadLetter(deadLetter))
	}
	return outbox.NewDispatcher(deps.OutboxRepo, publisher, options...)
}

// connectKitchen подключается к Kafka и возвращает доставку тикетов вместе
// с функцией закрытия producer. Без брокеров (или при ошибке подключения)
// возвращает nil: тикеты остаются в outbox.
func connectKitchen(cfg Config, deps *Dependencies) (*outbox.Dispatcher, func()) {
	logger := deps.Logger
	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err != nil || producer == nil {
		return nil, func() {}
	}

	publisher := kafka.NewOutboxPublisher(producer, cfg.KafkaTopic)
	deadLetter := kafka.NewOutboxPublisher(producer, publisher.Topic()+kafka.DLQTopicSuffix)
	logger.WithFields(log.Fields{
		"topic":       publisher.Topic(),
		"dead_letter": deadLetter.Topic(),
	}).Info("kitchen tickets go to kafka")

	return newKitchenDispatcher(cfg, deps, publisher, deadLetter), func() { closeKafka(producer, logger) }
}
