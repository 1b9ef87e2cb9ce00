package kafka

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

const clientID = "restaurant"

// Message — одна запись для Kafka. Value сериализуется в JSON.
type Message struct {
	Topic   string
	Key     string
	Value   any
	Headers map[string]string
}

// Producer отправляет кухонные тикеты в Kafka синхронно: Send возвращается
// только после подтверждения брокером.
type Producer struct {
	sync   sarama.SyncProducer
	logger *log.Entry
	now    func() time.Time
}

// newSaramaConfig — idempotent producer с подтверждением от всех реплик.
// Тикеты одного заказа не должны дублироваться и переставляться.
func newSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// NewProducer подключается к брокерам.
func NewProducer(brokers []string) (*Producer, error) {
	sp, err := sarama.NewSyncProducer(brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("connect kafka %v: %w", brokers, err)
	}
	return NewProducerWithSyncProducer(sp, nil), nil
}

// NewProducerWithSyncProducer оборачивает готовый sarama.SyncProducer (в тестах — mocks).
func NewProducerWithSyncProducer(sp sarama.SyncProducer, logger *log.Entry) *Producer {
	if logger == nil {
		logger = log.WithField("component", "kafka-producer")
	}
	return &Producer{sync: sp, logger: logger, now: time.Now}
}

// Send сериализует msg.Value и ждёт подтверждения записи.
func (p *Producer) Send(msg Message) error {
	value, err := json.Marshal(msg.Value)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", msg.Topic, err)
	}

	record := &sarama.ProducerMessage{
		Topic:     msg.Topic,
		Key:       sarama.StringEncoder(msg.Key),
		Value:     sarama.ByteEncoder(value),
		Headers:   recordHeaders(msg.Headers),
		Timestamp: p.now(),
	}

	entry := p.logger.WithFields(log.Fields{"topic": msg.Topic, "key": msg.Key})
	partition, offset, err := p.sync.SendMessage(record)
	if err != nil {
		entry.WithError(err).Error("kafka rejected record")
		return fmt.Errorf("send %s record: %w", msg.Topic, err)
	}

	entry.WithFields(log.Fields{"partition": partition, "offset": offset}).Debug("record acknowledged")
	return nil
}

// recordHeaders возвращает заголовки в порядке ключей.
func recordHeaders(headers map[string]string) []sarama.RecordHeader {
	if len(headers) == 0 {
		return nil
	}
	out := make([]sarama.RecordHeader, 0, len(headers))
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		out = append(out, sarama.RecordHeader{Key: []byte(name), Value: []byte(headers[name])})
	}
	return out
}

// Close закрывает соединение с брокерами.
func (p *Producer) Close() error {
	if err := p.sync.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
