package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// OutboxPublisher публикует outbox-сообщения (кухонные тикеты) в Kafka topic.
// Ключ сообщения — ID заказа, поэтому тикеты одного заказа попадают в одну партицию.
type OutboxPublisher struct {
	producer *Producer
	topic    string
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer, topic string) *OutboxPublisher {
	if topic == "" {
		topic = TopicKitchenEvents
	}
	return &OutboxPublisher{
		producer: producer,
		topic:    topic,
	}
}

// Topic возвращает topic, в который публикуются сообщения.
func (p *OutboxPublisher) Topic() string {
	return p.topic
}

func (p *OutboxPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	envelope := Envelope{
		ID:            event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return p.producer.Send(Message{
		Topic: p.topic,
		Key:   key,
		Value: envelope,
		Headers: map[string]string{
			HeaderEventType:     event.EventType,
			HeaderAggregateType: event.AggregateType,
		},
	})
}

var _ domain.OutboxPublisher = (*OutboxPublisher)(nil)
