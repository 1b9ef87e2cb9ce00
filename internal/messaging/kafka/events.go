package kafka

import (
	"encoding/json"
	"time"
)

// Topics для Kafka
const (
	TopicKitchenEvents = "restaurant.kitchen.events"

	// DLQTopicSuffix добавляется к topic для тикетов, не доставленных после всех попыток.
	DLQTopicSuffix = ".dlq"
)

// Kafka headers
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
)

// Envelope — конверт, в котором событие outbox уходит в Kafka.
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}
