package kafka

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()
	mockProducer := mocks.NewSyncProducer(t, nil)
	t.Cleanup(func() { _ = mockProducer.Close() })
	return NewProducerWithSyncProducer(mockProducer, log.WithField("component", "kafka-producer-test")), mockProducer
}

func TestProducer_Send(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ticket struct {
			Dish string `json:"dish"`
		}
		if err := json.Unmarshal(val, &ticket); err != nil {
			return err
		}
		if ticket.Dish != "Pizza" {
			return fmt.Errorf("unexpected record %s", val)
		}
		return nil
	})

	err := producer.Send(Message{
		Topic: TopicKitchenEvents,
		Key:   "order-123",
		Value: map[string]string{"dish": "Pizza"},
	})
	require.NoError(t, err)
}

func TestProducer_SendErrors(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		broker error
	}{
		{name: "broker rejects", value: map[string]string{"dish": "Sushi"}, broker: sarama.ErrOutOfBrokers},
		{name: "value is not json", value: make(chan int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer, mockProducer := newTestProducer(t)
			if tt.broker != nil {
				mockProducer.ExpectSendMessageAndFail(tt.broker)
			}

			err := producer.Send(Message{Topic: TopicKitchenEvents, Key: "order-123", Value: tt.value})

			require.Error(t, err)
			assert.Contains(t, err.Error(), TopicKitchenEvents)
			if tt.broker != nil {
				assert.ErrorIs(t, err, tt.broker)
			}
		})
	}
}

func TestRecordHeaders_SortedByName(t *testing.T) {
	headers := recordHeaders(map[string]string{
		HeaderEventType:     "kitchen.dish_added",
		HeaderAggregateType: "order",
	})

	require.Len(t, headers, 2)
	assert.Equal(t, HeaderAggregateType, string(headers[0].Key))
	assert.Equal(t, "order", string(headers[0].Value))
	assert.Equal(t, HeaderEventType, string(headers[1].Key))
	assert.Nil(t, recordHeaders(nil))
}

func TestNewSaramaConfig_IdempotentDelivery(t *testing.T) {
	cfg := newSaramaConfig()

	assert.Equal(t, clientID, cfg.ClientID)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Idempotent)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
	require.NoError(t, cfg.Validate())
}
