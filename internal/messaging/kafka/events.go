package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "pizzeria.order.events"
	TopicDeadLetterQueue = "pizzeria.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount = "x-retry-count"
	HeaderEventType  = "x-event-type"
)

// OrderEnvelope — формат сообщения в topic событий заказов.
type OrderEnvelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// NewOrderEnvelope упаковывает outbox-сообщение для публикации.
func NewOrderEnvelope(msg domain.OutboxMessage, publishedAt time.Time) OrderEnvelope {
	payload := json.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return OrderEnvelope{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       payload,
		PublishedAt:   publishedAt,
	}
}

// DeadLetter — сообщение, которое не удалось обработать consumer'у.
type DeadLetter struct {
	OriginalTopic     string    `json:"original_topic"`
	OriginalPartition int32     `json:"original_partition"`
	OriginalOffset    int64     `json:"original_offset"`
	OriginalKey       string    `json:"original_key"`
	OriginalValue     string    `json:"original_value"`
	ErrorMessage      string    `json:"error_message"`
	FailedAt          time.Time `json:"failed_at"`
	RetryCount        int       `json:"retry_count"`
}

// ParseOrderEnvelope парсит OrderEnvelope из сообщения
func ParseOrderEnvelope(message *sarama.ConsumerMessage) (*OrderEnvelope, error) {
	var envelope OrderEnvelope
	if err := json.Unmarshal(message.Value, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order envelope: %w", err)
	}
	return &envelope, nil
}
