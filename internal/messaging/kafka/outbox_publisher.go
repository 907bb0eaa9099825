package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в заданный Kafka topic.
type OutboxTopicPublisher struct {
	producer *Producer
	topic    string
	now      func() time.Time
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer, topic string) *OutboxTopicPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OutboxTopicPublisher{
		producer: producer,
		topic:    topic,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewDLQPublisher создаёт паблишер для сообщений, исчерпавших попытки публикации.
func NewDLQPublisher(producer *Producer) *OutboxTopicPublisher {
	return NewOutboxPublisher(producer, TopicDeadLetterQueue)
}

// Topic возвращает topic назначения.
func (p *OutboxTopicPublisher) Topic() string {
	return p.topic
}

// Publish отправляет сообщение, ключом партиционирования служит ID заказа.
func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	header := sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte(event.EventType)}
	return p.producer.PublishEvent(p.topic, key, NewOrderEnvelope(event, p.now()), header)
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
