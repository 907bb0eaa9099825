package kafka

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, log.WithField("component", "kafka-producer-test"))

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != TopicOrderEvents {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "7" {
			return errors.New("unexpected key " + string(key))
		}
		if len(msg.Headers) != 1 || string(msg.Headers[0].Key) != HeaderEventType {
			return errors.New("event type header missing")
		}
		return nil
	})

	header := sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte("order.created")}
	if err := producer.PublishEvent(TopicOrderEvents, "7", map[string]int{"order_id": 7}, header); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := producer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, nil)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.PublishEvent(TopicOrderEvents, "7", map[string]int{"order_id": 7})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("expected out of brokers error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, nil)

	// каналы не сериализуются в JSON, до Kafka дело не доходит
	if err := producer.PublishEvent(TopicOrderEvents, "7", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestParseOrderEnvelope(t *testing.T) {
	raw, err := json.Marshal(OrderEnvelope{
		ID:            "evt-1",
		AggregateType: "order",
		AggregateID:   "3",
		EventType:     "order.updated",
		Payload:       json.RawMessage(`{"total":"91.30"}`),
	})
	if err != nil {
		t.Fatal(err)
	}

	envelope, err := ParseOrderEnvelope(&sarama.ConsumerMessage{Value: raw})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if envelope.AggregateID != "3" || envelope.EventType != "order.updated" {
		t.Errorf("unexpected envelope %+v", envelope)
	}
	if string(envelope.Payload) != `{"total":"91.30"}` {
		t.Errorf("payload changed: %s", envelope.Payload)
	}

	if _, err := ParseOrderEnvelope(&sarama.ConsumerMessage{Value: []byte("{")}); err == nil {
		t.Fatal("expected parse error")
	}
}
