package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotReplayable возвращается, если сообщение DLQ не содержит исходного события.
var ErrNotReplayable = errors.New("dlq message is not replayable")

// ReplayMessage — событие, восстановленное из DLQ для повторной публикации.
type ReplayMessage struct {
	Topic string
	Key   string
	Value []byte
}

// outboxDeadLetter описывает тело, которое outbox worker кладёт в payload конверта DLQ.
type outboxDeadLetter struct {
	OutboxID      string          `json:"outbox_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
}

// DecodeDeadLetter разбирает сообщение из TopicDeadLetterQueue.
//
// Поддерживаются два формата: DeadLetter от consumer'а (возвращается исходное сообщение
// в исходный topic) и конверт outbox worker'а (событие заново упаковывается в OrderEnvelope
// и направляется в fallbackTopic).
func DecodeDeadLetter(value []byte, fallbackTopic string, now time.Time) (ReplayMessage, error) {
	var consumed DeadLetter
	if err := json.Unmarshal(value, &consumed); err == nil && consumed.OriginalValue != "" {
		topic := strings.TrimSpace(consumed.OriginalTopic)
		if topic == "" {
			topic = fallbackTopic
		}
		return ReplayMessage{Topic: topic, Key: consumed.OriginalKey, Value: []byte(consumed.OriginalValue)}, nil
	}

	var envelope OrderEnvelope
	if err := json.Unmarshal(value, &envelope); err != nil || isEmptyJSON(envelope.Payload) {
		return ReplayMessage{}, ErrNotReplayable
	}

	var dead outboxDeadLetter
	if err := json.Unmarshal(envelope.Payload, &dead); err != nil {
		return ReplayMessage{}, fmt.Errorf("decode outbox dead letter: %w", err)
	}
	if isEmptyJSON(dead.Payload) {
		return ReplayMessage{}, fmt.Errorf("%w: outbox dead letter has no event payload", ErrNotReplayable)
	}

	replay := OrderEnvelope{
		ID:            firstNonEmpty(dead.OutboxID, envelope.ID),
		AggregateType: firstNonEmpty(dead.AggregateType, envelope.AggregateType),
		AggregateID:   firstNonEmpty(dead.AggregateID, envelope.AggregateID),
		EventType:     firstNonEmpty(dead.EventType, envelope.EventType),
		Payload:       dead.Payload,
		PublishedAt:   now,
	}
	encoded, err := json.Marshal(replay)
	if err != nil {
		return ReplayMessage{}, fmt.Errorf("encode replay envelope: %w", err)
	}

	return ReplayMessage{
		Topic: fallbackTopic,
		Key:   firstNonEmpty(replay.AggregateID, replay.ID),
		Value: encoded,
	}, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
