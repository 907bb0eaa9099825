package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/outbox"
)

// initKafkaProducer создаёт producer, если брокеры заданы. Ошибка подключения не фатальна:
// сервис продолжает работать, события остаются в outbox.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// newOutboxWorker связывает outbox хранилища с Kafka-topic событий заказов и DLQ.
func newOutboxWorker(cfg Config, deps *Dependencies, producer *kafka.Producer) *outbox.Worker {
	return outbox.NewWorker(
		deps.OutboxRepo,
		kafka.NewOutboxPublisher(producer, cfg.KafkaTopic),
		outbox.WithLogger(deps.Logger.WithField("layer", "outbox")),
		outbox.WithMetrics(deps.OutboxMetrics),
		outbox.WithDLQPublisher(kafka.NewDLQPublisher(producer)),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
	)
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
