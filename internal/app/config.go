package app

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/ordering"
)

// Config описывает настройки запуска сервиса пиццерии.
type Config struct {
	GRPCAddr    string
	MetricsAddr string
	LogLevel    string

	// При пустом KafkaBrokers публикация событий заказов и outbox отключены.
	KafkaBrokers []string
	KafkaTopic   string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
	// Порог backlog, выше которого /healthz сообщает degraded.
	OutboxMaxPending int

	MaxToppings int
	Rates       pricing.Rates
	// SeedDemo загружает демонстрационных клиентов и заказы при старте.
	SeedDemo bool

	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:           ":50051",
		MetricsAddr:        ":9090",
		LogLevel:           log.InfoLevel.String(),
		KafkaTopic:         kafka.TopicOrderEvents,
		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   50 * time.Millisecond,
		OutboxMaxPending:   1000,
		MaxToppings:        ordering.DefaultMaxToppings,
		Rates:              pricing.DefaultRates(),
		SeedDemo:           true,
		ShutdownTimeout:    5 * time.Second,
	}
}

// KafkaEnabled сообщает, настроена ли публикация в Kafka.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error
	if c.GRPCAddr == "" {
		errs = append(errs, errors.New("grpc address is required"))
	}
	if c.MetricsAddr == "" {
		errs = append(errs, errors.New("metrics address is required"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.MaxToppings <= 0 {
		errs = append(errs, fmt.Errorf("max toppings must be > 0, got %d", c.MaxToppings))
	}
	if err := c.Rates.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.KafkaEnabled() && c.KafkaTopic == "" {
		errs = append(errs, errors.New("kafka topic is required when brokers are set"))
	}
	return errors.Join(errs...)
}
