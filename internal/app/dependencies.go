package app

import (
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/ordering"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Store         *ordering.Store
	OutboxRepo    *memory.OutboxRepository
	TimelineRepo  domain.TimelineRepository
	StoreMetrics  *metrics.StoreMetrics
	OutboxMetrics *metrics.OutboxMetrics
	Logger        *log.Entry
}

// NewDependencies собирает хранилище заказов с timeline, метриками и outbox (если включена Kafka).
// registerer == nil означает prometheus.DefaultRegisterer.
func NewDependencies(cfg Config, registerer prometheus.Registerer, logger *log.Entry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	deps := &Dependencies{
		OutboxRepo:    memory.NewOutboxRepository(),
		TimelineRepo:  memory.NewTimelineRepository(),
		StoreMetrics:  metrics.NewStoreMetricsWithRegisterer(registerer),
		OutboxMetrics: metrics.NewOutboxMetricsWithRegisterer(registerer),
		Logger:        logger,
	}
	opts := []ordering.Option{
		ordering.WithLogger(logger.WithField("layer", "ordering")),
		ordering.WithMetrics(deps.StoreMetrics),
		ordering.WithRates(cfg.Rates),
		ordering.WithMaxToppings(cfg.MaxToppings),
		ordering.WithTimeline(deps.TimelineRepo),
	}
	// без брокеров события некому доставлять
	if cfg.KafkaEnabled() {
		opts = append(opts, ordering.WithOutbox(deps.OutboxRepo))
	}
	deps.Store = ordering.NewStore(opts...)
	return deps
}
