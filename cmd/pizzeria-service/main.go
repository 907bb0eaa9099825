package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/app"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
	"github.com/vladislavdragonenkov/pizzeria/internal/version"
)

const (
	envGRPCAddr           = "PIZZERIA_GRPC_ADDR"
	envMetricsAddr        = "PIZZERIA_METRICS_ADDR"
	envLogLevel           = "PIZZERIA_LOG_LEVEL"
	envKafkaBrokers       = "PIZZERIA_KAFKA_BROKERS"
	envKafkaTopic         = "PIZZERIA_KAFKA_TOPIC"
	envOutboxPollInterval = "PIZZERIA_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize    = "PIZZERIA_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts  = "PIZZERIA_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay   = "PIZZERIA_OUTBOX_RETRY_DELAY"
	envOutboxMaxPending   = "PIZZERIA_OUTBOX_MAX_PENDING"
	envMaxToppings        = "PIZZERIA_MAX_TOPPINGS"
	envRatePerKm          = "PIZZERIA_RATE_PER_KM"
	envRateItemWeight     = "PIZZERIA_RATE_ITEM_WEIGHT"
	envRateBeverageWeight = "PIZZERIA_RATE_BEVERAGE_WEIGHT"
	envSeedDemo           = "PIZZERIA_SEED_DEMO"
	envShutdownTimeout    = "PIZZERIA_SHUTDOWN_TIMEOUT"
)

type envLookup func(string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

// readConfigFromEnv собирает конфигурацию из переменных окружения.
// Некорректные значения не применяются и возвращаются как предупреждения.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	warn := func(key, value string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, value, err))
	}

	if v, ok := nonEmpty(lookup, envGRPCAddr); ok {
		cfg.GRPCAddr = v
	}
	if v, ok := nonEmpty(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := nonEmpty(lookup, envLogLevel); ok {
		if _, err := log.ParseLevel(v); err != nil {
			warn(envLogLevel, v, err)
		} else {
			cfg.LogLevel = strings.ToLower(v)
		}
	}
	if v, ok := nonEmpty(lookup, envKafkaBrokers); ok {
		cfg.KafkaBrokers = splitBrokers(v)
	}
	if v, ok := nonEmpty(lookup, envKafkaTopic); ok {
		cfg.KafkaTopic = v
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{envOutboxPollInterval, &cfg.OutboxPollInterval},
		{envOutboxRetryDelay, &cfg.OutboxRetryDelay},
		{envShutdownTimeout, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, ok := nonEmpty(lookup, d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err == nil && parsed <= 0 {
			err = errors.New("must be > 0")
		}
		if err != nil {
			warn(d.key, v, err)
			continue
		}
		*d.target = parsed
	}

	ints := []struct {
		key    string
		target *int
	}{
		{envOutboxBatchSize, &cfg.OutboxBatchSize},
		{envOutboxMaxAttempts, &cfg.OutboxMaxAttempts},
		{envOutboxMaxPending, &cfg.OutboxMaxPending},
		{envMaxToppings, &cfg.MaxToppings},
	}
	for _, i := range ints {
		v, ok := nonEmpty(lookup, i.key)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err == nil && parsed <= 0 {
			err = errors.New("must be > 0")
		}
		if err != nil {
			warn(i.key, v, err)
			continue
		}
		*i.target = parsed
	}

	perKm, okKm := nonEmpty(lookup, envRatePerKm)
	itemWeight, okItem := nonEmpty(lookup, envRateItemWeight)
	beverageWeight, okBev := nonEmpty(lookup, envRateBeverageWeight)
	if okKm || okItem || okBev {
		defaults := cfg.Rates
		if !okKm {
			perKm = defaults.PerKm.String()
		}
		if !okItem {
			itemWeight = defaults.ItemWeight.String()
		}
		if !okBev {
			beverageWeight = defaults.BeverageWeight.String()
		}
		rates, err := pricing.ParseRates(perKm, itemWeight, beverageWeight)
		if err != nil {
			warn("PIZZERIA_RATE_*", perKm+"/"+itemWeight+"/"+beverageWeight, err)
		} else {
			cfg.Rates = rates
		}
	}

	if v, ok := nonEmpty(lookup, envSeedDemo); ok {
		parsed, err := parseBool(v)
		if err != nil {
			warn(envSeedDemo, v, err)
		} else {
			cfg.SeedDemo = parsed
		}
	}

	return cfg, warnings
}

func nonEmpty(lookup envLookup, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	setupLogger(cfg.LogLevel)
	for _, w := range warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"grpc_addr":     cfg.GRPCAddr,
		"metrics_addr":  cfg.MetricsAddr,
		"kafka_brokers": cfg.KafkaBrokers,
		"version":       version.GetVersion(),
	}).Info("запускаем PizzeriaService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("PizzeriaService остановлен")
}
