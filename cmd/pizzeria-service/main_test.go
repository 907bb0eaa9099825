package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pizzeria/internal/app"
)

func TestReadConfigFromEnv_Defaults(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(nil))

	require.Empty(t, warnings)
	defaults := app.DefaultConfig()
	assert.Equal(t, defaults.GRPCAddr, cfg.GRPCAddr)
	assert.Equal(t, defaults.MetricsAddr, cfg.MetricsAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, defaults.MaxToppings, cfg.MaxToppings)
	assert.True(t, defaults.Rates.PerKm.Equal(cfg.Rates.PerKm))
	assert.True(t, cfg.SeedDemo)
}

func TestReadConfigFromEnv_ValidOverrides(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envGRPCAddr:           "localhost:50051",
		envMetricsAddr:        " localhost:9090 ",
		envLogLevel:           "DEBUG",
		envKafkaBrokers:       "broker1:9092, broker2:9092,,",
		envKafkaTopic:         "orders",
		envOutboxPollInterval: "2s",
		envOutboxBatchSize:    "42",
		envOutboxMaxAttempts:  "7",
		envOutboxRetryDelay:   "10ms",
		envOutboxMaxPending:   "5",
		envMaxToppings:        "6",
		envRatePerKm:          "2.50",
		envSeedDemo:           "off",
		envShutdownTimeout:    "10s",
	}))

	require.Empty(t, warnings)
	assert.Equal(t, "localhost:50051", cfg.GRPCAddr)
	assert.Equal(t, "localhost:9090", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "orders", cfg.KafkaTopic)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 42, cfg.OutboxBatchSize)
	assert.Equal(t, 7, cfg.OutboxMaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.OutboxRetryDelay)
	assert.Equal(t, 5, cfg.OutboxMaxPending)
	assert.Equal(t, 6, cfg.MaxToppings)
	assert.True(t, cfg.Rates.PerKm.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, cfg.Rates.ItemWeight.Equal(decimal.RequireFromString("0.60")), "unset rates keep defaults")
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestReadConfigFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envLogLevel:           "loud",
		envOutboxPollInterval: "soon",
		envOutboxRetryDelay:   "-1s",
		envOutboxBatchSize:    "many",
		envOutboxMaxAttempts:  "0",
		envMaxToppings:        "-2",
		envRateBeverageWeight: "-0.20",
		envSeedDemo:           "maybe",
	}))

	assert.Len(t, warnings, 8)
	defaults := app.DefaultConfig()
	assert.Equal(t, defaults.LogLevel, cfg.LogLevel)
	assert.Equal(t, defaults.OutboxPollInterval, cfg.OutboxPollInterval)
	assert.Equal(t, defaults.OutboxRetryDelay, cfg.OutboxRetryDelay)
	assert.Equal(t, defaults.OutboxBatchSize, cfg.OutboxBatchSize)
	assert.Equal(t, defaults.OutboxMaxAttempts, cfg.OutboxMaxAttempts)
	assert.Equal(t, defaults.MaxToppings, cfg.MaxToppings)
	assert.True(t, defaults.Rates.BeverageWeight.Equal(cfg.Rates.BeverageWeight))
	assert.True(t, cfg.SeedDemo)
}

func TestSetupLogger(t *testing.T) {
	previous := log.GetLevel()
	defer log.SetLevel(previous)

	setupLogger("warn")
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	setupLogger("nonsense")
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
