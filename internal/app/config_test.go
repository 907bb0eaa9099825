package app

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pizzeria/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GRPCAddr != ":50051" {
		t.Errorf("expected GRPCAddr :50051, got %s", cfg.GRPCAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.KafkaTopic != kafka.TopicOrderEvents {
		t.Errorf("expected KafkaTopic %s, got %s", kafka.TopicOrderEvents, cfg.KafkaTopic)
	}
	if cfg.KafkaEnabled() {
		t.Error("kafka should be disabled without brokers")
	}
	if cfg.OutboxPollInterval != time.Second {
		t.Errorf("expected OutboxPollInterval 1s, got %v", cfg.OutboxPollInterval)
	}
	if cfg.OutboxBatchSize <= 0 || cfg.OutboxMaxAttempts <= 0 {
		t.Error("outbox batch size and attempts should be > 0")
	}
	if cfg.MaxToppings != 4 {
		t.Errorf("expected MaxToppings 4, got %d", cfg.MaxToppings)
	}
	if !cfg.Rates.PerKm.Equal(decimal.RequireFromString("1.80")) {
		t.Errorf("expected default per-km rate 1.80, got %s", cfg.Rates.PerKm)
	}
	if !cfg.SeedDemo {
		t.Error("expected SeedDemo to be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty grpc addr", func(c *Config) { c.GRPCAddr = "" }, "grpc address"},
		{"empty metrics addr", func(c *Config) { c.MetricsAddr = "" }, "metrics address"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"zero toppings", func(c *Config) { c.MaxToppings = 0 }, "max toppings"},
		{"negative rate", func(c *Config) {
			c.Rates = pricing.Rates{PerKm: decimal.NewFromInt(-1), ItemWeight: decimal.Zero, BeverageWeight: decimal.Zero}
		}, pricing.ErrNegativeRate.Error()},
		{"brokers without topic", func(c *Config) {
			c.KafkaBrokers = []string{"localhost:9092"}
			c.KafkaTopic = ""
		}, "kafka topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_ValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GRPCAddr = ""
	cfg.MetricsAddr = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "grpc address") || !strings.Contains(err.Error(), "metrics address") {
		t.Errorf("expected both errors, got %v", err)
	}
}
