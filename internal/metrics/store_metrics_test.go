package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := g.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewStoreMetrics(t *testing.T) {
	metrics := NewStoreMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics.ordersCreated == nil || metrics.ordersCancelled == nil || metrics.operations == nil {
		t.Fatal("lifecycle counters should not be nil")
	}
	if metrics.operationDuration == nil || metrics.orderTotal == nil {
		t.Fatal("histograms should not be nil")
	}
	if metrics.activeOrders == nil {
		t.Fatal("activeOrders gauge should not be nil")
	}
}

func TestNewStoreMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewStoreMetricsWithRegisterer(reg)
	second := NewStoreMetricsWithRegisterer(reg)

	first.RecordTimelineEvent()
	second.RecordTimelineEvent()

	if got := counterValue(t, first.timelineEvents); got != 2 {
		t.Errorf("expected shared counter value 2, got %f", got)
	}
}

func TestRecordOrderLifecycle(t *testing.T) {
	metrics := NewStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderCreated(decimal.RequireFromString("54.10"))
	metrics.RecordOrderCreated(decimal.RequireFromString("12.00"))
	metrics.RecordOrderCancelled()

	if got := counterValue(t, metrics.ordersCreated); got != 2 {
		t.Errorf("expected 2 created, got %f", got)
	}
	if got := counterValue(t, metrics.ordersCancelled); got != 1 {
		t.Errorf("expected 1 cancelled, got %f", got)
	}
	if got := gaugeValue(t, metrics.activeOrders); got != 1 {
		t.Errorf("expected 1 active order, got %f", got)
	}
}

func TestRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStoreMetricsWithRegisterer(reg)

	metrics.RecordOperation("add_item", ResultOK, time.Millisecond)
	metrics.RecordOperation("add_item", ResultOK, 2*time.Millisecond)
	metrics.RecordOperation("remove_item", ResultCancelled, time.Millisecond)

	if got := counterValue(t, metrics.operations.WithLabelValues("add_item", ResultOK)); got != 2 {
		t.Errorf("expected 2 add_item ok, got %f", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	var found bool
	for _, family := range families {
		if family.GetName() != "pizzeria_store_operation_duration_seconds" {
			continue
		}
		found = true
		var samples uint64
		for _, m := range family.GetMetric() {
			samples += m.GetHistogram().GetSampleCount()
		}
		if samples != 3 {
			t.Errorf("expected 3 duration samples, got %d", samples)
		}
	}
	if !found {
		t.Error("duration histogram was not gathered")
	}
}

func TestRecordSideEvents(t *testing.T) {
	metrics := NewStoreMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOutboxEvent()
	metrics.RecordReportBuilt()
	metrics.RecordReportBuilt()

	if got := counterValue(t, metrics.outboxEvents); got != 1 {
		t.Errorf("expected 1 outbox event, got %f", got)
	}
	if got := counterValue(t, metrics.reportsBuilt); got != 2 {
		t.Errorf("expected 2 reports, got %f", got)
	}
}
