package memory

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

func TestOutboxRepository_EnqueueAndPull(t *testing.T) {
	repo := NewOutboxRepository()

	msg := domain.OutboxMessage{
		AggregateType: domain.OutboxAggregateOrder,
		AggregateID:   "1",
		EventType:     domain.OutboxEventOrderCreated,
		Payload:       []byte(`{"order_id":1}`),
	}

	saved, err := repo.Enqueue(msg)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending message, got %d", len(pending))
	}
	if pending[0].ID != saved.ID {
		t.Fatalf("expected same message id, got %s", pending[0].ID)
	}
}

func TestOutboxRepository_PullKeepsFIFOAndLimit(t *testing.T) {
	repo := NewOutboxRepository()

	var ids []string
	for i := 0; i < 5; i++ {
		saved, err := repo.Enqueue(domain.OutboxMessage{AggregateType: domain.OutboxAggregateOrder})
		if err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
		ids = append(ids, saved.ID)
	}
	if err := repo.MarkSent(ids[0]); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, err := repo.PullPending(2)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != ids[1] || pending[1].ID != ids[2] {
		t.Fatalf("unexpected pull order: %+v", pending)
	}

	if got := len(repo.AllPending()); got != 4 {
		t.Fatalf("expected 4 pending, got %d", got)
	}
}

func TestOutboxRepository_Stats(t *testing.T) {
	repo := NewOutboxRepository()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, _ := repo.Enqueue(domain.OutboxMessage{})
	_, _ = repo.Enqueue(domain.OutboxMessage{})

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 2 {
		t.Fatalf("expected 2 pending, got %d", stats.PendingCount)
	}
	if !stats.OldestPendingAt.Equal(base.Add(time.Second)) {
		t.Fatalf("unexpected oldest pending time: %v", stats.OldestPendingAt)
	}

	if err := repo.MarkFailed(first.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	stats, _ = repo.Stats()
	if stats.PendingCount != 1 || !stats.OldestPendingAt.Equal(base.Add(2*time.Second)) {
		t.Fatalf("unexpected stats after failure: %+v", stats)
	}
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	repo := NewOutboxRepository()

	saved, err := repo.Enqueue(domain.OutboxMessage{AggregateType: domain.OutboxAggregateOrder})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := repo.MarkSent(saved.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	if err := repo.MarkFailed(saved.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	if err := repo.MarkFailed("missing"); err == nil {
		t.Fatal("expected error for missing record")
	}
}
