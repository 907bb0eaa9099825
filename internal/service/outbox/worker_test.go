package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

func orderEvent(id, orderID, eventType string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: domain.OutboxAggregateOrder,
		AggregateID:   orderID,
		EventType:     eventType,
		Payload:       []byte(`{"order_id":` + orderID + `}`),
	}
}

func TestWorker_ProcessOnce_MarkSent(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{orderEvent("msg-1", "1", domain.OutboxEventOrderCreated)}}
	publisher := &stubPublisher{}

	worker := NewWorker(repo, publisher,
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
		WithMetrics(metrics.NewOutboxMetricsWithRegisterer(prometheus.NewRegistry())),
	)

	if got := worker.ProcessOnce(context.Background()); got != 1 {
		t.Fatalf("expected 1 processed message, got %d", got)
	}
	if len(repo.sentIDs) != 1 || repo.sentIDs[0] != "msg-1" {
		t.Fatalf("expected msg-1 to be marked sent, got %v", repo.sentIDs)
	}
	if got := len(repo.failedIDs); got != 0 {
		t.Fatalf("expected 0 failed marks, got %d", got)
	}
	if got := publisher.calls(); got != 1 {
		t.Fatalf("expected 1 publish call, got %d", got)
	}
}

func TestWorker_ProcessOnce_MarkFailedAndDLQAfterRetries(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{orderEvent("msg-2", "2", domain.OutboxEventOrderCancelled)}}
	publisher := &stubPublisher{err: errors.New("publish failed")}
	dlqPublisher := &stubPublisher{}

	worker := NewWorker(repo, publisher,
		WithDLQPublisher(dlqPublisher),
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	worker.ProcessOnce(context.Background())

	if got := publisher.calls(); got != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", got)
	}
	if got := len(repo.sentIDs); got != 0 {
		t.Fatalf("expected 0 sent marks, got %d", got)
	}
	if len(repo.failedIDs) != 1 || repo.failedIDs[0] != "msg-2" {
		t.Fatalf("expected msg-2 to be marked failed, got %v", repo.failedIDs)
	}
	if got := dlqPublisher.calls(); got != 1 {
		t.Fatalf("expected 1 DLQ publish, got %d", got)
	}

	var letter deadLetterPayload
	if err := json.Unmarshal(dlqPublisher.last().Payload, &letter); err != nil {
		t.Fatalf("dlq payload is not json: %v", err)
	}
	if letter.OutboxID != "msg-2" || letter.AggregateID != "2" || letter.EventType != domain.OutboxEventOrderCancelled {
		t.Fatalf("unexpected dead letter %+v", letter)
	}
	if string(letter.Payload) != `{"order_id":2}` {
		t.Fatalf("original payload must be embedded, got %s", letter.Payload)
	}
}

func TestWorker_ProcessOnce_SuccessAfterRetry(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{orderEvent("msg-3", "3", domain.OutboxEventOrderUpdated)}}
	publisher := &stubPublisher{
		sequenceErrors: []error{errors.New("attempt 1"), errors.New("attempt 2"), nil},
	}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0), WithMaxAttempts(3))
	worker.ProcessOnce(context.Background())

	if got := publisher.calls(); got != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", got)
	}
	if got := len(repo.sentIDs); got != 1 {
		t.Fatalf("expected 1 sent mark, got %d", got)
	}
	if got := len(repo.failedIDs); got != 0 {
		t.Fatalf("expected 0 failed marks, got %d", got)
	}
}

func TestWorker_ProcessOnce_PullError(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pullErr: errors.New("storage down")}
	publisher := &stubPublisher{}

	worker := NewWorker(repo, publisher)
	if got := worker.ProcessOnce(context.Background()); got != 0 {
		t.Fatalf("expected nothing processed, got %d", got)
	}
	if publisher.calls() != 0 {
		t.Fatal("publisher must not be called")
	}
}

func TestWorker_ProcessOnce_CancelledContextKeepsPending(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{orderEvent("msg-4", "4", domain.OutboxEventOrderCreated)}}
	publisher := &stubPublisher{err: errors.New("broker down")}

	ctx, cancel := context.WithCancel(context.Background())
	publisher.onPublish = cancel

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(time.Hour), WithMaxAttempts(3))
	worker.ProcessOnce(ctx)

	if got := publisher.calls(); got != 1 {
		t.Fatalf("expected backoff to stop on cancel, got %d calls", got)
	}
	if len(repo.failedIDs) != 0 || len(repo.sentIDs) != 0 {
		t.Fatal("message must stay pending when the worker is stopped")
	}
}

func TestWorker_Drain_PublishesWholeBacklog(t *testing.T) {
	t.Parallel()

	repo := memory.NewOutboxRepository()
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		if _, err := repo.Enqueue(orderEvent("", id, domain.OutboxEventOrderCreated)); err != nil {
			t.Fatal(err)
		}
	}
	publisher := &stubPublisher{}

	worker := NewWorker(repo, publisher, WithBatchSize(2), WithRetryBaseDelay(0))
	worker.Drain(context.Background())

	if got := publisher.calls(); got != 5 {
		t.Fatalf("expected 5 publishes, got %d", got)
	}
	if pending := repo.AllPending(); len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(pending))
	}
	if publisher.published[0].AggregateID != "1" || publisher.published[4].AggregateID != "5" {
		t.Fatal("messages must be published in enqueue order")
	}
}

func TestWorker_RetryBackoff(t *testing.T) {
	t.Parallel()

	worker := NewWorker(nil, nil, WithRetryBaseDelay(10*time.Millisecond))
	for attempt, want := range map[int]time.Duration{1: 10 * time.Millisecond, 2: 20 * time.Millisecond, 4: 80 * time.Millisecond} {
		if got := worker.retryBackoff(attempt); got != want {
			t.Errorf("attempt %d: expected %s, got %s", attempt, want, got)
		}
	}

	saturated := NewWorker(nil, nil, WithRetryBaseDelay(time.Duration(1<<62)))
	if got := saturated.retryBackoff(10); got != time.Duration(1<<63-1) {
		t.Errorf("expected saturation, got %s", got)
	}

	if got := NewWorker(nil, nil, WithRetryBaseDelay(-time.Second)).retryBackoff(3); got != 0 {
		t.Errorf("negative delay must disable backoff, got %s", got)
	}
}

func TestWorker_Run_DisabledWithoutPublisher(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewWorker(&stubOutboxRepo{}, nil).Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker without publisher must return immediately")
	}
}

func TestWorker_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	worker := NewWorker(&stubOutboxRepo{}, &stubPublisher{},
		WithPollInterval(5*time.Millisecond),
		WithRetryBaseDelay(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}

type stubOutboxRepo struct {
	pending   []domain.OutboxMessage
	pullErr   error
	sentIDs   []string
	failedIDs []string
}

func (s *stubOutboxRepo) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	return msg, nil
}

func (s *stubOutboxRepo) PullPending(limit int) ([]domain.OutboxMessage, error) {
	if s.pullErr != nil {
		return nil, s.pullErr
	}
	if limit <= 0 || limit >= len(s.pending) {
		return append([]domain.OutboxMessage(nil), s.pending...), nil
	}
	return append([]domain.OutboxMessage(nil), s.pending[:limit]...), nil
}

func (s *stubOutboxRepo) Stats() (domain.OutboxStats, error) {
	stats := domain.OutboxStats{PendingCount: len(s.pending)}
	if len(s.pending) > 0 {
		stats.OldestPendingAt = time.Now().UTC().Add(-time.Second)
	}
	return stats, nil
}

func (s *stubOutboxRepo) MarkSent(id string) error {
	s.sentIDs = append(s.sentIDs, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(id string) error {
	s.failedIDs = append(s.failedIDs, id)
	return nil
}

type stubPublisher struct {
	mu             sync.Mutex
	err            error
	sequenceErrors []error
	onPublish      func()
	published      []domain.OutboxMessage
}

func (s *stubPublisher) Publish(event domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.published = append(s.published, event)
	if s.onPublish != nil {
		s.onPublish()
	}
	if len(s.sequenceErrors) > 0 {
		err := s.sequenceErrors[0]
		s.sequenceErrors = s.sequenceErrors[1:]
		return err
	}
	return s.err
}

func (s *stubPublisher) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

func (s *stubPublisher) last() domain.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published[len(s.published)-1]
}

var _ domain.OutboxRepository = (*stubOutboxRepo)(nil)
var _ domain.OutboxPublisher = (*stubPublisher)(nil)
