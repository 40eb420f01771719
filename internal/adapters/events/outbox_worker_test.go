package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeOutbox struct {
	mu        sync.Mutex
	records   []ports.OutboxRecord
	published map[uuid.UUID]bool
	failed    map[uuid.UUID]string
	fetches   int
}

func (f *fakeOutbox) Enqueue(context.Context, ports.OutboxEvent) error { return nil }

func (f *fakeOutbox) FetchUnpublished(_ context.Context, limit, maxRetries int) ([]ports.OutboxRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	out := []ports.OutboxRecord{}
	for _, rec := range f.records {
		if f.published[rec.OutboxID] || rec.RetryCount >= maxRetries {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[id] = true
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, id uuid.UUID, msg string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[id] = msg
	for i := range f.records {
		if f.records[i].OutboxID == id {
			f.records[i].RetryCount++
		}
	}
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	failFor string
	keys    []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if eventType == p.failFor {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, partitionKey)
	return nil
}

func newFakeOutbox(records ...ports.OutboxRecord) *fakeOutbox {
	return &fakeOutbox{records: records, published: map[uuid.UUID]bool{}, failed: map[uuid.UUID]string{}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOutboxWorkerPublishesAndMarksFailures(t *testing.T) {
	ok := ports.OutboxRecord{OutboxID: uuid.New(), EventType: "review.published", PartitionKey: "firm-1", Payload: []byte(`{}`)}
	bad := ports.OutboxRecord{OutboxID: uuid.New(), EventType: "review.removed", PartitionKey: "firm-2", Payload: []byte(`{}`)}
	outbox := newFakeOutbox(ok, bad)
	pub := &recordingPublisher{failFor: "review.removed"}
	w := NewOutboxWorker(discardLogger(), outbox, pub, time.Second, 10, 3)

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if !outbox.published[ok.OutboxID] {
		t.Fatal("expected first record to be marked published")
	}
	if outbox.failed[bad.OutboxID] != "broker unavailable" {
		t.Fatalf("expected failure recorded, got %q", outbox.failed[bad.OutboxID])
	}
	if len(pub.keys) != 1 || pub.keys[0] != "firm-1" {
		t.Fatalf("unexpected partition keys %v", pub.keys)
	}
}

func TestOutboxWorkerStopsRetryingAfterMax(t *testing.T) {
	bad := ports.OutboxRecord{OutboxID: uuid.New(), EventType: "flag.resolved", PartitionKey: "f"}
	outbox := newFakeOutbox(bad)
	w := NewOutboxWorker(discardLogger(), outbox, &recordingPublisher{failFor: "flag.resolved"}, time.Second, 10, 2)

	for i := 0; i < 4; i++ {
		if err := w.processOnce(context.Background()); err != nil {
			t.Fatalf("process once: %v", err)
		}
	}
	if outbox.records[0].RetryCount != 2 {
		t.Fatalf("expected 2 attempts, got %d", outbox.records[0].RetryCount)
	}
}

func TestOutboxWorkerRunStopsOnCancel(t *testing.T) {
	outbox := newFakeOutbox()
	w := NewOutboxWorker(discardLogger(), outbox, &recordingPublisher{}, 5*time.Millisecond, 10, 3)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	outbox.mu.Lock()
	defer outbox.mu.Unlock()
	if outbox.fetches < 2 {
		t.Fatalf("expected repeated polling, got %d fetches", outbox.fetches)
	}
}

func TestKafkaPublisherTopicRouting(t *testing.T) {
	if _, err := NewKafkaPublisher(nil, "", nil); err == nil {
		t.Fatal("expected error without brokers")
	}
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "", map[string]string{"review.removed": "campaigngrade.moderation"})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer p.Close()
	if got := p.topicFor("review.removed"); got != "campaigngrade.moderation" {
		t.Fatalf("unexpected topic %q", got)
	}
	if got := p.topicFor("review.published"); got != "campaigngrade.reviews" {
		t.Fatalf("unexpected default topic %q", got)
	}
}
