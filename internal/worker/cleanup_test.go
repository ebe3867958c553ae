package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"showhub/internal/queue"
)

// scriptedConsumer serves one batch of messages then blocks until the
// context is cancelled.
type scriptedConsumer struct {
	mu       sync.Mutex
	batch    []queue.Message
	served   bool
	ackedIDs []string
}

func (c *scriptedConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	return nil
}

func (c *scriptedConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]queue.Message, error) {
	c.mu.Lock()
	if !c.served {
		c.served = true
		batch := c.batch
		c.mu.Unlock()
		return batch, nil
	}
	c.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *scriptedConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]queue.Message, error) {
	return nil, nil
}

func (c *scriptedConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ackedIDs = append(c.ackedIDs, messageIDs...)
	return nil
}

func (c *scriptedConsumer) acked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ackedIDs...)
}

type recordingDeleter struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (d *recordingDeleter) DeleteByURL(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	return d.err
}

func (d *recordingDeleter) deleted() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.urls...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestManager_DeletesAndAcks(t *testing.T) {
	consumer := &scriptedConsumer{
		batch: []queue.Message{
			{ID: "1-0", Event: queue.NewImageDeletedEvent("https://cdn.example.com/a.jpg", 1)},
			{ID: "2-0", Event: queue.NewImageDeletedEvent("https://cdn.example.com/b.jpg", 1)},
		},
	}
	deleter := &recordingDeleter{}

	m := NewManager(consumer, deleter, ManagerConfig{WorkerCount: 1, BlockTimeout: 50 * time.Millisecond})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return len(consumer.acked()) == 2 })

	deleted := deleter.deleted()
	if len(deleted) != 2 {
		t.Fatalf("deleted %d images, want 2", len(deleted))
	}
}

func TestManager_AcksEvenWhenDeleteFails(t *testing.T) {
	// A failed storage delete leaves an orphaned blob; the message must
	// not stay pending forever.
	consumer := &scriptedConsumer{
		batch: []queue.Message{
			{ID: "1-0", Event: queue.NewImageDeletedEvent("https://cdn.example.com/a.jpg", 1)},
		},
	}
	deleter := &recordingDeleter{err: errors.New("storage unavailable")}

	m := NewManager(consumer, deleter, ManagerConfig{WorkerCount: 1, BlockTimeout: 50 * time.Millisecond})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return len(consumer.acked()) == 1 })
}

func TestManager_IgnoresUnknownEventTypes(t *testing.T) {
	consumer := &scriptedConsumer{
		batch: []queue.Message{
			{ID: "1-0", Event: queue.CleanupEvent{Type: "mystery"}},
		},
	}
	deleter := &recordingDeleter{}

	m := NewManager(consumer, deleter, ManagerConfig{WorkerCount: 1, BlockTimeout: 50 * time.Millisecond})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Stop()

	waitFor(t, func() bool { return len(consumer.acked()) == 1 })

	if len(deleter.deleted()) != 0 {
		t.Error("unknown event types must not trigger deletion")
	}
}
