package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"showhub/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second
)

// ImageDeleter removes a stored image by its public URL.
type ImageDeleter interface {
	DeleteByURL(ctx context.Context, url string) error
}

// Manager orchestrates worker goroutines that consume cleanup events from
// Redis Streams and delete orphaned images from object storage.
//
// Deletion is best-effort: a failure is logged and the message is still
// acknowledged. An orphaned blob is an accepted leak; it is never allowed
// to fail or retry into a user-facing request.
type Manager struct {
	consumer    queue.Consumer
	deleter     ImageDeleter
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP
}

// NewManager creates a new cleanup worker manager.
func NewManager(consumer queue.Consumer, deleter ImageDeleter, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		deleter:     deleter,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start begins the worker goroutines. Call Stop() to shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup); err != nil {
		return err
	}

	log.Printf("[Cleanup] Starting %d workers for stream=%s group=%s",
		m.workerCount, queue.StreamCleanup, queue.ConsumerGroupCleanup)

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		m.wg.Add(1)
		go m.runWorker(workerID, fmt.Sprintf("cleanup-worker-%d", workerID))
	}

	return nil
}

// Stop gracefully shuts down all workers.
// Blocks until all workers have finished.
func (m *Manager) Stop() {
	log.Printf("[Cleanup] Stopping workers...")
	m.cancel()
	m.wg.Wait()
	log.Printf("[Cleanup] All workers stopped")
}

// runWorker is the main loop for a single worker goroutine.
func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	// Process messages left in-flight by a previous run first.
	pending, err := m.consumer.ReadPending(m.ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup, consumerName, m.batchSize)
	if err != nil {
		log.Printf("[Cleanup-%d] read pending failed: %v", workerID, err)
	}
	m.handleBatch(workerID, consumerName, pending)

	for {
		select {
		case <-m.ctx.Done():
			log.Printf("[Cleanup-%d] shutting down", workerID)
			return
		default:
		}

		messages, err := m.consumer.Read(m.ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup,
			consumerName, m.batchSize, m.blockTime)
		if err != nil {
			if m.ctx.Err() != nil {
				return
			}
			log.Printf("[Cleanup-%d] read failed: %v", workerID, err)
			time.Sleep(time.Second)
			continue
		}

		m.handleBatch(workerID, consumerName, messages)
	}
}

func (m *Manager) handleBatch(workerID int, consumerName string, messages []queue.Message) {
	for _, msg := range messages {
		m.handleMessage(workerID, msg)

		if err := m.consumer.Ack(m.ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup, msg.ID); err != nil {
			log.Printf("[Cleanup-%d] ack failed: msgID=%s err=%v", workerID, msg.ID, err)
		}
	}
}

func (m *Manager) handleMessage(workerID int, msg queue.Message) {
	switch msg.Event.Type {
	case queue.EventImageDeleted:
		if err := m.deleter.DeleteByURL(m.ctx, msg.Event.ImageURL); err != nil {
			// Best-effort: log and move on, the blob is orphaned.
			log.Printf("[Cleanup-%d] delete image failed: url=%s product=%d err=%v",
				workerID, msg.Event.ImageURL, msg.Event.ProductID, err)
			return
		}
		log.Printf("[Cleanup-%d] deleted image: url=%s product=%d",
			workerID, msg.Event.ImageURL, msg.Event.ProductID)
	default:
		log.Printf("[Cleanup-%d] unknown event type: %s", workerID, msg.Event.Type)
	}
}
