package usage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/pkg/logger"
)

// Sink is what the request path sees: fire-and-forget, never an error
type Sink interface {
	Record(entry contracts.UsageLogEntry)
}

// Writer persists entries; implemented by Repository, faked in tests
type Writer interface {
	Insert(ctx context.Context, entry *contracts.UsageLogEntry) error
}

// Tracker decouples telemetry writes from the request path with a
// bounded queue and a single background worker. A full queue drops the
// entry and counts the drop; the producer never blocks and never sees
// an error.
// ⭐ SSOT: 사용 텔레메트리 큐는 여기서만
type Tracker struct {
	writer Writer
	logger *logger.Logger

	queue   chan contracts.UsageLogEntry
	dropped atomic.Int64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewTracker creates a tracker and starts its worker
func NewTracker(writer Writer, log *logger.Logger, queueSize int) *Tracker {
	if queueSize < 1 {
		queueSize = 1
	}

	t := &Tracker{
		writer: writer,
		logger: log,
		queue:  make(chan contracts.UsageLogEntry, queueSize),
	}

	t.wg.Add(1)
	go t.worker()

	return t
}

// Record enqueues an entry without blocking. Entries that do not fit in
// the queue are dropped; telemetry must never slow a response down.
func (t *Tracker) Record(entry contracts.UsageLogEntry) {
	select {
	case t.queue <- entry:
	default:
		dropped := t.dropped.Add(1)
		if dropped%100 == 1 {
			t.logger.WithField("dropped_total", dropped).Warn("Usage queue full, dropping entries")
		}
	}
}

// Dropped returns how many entries have been dropped so far
func (t *Tracker) Dropped() int64 {
	return t.dropped.Load()
}

// Close stops accepting entries and waits for the worker to drain
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		close(t.queue)
	})
	t.wg.Wait()
}

func (t *Tracker) worker() {
	defer t.wg.Done()

	for entry := range t.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := t.writer.Insert(ctx, &entry); err != nil {
			// Contained: log for operators, drop the entry, move on.
			t.logger.WithError(err).WithFields(map[string]interface{}{
				"card_id": entry.CardID,
				"outcome": entry.Outcome,
			}).Error("Failed to persist usage entry")
		}
		cancel()
	}
}
