package usage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketcards/internal/contracts"
	"github.com/wonny/marketcards/pkg/config"
	"github.com/wonny/marketcards/pkg/logger"
)

type recordingWriter struct {
	mu      sync.Mutex
	entries []contracts.UsageLogEntry
	err     error

	// block, when set, holds Insert until released
	block   chan struct{}
	started chan struct{}
}

func (w *recordingWriter) Insert(_ context.Context, entry *contracts.UsageLogEntry) error {
	if w.started != nil {
		w.started <- struct{}{}
	}
	if w.block != nil {
		<-w.block
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.entries = append(w.entries, *entry)
	return nil
}

func (w *recordingWriter) recorded() []contracts.UsageLogEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]contracts.UsageLogEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func trackerLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json", Env: "development"})
}

func sampleEntry(cardID string) contracts.UsageLogEntry {
	return contracts.UsageLogEntry{
		CallerID:  "u1",
		CardID:    cardID,
		Mode:      contracts.ModeBeginner,
		Outcome:   contracts.OutcomeSuccess,
		LatencyMS: 12,
		Timestamp: time.Now().UTC(),
	}
}

func TestTracker_RecordsEntries(t *testing.T) {
	writer := &recordingWriter{}
	tracker := NewTracker(writer, trackerLogger(), 16)

	tracker.Record(sampleEntry("market_breadth"))
	tracker.Record(sampleEntry("market_summary"))
	tracker.Close()

	entries := writer.recorded()
	require.Len(t, entries, 2)
	assert.Equal(t, "market_breadth", entries[0].CardID)
	assert.Equal(t, "market_summary", entries[1].CardID)
	assert.Zero(t, tracker.Dropped())
}

func TestTracker_FullQueueDropsWithoutBlocking(t *testing.T) {
	writer := &recordingWriter{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	tracker := NewTracker(writer, trackerLogger(), 1)

	// First entry occupies the worker, second fills the queue
	tracker.Record(sampleEntry("a"))
	<-writer.started
	tracker.Record(sampleEntry("b"))

	// Queue is full now; these must return immediately and be dropped
	done := make(chan struct{})
	go func() {
		tracker.Record(sampleEntry("c"))
		tracker.Record(sampleEntry("d"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	assert.Equal(t, int64(2), tracker.Dropped())

	close(writer.block)
	go func() {
		for range writer.started {
		}
	}()
	tracker.Close()
	close(writer.started)

	assert.Len(t, writer.recorded(), 2)
}

func TestTracker_WriterFailureIsContained(t *testing.T) {
	writer := &recordingWriter{err: errors.New("insert failed")}
	tracker := NewTracker(writer, trackerLogger(), 16)

	// Must not panic and must not surface the error anywhere
	tracker.Record(sampleEntry("market_breadth"))
	tracker.Close()

	assert.Empty(t, writer.recorded())
}

func TestTracker_CloseIsIdempotent(t *testing.T) {
	tracker := NewTracker(&recordingWriter{}, trackerLogger(), 4)
	tracker.Close()
	tracker.Close()
}
