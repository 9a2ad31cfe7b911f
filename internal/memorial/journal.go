package memorial

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Journal is an asynchronous Recorder. Entries are buffered on a channel and
// written to a Store in batches by a single goroutine, either when the
// flush interval elapses or when a batch fills.
//
// Invariant: Record never blocks; entries that do not fit in the buffer are
// dropped and logged.
type Journal struct {
	store    Store
	logger   *zap.Logger
	interval time.Duration
	batch    int

	mu     sync.RWMutex
	closed bool
	ch     chan Entry
	done   chan struct{}
}

// NewJournal starts a journal writing to store.
//
// Precondition: bufferSize > 0 and interval > 0.
// Postcondition: the writer goroutine is running until Close.
func NewJournal(store Store, bufferSize int, interval time.Duration, logger *zap.Logger) *Journal {
	if bufferSize <= 0 {
		panic("memorial.NewJournal: bufferSize must be > 0")
	}
	if interval <= 0 {
		panic("memorial.NewJournal: interval must be > 0")
	}
	j := &Journal{
		store:    store,
		logger:   logger,
		interval: interval,
		batch:    bufferSize,
		ch:       make(chan Entry, bufferSize),
		done:     make(chan struct{}),
	}
	go j.run()
	return j
}

// Record enqueues e, stamping RecordedAt when it is zero.
func (j *Journal) Record(e Entry) {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.logger.Warn("memorial entry after close", zap.String("effect", e.EffectID))
		return
	}
	select {
	case j.ch <- e:
	default:
		j.logger.Warn("memorial buffer full; dropping entry",
			zap.String("creature", e.CreatureID),
			zap.String("effect", e.EffectID),
		)
	}
}

// Close stops accepting entries and waits until everything buffered has
// been written.
func (j *Journal) Close() {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.ch)
	j.mu.Unlock()
	<-j.done
}

func (j *Journal) run() {
	defer close(j.done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	pending := make([]Entry, 0, j.batch)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := j.store.InsertEntries(ctx, pending); err != nil {
			j.logger.Error("writing memorial entries", zap.Int("count", len(pending)), zap.Error(err))
		}
		pending = make([]Entry, 0, j.batch)
	}

	for {
		select {
		case e, ok := <-j.ch:
			if !ok {
				flush()
				return
			}
			pending = append(pending, e)
			if len(pending) >= j.batch {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
