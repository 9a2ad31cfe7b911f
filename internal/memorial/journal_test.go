package memorial_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/wasteland/internal/memorial"
)

type memStore struct {
	mu      sync.Mutex
	entries []memorial.Entry
	err     error
	block   chan struct{}
}

func (s *memStore) InsertEntries(_ context.Context, entries []memorial.Entry) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *memStore) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Text
	}
	return out
}

func TestJournal_CloseDrainsBuffer(t *testing.T) {
	store := &memStore{}
	j := memorial.NewJournal(store, 16, time.Hour, zap.NewNop())
	j.Record(memorial.Entry{CreatureID: "u", EffectID: "onfire", Text: "Caught fire."})
	j.Record(memorial.Entry{CreatureID: "u", EffectID: "onfire", Text: "Put out the fire."})
	j.Close()
	assert.Equal(t, []string{"Caught fire.", "Put out the fire."}, store.texts())
}

func TestJournal_FlushesOnInterval(t *testing.T) {
	store := &memStore{}
	j := memorial.NewJournal(store, 16, 10*time.Millisecond, zap.NewNop())
	defer j.Close()
	j.Record(memorial.Entry{Text: "Was stunned."})
	require.Eventually(t, func() bool { return len(store.texts()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestJournal_StampsRecordedAt(t *testing.T) {
	store := &memStore{}
	j := memorial.NewJournal(store, 4, time.Hour, zap.NewNop())
	j.Record(memorial.Entry{Text: "x"})
	j.Close()
	require.Len(t, store.entries, 1)
	assert.False(t, store.entries[0].RecordedAt.IsZero())
}

func TestJournal_DropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := &memStore{block: make(chan struct{})}
	j := memorial.NewJournal(store, 1, time.Hour, zap.New(core))
	// The first entry fills a batch and parks the writer in the store; the
	// second fills the buffer; the third has nowhere to go.
	j.Record(memorial.Entry{Text: "a"})
	require.Eventually(t, func() bool {
		j.Record(memorial.Entry{Text: "b"})
		return logs.FilterMessage("memorial buffer full; dropping entry").Len() > 0
	}, time.Second, time.Millisecond)
	close(store.block)
	j.Close()
}

func TestJournal_RecordAfterCloseIsIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	j := memorial.NewJournal(&memStore{}, 4, time.Hour, zap.New(core))
	j.Close()
	j.Close()
	j.Record(memorial.Entry{Text: "late"})
	assert.Equal(t, 1, logs.FilterMessage("memorial entry after close").Len())
}

func TestJournal_StoreErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	j := memorial.NewJournal(&memStore{err: errors.New("db down")}, 4, time.Hour, zap.New(core))
	j.Record(memorial.Entry{Text: "x"})
	j.Close()
	assert.Equal(t, 1, logs.FilterMessage("writing memorial entries").Len())
}

func TestDiscard(t *testing.T) {
	memorial.Discard.Record(memorial.Entry{Text: "nothing"})
}
