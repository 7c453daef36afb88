// Package store holds the accumulated Bill of Quantities on behalf of the
// API surfaces. The extraction and chat pipelines never keep a reference to
// it: they receive snapshots and hand back new slices, and the store
// serializes runs so only one pipeline mutates it at a time.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tamerhisham/autoboq/pkg/boq"
	apperrors "github.com/tamerhisham/autoboq/pkg/common/errors"
)

// priceMarker separates the pricing suffix appended to a breakdown trace.
const priceMarker = " || Price: "

// BOQStore accumulates items and progress logs for the current project.
type BOQStore struct {
	mu      sync.RWMutex
	items   []boq.Item
	logs    []boq.LogEntry
	running bool
}

// New creates an empty store.
func New() *BOQStore {
	return &BOQStore{}
}

// BeginRun claims the store for a new extraction run, clearing previous
// results. Fails while another run is active: concurrent runs are not a
// supported configuration.
func (s *BOQStore) BeginRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return apperrors.ErrRunActive
	}
	s.running = true
	s.items = nil
	s.logs = nil
	return nil
}

// EndRun releases the store after a run finishes, successfully or not.
func (s *BOQStore) EndRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Running reports whether an extraction run currently owns the store.
func (s *BOQStore) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// AppendLog records one progress event. Logs are append-only.
func (s *BOQStore) AppendLog(entry boq.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// AppendItems adds one module's completed items to the accumulated BOQ.
func (s *BOQStore) AppendItems(items []boq.Item) {
	if len(items) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// Items returns a snapshot copy of the accumulated BOQ.
func (s *BOQStore) Items() []boq.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]boq.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Logs returns a snapshot copy of the progress log.
func (s *BOQStore) Logs() []boq.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]boq.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// Replace swaps the whole BOQ for a revised one, e.g. after a chat patch.
func (s *BOQStore) Replace(items []boq.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// SetPrice records a unit price on an item and appends the price suffix to
// its breakdown trace, replacing any previous pricing suffix.
func (s *BOQStore) SetPrice(id int, price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: negative price", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].UnitPrice = price
		base := s.items[i].Breakdown
		if idx := strings.Index(base, priceMarker); idx >= 0 {
			base = base[:idx]
		}
		s.items[i].Breakdown = fmt.Sprintf("%s%s%g", base, priceMarker, price)
		return nil
	}
	return fmt.Errorf("%w: item %d", apperrors.ErrNotFound, id)
}
