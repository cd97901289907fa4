package accesslog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps entries in memory. Intended for tests and local
// development; it implements both Writer and Querier.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends entries.
func (s *MemoryStorage) Store(ctx context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

// Query returns matching entries ordered newest first.
func (s *MemoryStorage) Query(ctx context.Context, criteria Criteria) ([]Entry, error) {
	var (
		cursorSet  bool
		cursorTime time.Time
		cursorID   uuid.UUID
	)
	if criteria.Cursor != "" {
		t, id, err := decodeCursor(criteria.Cursor)
		if err != nil {
			return nil, err
		}
		cursorSet, cursorTime, cursorID = true, t, id
	}

	s.mu.RLock()
	matched := make([]Entry, 0)
	for _, e := range s.entries {
		if !criteria.matches(e) {
			continue
		}
		if cursorSet && !after(cursorTime, cursorID, e.Time, e.ID) {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return after(matched[i].Time, matched[i].ID, matched[j].Time, matched[j].ID)
	})

	if criteria.Limit > 0 && len(matched) > criteria.Limit {
		matched = matched[:criteria.Limit]
	}
	return matched, nil
}

// Count returns the number of matching entries, ignoring Limit and Cursor.
func (s *MemoryStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.entries {
		if criteria.matches(e) {
			n++
		}
	}
	return n, nil
}

// Len reports the total number of stored entries.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
