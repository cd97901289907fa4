package scoped

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemTable describes the column view of one entity type for the
// in-memory backend, mirroring what Table does for Postgres.
type MemTable[E Entity] struct {
	// Fields returns the column view used for filter evaluation. Keys
	// must match the SQL column names modules filter on.
	Fields func(E) map[string]any

	// Apply writes a change set into the entity.
	Apply func(E, Changes)

	// SortKey returns the keyset pagination key (created_at, id).
	SortKey func(E) (time.Time, uuid.UUID)
}

// MemBackend is the in-memory Backend used in tests and local tooling.
// Entities are stored and returned as shallow copies, so mutating a
// returned value never corrupts the stored one.
type MemBackend[E Entity] struct {
	mu      sync.RWMutex
	table   MemTable[E]
	records map[uuid.UUID]E
}

// NewMemBackend creates an empty in-memory backend. It panics on an
// incomplete table definition.
func NewMemBackend[E Entity](table MemTable[E]) *MemBackend[E] {
	if table.Fields == nil || table.Apply == nil || table.SortKey == nil {
		panic("scoped: mem table definition is incomplete")
	}
	return &MemBackend[E]{
		table:   table,
		records: make(map[uuid.UUID]E),
	}
}

func (b *MemBackend[E]) Insert(_ context.Context, e E) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[e.EntityID()] = shallowCopy(e)
	return nil
}

func (b *MemBackend[E]) Get(_ context.Context, f Filter) (E, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	matched := b.collect(f)
	if len(matched) == 0 {
		var zero E
		return zero, ErrNotFound
	}
	return shallowCopy(matched[0]), nil
}

func (b *MemBackend[E]) List(_ context.Context, f Filter, p Page) ([]E, string, error) {
	var (
		cursorSet  bool
		cursorTime time.Time
		cursorID   uuid.UUID
	)
	if p.Cursor != "" {
		var err error
		cursorTime, cursorID, err = decodeCursor(p.Cursor)
		if err != nil {
			return nil, "", err
		}
		cursorSet = true
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []E
	for _, e := range b.collect(f) {
		if cursorSet {
			ts, id := b.table.SortKey(e)
			if !moreRecent(cursorTime, cursorID, ts, id) {
				continue
			}
		}
		out = append(out, shallowCopy(e))
		if p.Limit > 0 && len(out) == p.Limit {
			break
		}
	}

	var next string
	if p.Limit > 0 && len(out) == p.Limit {
		ts, id := b.table.SortKey(out[len(out)-1])
		next = encodeCursor(ts, id)
	}
	return out, next, nil
}

func (b *MemBackend[E]) Update(_ context.Context, f Filter, ch Changes) (int64, error) {
	if len(ch) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var n int64
	for _, e := range b.records {
		if b.matches(e, f) {
			b.table.Apply(e, ch)
			n++
		}
	}
	return n, nil
}

func (b *MemBackend[E]) Delete(_ context.Context, f Filter) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var n int64
	for id, e := range b.records {
		if b.matches(e, f) {
			delete(b.records, id)
			n++
		}
	}
	return n, nil
}

func (b *MemBackend[E]) Count(_ context.Context, f Filter) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var n int64
	for _, e := range b.records {
		if b.matches(e, f) {
			n++
		}
	}
	return n, nil
}

// Len reports how many rows the backend holds across all tenants.
func (b *MemBackend[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// collect returns matching records sorted newest first. Callers hold
// the lock.
func (b *MemBackend[E]) collect(f Filter) []E {
	var out []E
	for _, e := range b.records {
		if b.matches(e, f) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		it, iid := b.table.SortKey(out[i])
		jt, jid := b.table.SortKey(out[j])
		return moreRecent(it, iid, jt, jid)
	})
	return out
}

func (b *MemBackend[E]) matches(e E, f Filter) bool {
	if len(f) == 0 {
		return true
	}
	fields := b.table.Fields(e)
	for k, want := range f {
		got, ok := fields[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// shallowCopy duplicates the struct behind the entity pointer. Nested
// reference fields such as jsonb maps stay shared.
func shallowCopy[E Entity](e E) E {
	v := reflect.ValueOf(e)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return e
	}
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	return c.Interface().(E)
}
