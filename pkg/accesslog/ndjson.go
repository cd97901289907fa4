package accesslog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// NDJSONStorage appends one JSON object per line to an io.Writer, matching
// the export format consumed by external review tooling. It is write-only;
// rotation and archival of the underlying file are external concerns.
type NDJSONStorage struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewNDJSONStorage creates a storage writing to w. The caller owns the
// writer's lifecycle.
func NewNDJSONStorage(w io.Writer) *NDJSONStorage {
	if w == nil {
		panic("accesslog: writer cannot be nil")
	}
	return &NDJSONStorage{enc: json.NewEncoder(w)}
}

// Store writes each entry as a single line.
func (s *NDJSONStorage) Store(ctx context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if err := s.enc.Encode(e); err != nil {
			return fmt.Errorf("encode access log entry: %w", err)
		}
	}
	return nil
}
