package accesslog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
)

// OpenSearchStorage indexes entries into monthly indices for long-retention
// compliance search. It is a write-only sink; querying is left to the
// cluster's own tooling.
type OpenSearchStorage struct {
	client      *opensearch.Client
	indexPrefix string
}

// OpenSearchOption configures OpenSearchStorage.
type OpenSearchOption func(*OpenSearchStorage)

// WithIndexPrefix overrides the default "access-log" index prefix.
func WithIndexPrefix(prefix string) OpenSearchOption {
	return func(s *OpenSearchStorage) {
		s.indexPrefix = prefix
	}
}

// NewOpenSearchStorage creates a storage over the given client.
func NewOpenSearchStorage(client *opensearch.Client, opts ...OpenSearchOption) *OpenSearchStorage {
	if client == nil {
		panic("accesslog: client cannot be nil")
	}

	s := &OpenSearchStorage{
		client:      client,
		indexPrefix: "access-log",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// indexFor routes an entry to its monthly index, e.g. "access-log-2026.08".
func (s *OpenSearchStorage) indexFor(t time.Time) string {
	return fmt.Sprintf("%s-%s", s.indexPrefix, t.UTC().Format("2006.01"))
}

// Store bulk-indexes entries, using entry IDs as document IDs so retried
// writes stay idempotent.
func (s *OpenSearchStorage) Store(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	var body bytes.Buffer
	for _, e := range entries {
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, s.indexFor(e.Time), e.ID.String())
		body.WriteString(meta)
		body.WriteByte('\n')

		doc, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal access log entry: %w", err)
		}
		body.Write(doc)
		body.WriteByte('\n')
	}

	res, err := s.client.Bulk(
		bytes.NewReader(body.Bytes()),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk index access log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: bulk index returned %s", ErrStorageUnavailable, res.Status())
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if result.Errors {
		return fmt.Errorf("%w: bulk index rejected items", ErrStorageUnavailable)
	}
	return nil
}
