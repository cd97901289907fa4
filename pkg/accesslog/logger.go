package accesslog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Writer persists access log entries.
type Writer interface {
	Store(ctx context.Context, entries ...Entry) error
}

// Logger stamps, validates and persists entries. It is safe for concurrent use.
type Logger struct {
	storage            Writer
	hasher             Hasher
	requestIDExtractor func(context.Context) (string, bool)
}

// Option configures Logger behavior during initialization.
type Option func(*Logger)

// WithHasher enables tamper-evidence checksums on stored entries.
func WithHasher(h Hasher) Option {
	return func(l *Logger) {
		l.hasher = h
	}
}

// WithRequestIDExtractor fills Entry.RequestID from the request context
// when the caller did not set it.
func WithRequestIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *Logger) {
		l.requestIDExtractor = fn
	}
}

// NewLogger creates an access logger writing to the given storage.
func NewLogger(storage Writer, opts ...Option) *Logger {
	if storage == nil {
		panic("accesslog: storage cannot be nil")
	}

	l := &Logger{storage: storage}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record persists one entry, stamping ID, time and severity when unset.
func (l *Logger) Record(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	if entry.Severity == "" {
		entry.Severity = SeverityNormal
	}
	if entry.RequestID == "" && l.requestIDExtractor != nil {
		if id, ok := l.requestIDExtractor(ctx); ok {
			entry.RequestID = id
		}
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	if l.hasher != nil {
		entry.Checksum = l.hasher.Hash(entry)
	}

	return l.storage.Store(ctx, entry)
}
