package accesslog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hsedigital/platform/pkg/logger"
	"github.com/hsedigital/platform/pkg/metrics"
)

// AsyncOptions configures the batching and buffering behavior of AsyncWriter.
type AsyncOptions struct {
	BufferSize     int           // Max entries queued in memory before falling back to sync writes
	BatchSize      int           // Target entries per batch
	BatchTimeout   time.Duration // Max time a partial batch waits before flushing
	StorageTimeout time.Duration // Per-batch storage timeout
	Logger         *slog.Logger  // Defaults to slog.Default()
}

// AsyncWriter decouples request handling from storage latency by batching
// entries on a background goroutine. Store returns as soon as the entry is
// queued; a full buffer falls back to a synchronous write so entries are
// not silently lost. Flush failures are logged and counted, never surfaced
// to request handlers.
type AsyncWriter struct {
	writer    Writer
	entries   chan Entry
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	options   AsyncOptions
	log       *slog.Logger
}

// NewAsyncWriter wraps a storage writer with batching. The returned close
// function drains pending entries and must be called during shutdown.
func NewAsyncWriter(w Writer, opts AsyncOptions) (*AsyncWriter, func(context.Context) error) {
	if w == nil {
		panic("accesslog: writer cannot be nil")
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	aw := &AsyncWriter{
		writer:  w,
		entries: make(chan Entry, opts.BufferSize),
		done:    make(chan struct{}),
		options: opts,
		log:     opts.Logger,
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Store queues entries for batched writing. When the buffer is full the
// remaining entries are written synchronously on the caller's goroutine.
func (aw *AsyncWriter) Store(ctx context.Context, entries ...Entry) error {
	select {
	case <-aw.done:
		return ErrStorageUnavailable
	default:
	}

	for i, e := range entries {
		select {
		case <-aw.done:
			return ErrStorageUnavailable
		case aw.entries <- e:
		default:
			return aw.writer.Store(ctx, entries[i:]...)
		}
	}
	return nil
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Entry, 0, aw.options.BatchSize)
	ticker := time.NewTicker(aw.options.BatchTimeout)
	defer ticker.Stop()

	// flush uses a background context so client cancellations never
	// cascade into storage writes.
	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
		defer cancel()

		if err := aw.writer.Store(ctx, batch...); err != nil {
			metrics.RecordAccessLogDrop(len(batch))
			aw.log.Error("access log flush failed",
				logger.Error(err),
				slog.Int("entries", len(batch)),
				logger.Component("accesslog"))
		}

		batch = batch[:0]
	}

	for {
		select {
		case e := <-aw.entries:
			batch = append(batch, e)
			if len(batch) >= aw.options.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-aw.done:
			// Drain whatever is buffered without closing the channel,
			// so a racing Store can never panic on send.
			for {
				select {
				case e := <-aw.entries:
					batch = append(batch, e)
					if len(batch) >= aw.options.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close drains pending entries. The context bounds the shutdown; entries
// still buffered when it expires are lost.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	aw.closeOnce.Do(func() {
		close(aw.done)
	})

	finished := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
