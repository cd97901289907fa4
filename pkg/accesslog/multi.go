package accesslog

import (
	"context"
	"errors"
)

type multiWriter struct {
	writers []Writer
}

// NewMultiWriter fans entries out to several sinks, e.g. Postgres for the
// query surface plus OpenSearch for long retention. Every sink receives
// the batch even when an earlier one fails; failures are joined.
func NewMultiWriter(writers ...Writer) Writer {
	if len(writers) == 0 {
		panic("accesslog: at least one writer is required")
	}
	if len(writers) == 1 {
		return writers[0]
	}
	return &multiWriter{writers: writers}
}

func (m *multiWriter) Store(ctx context.Context, entries ...Entry) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Store(ctx, entries...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
