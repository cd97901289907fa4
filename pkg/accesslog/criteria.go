package accesslog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Criteria narrows a query. Zero-valued fields match everything.
// Results are ordered newest first; Cursor continues a previous page.
type Criteria struct {
	TenantID    uuid.UUID
	PrincipalID uuid.UUID
	Entity      string
	Outcome     Outcome
	Severity    Severity
	From        time.Time // inclusive
	To          time.Time // exclusive
	Limit       int
	Cursor      string
}

func (c Criteria) matches(e Entry) bool {
	if c.TenantID != uuid.Nil && e.TenantID != c.TenantID {
		return false
	}
	if c.PrincipalID != uuid.Nil && e.PrincipalID != c.PrincipalID {
		return false
	}
	if c.Entity != "" && e.Entity != c.Entity {
		return false
	}
	if c.Outcome != "" && e.Outcome != c.Outcome {
		return false
	}
	if c.Severity != "" && e.Severity != c.Severity {
		return false
	}
	if !c.From.IsZero() && e.Time.Before(c.From) {
		return false
	}
	if !c.To.IsZero() && !e.Time.Before(c.To) {
		return false
	}
	return true
}

// Cursors encode the keyset position (time, id) of the last entry on a
// page, so pagination stays stable while new entries are appended.
func encodeCursor(e Entry) string {
	return fmt.Sprintf("%d_%s", e.Time.UnixNano(), e.ID)
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	nanos, idStr, ok := strings.Cut(cursor, "_")
	if !ok {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}

	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}

	return time.Unix(0, n).UTC(), id, nil
}

// after reports whether a comes strictly after b in (time, id) descending
// order, meaning a would be listed before b.
func after(aTime time.Time, aID uuid.UUID, bTime time.Time, bID uuid.UUID) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return strings.Compare(aID.String(), bID.String()) > 0
}
