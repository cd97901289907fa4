package scoped

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Listings are newest first, ordered by (created_at desc, id desc). The
// cursor packs the sort key of the last returned row; the next page
// resumes strictly after it, so concurrent inserts never repeat rows.

func encodeCursor(ts time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%d_%s", ts.UnixNano(), id)
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	rawTime, rawID, ok := strings.Cut(cursor, "_")
	if !ok {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	nanos, err := strconv.ParseInt(rawTime, 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return time.Unix(0, nanos).UTC(), id, nil
}

// moreRecent reports whether sort key a orders before sort key b under
// the newest-first order. String comparison of canonical uuids matches
// the bytewise order Postgres uses for the uuid type.
func moreRecent(aTime time.Time, aID uuid.UUID, bTime time.Time, bID uuid.UUID) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID.String() > bID.String()
}
