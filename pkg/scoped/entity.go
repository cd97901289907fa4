package scoped

import "github.com/google/uuid"

// OwnerColumn is the tenant ownership column every protected table
// carries. The column is NOT NULL and stamped on create; it never holds
// the zero uuid, so the sentinel owner of context-free calls matches no
// real row.
const OwnerColumn = "organization_id"

// Entity is implemented by pointer types of all protected entities.
type Entity interface {
	// EntityID returns the row id.
	EntityID() uuid.UUID

	// Owner returns the owning tenant id.
	Owner() uuid.UUID

	// SetOwner stamps the owning tenant id. Called by the store on
	// create, never by handler code.
	SetOwner(uuid.UUID)
}

// Filter matches rows by column equality. Keys are column names written
// by module code, never end-user input; values are compared with =. A
// nil or empty filter matches every row the caller's tenant owns.
type Filter map[string]any

// ByID filters on the row id.
func ByID(id uuid.UUID) Filter {
	return Filter{"id": id}
}

// clone copies the filter so scoping never mutates the caller's map.
func (f Filter) clone() Filter {
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Changes is the set of columns an update writes. Keys are column
// names; the owner column is stripped by the store before execution.
type Changes map[string]any

// clone copies the change set.
func (c Changes) clone() Changes {
	out := make(Changes, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Page requests one page of a list. Zero Limit means no limit; Cursor
// is the opaque continuation token from the previous page.
type Page struct {
	Limit  int
	Cursor string
}
