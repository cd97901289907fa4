package handler

// Page is the list envelope returned by every collection endpoint. Data is
// never null: empty pages serialize as an empty array. NextCursor is present
// only when HasMore is true; clients pass it back verbatim to fetch the next
// page.
type Page[T any] struct {
	Data       []T    `json:"data"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// NewPage builds the list envelope from a slice and the cursor for the next
// page. An empty cursor means the listing is exhausted.
func NewPage[T any](items []T, next string) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data:       items,
		HasMore:    next != "",
		NextCursor: next,
	}
}
