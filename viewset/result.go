package viewset

import "encoding/json"

// ListPayload is the wire shape of a list response. Range-paginated requests
// carry no page bookkeeping, matching the page-mode/range-mode split.
type ListPayload struct {
	Objects     []json.RawMessage `json:"objects"`
	TotalCount  int               `json:"total_count"`
	NumPages    int               `json:"num_pages,omitempty"`
	CurrentPage int               `json:"current_page,omitempty"`
}

// Result is a read response plus its cache-origin marker. FromCache exists
// for observability (cache hit headers, tests); correctness never depends
// on it.
type Result struct {
	Payload   []byte
	FromCache bool
}
