package table

import (
	"context"
	"net/url"
)

// Column describes one table column declaratively: an identifier matching the
// upstream field name, a display name, a cell renderer, and whether clicking
// the header may order by it. Columns are owned by the page definition and
// consumed read-only by the engine.
type Column[T any] struct {
	ID        string
	Name      string
	Cell      func(row T) string
	Orderable bool
}

// Page is one fetched slice of a remote collection together with the total
// number of rows matching the query. The JSON tags match the collection
// endpoint response envelope.
type Page[T any] struct {
	Count int64 `json:"count"`
	Rows  []T   `json:"value"`
}

// Fetcher retrieves one page for an encoded query state. Implementations must
// honor ctx cancellation: a superseded fetch is cancelled, not just ignored.
type Fetcher[T any] func(ctx context.Context, query url.Values) (Page[T], error)

// Deleter removes a single row by key.
type Deleter func(ctx context.Context, id string) error
