package table

import "context"

// ColumnInfo is the rendering-agnostic column description exposed to clients.
type ColumnInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Orderable bool   `json:"orderable"`
}

// RowView is one rendered row: a stable key plus one cell per column.
type RowView struct {
	Key      string   `json:"key"`
	Cells    []string `json:"cells"`
	Selected bool     `json:"selected"`
}

// Snapshot is the full observable state of a table instance at one moment:
// the current page of rows, the query state that produced it, and every
// derived value the pagination and selection controls need.
type Snapshot struct {
	Collection    string            `json:"collection"`
	Columns       []ColumnInfo      `json:"columns"`
	Rows          []RowView         `json:"rows"`
	TotalCount    int64             `json:"total_count"`
	Loading       bool              `json:"loading"`
	LastError     string            `json:"last_error,omitempty"`
	Search        string            `json:"search,omitempty"`
	FilterFields  []string          `json:"filter_fields,omitempty"`
	Filters       map[string]string `json:"filters,omitempty"`
	Order         *Order            `json:"order,omitempty"`
	PageSize      int               `json:"page_size"`
	Offset        int               `json:"offset"`
	Page          int               `json:"page"`
	TotalPages    int               `json:"total_pages"`
	PageWindow    []int             `json:"page_window"`
	SelectedCount int               `json:"selected_count"`
	AllSelected   bool              `json:"all_selected"`
	Indeterminate bool              `json:"indeterminate"`
	DeleteEnabled bool              `json:"delete_enabled"`
	CreateEnabled bool              `json:"create_enabled"`
}

// DeleteFailure is one row whose delete request failed. The row stays
// selected and visible; only its error is reported.
type DeleteFailure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// BulkDeleteResult reports the outcome of a best-effort bulk delete. There
// are no cross-row transaction semantics: Deleted and Failed partition the
// selection that existed when the operation started.
type BulkDeleteResult struct {
	Deleted []string        `json:"deleted"`
	Failed  []DeleteFailure `json:"failed"`
}

// Instance is a type-erased table engine, letting the HTTP layer drive tables
// of different row types uniformly. Transition methods return a channel that
// is closed once the fetch triggered by the transition has settled (applied,
// failed, or superseded by a newer transition).
type Instance interface {
	Collection() string
	Snapshot() Snapshot

	// Search schedules a debounced search update; the fetch fires only after
	// the debounce interval elapses without another keystroke.
	Search(text string)
	ToggleSort(column string) <-chan struct{}
	GoToPage(page int) <-chan struct{}
	SetPageSize(ctx context.Context, size int) <-chan struct{}
	ApplyFilters(values map[string]string) <-chan struct{}
	ResetFilter(field string) <-chan struct{}
	ResetFilters() <-chan struct{}
	Refresh() <-chan struct{}

	ToggleRow(key string)
	ToggleAll(selected bool)
	DeleteSelected(ctx context.Context) (BulkDeleteResult, <-chan struct{})

	Close()
}
