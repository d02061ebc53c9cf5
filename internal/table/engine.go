package table

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/api/metrics"
	"github.com/backoffice/admin-gateway/internal/core/ports"
)

const defaultDebounce = 500 * time.Millisecond

// Config describes a remote collection to the engine. Every field is
// immutable for the table's lifetime.
type Config[T any] struct {
	// Collection names the table for logs, metrics and snapshots.
	Collection string
	// RowKey extracts the unique row identifier; it must be injective over
	// any single fetched page.
	RowKey func(row T) string
	// Columns is the ordered column set, consumed read-only.
	Columns []Column[T]
	// Fetch retrieves one page for an encoded query state.
	Fetch Fetcher[T]
	// Delete removes a single row; required when DeleteEnabled is set.
	Delete Deleter
	// DeleteEnabled activates row selection and bulk delete.
	DeleteEnabled bool
	// CreateEnabled advertises the create affordance; creation itself is
	// performed by the caller, not the engine.
	CreateEnabled bool
	// DefaultOrder seeds the initial ordering, if any.
	DefaultOrder *Order
	// FilterFields is the declarative filter schema: values for fields
	// outside this set are dropped.
	FilterFields []string
	// Debounce overrides the 500ms search debounce, for tests.
	Debounce time.Duration
	// Preferences stores the rows-per-page preference for OwnerID. Optional.
	Preferences ports.PreferenceStore
	// OwnerID is the identity the table belongs to.
	OwnerID string
}

// Engine owns the query state of one mounted table, translates it into
// collection-endpoint requests, fetches reactively, and tracks row selection.
//
// Every state-changing transition bumps a generation and cancels the fetch of
// the previous one; a response is applied only while its generation is still
// current, so a stale result can never overwrite newer data.
type Engine[T any] struct {
	cfg Config[T]
	log zerolog.Logger

	root       context.Context
	rootCancel context.CancelFunc

	mu       sync.Mutex
	query    QueryState
	gen      uint64
	cancel   context.CancelFunc
	rows     []T
	total    int64
	loading  bool
	lastErr  error
	selected map[string]struct{}

	pendingSearch string
	searchTimer   *time.Timer
	closed        bool
}

// New builds an engine for cfg and loads the owner's page-size preference.
// The caller issues the first fetch with Refresh. ctx bounds all background
// fetches; cancelling it (or calling Close) stops the engine.
func New[T any](ctx context.Context, cfg Config[T], log zerolog.Logger) *Engine[T] {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}

	pageSize := DefaultPageSize
	if cfg.Preferences != nil {
		size, err := cfg.Preferences.PageSize(ctx, cfg.OwnerID)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("collection", cfg.Collection).Msg("page size preference unavailable, using default")
		case size > 0:
			pageSize = size
		}
	}

	root, rootCancel := context.WithCancel(ctx)
	e := &Engine[T]{
		cfg:        cfg,
		log:        log,
		root:       root,
		rootCancel: rootCancel,
		query:      NewQueryState(pageSize, cfg.DefaultOrder),
		selected:   make(map[string]struct{}),
	}

	metrics.TablesActive.Inc()
	return e
}

func (e *Engine[T]) Collection() string { return e.cfg.Collection }

// Search records the text and (re)arms the debounce timer; each keystroke
// cancels the previous pending apply, so a burst of keystrokes within the
// debounce interval issues exactly one request.
func (e *Engine[T]) Search(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.pendingSearch = text
	if e.searchTimer == nil {
		e.searchTimer = time.AfterFunc(e.cfg.Debounce, e.applyPendingSearch)
		return
	}
	e.searchTimer.Reset(e.cfg.Debounce)
}

func (e *Engine[T]) applyPendingSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.pendingSearch == e.query.Search {
		return
	}
	e.query.Search = e.pendingSearch
	e.clearSelectionLocked()
	e.refreshLocked()
}

// ToggleSort orders ascending by a new column, and flips the direction on the
// column already ordered by. Once engaged, ordering never returns to "none".
// Unknown and non-orderable columns are a no-op.
func (e *Engine[T]) ToggleSort(column string) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.orderable(column) {
		return settled()
	}
	if e.query.Order != nil && e.query.Order.Column == column {
		dir := Ascending
		if e.query.Order.Direction == Ascending {
			dir = Descending
		}
		e.query.Order = &Order{Column: column, Direction: dir}
	} else {
		e.query.Order = &Order{Column: column, Direction: Ascending}
	}
	e.clearSelectionLocked()
	return e.refreshLocked()
}

// GoToPage moves to a 1-indexed page. Bounds are the pagination controls'
// responsibility; the engine applies whatever it is given.
func (e *Engine[T]) GoToPage(page int) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return settled()
	}
	e.query.Offset = (page - 1) * e.query.PageSize
	e.clearSelectionLocked()
	return e.refreshLocked()
}

// SetPageSize persists the new size and refetches. The offset is deliberately
// kept as-is: changing rows-per-page alone does not re-anchor to page 1, and
// the kept offset can point past the end of the resized result set.
func (e *Engine[T]) SetPageSize(ctx context.Context, size int) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || size <= 0 {
		return settled()
	}
	if e.cfg.Preferences != nil {
		if err := e.cfg.Preferences.SetPageSize(ctx, e.cfg.OwnerID, size); err != nil {
			e.log.Warn().Err(err).Str("collection", e.cfg.Collection).Msg("failed to persist page size preference")
		}
	}
	e.query.PageSize = size
	e.clearSelectionLocked()
	return e.refreshLocked()
}

// ApplyFilters replaces the filter predicate with the non-empty values of the
// declared filter fields, ANDed together. Unknown fields are dropped.
func (e *Engine[T]) ApplyFilters(values map[string]string) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return settled()
	}
	e.query.SetFilters(e.cfg.FilterFields, values)
	e.clearSelectionLocked()
	return e.refreshLocked()
}

// ResetFilter clears one filter field and immediately re-applies the rest.
func (e *Engine[T]) ResetFilter(field string) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return settled()
	}
	e.query.ClearFilter(field)
	e.clearSelectionLocked()
	return e.refreshLocked()
}

// ResetFilters clears the whole filter predicate.
func (e *Engine[T]) ResetFilters() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return settled()
	}
	e.query.ClearFilters()
	e.clearSelectionLocked()
	return e.refreshLocked()
}

// Refresh re-issues the fetch for the current query state without changing
// it. The selection survives a manual refresh.
func (e *Engine[T]) Refresh() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return settled()
	}
	return e.refreshLocked()
}

// ToggleRow adds or removes a single row from the selection by key. Keys not
// present on the current page are ignored.
func (e *Engine[T]) ToggleRow(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.cfg.DeleteEnabled || !e.onPage(key) {
		return
	}
	if _, ok := e.selected[key]; ok {
		delete(e.selected, key)
		return
	}
	e.selected[key] = struct{}{}
}

// ToggleAll selects every row on the currently fetched page, or clears the
// selection entirely.
func (e *Engine[T]) ToggleAll(selected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.cfg.DeleteEnabled {
		return
	}
	if !selected {
		e.clearSelectionLocked()
		return
	}
	for _, row := range e.rows {
		e.selected[e.cfg.RowKey(row)] = struct{}{}
	}
}

// DeleteSelected issues one delete request per selected row, independently
// and concurrently. Succeeded rows leave the selection; failed rows remain
// selected and visible. After all requests settle the page is refetched, and
// the returned channel closes once that refetch has settled too.
func (e *Engine[T]) DeleteSelected(ctx context.Context) (BulkDeleteResult, <-chan struct{}) {
	e.mu.Lock()
	if e.closed || !e.cfg.DeleteEnabled || e.cfg.Delete == nil || len(e.selected) == 0 {
		e.mu.Unlock()
		return BulkDeleteResult{}, settled()
	}
	keys := make([]string, 0, len(e.selected))
	for key := range e.selected {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	e.mu.Unlock()

	errs := make([]error, len(keys))
	var wg sync.WaitGroup
	for i, id := range keys {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = e.cfg.Delete(ctx, id)
		}(i, id)
	}
	wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	var result BulkDeleteResult
	for i, id := range keys {
		if errs[i] != nil {
			result.Failed = append(result.Failed, DeleteFailure{ID: id, Message: errs[i].Error()})
			metrics.RowDeletesTotal.WithLabelValues(e.cfg.Collection, "error").Inc()
			e.log.Error().Err(errs[i]).Str("collection", e.cfg.Collection).Str("row_id", id).Msg("row delete failed")
			continue
		}
		delete(e.selected, id)
		result.Deleted = append(result.Deleted, id)
		metrics.RowDeletesTotal.WithLabelValues(e.cfg.Collection, "ok").Inc()
	}
	// The cached page is stale regardless of outcome; refetch without
	// touching the remaining (failed) selection.
	return result, e.refreshLocked()
}

// Snapshot renders the engine's current state.
func (e *Engine[T]) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	columns := make([]ColumnInfo, len(e.cfg.Columns))
	for i, col := range e.cfg.Columns {
		columns[i] = ColumnInfo{ID: col.ID, Name: col.Name, Orderable: col.Orderable}
	}

	rows := make([]RowView, len(e.rows))
	selectedOnPage := 0
	for i, row := range e.rows {
		key := e.cfg.RowKey(row)
		cells := make([]string, len(e.cfg.Columns))
		for j, col := range e.cfg.Columns {
			cells[j] = col.Cell(row)
		}
		_, isSelected := e.selected[key]
		if isSelected {
			selectedOnPage++
		}
		rows[i] = RowView{Key: key, Cells: cells, Selected: isSelected}
	}

	page := PageNumber(e.query.Offset, e.query.PageSize)
	totalPages := TotalPages(e.total, e.query.PageSize)

	snap := Snapshot{
		Collection:    e.cfg.Collection,
		Columns:       columns,
		Rows:          rows,
		TotalCount:    e.total,
		Loading:       e.loading,
		Search:        e.query.Search,
		FilterFields:  e.cfg.FilterFields,
		Filters:       e.query.Filters(),
		Order:         e.query.Order,
		PageSize:      e.query.PageSize,
		Offset:        e.query.Offset,
		Page:          page,
		TotalPages:    totalPages,
		PageWindow:    PageWindow(page, totalPages),
		SelectedCount: len(e.selected),
		AllSelected:   len(e.rows) > 0 && selectedOnPage == len(e.rows),
		Indeterminate: selectedOnPage > 0 && selectedOnPage < len(e.rows),
		DeleteEnabled: e.cfg.DeleteEnabled,
		CreateEnabled: e.cfg.CreateEnabled,
	}
	if e.lastErr != nil {
		snap.LastError = e.lastErr.Error()
	}
	return snap
}

// Close cancels any in-flight fetch and stops the debounce timer. The engine
// is unusable afterwards.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.searchTimer != nil {
		e.searchTimer.Stop()
	}
	e.rootCancel()
	metrics.TablesActive.Dec()
}

// refreshLocked supersedes any in-flight fetch and starts a new one for the
// current query state. Callers must hold e.mu.
func (e *Engine[T]) refreshLocked() <-chan struct{} {
	e.gen++
	gen := e.gen
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(e.root)
	e.cancel = cancel
	e.loading = true

	done := make(chan struct{})
	go e.fetch(ctx, cancel, gen, e.query.Encode(), done)
	return done
}

func (e *Engine[T]) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, query url.Values, done chan struct{}) {
	defer close(done)
	defer cancel()

	start := time.Now()
	page, err := e.cfg.Fetch(ctx, query)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		// A newer transition superseded this fetch while it was in flight.
		metrics.TableFetchesTotal.WithLabelValues(e.cfg.Collection, "superseded").Inc()
		return
	}
	e.loading = false
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		e.lastErr = err
		metrics.TableFetchesTotal.WithLabelValues(e.cfg.Collection, "error").Inc()
		e.log.Error().Err(err).Str("collection", e.cfg.Collection).Msg("page fetch failed")
		return
	}
	e.lastErr = nil
	e.rows = page.Rows
	e.total = page.Count
	metrics.TableFetchesTotal.WithLabelValues(e.cfg.Collection, "ok").Inc()
	metrics.TableFetchDuration.WithLabelValues(e.cfg.Collection).Observe(time.Since(start).Seconds())
}

func (e *Engine[T]) orderable(column string) bool {
	for _, col := range e.cfg.Columns {
		if col.ID == column {
			return col.Orderable
		}
	}
	return false
}

func (e *Engine[T]) onPage(key string) bool {
	for _, row := range e.rows {
		if e.cfg.RowKey(row) == key {
			return true
		}
	}
	return false
}

func (e *Engine[T]) clearSelectionLocked() {
	e.selected = make(map[string]struct{})
}

// settled returns an already-closed channel for transitions that do not
// trigger a fetch.
func settled() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
