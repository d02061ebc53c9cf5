package table

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Direction is a sort direction on a single column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Order is the active ordering of a table: at most one column at a time.
type Order struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// DefaultPageSize is used when the user has no stored preference.
const DefaultPageSize = 15

// QueryState is the complete set of parameters driving one fetch. It is the
// single source of truth for the request: encoding the same state always
// yields the same query string.
//
// filterOrder keeps the declared field order so the encoded predicate is
// deterministic regardless of map iteration.
type QueryState struct {
	Search      string
	Order       *Order
	PageSize    int
	Offset      int
	filters     map[string]string
	filterOrder []string
}

// NewQueryState seeds a query state with the given page size and optional
// default ordering.
func NewQueryState(pageSize int, order *Order) QueryState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return QueryState{
		PageSize: pageSize,
		Order:    order,
		filters:  make(map[string]string),
	}
}

// SetFilters replaces the whole filter predicate. Empty values are omitted;
// fields keeps the declared order used when encoding.
func (q *QueryState) SetFilters(fields []string, values map[string]string) {
	q.filters = make(map[string]string, len(values))
	q.filterOrder = q.filterOrder[:0]
	for _, field := range fields {
		v, ok := values[field]
		if !ok || v == "" {
			continue
		}
		q.filters[field] = v
		q.filterOrder = append(q.filterOrder, field)
	}
}

// ClearFilter removes a single filter field, keeping the rest intact.
func (q *QueryState) ClearFilter(field string) {
	delete(q.filters, field)
	for i, f := range q.filterOrder {
		if f == field {
			q.filterOrder = append(q.filterOrder[:i], q.filterOrder[i+1:]...)
			break
		}
	}
}

// ClearFilters removes the whole filter predicate.
func (q *QueryState) ClearFilters() {
	q.filters = make(map[string]string)
	q.filterOrder = nil
}

// Filters returns a copy of the active filter values.
func (q *QueryState) Filters() map[string]string {
	out := make(map[string]string, len(q.filters))
	for k, v := range q.filters {
		out[k] = v
	}
	return out
}

// Encode serializes the state into the collection-endpoint query contract:
//
//	top=<int>&count=true[&skip=<int>][&search="<term>"]
//	[&filter=<f> contains '<v>'[ and ...]][&orderby=<col> <asc|desc>]
func (q *QueryState) Encode() url.Values {
	values := url.Values{}
	values.Set("top", strconv.Itoa(q.PageSize))
	values.Set("count", "true")

	if q.Offset > 0 {
		values.Set("skip", strconv.Itoa(q.Offset))
	}
	// The search parameter is quoted and never sent empty.
	if q.Search != "" {
		values.Set("search", `"`+q.Search+`"`)
	}
	if len(q.filterOrder) > 0 {
		clauses := make([]string, 0, len(q.filterOrder))
		for _, field := range q.filterOrder {
			clauses = append(clauses, fmt.Sprintf("%s contains '%s'", field, q.filters[field]))
		}
		values.Set("filter", strings.Join(clauses, " and "))
	}
	if q.Order != nil {
		values.Set("orderby", fmt.Sprintf("%s %s", q.Order.Column, q.Order.Direction))
	}
	return values
}
