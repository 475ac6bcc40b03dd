// Package query holds the canonical dashboard query state and its URL form.
package query

import "time"

// TimeRange is a relative lookback window. It is resolved into absolute
// timestamps at fetch time, never at mutation time, so "24h" always means
// 24 hours before the moment the request is built.
type TimeRange string

const (
	TimeRange1h  TimeRange = "1h"
	TimeRange6h  TimeRange = "6h"
	TimeRange24h TimeRange = "24h"
	TimeRange7d  TimeRange = "7d"
	TimeRange30d TimeRange = "30d"
)

// TimeRanges lists the selectable windows in display order.
var TimeRanges = []TimeRange{TimeRange1h, TimeRange6h, TimeRange24h, TimeRange7d, TimeRange30d}

func (tr TimeRange) Valid() bool {
	switch tr {
	case TimeRange1h, TimeRange6h, TimeRange24h, TimeRange7d, TimeRange30d:
		return true
	}
	return false
}

func (tr TimeRange) Duration() time.Duration {
	switch tr {
	case TimeRange1h:
		return time.Hour
	case TimeRange6h:
		return 6 * time.Hour
	case TimeRange24h:
		return 24 * time.Hour
	case TimeRange7d:
		return 7 * 24 * time.Hour
	case TimeRange30d:
		return 30 * 24 * time.Hour
	}
	return DefaultTimeRange.Duration()
}

// Resolve returns the [from, to) window ending at now, in UTC with
// second-level precision.
func (tr TimeRange) Resolve(now time.Time) (from, to time.Time) {
	to = now.UTC().Truncate(time.Second)
	from = to.Add(-tr.Duration())
	return from, to
}

// SortKey is a sortable result column. The zero value means "unset": no sort
// parameter is sent and the backend's own default ordering applies
// (last_created_at descending).
type SortKey string

const (
	SortService       SortKey = "service"
	SortCallCount     SortKey = "call_count"
	SortAvgDuration   SortKey = "avg_duration"
	SortErrorCount    SortKey = "error_count"
	SortErrorRate     SortKey = "error_rate"
	SortLastCreatedAt SortKey = "last_created_at"
)

// SortKeys lists the sortable columns in cycle order.
var SortKeys = []SortKey{SortService, SortCallCount, SortAvgDuration, SortErrorCount, SortErrorRate, SortLastCreatedAt}

func (k SortKey) Valid() bool {
	for _, v := range SortKeys {
		if k == v {
			return true
		}
	}
	return false
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

const (
	DefaultTimeRange = TimeRange24h
	DefaultLimit     = 50
)

// Query is the canonical request shape for the HTTP analysis view.
type Query struct {
	TimeRange TimeRange
	Service   string
	Filter    string
	SortBy    SortKey
	SortOrder SortOrder
	Limit     int
	Offset    int
}

// Default returns the query a fresh view starts from.
func Default() Query {
	return Query{
		TimeRange: DefaultTimeRange,
		Limit:     DefaultLimit,
	}
}

// Store is the single source of truth for the current query. All mutation
// goes through the setters so the offset-reset invariant cannot be bypassed.
type Store struct {
	q Query
}

func NewStore() *Store {
	return &Store{q: Default()}
}

// NewStoreFrom seeds a store with a restored query, normalizing anything a
// hand-edited URL may have broken.
func NewStoreFrom(q Query) *Store {
	s := &Store{q: Default()}
	s.q.Service = q.Service
	s.q.Filter = q.Filter
	if q.TimeRange.Valid() {
		s.q.TimeRange = q.TimeRange
	}
	if q.SortBy.Valid() {
		s.q.SortBy = q.SortBy
	}
	if q.SortOrder.Valid() {
		s.q.SortOrder = q.SortOrder
	}
	if q.Limit > 0 {
		s.q.Limit = q.Limit
	}
	if q.Offset > 0 {
		s.q.Offset = q.Offset
	}
	return s
}

func (s *Store) Query() Query {
	return s.q
}

// SetTimeRange changes the lookback window. The result set is invalidated so
// the offset returns to the first page. Invalid ranges are ignored.
func (s *Store) SetTimeRange(tr TimeRange) {
	if !tr.Valid() || tr == s.q.TimeRange {
		return
	}
	s.q.TimeRange = tr
	s.q.Offset = 0
}

// SetService changes the exact-match service filter; empty means all
// services. Resets the offset.
func (s *Store) SetService(service string) {
	if service == s.q.Service {
		return
	}
	s.q.Service = service
	s.q.Offset = 0
}

// SetFilter replaces the free-text filter expression and resets the offset.
// When the expression carries an unambiguous service: predicate, the service
// field is mirrored to match; this is a best-effort convenience and the
// backend stays the sole authority on how the two combine.
func (s *Store) SetFilter(expr string) {
	if expr == s.q.Filter {
		return
	}
	s.q.Filter = expr
	s.q.Offset = 0
	if svc, ok := ServiceFromFilter(expr); ok {
		s.q.Service = svc
	}
}

// SetSort changes the sort column and direction without touching the offset.
// An invalid key clears the sort back to the backend default.
func (s *Store) SetSort(key SortKey, order SortOrder) {
	if !key.Valid() {
		s.q.SortBy = ""
		s.q.SortOrder = ""
		return
	}
	s.q.SortBy = key
	if order.Valid() {
		s.q.SortOrder = order
	} else {
		s.q.SortOrder = OrderDesc
	}
}

// SetLimit changes the page size, clamped to at least 1. The offset is left
// untouched: page-size changes are explicit user pagination actions.
func (s *Store) SetLimit(n int) {
	if n < 1 {
		n = 1
	}
	s.q.Limit = n
}

// SetOffset moves to a different page, clamped to non-negative.
func (s *Store) SetOffset(n int) {
	if n < 0 {
		n = 0
	}
	s.q.Offset = n
}
