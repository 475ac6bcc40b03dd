package query

import (
	"net/url"
	"strconv"
)

// URL parameter names for the shareable view link. Parameters matching their
// defaults are omitted so two views of the same state always produce the same
// link.
const (
	paramService   = "service"
	paramTimeRange = "timeRange"
	paramFilter    = "filter"
	paramLimit     = "limit"
	paramOffset    = "offset"
	paramSortBy    = "sortBy"
	paramSortOrder = "sortOrder"
)

// Encode renders q as URL query parameters, omitting defaults.
func Encode(q Query) url.Values {
	v := url.Values{}
	if q.Service != "" {
		v.Set(paramService, q.Service)
	}
	if q.TimeRange.Valid() && q.TimeRange != DefaultTimeRange {
		v.Set(paramTimeRange, string(q.TimeRange))
	}
	if q.Filter != "" {
		v.Set(paramFilter, q.Filter)
	}
	if q.Limit > 0 && q.Limit != DefaultLimit {
		v.Set(paramLimit, strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set(paramOffset, strconv.Itoa(q.Offset))
	}
	if q.SortBy.Valid() {
		v.Set(paramSortBy, string(q.SortBy))
		order := q.SortOrder
		if !order.Valid() {
			order = OrderDesc
		}
		v.Set(paramSortOrder, string(order))
	}
	return v
}

// Decode restores a query from URL parameters. Absent, empty, or unparseable
// parameters fall back to their defaults individually; a broken link never
// fails outright, it just loses the broken piece.
func Decode(v url.Values) Query {
	q := Default()
	if s := v.Get(paramService); s != "" {
		q.Service = s
	}
	if tr := TimeRange(v.Get(paramTimeRange)); tr.Valid() {
		q.TimeRange = tr
	}
	if f := v.Get(paramFilter); f != "" {
		q.Filter = f
	}
	if n, err := strconv.Atoi(v.Get(paramLimit)); err == nil && n > 0 {
		q.Limit = n
	}
	if n, err := strconv.Atoi(v.Get(paramOffset)); err == nil && n > 0 {
		q.Offset = n
	}
	if k := SortKey(v.Get(paramSortBy)); k.Valid() {
		q.SortBy = k
		q.SortOrder = OrderDesc
		if o := SortOrder(v.Get(paramSortOrder)); o.Valid() {
			q.SortOrder = o
		}
	}
	return q
}

// EncodeURL builds a full shareable link for the view under base, e.g.
// "http://mirador.example/httptop".
func EncodeURL(base string, q Query) string {
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	u.RawQuery = Encode(q).Encode()
	return u.String()
}

// DecodeURL restores a query from a shareable link. An unparseable link
// yields the default query.
func DecodeURL(raw string) Query {
	u, err := url.Parse(raw)
	if err != nil {
		return Default()
	}
	return Decode(u.Query())
}
