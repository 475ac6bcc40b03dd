// Package view turns raw httpcalls results into the rows, pagination state,
// and detail sections the terminal UI renders.
package view

import (
	"fmt"
	"time"

	"github.com/platformbuilds/mirador-httptop/internal/models"
	"github.com/platformbuilds/mirador-httptop/internal/query"
	"github.com/platformbuilds/mirador-httptop/pkg/formatters"
)

// uriColumnWidth caps the URI cell so one long path cannot crowd out the
// metric columns.
const uriColumnWidth = 48

// Row is one rendered table line plus the record behind it for the detail
// panel.
type Row struct {
	Method      string
	URI         string
	Service     string
	Calls       string
	AvgDuration string
	ErrorRate   string
	LastSeen    string
	Record      models.CallRecord
}

// Projection is everything the table view needs for one page of results.
type Projection struct {
	Rows       []Row
	Page       int
	PageCount  int
	HasPrev    bool
	HasNext    bool
	RangeStart int
	RangeEnd   int
	Total      int64
	TotalCalls int64
}

// Project builds the page view for data fetched with q. Pagination is derived
// from the query's offset and limit against the backend-reported total, so
// the controls always reflect what the server actually has.
func Project(q query.Query, data *models.CallsResult, now time.Time) Projection {
	p := Projection{
		Total:      data.Total,
		TotalCalls: data.TotalCalls,
		Rows:       make([]Row, 0, len(data.HTTPCalls)),
	}

	limit := q.Limit
	if limit < 1 {
		limit = 1
	}
	p.Page = q.Offset/limit + 1
	p.PageCount = int((data.Total + int64(limit) - 1) / int64(limit))
	p.HasPrev = q.Offset > 0
	p.HasNext = int64(q.Offset+limit) < data.Total

	if len(data.HTTPCalls) > 0 {
		p.RangeStart = q.Offset + 1
		p.RangeEnd = q.Offset + len(data.HTTPCalls)
	}

	for _, rec := range data.HTTPCalls {
		p.Rows = append(p.Rows, Row{
			Method:      rec.Method,
			URI:         formatters.URI(rec.URI, uriColumnWidth),
			Service:     rec.Service,
			Calls:       formatters.Count(rec.CallCount),
			AvgDuration: formatters.Duration(rec.AvgDurationMs),
			ErrorRate:   formatters.Percent(rec.ErrorRate),
			LastSeen:    formatters.RelativeTime(rec.LastCreatedAt, now),
			Record:      rec,
		})
	}
	return p
}

// StatusLine is the one-line summary under the table, e.g.
// "50 of 412 requests (1-50)".
func (p Projection) StatusLine() string {
	if p.Total == 0 {
		return "no requests match the current view"
	}
	return fmt.Sprintf("%d of %s requests (%d-%d)",
		len(p.Rows), formatters.Count(p.Total), p.RangeStart, p.RangeEnd)
}

// TotalsLine is the aggregate call volume banner, e.g. "Total: 9,876 calls".
func (p Projection) TotalsLine() string {
	return fmt.Sprintf("Total: %s calls", formatters.Count(p.TotalCalls))
}

// PageLine renders the pagination indicator, e.g. "page 3/9".
func (p Projection) PageLine() string {
	if p.PageCount < 1 {
		return ""
	}
	return fmt.Sprintf("page %d/%d", p.Page, p.PageCount)
}

// ClampSelection keeps a cursor valid across refreshes. A selection that no
// longer points at a row is cleared rather than silently moved to a
// different record.
func ClampSelection(selected, rows int) int {
	if selected < 0 || selected >= rows {
		return -1
	}
	return selected
}
