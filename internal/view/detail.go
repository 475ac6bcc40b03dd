package view

import (
	"time"

	"github.com/platformbuilds/mirador-httptop/internal/models"
	"github.com/platformbuilds/mirador-httptop/pkg/formatters"
)

// Field is one label/value pair in the detail panel.
type Field struct {
	Label string
	Value string
}

// Section is a titled group of fields.
type Section struct {
	Title  string
	Fields []Field
}

// DetailSections expands a selected record into the grouped fields of the
// detail panel. The full untruncated URI appears here even when the table
// cell was shortened.
func DetailSections(rec models.CallRecord, now time.Time) []Section {
	return []Section{
		{
			Title: "Request",
			Fields: []Field{
				{"Method", rec.Method},
				{"URI", rec.URI},
				{"Service", rec.Service},
			},
		},
		{
			Title: "Performance",
			Fields: []Field{
				{"Avg duration", formatters.Duration(rec.AvgDurationMs)},
				{"Min duration", formatters.Duration(rec.MinDurationMs)},
				{"Max duration", formatters.Duration(rec.MaxDurationMs)},
			},
		},
		{
			Title: "Reliability",
			Fields: []Field{
				{"Calls", formatters.Count(rec.CallCount)},
				{"Errors", formatters.Count(rec.ErrorCount)},
				{"Error rate", formatters.Percent(rec.ErrorRate)},
			},
		},
		{
			Title: "Bandwidth",
			Fields: []Field{
				{"Bytes sent", formatters.Bytes(rec.BytesSent)},
				{"Bytes received", formatters.Bytes(rec.BytesReceived)},
			},
		},
		{
			Title: "Activity",
			Fields: []Field{
				{"Last seen", formatters.Timestamp(rec.LastCreatedAt)},
				{"", formatters.RelativeTime(rec.LastCreatedAt, now)},
			},
		},
	}
}
