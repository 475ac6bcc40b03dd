package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-httptop/internal/models"
)

func TestDetailSections(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	rec := models.CallRecord{
		Method:        "POST",
		URI:           "/api/orders/submit/with/a/really/long/path/segment",
		Service:       "checkout",
		CallCount:     120543,
		AvgDurationMs: 42.5,
		MinDurationMs: 0.4,
		MaxDurationMs: 1850,
		ErrorCount:    301,
		ErrorRate:     0.003,
		BytesSent:     1048576,
		BytesReceived: 734,
		LastCreatedAt: "2025-03-14 09:20:00",
	}

	sections := DetailSections(rec, now)
	require.Len(t, sections, 5)

	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Request", "Performance", "Reliability", "Bandwidth", "Activity"}, titles)

	// the full URI survives, untruncated
	assert.Equal(t, rec.URI, sections[0].Fields[1].Value)

	assert.Equal(t, "42.5ms", sections[1].Fields[0].Value)
	assert.Equal(t, "400µs", sections[1].Fields[1].Value)
	assert.Equal(t, "1.85s", sections[1].Fields[2].Value)

	assert.Equal(t, "120,543", sections[2].Fields[0].Value)
	assert.Equal(t, "301", sections[2].Fields[1].Value)
	assert.Equal(t, "0.3%", sections[2].Fields[2].Value)

	assert.Equal(t, "1.0 MiB", sections[3].Fields[0].Value)
	assert.Equal(t, "734 B", sections[3].Fields[1].Value)

	assert.Equal(t, "2025-03-14 09:20:00", sections[4].Fields[0].Value)
	assert.Equal(t, "40m ago", sections[4].Fields[1].Value)
}
