package models

import "time"

// CallRecord is one aggregated row of HTTP call telemetry.
type CallRecord struct {
	Method        string  `json:"method"`
	URI           string  `json:"uri"`
	Service       string  `json:"service"`
	CallCount     int64   `json:"call_count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	MinDurationMs float64 `json:"min_duration_ms"`
	MaxDurationMs float64 `json:"max_duration_ms"`
	ErrorCount    int64   `json:"error_count"`
	ErrorRate     float64 `json:"error_rate"`
	BytesSent     int64   `json:"bytes_sent"`
	BytesReceived int64   `json:"bytes_received"`
	LastCreatedAt string  `json:"last_created_at"`
}

// CallsRequest carries the resolved parameters of one aggregation query.
// From/To are absolute: the relative time range is resolved at fetch time.
type CallsRequest struct {
	From    time.Time
	To      time.Time
	Limit   int
	Offset  int
	Service string
	Filter  string
	Sort    string
	Order   string
}

// CallsResult is the aggregation endpoint's response. Total counts the rows
// matching the query across all pages; TotalCalls is the unpaged aggregate
// call count.
type CallsResult struct {
	HTTPCalls  []CallRecord `json:"http_calls"`
	Total      int64        `json:"total"`
	TotalCalls int64        `json:"total_calls"`
}

// ServiceEntry is one known service name from the services lookup endpoint.
type ServiceEntry struct {
	Service string `json:"service"`
}

// ServicesResult is the services lookup response.
type ServicesResult struct {
	Services []ServiceEntry `json:"services"`
}
