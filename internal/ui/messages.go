package ui

import "github.com/platformbuilds/mirador-httptop/internal/fetch"

// callsMsg delivers a completed fetch, stale or not. Staleness is decided at
// receive time against the controller's current sequence.
type callsMsg fetch.Result

// servicesMsg delivers the service selector entries.
type servicesMsg struct {
	services []string
	err      error
}

// AutoRefreshMsg is posted by the external scheduler when the refresh
// interval elapses. The model decides whether a refresh actually runs.
type AutoRefreshMsg struct{}
