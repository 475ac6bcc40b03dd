package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-httptop/internal/fetch"
	"github.com/platformbuilds/mirador-httptop/internal/models"
	"github.com/platformbuilds/mirador-httptop/internal/query"
	"github.com/platformbuilds/mirador-httptop/pkg/cache"
	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

type stubAPI struct {
	result *models.CallsResult
	err    error
}

func (s *stubAPI) GetHTTPCalls(ctx context.Context, req *models.CallsRequest) (*models.CallsResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAPI) GetServices(ctx context.Context) (*models.ServicesResult, error) {
	return &models.ServicesResult{Services: []models.ServiceEntry{{Service: "billing"}, {Service: "checkout"}}}, nil
}

func record(uri string) models.CallRecord {
	return models.CallRecord{
		Method: "GET", URI: uri, Service: "checkout",
		CallCount: 10, AvgDurationMs: 5, LastCreatedAt: "2025-03-14 09:20:00",
	}
}

func newTestModel(api *stubAPI) (Model, *fetch.Controller, *query.Store) {
	store := query.NewStore()
	ctrl := fetch.NewController(api, cache.NewNoopCache(logger.NewNop()), time.Minute, logger.NewNop())
	m := NewModel(store, ctrl, "http://mirador.local/httptop", false, logger.NewNop())
	return m, ctrl, store
}

func deliver(t *testing.T, m Model, ctrl *fetch.Controller, store *query.Store) Model {
	t.Helper()
	res := ctrl.Fetch(context.Background(), store.Query())()
	updated, _ := m.Update(callsMsg(res))
	return updated.(Model)
}

func TestModelMountsInLoadingState(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{}}
	m, _, _ := newTestModel(api)

	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "refreshing")
	assert.NotContains(t, m.View(), "waiting for first refresh")
}

func TestSuccessfulFetchPopulatesTable(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{
		HTTPCalls: []models.CallRecord{record("/a"), record("/b")},
		Total:     2, TotalCalls: 20,
	}}
	m, ctrl, store := newTestModel(api)
	m = deliver(t, m, ctrl, store)

	assert.True(t, m.haveData)
	assert.Len(t, m.proj.Rows, 2)
	assert.Empty(t, m.errLine)
	assert.Contains(t, m.View(), "Total: 20 calls")
}

func TestStaleCompletionIgnored(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{
		HTTPCalls: []models.CallRecord{record("/old")}, Total: 1,
	}}
	m, ctrl, store := newTestModel(api)

	slow := ctrl.Fetch(context.Background(), store.Query())
	slowRes := slow()

	api.result = &models.CallsResult{HTTPCalls: []models.CallRecord{record("/new")}, Total: 1}
	m = deliver(t, m, ctrl, store)
	require.Equal(t, "/new", m.proj.Rows[0].Record.URI)

	// the slow completion arrives after a newer request already landed
	updated, _ := m.Update(callsMsg(slowRes))
	m = updated.(Model)
	assert.Equal(t, "/new", m.proj.Rows[0].Record.URI)
}

func TestFailureRetainsPreviousRows(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{
		HTTPCalls: []models.CallRecord{record("/keep")}, Total: 1,
	}}
	m, ctrl, store := newTestModel(api)
	m = deliver(t, m, ctrl, store)

	api.err = errors.New("connection refused")
	m = deliver(t, m, ctrl, store)

	require.Len(t, m.proj.Rows, 1)
	assert.Equal(t, "/keep", m.proj.Rows[0].Record.URI)
	assert.Contains(t, m.errLine, "cannot reach")
}

func TestSelectionClearedWhenRowsShrink(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{
		HTTPCalls: []models.CallRecord{record("/a"), record("/b"), record("/c")}, Total: 3,
	}}
	m, ctrl, store := newTestModel(api)
	m = deliver(t, m, ctrl, store)

	m.table.SetCursor(2)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Equal(t, stateDetail, m.state)
	assert.Equal(t, "/c", m.detail.URI)

	api.result = &models.CallsResult{HTTPCalls: []models.CallRecord{record("/a")}, Total: 1}
	m = deliver(t, m, ctrl, store)

	assert.Equal(t, stateTable, m.state)
	assert.Equal(t, 0, m.table.Cursor())
}

func TestAutoRefreshGate(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{}}
	m, ctrl, store := newTestModel(api)
	m = deliver(t, m, ctrl, store)

	// disabled: the tick is ignored
	_, cmd := m.Update(AutoRefreshMsg{})
	assert.Nil(t, cmd)

	m.autoRefresh = true
	_, cmd = m.Update(AutoRefreshMsg{})
	assert.NotNil(t, cmd)
}

func TestPaginationKeysGated(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{
		HTTPCalls: []models.CallRecord{record("/a")}, Total: 120,
	}}
	m, ctrl, store := newTestModel(api)
	m = deliver(t, m, ctrl, store)

	// on the first page "prev" must not move the offset
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	m = updated.(Model)
	assert.Equal(t, 0, store.Query().Offset)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	m = updated.(Model)
	assert.Equal(t, 50, store.Query().Offset)
}

func TestShareLinkNotice(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{}}
	m, _, store := newTestModel(api)
	store.SetService("checkout")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	m = updated.(Model)
	assert.Contains(t, m.notice, "http://mirador.local/httptop?service=checkout")
}

func TestFilterSubmitTriggersFetch(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{}}
	m, _, store := newTestModel(api)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	m = updated.(Model)
	require.Equal(t, stateFilter, m.state)

	m.filterInput.SetValue(`service:billing AND method:POST`)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Equal(t, stateTable, m.state)
	assert.NotNil(t, cmd)
	assert.Equal(t, `service:billing AND method:POST`, store.Query().Filter)
	assert.Equal(t, "billing", store.Query().Service)
}
