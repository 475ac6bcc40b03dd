// Package ui is the terminal front end: a sortable, filterable table of
// aggregated HTTP calls with a detail panel, built on bubbletea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/platformbuilds/mirador-httptop/internal/fetch"
	"github.com/platformbuilds/mirador-httptop/internal/models"
	"github.com/platformbuilds/mirador-httptop/internal/query"
	"github.com/platformbuilds/mirador-httptop/internal/view"
	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

type uiState int

const (
	stateTable uiState = iota
	stateFilter
	stateDetail
)

type Model struct {
	store    *query.Store
	ctrl     *fetch.Controller
	logger   logger.Logger
	viewBase string

	table       table.Model
	filterInput textinput.Model
	spin        spinner.Model
	help        help.Model
	keys        keyMap

	state       uiState
	proj        view.Projection
	haveData    bool
	loading     bool
	autoRefresh bool
	errLine     string
	notice      string

	services   []string
	serviceIdx int // -1 means all services

	detail models.CallRecord

	width  int
	height int
}

func NewModel(store *query.Store, ctrl *fetch.Controller, viewBase string, autoRefresh bool, log logger.Logger) Model {
	columns := []table.Column{
		{Title: "Method", Width: 7},
		{Title: "URI", Width: 48},
		{Title: "Service", Width: 16},
		{Title: "Calls", Width: 10},
		{Title: "Avg", Width: 9},
		{Title: "Err%", Width: 6},
		{Title: "Last seen", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(accentColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(brightColor).
		Background(accentColor).
		Bold(true)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = `filter, e.g. service:checkout AND method:POST`
	ti.CharLimit = 256
	ti.Width = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	m := Model{
		store:       store,
		ctrl:        ctrl,
		logger:      log,
		viewBase:    viewBase,
		table:       t,
		filterInput: ti,
		spin:        sp,
		help:        help.New(),
		keys:        keys,
		autoRefresh: autoRefresh,
		serviceIdx:  -1,
		// Init fires the first fetch, so the model mounts in the
		// loading state
		loading: true,
	}

	// paint the last cached page immediately while the live fetch runs
	if data, ok := ctrl.Cached(context.Background(), store.Query()); ok {
		m.applyResult(store.Query(), data)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.refreshCmd(), m.servicesCmd())
}

func (m *Model) refreshCmd() tea.Cmd {
	m.loading = true
	run := m.ctrl.Fetch(context.Background(), m.store.Query())
	return func() tea.Msg { return callsMsg(run()) }
}

func (m *Model) servicesCmd() tea.Cmd {
	load := m.ctrl.Services(context.Background())
	return func() tea.Msg {
		names, err := load()
		return servicesMsg{services: names, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if h := msg.Height - 9; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case AutoRefreshMsg:
		if m.autoRefresh && m.state != stateFilter && !m.loading {
			return m, tea.Batch(m.refreshCmd(), m.spin.Tick)
		}
		return m, nil

	case servicesMsg:
		if msg.err != nil {
			m.logger.Warn("service list unavailable", "error", msg.err)
			return m, nil
		}
		m.services = msg.services
		return m, nil

	case callsMsg:
		return m.onCalls(fetch.Result(msg))

	case tea.KeyMsg:
		switch m.state {
		case stateFilter:
			return m.onFilterKey(msg)
		case stateDetail:
			return m.onDetailKey(msg)
		default:
			return m.onTableKey(msg)
		}
	}
	return m, nil
}

// onCalls applies a completed fetch. Completions superseded by a newer
// request are dropped outright; the spinner keeps running because that newer
// request is still in flight.
func (m Model) onCalls(res fetch.Result) (tea.Model, tea.Cmd) {
	if m.ctrl.Stale(res) {
		return m, nil
	}
	m.loading = false

	if res.Err != nil {
		// the previous page stays on screen; only the status line changes
		m.errLine = fetch.UserMessage(res.Err, res.Query)
		m.logger.Error("fetch failed", "error", res.Err)
		return m, nil
	}

	m.errLine = ""
	m.applyResult(res.Query, res.Data)
	return m, nil
}

func (m *Model) applyResult(q query.Query, data *models.CallsResult) {
	m.proj = view.Project(q, data, time.Now())
	m.haveData = true

	rows := make([]table.Row, len(m.proj.Rows))
	for i, r := range m.proj.Rows {
		rows[i] = table.Row{r.Method, r.URI, r.Service, r.Calls, r.AvgDuration, r.ErrorRate, r.LastSeen}
	}
	m.table.SetRows(rows)

	if view.ClampSelection(m.table.Cursor(), len(rows)) < 0 {
		m.table.SetCursor(0)
		if m.state == stateDetail {
			m.state = stateTable
		}
	} else if m.state == stateDetail {
		m.detail = m.proj.Rows[m.table.Cursor()].Record
	}
}

func (m Model) onTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, m.keys.AutoRefresh):
		m.autoRefresh = !m.autoRefresh
		if m.autoRefresh {
			m.notice = "auto-refresh on"
		} else {
			m.notice = "auto-refresh off"
		}
		return m, nil

	case key.Matches(msg, m.keys.TimeRange):
		m.store.SetTimeRange(nextTimeRange(m.store.Query().TimeRange))
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, m.keys.Service):
		m.cycleService()
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, m.keys.Filter):
		m.state = stateFilter
		m.filterInput.SetValue(m.store.Query().Filter)
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Sort):
		q := m.store.Query()
		m.store.SetSort(nextSortKey(q.SortBy), q.SortOrder)
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, m.keys.Order):
		q := m.store.Query()
		if !q.SortBy.Valid() {
			return m, nil
		}
		order := query.OrderDesc
		if q.SortOrder == query.OrderDesc {
			order = query.OrderAsc
		}
		m.store.SetSort(q.SortBy, order)
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, m.keys.PrevPage):
		if !m.proj.HasPrev {
			return m, nil
		}
		q := m.store.Query()
		m.store.SetOffset(q.Offset - q.Limit)
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, m.keys.NextPage):
		if !m.proj.HasNext {
			return m, nil
		}
		q := m.store.Query()
		m.store.SetOffset(q.Offset + q.Limit)
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)

	case key.Matches(msg, m.keys.Share):
		link := query.EncodeURL(m.viewBase, m.store.Query())
		m.notice = "view link: " + link
		m.logger.Info("share link generated", "url", link)
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		idx := view.ClampSelection(m.table.Cursor(), len(m.proj.Rows))
		if idx < 0 {
			return m, nil
		}
		m.detail = m.proj.Rows[idx].Record
		m.state = stateDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) onFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.state = stateTable
		m.filterInput.Blur()
		m.store.SetFilter(strings.TrimSpace(m.filterInput.Value()))
		m.syncServiceIdx()
		return m, tea.Batch(m.refreshCmd(), m.spin.Tick)
	case tea.KeyEsc:
		m.state = stateTable
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m Model) onDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Enter):
		m.state = stateTable
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		if idx := view.ClampSelection(m.table.Cursor(), len(m.proj.Rows)); idx >= 0 {
			m.detail = m.proj.Rows[idx].Record
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) cycleService() {
	if len(m.services) == 0 {
		return
	}
	m.serviceIdx++
	if m.serviceIdx >= len(m.services) {
		m.serviceIdx = -1
	}
	if m.serviceIdx < 0 {
		m.store.SetService("")
	} else {
		m.store.SetService(m.services[m.serviceIdx])
	}
}

// syncServiceIdx realigns the selector cursor after a filter expression
// changed the service out from under it.
func (m *Model) syncServiceIdx() {
	svc := m.store.Query().Service
	m.serviceIdx = -1
	for i, name := range m.services {
		if name == svc {
			m.serviceIdx = i
			return
		}
	}
}

func nextTimeRange(tr query.TimeRange) query.TimeRange {
	for i, v := range query.TimeRanges {
		if v == tr {
			return query.TimeRanges[(i+1)%len(query.TimeRanges)]
		}
	}
	return query.DefaultTimeRange
}

// nextSortKey cycles through the sortable columns and back to the backend
// default ordering.
func nextSortKey(k query.SortKey) query.SortKey {
	if !k.Valid() {
		return query.SortKeys[0]
	}
	for i, v := range query.SortKeys {
		if v == k {
			if i == len(query.SortKeys)-1 {
				return ""
			}
			return query.SortKeys[i+1]
		}
	}
	return query.SortKeys[0]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("MIRADOR httptop"))
	b.WriteString("\n")
	b.WriteString(contextStyle.Render(m.contextLine()))
	b.WriteString("\n\n")

	switch m.state {
	case stateFilter:
		b.WriteString(statusStyle.Render("filter expression (enter to apply, esc to cancel)"))
		b.WriteString("\n")
		b.WriteString("  " + m.filterInput.View())
		b.WriteString("\n")
	case stateDetail:
		b.WriteString(m.detailView())
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("esc to return"))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.statusLine())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) contextLine() string {
	q := m.store.Query()
	parts := []string{"range " + string(q.TimeRange)}
	if q.Service != "" {
		parts = append(parts, "service "+q.Service)
	}
	if q.Filter != "" {
		parts = append(parts, "filter "+q.Filter)
	}
	if q.SortBy.Valid() {
		parts = append(parts, fmt.Sprintf("sort %s %s", q.SortBy, q.SortOrder))
	}
	if m.autoRefresh {
		parts = append(parts, "auto-refresh on")
	}
	return strings.Join(parts, " | ")
}

func (m Model) statusLine() string {
	if m.errLine != "" {
		return errorStyle.Render(m.errLine)
	}
	if m.notice != "" {
		return noticeStyle.Render(m.notice)
	}

	var b strings.Builder
	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(" refreshing  ")
	}
	if m.haveData {
		b.WriteString(m.proj.StatusLine())
		if pl := m.proj.PageLine(); pl != "" {
			b.WriteString("  |  " + pl)
		}
		b.WriteString("  |  " + m.proj.TotalsLine())
	} else if !m.loading {
		b.WriteString("waiting for first refresh")
	}
	return statusStyle.Render(b.String())
}

func (m Model) detailView() string {
	var b strings.Builder
	for i, section := range view.DetailSections(m.detail, time.Now()) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(detailTitleStyle.Render(section.Title))
		b.WriteString("\n")
		for _, f := range section.Fields {
			b.WriteString(detailLabelStyle.Render(f.Label))
			b.WriteString(detailValueStyle.Render(f.Value))
			b.WriteString("\n")
		}
	}
	return panelStyle.Render(b.String())
}
