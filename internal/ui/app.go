// internal/ui/app.go
package ui

import (
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/frogtable/internal/events"
	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/rpc"
	"github.com/nhath/frogtable/internal/view"
)

// Update handles messages and updates model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, t := range m.tabs {
			m.syncCursor(t)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		// re-render for relative times
		return m, tickCmd()

	case QueryListLoadedMsg:
		return m.handleQueryList(msg)

	case FetchDoneMsg:
		return m.handleFetchDone(msg)

	case TabEventMsg:
		return m.handleTabEvent(msg)

	case ResizeDebounceMsg:
		if t := m.tabByID(msg.TabID); t != nil && t.resizeID == msg.ID {
			t.view.Grid().EndResize()
		}
		return m, nil

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.errorMsg = "history: " + msg.Err.Error()
			return m, nil
		}
		m.history = msg.Entries
		m.historyTotal = msg.Total
		m.historyCursor = 0
		return m, nil

	case HistoryRecordedMsg:
		if msg.Err != nil {
			m.logger.Warn("recording fetch history", "error", msg.Err)
		}
		return m, nil

	case ClipboardCopiedMsg:
		if msg.Err != nil {
			m.errorMsg = "copy failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "Copied " + limitString(msg.Text, 30)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleQueryList(msg QueryListLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingList = false
	if msg.Err != nil {
		m.logger.Warn("listing queries", "error", msg.Err)
		m.queryListErr = msg.Err.Error()
		var terr *rpc.TransportError
		if errors.As(msg.Err, &terr) {
			m.queryListErr = terr.Title()
		}
		return m, nil
	}

	m.queryListErr = ""
	m.queries = msg.Queries
	m.queryCursor = min(m.queryCursor, max(len(m.queries)-1, 0))
	if len(m.queries) == 0 {
		return m, nil
	}

	// tabs without a selection open the first query
	var cmds []tea.Cmd
	for _, t := range m.tabs {
		if t.view.State().SelectedQuery != "" {
			continue
		}
		f, ok := t.view.SelectQuery(m.queries[0].Name)
		cmds = append(cmds, m.run(t, f, ok))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleFetchDone(msg FetchDoneMsg) (tea.Model, tea.Cmd) {
	t := m.tabByID(msg.TabID)
	if t == nil {
		return m, nil
	}
	o := msg.Outcome
	superseded := !t.view.IsLatest(o.Token)
	applied := t.view.Resolve(o)

	if o.Err != nil && !superseded {
		m.logger.Debug("fetch resolved with error", "tab", t.id, "query", o.Request.Name, "token", o.Token, "applied", applied, "error", o.Err)
	}
	if applied {
		m.syncCursor(t)
	}
	return m, m.recordHistoryCmd(m.historyEntry(o, superseded))
}

func (m Model) handleTabEvent(msg TabEventMsg) (tea.Model, tea.Cmd) {
	t := m.tabByID(msg.TabID)
	if t == nil {
		return m, nil
	}
	f, ok := t.view.HandleEvent(msg.Event)
	return m, tea.Batch(waitForEvent(t), m.run(t, f, ok))
}

// run turns an issued fetch into a command
func (m Model) run(t *tab, f view.Fetch, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return m.fetchCmd(t.id, f)
}

// openTab adds a tab subscribed to the relay and makes it active
func (m *Model) openTab() *tab {
	m.nextTabID++
	t := &tab{
		id: m.nextTabID,
		view: view.New(view.Options{
			PageSize: m.config.PageSize,
			Layout:   m.layout,
			Logger:   m.logger.With("tab", m.nextTabID),
		}),
		events: make(chan events.Event, tabEventBuffer),
		done:   make(chan struct{}),
		body:   &grid.BodyCache[[]bbtable.Row]{},
	}
	m.subscribe(t)
	m.tabs = append(m.tabs, t)
	m.activeTab = len(m.tabs) - 1
	return t
}

// closeTab closes the active tab. The last tab stays open.
func (m *Model) closeTab() bool {
	if len(m.tabs) <= 1 {
		return false
	}
	m.tabs[m.activeTab].close()
	m.tabs = slices.Delete(m.tabs, m.activeTab, m.activeTab+1)
	m.activeTab = min(m.activeTab, len(m.tabs)-1)
	return true
}

func (m Model) currentTab() *tab {
	if len(m.tabs) == 0 {
		return nil
	}
	return m.tabs[m.activeTab]
}

func (m Model) tabByID(id int) *tab {
	for _, t := range m.tabs {
		if t.id == id {
			return t
		}
	}
	return nil
}

// gridSize is the space left for the grid inside the main pane
func (m Model) gridSize() (width, height int) {
	width = m.width - sidebarWidth
	// status bar, help line, tabs bar, footer and table chrome
	height = m.height - 9
	return max(width, 20), max(height, 1)
}

// syncCursor keeps the row and column cursors inside the data and scrolls
// the windows so they stay visible
func (m Model) syncCursor(t *tab) {
	snap := t.view.Results()
	rows := len(snap.Data)
	t.row = min(max(t.row, 0), max(rows-1, 0))

	_, height := m.gridSize()
	if t.row < t.rowOffset {
		t.rowOffset = t.row
	}
	if t.row >= t.rowOffset+height {
		t.rowOffset = t.row - height + 1
	}
	t.rowOffset = min(max(t.rowOffset, 0), max(rows-1, 0))

	g := t.view.Grid()
	ids := g.VisibleOrder()
	t.col = min(max(t.col, 0), max(len(ids)-1, 0))
	width, _ := m.gridSize()
	t.colOffset, _ = windowFor(g, ids, width, t.col, t.colOffset)
}
