// internal/ui/handle_keys.go
package ui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/frogtable/internal/grid"
	eztable "github.com/nhath/frogtable/internal/ui/components/table"
)

// resizeStep is how much one key press resizes a column, in pixels
const resizeStep = 2 * eztable.PixelsPerChar

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	m.statusMsg = ""
	m.errorMsg = ""

	if !m.popupStack.IsEmpty() {
		return m.handlePopupKey(msg)
	}

	t := m.currentTab()

	switch {
	case matchKey(msg, keys.Exit):
		m.Close()
		return m, tea.Quit

	case matchKey(msg, keys.Help):
		m.popupStack.Open(popupHelp, nil)
		return m, nil

	case matchKey(msg, keys.History):
		m.history = nil
		m.popupStack.Open(popupHistory, func(m *Model) {
			m.history = nil
			m.historyCursor = 0
		})
		return m, m.loadHistoryCmd()

	case matchKey(msg, keys.Focus):
		if m.focus == FocusQueries {
			m.focus = FocusGrid
		} else {
			m.focus = FocusQueries
		}
		return m, nil

	case matchKey(msg, keys.NewTab):
		nt := m.openTab()
		cmds := []tea.Cmd{waitForEvent(nt)}
		if q, ok := m.cursorQuery(); ok {
			f, ok := nt.view.SelectQuery(q)
			cmds = append(cmds, m.run(nt, f, ok))
		}
		return m, tea.Batch(cmds...)

	case matchKey(msg, keys.CloseTab):
		if !m.closeTab() {
			m.statusMsg = "Last tab stays open"
		}
		return m, nil

	case matchKey(msg, keys.NextTab):
		m.activeTab = (m.activeTab + 1) % len(m.tabs)
		return m, nil

	case matchKey(msg, keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
		return m, nil

	case matchKey(msg, keys.Refresh):
		var cmds []tea.Cmd
		if m.queryListErr != "" || len(m.queries) == 0 {
			m.loadingList = true
			cmds = append(cmds, m.listQueriesCmd())
		}
		f, ok := t.view.Refresh()
		cmds = append(cmds, m.run(t, f, ok))
		return m, tea.Batch(cmds...)

	case matchKey(msg, keys.NextPage):
		f, ok := t.view.NextPage()
		t.row, t.rowOffset = 0, 0
		return m, m.run(t, f, ok)

	case matchKey(msg, keys.PrevPage):
		f, ok := t.view.PrevPage()
		t.row, t.rowOffset = 0, 0
		return m, m.run(t, f, ok)

	case matchKey(msg, keys.PageSize):
		f, ok := t.view.SetPageSize(nextPageSize(m.config.PageSizes, t.view.State().PageSize))
		t.row, t.rowOffset = 0, 0
		return m, m.run(t, f, ok)
	}

	if m.focus == FocusQueries {
		return m.handleQueriesKey(msg)
	}
	return m.handleGridKey(msg)
}

func (m Model) handleQueriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.currentTab()
	switch {
	case msg.String() == "up" || msg.String() == "k":
		m.queryCursor = max(m.queryCursor-1, 0)
	case msg.String() == "down" || msg.String() == "j":
		m.queryCursor = min(m.queryCursor+1, max(len(m.queries)-1, 0))
	case matchKey(msg, m.config.Keys.Select):
		q, ok := m.cursorQuery()
		if !ok {
			return m, nil
		}
		m.focus = FocusGrid
		f, ok := t.view.SelectQuery(q)
		if ok {
			t.row, t.rowOffset, t.col, t.colOffset = 0, 0, 0, 0
		}
		return m, m.run(t, f, ok)
	}
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	t := m.currentTab()
	g := t.view.Grid()
	active, hasColumn := t.activeColumn()

	switch {
	case msg.String() == "up" || msg.String() == "k":
		t.row--
	case msg.String() == "down" || msg.String() == "j":
		t.row++
	case msg.String() == "home" || msg.String() == "g":
		t.row = 0
	case msg.String() == "end" || msg.String() == "G":
		t.row = len(t.view.Results().Data) - 1
	case matchKey(msg, keys.ScrollLeft):
		t.col--
	case matchKey(msg, keys.ScrollRight):
		t.col++

	case matchKey(msg, keys.Sort) && hasColumn:
		f, ok := t.view.ToggleSort(active, false)
		t.row, t.rowOffset = 0, 0
		return m, m.run(t, f, ok)

	case matchKey(msg, keys.MultiSort) && hasColumn:
		f, ok := t.view.ToggleSort(active, true)
		t.row, t.rowOffset = 0, 0
		return m, m.run(t, f, ok)

	case matchKey(msg, keys.MoveLeft) && hasColumn:
		ids := g.VisibleOrder()
		if t.col > 0 && g.Reorder(active, ids[t.col-1]) {
			t.col--
		}

	case matchKey(msg, keys.MoveRight) && hasColumn:
		ids := g.VisibleOrder()
		if t.col < len(ids)-1 && g.Reorder(active, ids[t.col+1]) {
			t.col++
		}

	case matchKey(msg, keys.Wider) && hasColumn:
		return m, m.resize(t, active, resizeStep)

	case matchKey(msg, keys.Narrower) && hasColumn:
		return m, m.resize(t, active, -resizeStep)

	case matchKey(msg, keys.CopyCell) && hasColumn:
		if row, ok := m.cursorRow(t); ok {
			c, _ := g.Column(active)
			return m, copyToClipboardCmd(eztable.FormatValue(cellAt(row, c.Index)))
		}

	case matchKey(msg, keys.CopyLink) && hasColumn:
		if row, ok := m.cursorRow(t); ok {
			c, _ := g.Column(active)
			deco := grid.Decorate(row, c.Index, g.Columns())
			if !deco.IsLink() {
				m.statusMsg = "No link in this cell"
				return m, nil
			}
			return m, copyToClipboardCmd(deco.Href)
		}
	}

	m.syncCursor(t)
	return m, nil
}

// resize widens or narrows a column and ends the resize once keys stop
func (m Model) resize(t *tab, id string, delta float64) tea.Cmd {
	g := t.view.Grid()
	g.BeginResize(id)
	g.Resize(id, g.Width(id)+delta)
	t.resizeID++
	m.syncCursor(t)
	return resizeDebounceCmd(t.id, t.resizeID)
}

func (m Model) cursorQuery() (string, bool) {
	if m.queryCursor < 0 || m.queryCursor >= len(m.queries) {
		return "", false
	}
	return m.queries[m.queryCursor].Name, true
}

func (m Model) cursorRow(t *tab) ([]any, bool) {
	data := t.view.Results().Data
	if t.row < 0 || t.row >= len(data) {
		return nil, false
	}
	return data[t.row], true
}

func cellAt(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// nextPageSize cycles through the configured page sizes
func nextPageSize(sizes []int, current int) int {
	if len(sizes) == 0 {
		return current
	}
	i := slices.Index(sizes, current)
	return sizes[(i+1)%len(sizes)]
}
