// internal/ui/handle_popup.go
// Popup key-handling dispatch
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handlePopupKey routes keys to the topmost popup. Esc or q closes it.
func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Close()
		return m, tea.Quit
	}
	if msg.String() == "esc" || msg.String() == "q" {
		m.popupStack.CloseTop(&m)
		return m, nil
	}

	if m.popupStack.Top() == popupHistory {
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.historyCursor = max(m.historyCursor-1, 0)
	case "down", "j":
		m.historyCursor = min(m.historyCursor+1, max(len(m.history)-1, 0))
	case "D":
		m.history = nil
		m.historyCursor = 0
		return m, m.clearHistoryCmd()
	case "enter":
		if m.historyCursor >= len(m.history) {
			return m, nil
		}
		// reopen the entry's query in the active tab
		entry := m.history[m.historyCursor]
		m.popupStack.CloseTop(&m)
		m.focus = FocusGrid
		t := m.currentTab()
		f, ok := t.view.SelectQuery(entry.Query)
		if ok {
			t.row, t.rowOffset, t.col, t.colOffset = 0, 0, 0, 0
		}
		return m, m.run(t, f, ok)
	}
	return m, nil
}
