// internal/ui/commands.go
// tea.Cmd constructors for blocking work
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/frogtable/internal/events"
	"github.com/nhath/frogtable/internal/history"
	"github.com/nhath/frogtable/internal/view"
)

// resizeSettle is how long after the last resize step the resize ends
const resizeSettle = 400 * time.Millisecond

// historyPageSize is how many entries the history popup loads
const historyPageSize = 100

func (m Model) listQueriesCmd() tea.Cmd {
	transport := m.transport
	timeout := m.config.RequestTimeout()
	return func() tea.Msg {
		if transport == nil {
			return QueryListLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		queries, err := transport.ListQueries(ctx)
		return QueryListLoadedMsg{Queries: queries, Err: err}
	}
}

// fetchCmd executes f off the update loop. There is no cancellation;
// superseded outcomes are discarded when resolved.
func (m Model) fetchCmd(tabID int, f view.Fetch) tea.Cmd {
	transport := m.transport
	timeout := m.config.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return FetchDoneMsg{TabID: tabID, Outcome: view.Execute(ctx, transport, f)}
	}
}

// subscribe registers t with the relay. Events are queued in order and
// pumped into the update loop by waitForEvent.
func (m Model) subscribe(t *tab) {
	if m.events == nil {
		return
	}
	ch, done := t.events, t.done
	t.unsubscribe = m.events.Subscribe(func(ev events.Event) {
		select {
		case ch <- ev:
		case <-done:
		}
	})
}

// waitForEvent blocks until the next event for t, or nil once t is closed
func waitForEvent(t *tab) tea.Cmd {
	ch, done, id := t.events, t.done, t.id
	return func() tea.Msg {
		select {
		case ev := <-ch:
			return TabEventMsg{TabID: id, Event: ev}
		case <-done:
			return nil
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func resizeDebounceCmd(tabID, id int) tea.Cmd {
	return tea.Tick(resizeSettle, func(time.Time) tea.Msg {
		return ResizeDebounceMsg{TabID: tabID, ID: id}
	})
}

// copyToClipboardCmd copies text to system clipboard
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		return ClipboardCopiedMsg{Text: text, Err: err}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	store, server := m.historyStore, m.server.Name
	return func() tea.Msg {
		if store == nil {
			return HistoryLoadedMsg{}
		}
		entries, err := store.List(server, historyPageSize, 0)
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		total, err := store.Count(server)
		return HistoryLoadedMsg{Entries: entries, Total: total, Err: err}
	}
}

func (m Model) clearHistoryCmd() tea.Cmd {
	store, server := m.historyStore, m.server.Name
	return func() tea.Msg {
		if store == nil {
			return HistoryLoadedMsg{}
		}
		return HistoryLoadedMsg{Err: store.Clear(server)}
	}
}

func (m Model) recordHistoryCmd(entry *history.Entry) tea.Cmd {
	store := m.historyStore
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return HistoryRecordedMsg{Err: store.Add(entry)}
	}
}

// historyEntry describes a resolved fetch for the history log
func (m Model) historyEntry(o view.Outcome, superseded bool) *history.Entry {
	var orderBy []string
	for _, ob := range o.Request.OrderBy {
		orderBy = append(orderBy, ob.Column+" "+string(ob.Direction))
	}
	e := &history.Entry{
		Server:     m.server.Name,
		Query:      o.Request.Name,
		Page:       o.Request.Page,
		PageSize:   o.Request.PageSize,
		OrderBy:    strings.Join(orderBy, ", "),
		FetchedAt:  time.Now().Add(-o.Duration),
		DurationMs: o.Duration.Milliseconds(),
		Status:     history.StatusSuccess,
	}
	switch {
	case superseded:
		e.Status = history.StatusSuperseded
	case o.Err != nil:
		e.Status = history.StatusError
		e.ErrorMessage = o.Err.Error()
	}
	if o.Response != nil {
		e.RowCount = len(o.Response.Data)
		e.TotalCount = o.Response.TotalCount
	}
	return e
}
