// internal/ui/model_messages.go
// Consolidated message types for Bubble Tea Update cycle
package ui

import (
	"time"

	"github.com/nhath/frogtable/internal/events"
	"github.com/nhath/frogtable/internal/history"
	"github.com/nhath/frogtable/internal/rpc"
	"github.com/nhath/frogtable/internal/view"
)

// QueryListLoadedMsg is sent when the server's query list arrives
type QueryListLoadedMsg struct {
	Queries []rpc.Query
	Err     error
}

// FetchDoneMsg carries a fetch outcome back to its tab
type FetchDoneMsg struct {
	TabID   int
	Outcome view.Outcome
}

// TabEventMsg delivers one relayed event to a tab
type TabEventMsg struct {
	TabID int
	Event events.Event
}

// HistoryLoadedMsg sent when history loads from SQLite
type HistoryLoadedMsg struct {
	Entries []history.Entry
	Total   int
	Err     error
}

// HistoryRecordedMsg is sent after a fetch was written to history
type HistoryRecordedMsg struct {
	Err error
}

// ClipboardCopiedMsg is sent when clipboard copy completes
type ClipboardCopiedMsg struct {
	Text string
	Err  error
}

// ResizeDebounceMsg ends a column resize when no further step arrived
type ResizeDebounceMsg struct {
	TabID int
	ID    int
}

// TickMsg refreshes relative times in the status bar
type TickMsg time.Time
