// internal/ui/model_types.go
// Type definitions for the UI layer
package ui

import (
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/frogtable/internal/events"
	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/relay"
	"github.com/nhath/frogtable/internal/view"
)

// Focus is the pane receiving keys
type Focus string

const (
	FocusQueries Focus = "QUERIES"
	FocusGrid    Focus = "GRID"
)

// HelpContext represents the current UI context for help display
type HelpContext int

const (
	HelpContextGrid HelpContext = iota
	HelpContextQueries
	HelpContextPopup
)

// EventSource is the part of the relay the UI depends on
type EventSource interface {
	Subscribe(fn relay.Subscriber) (unsubscribe func())
	Status() relay.Status
}

// tabEventBuffer bounds events queued for one tab before the relay waits
const tabEventBuffer = 256

// tab is one open view with its own relay subscription
type tab struct {
	id   int
	view *view.View

	events      chan events.Event
	done        chan struct{}
	unsubscribe func()

	// grid cursor
	row       int
	rowOffset int
	col       int // index into the visible order
	colOffset int

	body     *grid.BodyCache[[]bbtable.Row]
	resizeID int
}

func (t *tab) title() string {
	name := t.view.State().SelectedQuery
	if name == "" {
		return "(empty)"
	}
	return name
}

// activeColumn returns the id of the focused column
func (t *tab) activeColumn() (string, bool) {
	ids := t.view.Grid().VisibleOrder()
	if len(ids) == 0 {
		return "", false
	}
	t.col = min(max(t.col, 0), len(ids)-1)
	return ids[t.col], true
}

// close unsubscribes from the relay and stops the event pump
func (t *tab) close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}
