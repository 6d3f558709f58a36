// internal/ui/model_helpers.go
// Small helper functions used across the UI layer
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/frogtable/internal/grid"
	eztable "github.com/nhath/frogtable/internal/ui/components/table"
)

// sidebarWidth is the width of the query list including its border
const sidebarWidth = 28

// matchKey returns true if the key message matches any of the provided key strings
func matchKey(msg tea.KeyMsg, keys []string) bool {
	keyStr := msg.String()
	for _, k := range keys {
		if k == keyStr {
			return true
		}
	}
	return false
}

// limitString truncates s to maxLen by replacing the middle with "..."
func limitString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	half := (maxLen - 3) / 2
	return s[:half] + "..." + s[len(s)-half:]
}

// timeAgo renders t relative to now in whole minutes
func timeAgo(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return "from now"
	case d < time.Minute:
		return "<1m ago"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// windowFor picks the visible columns of ids for a grid width in cells
func windowFor(g *grid.Manager, ids []string, width, active, offset int) (start, end int) {
	widths := make([]int, len(ids))
	for i, id := range ids {
		widths[i] = eztable.Chars(g.Width(id))
	}
	return eztable.Window(widths, width, active, offset)
}
