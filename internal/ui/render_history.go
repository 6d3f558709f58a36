package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/frogtable/internal/history"
	"github.com/nhath/frogtable/internal/ui/icons"
)

// renderHistoryPopup lists recent fetches against the current server
func (m Model) renderHistoryPopup(main string) string {
	width := min(max(m.width-10, 40), 90)
	inner := width - 6
	visible := max(m.height-12, 3)

	var content strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).
		Render(fmt.Sprintf("Fetch history · %s", m.server.Name))
	content.WriteString(title + "\n")
	content.WriteString(MetaStyle.Render(fmt.Sprintf("%d of %d entries", len(m.history), m.historyTotal)) + "\n\n")

	if len(m.history) == 0 {
		content.WriteString(MetaStyle.Render("nothing fetched yet"))
	}

	start := max(m.historyCursor-visible+1, 0)
	end := min(start+visible, len(m.history))
	now := time.Now()
	for i := start; i < end; i++ {
		content.WriteString(m.renderHistoryItem(&m.history[i], i == m.historyCursor, inner, now))
		content.WriteString("\n")
	}

	content.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render("enter to open · D to clear · esc to close"))

	popupBox := PopupStyle.Width(width).MaxHeight(m.height - 2).Render(content.String())
	return overlay.Composite(popupBox, main, overlay.Center, overlay.Center, 0, 0)
}

func (m Model) renderHistoryItem(e *history.Entry, selected bool, width int, now time.Time) string {
	icon := icons.Status(e.Status)
	iconStyle := lipgloss.NewStyle().Foreground(SuccessColor())
	switch e.Status {
	case history.StatusError:
		iconStyle = iconStyle.Foreground(ErrorColor())
	case history.StatusSuperseded:
		iconStyle = iconStyle.Foreground(TextFaint())
	}

	meta := fmt.Sprintf("%dms%s%d/%d rows%s%s",
		e.DurationMs, icons.IconSeparator,
		e.RowCount, e.TotalCount, icons.IconSeparator,
		timeAgo(now, e.FetchedAt))

	summary := limitString(e.Summary(), max(width-lipgloss.Width(meta)-6, 10))
	line := iconStyle.Render(icon) + " " + summary

	style := lipgloss.NewStyle().Foreground(TextPrimary())
	prefix := "  "
	if selected {
		style = style.Bold(true)
		prefix = icons.IconSelect + " "
	}
	gap := max(width-lipgloss.Width(prefix+line)-lipgloss.Width(meta), 1)
	out := style.Render(prefix+line) + strings.Repeat(" ", gap) + MetaStyle.Render(meta)

	if e.ErrorMessage != "" && selected {
		out += "\n    " + ErrorStyle.Render(e.ErrorPreview(width-4))
	}
	return out
}
