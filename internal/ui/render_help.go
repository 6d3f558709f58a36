package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp is the one-line key hint bar for the focused pane
func (m Model) renderHelp() string {
	// Style for key hints - makes keys look like keyboard buttons
	keyStyle := lipgloss.NewStyle().
		Foreground(TextPrimary()).
		Background(bgSecondary).
		Padding(0, 1).
		Bold(true)

	sepStyle := lipgloss.NewStyle().Foreground(TextFaint())
	descStyle := lipgloss.NewStyle().Foreground(TextSecondary())

	hint := func(key, desc string) string {
		return keyStyle.Render(key) + descStyle.Render(" "+desc)
	}

	key := func(bindings []string, fallback string) string {
		if len(bindings) > 0 {
			return bindings[0]
		}
		return fallback
	}

	sep := sepStyle.Render("  ")
	keys := m.config.Keys

	var hints []string
	switch m.helpContext() {
	case HelpContextPopup:
		hints = append(hints, hint("esc", "Close"))
		if m.popupStack.Top() == popupHistory {
			hints = append(hints, hint("enter", "Open"), hint("D", "Clear"))
		}
	case HelpContextQueries:
		hints = append(hints,
			hint("k/j", "Nav"),
			hint(key(keys.Select, "enter"), "Open"),
			hint(key(keys.NewTab, "t"), "New tab"),
			hint(key(keys.Focus, "tab"), "Grid"),
		)
	default:
		hints = append(hints,
			hint(key(keys.Sort, "s"), "Sort"),
			hint(key(keys.NextPage, "n")+"/"+key(keys.PrevPage, "b"), "Page"),
			hint(key(keys.MoveLeft, "<")+"/"+key(keys.MoveRight, ">"), "Move"),
			hint(key(keys.Wider, "+")+"/"+key(keys.Narrower, "-"), "Width"),
			hint(key(keys.CopyCell, "y"), "Copy"),
			hint(key(keys.Focus, "tab"), "Queries"),
		)
	}

	hints = append(hints,
		hint(key(keys.Help, "?"), "Help"),
		hint(key(keys.Exit, "ctrl+c"), "Quit"),
	)

	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(hints, sep))
}

func (m Model) helpContext() HelpContext {
	switch {
	case !m.popupStack.IsEmpty():
		return HelpContextPopup
	case m.focus == FocusQueries:
		return HelpContextQueries
	default:
		return HelpContextGrid
	}
}
