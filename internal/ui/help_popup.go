package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

func (m Model) renderHelpPopup(main string) string {
	var content strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).Render("⌨️  Keyboard Shortcuts")
	content.WriteString(title)
	content.WriteString("\n\n")

	keys := m.config.Keys

	section := func(name string, bindings []struct{ key, desc string }) {
		header := lipgloss.NewStyle().Bold(true).Foreground(HighlightColor()).Render(name)
		content.WriteString(header + "\n")
		for _, b := range bindings {
			keyStyle := lipgloss.NewStyle().Foreground(SuccessColor()).Width(15)
			descStyle := lipgloss.NewStyle().Foreground(TextSecondary())
			content.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b.key), descStyle.Render(b.desc)))
		}
		content.WriteString("\n")
	}

	section("Navigation", []struct{ key, desc string }{
		{"k/j", "Move up / down"},
		{"g/G", "First / last row"},
		{strings.Join(keys.ScrollLeft, "/"), "Previous column"},
		{strings.Join(keys.ScrollRight, "/"), "Next column"},
		{strings.Join(keys.NextPage, "/"), "Next page"},
		{strings.Join(keys.PrevPage, "/"), "Previous page"},
		{strings.Join(keys.PageSize, "/"), "Cycle page size"},
		{strings.Join(keys.Focus, "/"), "Switch pane"},
	})

	section("Columns", []struct{ key, desc string }{
		{strings.Join(keys.Sort, "/"), "Sort by column"},
		{strings.Join(keys.MultiSort, "/"), "Add to sort"},
		{strings.Join(keys.MoveLeft, "/"), "Move column left"},
		{strings.Join(keys.MoveRight, "/"), "Move column right"},
		{strings.Join(keys.Wider, "/"), "Widen column"},
		{strings.Join(keys.Narrower, "/"), "Narrow column"},
	})

	section("Actions", []struct{ key, desc string }{
		{strings.Join(keys.Select, "/"), "Open query"},
		{strings.Join(keys.Refresh, "/"), "Refresh"},
		{strings.Join(keys.CopyCell, "/"), "Copy cell"},
		{strings.Join(keys.CopyLink, "/"), "Copy link"},
		{strings.Join(keys.History, "/"), "Fetch history"},
	})

	section("Tabs", []struct{ key, desc string }{
		{strings.Join(keys.NewTab, "/"), "New tab"},
		{strings.Join(keys.CloseTab, "/"), "Close tab"},
		{strings.Join(keys.NextTab, "/"), "Next tab"},
		{strings.Join(keys.PrevTab, "/"), "Previous tab"},
		{strings.Join(keys.Exit, "/"), "Quit"},
	})

	content.WriteString(lipgloss.NewStyle().Faint(true).Render("Press Esc or q to close"))

	popupBox := PopupStyle.
		Width(50).
		MaxHeight(m.height - 2).
		Render(content.String())

	return overlay.Composite(popupBox, main, overlay.Center, overlay.Center, 0, 0)
}
