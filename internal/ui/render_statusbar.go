package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/frogtable/internal/ui/icons"
)

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Server
	parts = append(parts, ServerStyle.Render(m.server.Name))
	host := lipgloss.NewStyle().Background(bgSecondary).Foreground(TextSecondary()).Padding(0, 1)
	parts = append(parts, host.Render(limitString(m.server.URL, 30)))

	// 2. Live updates
	parts = append(parts, m.renderRelayStatus())

	// 3. Tabs
	if len(m.tabs) > 1 {
		parts = append(parts, host.Render(fmt.Sprintf("tab %d/%d", m.activeTab+1, len(m.tabs))))
	}

	// 4. Loading indicator
	if t := m.currentTab(); t != nil && t.view.Results().Loading {
		loadingStyle := lipgloss.NewStyle().Foreground(AccentColor()).Background(bgSecondary).Padding(0, 1)
		parts = append(parts, loadingStyle.Render(m.spinner.View()+" Fetching..."))
	}

	// 5. Status message
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Background(SuccessColor()).Foreground(lipgloss.Color("#2E3440")).Padding(0, 1)
		parts = append(parts, statusStyle.Render(icons.IconSuccess+" "+m.statusMsg))
	}

	// 6. Error indicator
	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().Background(ErrorColor()).Foreground(TextPrimary()).Padding(0, 1)
		parts = append(parts, errorStyle.Render(icons.IconError+" "+limitString(m.errorMsg, 40)))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}

func (m Model) renderRelayStatus() string {
	style := lipgloss.NewStyle().Background(bgSecondary).Padding(0, 1)
	if m.events == nil {
		return style.Foreground(TextFaint()).Render(icons.IconOffline + " offline")
	}
	st := m.events.Status()
	if !st.Connected {
		label := icons.IconOffline + " reconnecting"
		if st.Reconnects > 0 {
			label = fmt.Sprintf("%s (%d)", label, st.Reconnects)
		}
		return style.Foreground(WarningColor()).Render(label)
	}
	return style.Foreground(SuccessColor()).Render(icons.IconLive + " live")
}
