// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nhath/frogtable/internal/config"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color
	bgSecondary    lipgloss.Color

	// Styles
	StatusBarStyle   lipgloss.Style
	ServerStyle      lipgloss.Style
	MetaStyle        lipgloss.Style
	SidebarStyle     lipgloss.Style
	SidebarItem      lipgloss.Style
	SidebarSelected  lipgloss.Style
	SidebarActive    lipgloss.Style
	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style
	ErrorStyle       lipgloss.Style
	ErrorTitleStyle  lipgloss.Style
	PopupStyle       lipgloss.Style
)

func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)
	bgSecondary = lipgloss.Color(theme.BgSecondary)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ServerStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(lipgloss.Color("#2E3440"))

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	SidebarStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(textFaint).
		Padding(0, 1)

	SidebarItem = lipgloss.NewStyle().
		Foreground(textPrimary)

	SidebarSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(highlightColor).
		Bold(true)

	SidebarActive = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(successColor).
		Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(errorColor).
		Bold(true).
		Padding(0, 1)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 2)
}
