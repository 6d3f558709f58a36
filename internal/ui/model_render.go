package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/rpc"
	eztable "github.com/nhath/frogtable/internal/ui/components/table"
	"github.com/nhath/frogtable/internal/ui/highlight"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	statusBar := m.renderStatusBar()
	helpText := m.renderHelp()
	bodyHeight := max(m.height-lipgloss.Height(statusBar)-lipgloss.Height(helpText), 3)

	sidebar := m.renderSidebar(bodyHeight)
	pane := m.renderPane(bodyHeight)

	main := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane),
		statusBar,
		helpText,
	)

	if m.popupStack.Has(popupHistory) {
		main = m.renderHistoryPopup(main)
	}
	// help renders last to be on top
	if m.popupStack.Has(popupHelp) {
		main = m.renderHelpPopup(main)
	}
	return main
}

func (m Model) renderSidebar(height int) string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).Render("Queries")
	b.WriteString(title + "\n\n")

	inner := sidebarWidth - 4
	selected := ""
	if t := m.currentTab(); t != nil {
		selected = t.view.State().SelectedQuery
	}

	switch {
	case m.loadingList:
		b.WriteString(m.spinner.View() + " loading")
	case m.queryListErr != "":
		b.WriteString(ErrorStyle.Width(inner).Render(m.queryListErr))
		b.WriteString("\n" + MetaStyle.Render("r to retry"))
	case len(m.queries) == 0:
		b.WriteString(MetaStyle.Render("no queries"))
	default:
		// keep the cursor in view
		visible := max(height-4, 1)
		start := max(m.queryCursor-visible+1, 0)
		end := min(start+visible, len(m.queries))
		for i := start; i < end; i++ {
			name := limitString(m.queries[i].Name, inner)
			style := SidebarItem
			switch {
			case i == m.queryCursor && m.focus == FocusQueries:
				style = SidebarSelected
			case m.queries[i].Name == selected:
				style = SidebarActive
			}
			b.WriteString(style.Width(inner).Render(name))
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}

	style := SidebarStyle
	if m.focus == FocusQueries {
		style = style.BorderForeground(HighlightColor())
	}
	return style.Width(sidebarWidth - 2).Height(height - 2).Render(b.String())
}

func (m Model) renderPane(height int) string {
	width := max(m.width-sidebarWidth, 20)
	t := m.currentTab()
	if t == nil {
		return ""
	}

	tabs := m.renderTabs()
	footer := m.renderFooter(t, width)
	gridHeight := max(height-lipgloss.Height(tabs)-lipgloss.Height(footer), 1)

	var body string
	if snap := t.view.Results(); snap.Err != nil {
		body = renderErrorPanel(snap.Err, width, gridHeight)
	} else {
		body = m.renderGrid(t, width, gridHeight)
	}
	body = lipgloss.NewStyle().Width(width).Height(gridHeight).MaxHeight(gridHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, tabs, body, footer)
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, limitString(t.title(), 20))
		if i == m.activeTab {
			parts = append(parts, TabActiveStyle.Render(label))
		} else {
			parts = append(parts, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func (m Model) renderGrid(t *tab, width, height int) string {
	snap := t.view.Results()
	g := t.view.Grid()
	ids := g.VisibleOrder()

	if len(ids) == 0 {
		switch {
		case snap.Loading:
			return m.spinner.View() + " loading " + t.title()
		case t.view.State().SelectedQuery == "":
			return MetaStyle.Render("Select a query")
		default:
			return MetaStyle.Render("No columns")
		}
	}

	start, end := windowFor(g, ids, width, t.col, t.colOffset)
	active, _ := t.activeColumn()
	cols := eztable.Columns(g, ids[start:end], t.view.State().Sort, active)

	rows := t.body.Get(snap.DataGen, g.IsResizing(), func() []bbtable.Row {
		return eztable.Rows(snap.Data, g.Columns())
	})

	// header and borders take four lines
	visible := max(height-4, 1)
	lo := min(t.rowOffset, len(rows))
	hi := min(lo+visible, len(rows))

	tbl := eztable.New(cols).
		WithRows(rows[lo:hi]).
		WithNoPagination().
		Focused(m.focus == FocusGrid)
	if hi > lo {
		tbl = tbl.WithHighlightedRow(t.row - lo)
	}
	return tbl.View()
}

// renderErrorPanel shows a transport failure with the response body
// highlighted and line numbered
func renderErrorPanel(err *rpc.TransportError, width, height int) string {
	title := ErrorTitleStyle.Render(limitString(err.Title(), max(width-4, 10)))
	body := highlight.WithLineNumbers(highlight.Body(err.Body))
	body = lipgloss.NewStyle().MaxWidth(width).MaxHeight(max(height-2, 1)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body)
}

// renderFooter shows the paginator and fetch metadata
func (m Model) renderFooter(t *tab, width int) string {
	snap := t.view.Results()
	if t.view.State().SelectedQuery == "" {
		return ""
	}

	var parts []string
	if snap.Loading {
		parts = append(parts, m.spinner.View()+" fetching")
	}
	if snap.Data != nil {
		pg := t.view.Pagination()
		parts = append(parts,
			fmt.Sprintf("%d - %d of %d", pg.FirstRow(), pg.LastRow(), pg.Total),
			fmt.Sprintf("%d rows", len(snap.Data)),
		)
	}
	if !snap.FetchedAt.IsZero() && !snap.Loading {
		parts = append(parts,
			fmt.Sprintf("%d ms", snap.Duration.Milliseconds()),
			timeAgo(time.Now(), snap.FetchedAt),
		)
	}
	if id, ok := t.activeColumn(); ok && m.focus == FocusGrid {
		parts = append(parts, m.sortHint(t, id))
	}
	if g := t.view.Grid(); g.IsResizing() {
		parts = append(parts, fmt.Sprintf("width %.0f", g.Width(g.ResizingColumn())))
	}

	return MetaStyle.Width(width).Render(strings.Join(parts, " · "))
}

func (m Model) sortHint(t *tab, id string) string {
	c, _ := t.view.Grid().Column(id)
	key := "s"
	if len(m.config.Keys.Sort) > 0 {
		key = m.config.Keys.Sort[0]
	}
	return fmt.Sprintf("%s: %s %s", key, grid.NextSortLabel(t.view.State().Sort, id), c.Name)
}
