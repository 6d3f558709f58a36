// Package table renders query results with bubble-table
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"github.com/muesli/termenv"

	"github.com/nhath/frogtable/internal/config"
	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/rpc"
)

// Nord colors (matching OpenCode theme)
const (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorCyan       = "#88C0D0" // Nord8: Cyan blue
	ColorGreen      = "#A3BE8C" // Nord14: Green
	ColorOrange     = "#D08770" // Nord12: Orange
	ColorPink       = "#B48EAD" // Nord15: Pink
	ColorPurple     = "#B48EAD" // Nord15: Purple
	ColorRed        = "#BF616A" // Nord11: Red
	ColorYellow     = "#EBCB8B" // Nord13: Yellow
	ColorTeal       = "#8FBCBB" // Nord7: Teal
	ColorBlue       = "#5E81AC" // Nord10: Blue
)

// PixelsPerChar converts stored pixel widths to terminal cells
const PixelsPerChar = 8.0

var (
	theme   = config.DefaultConfig().Theme
	classes = config.DefaultConfig().CellClasses
)

// Init sets the theme and the cell class palette
func Init(t config.Theme, cellClasses map[string]string) {
	theme = t
	if cellClasses != nil {
		classes = cellClasses
	}
}

// New creates a new bubble-table with Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextPrimary))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)).
			Bold(true)).
		BorderRounded()
}

// Chars converts a pixel width to a column width in cells
func Chars(px float64) int {
	return max(int(math.Round(px/PixelsPerChar)), 3)
}

// FormatValue renders a decoded JSON cell as text
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

// ValueStyle returns a lipgloss style based on the value's type
func ValueStyle(v any) lipgloss.Style {
	switch v.(type) {
	case nil:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPink)).Italic(true)
	case json.Number, float64, int:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	case bool:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	case map[string]any, []any:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
	}
}

// ClassStyle merges space separated cell classes into style. Each class maps
// to a color or to one of bold, italic, underline, faint.
func ClassStyle(style lipgloss.Style, class string) lipgloss.Style {
	for _, name := range strings.Fields(class) {
		spec, ok := classes[name]
		if !ok {
			continue
		}
		switch spec {
		case "bold":
			style = style.Bold(true)
		case "italic":
			style = style.Italic(true)
		case "underline":
			style = style.Underline(true)
		case "faint":
			style = style.Faint(true)
		default:
			style = style.Foreground(lipgloss.Color(spec))
		}
	}
	return style
}

// Cell renders column i of row, applying its style sidecar if any
func Cell(row []any, i int, cols []grid.Column) bbtable.StyledCell {
	var v any
	if i < len(row) {
		v = row[i]
	}
	text := FormatValue(v)
	style := ValueStyle(v)

	deco := grid.Decorate(row, i, cols)
	style = ClassStyle(style, deco.Class)
	if deco.IsLink() {
		text = termenv.Hyperlink(deco.Href, text)
		style = style.Foreground(lipgloss.Color(theme.Link)).Underline(true)
	}
	return bbtable.NewStyledCell(text, style)
}

// Rows builds one table row per data row, keyed by column id. Rows do not
// depend on widths or order so they can be reused while resizing.
func Rows(data [][]any, cols []grid.Column) []bbtable.Row {
	rows := make([]bbtable.Row, 0, len(data))
	for _, r := range data {
		rowData := bbtable.RowData{}
		for _, c := range cols {
			if c.Visible {
				rowData[c.ID] = Cell(r, c.Index, cols)
			}
		}
		rows = append(rows, bbtable.NewRow(rowData))
	}
	return rows
}

// Header is a column title with its sort marker, e.g. "name ▲2"
func Header(name string, specs []grid.SortSpec, id string) string {
	dir, priority, ok := grid.SortDirection(specs, id)
	if !ok {
		return name
	}
	arrow := "▲"
	if dir == rpc.Desc {
		arrow = "▼"
	}
	if len(specs) > 1 {
		return fmt.Sprintf("%s %s%d", name, arrow, priority+1)
	}
	return name + " " + arrow
}

// Columns builds the table columns for ids
func Columns(m *grid.Manager, ids []string, specs []grid.SortSpec, active string) []bbtable.Column {
	cols := make([]bbtable.Column, 0, len(ids))
	for _, id := range ids {
		c, ok := m.Column(id)
		if !ok {
			continue
		}
		title := Header(c.Name, specs, id)
		col := bbtable.NewColumn(id, title, Chars(m.Width(id)))
		if id == active {
			col = col.WithStyle(lipgloss.NewStyle().Bold(true))
		}
		cols = append(cols, col)
	}
	return cols
}

// Window returns the slice of widths that fits in available cells, keeping
// index active in view. offset is the first column shown last time.
func Window(widths []int, available, active, offset int) (start, end int) {
	if len(widths) == 0 {
		return 0, 0
	}
	active = min(max(active, 0), len(widths)-1)
	start = min(max(offset, 0), active)

	// one cell per column for the separator plus the outer border
	span := func(from, to int) int {
		total := 1
		for _, w := range widths[from : to+1] {
			total += w + 1
		}
		return total
	}
	for start < active && span(start, active) > available {
		start++
	}

	end = start + 1
	for end < len(widths) && span(start, end) <= available {
		end++
	}
	return start, end
}
