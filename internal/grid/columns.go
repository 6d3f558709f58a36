// internal/grid/columns.go
// Package grid derives columns from a query schema and manages their layout
package grid

import (
	"strconv"
	"strings"

	"github.com/nhath/frogtable/internal/rpc"
)

const (
	// DefaultWidth is the width of a column with no sizing entry, in pixels
	DefaultWidth = 150.0
	// MinWidth is the smallest width a column can be resized to
	MinWidth = 24.0

	// HiddenPrefix marks fields that are not shown by default
	HiddenPrefix = "__"
	// StylePrefix marks a sidecar field carrying rendering hints for the
	// field right before it
	StylePrefix = "__style__"
)

// Column is a render-ready column definition
type Column struct {
	ID      string
	Index   int
	Name    string
	Visible bool
	// Decorated is set when the next field is a style sidecar
	Decorated bool
}

// ColumnID returns the id of the field at position i
func ColumnID(i int) string {
	return strconv.Itoa(i)
}

// Columns derives one column per schema field
func Columns(fields []rpc.Field) []Column {
	cols := make([]Column, len(fields))
	for i, f := range fields {
		cols[i] = Column{
			ID:      ColumnID(i),
			Index:   i,
			Name:    f.Name,
			Visible: !strings.HasPrefix(f.Name, HiddenPrefix),
		}
		if i+1 < len(fields) && strings.HasPrefix(fields[i+1].Name, StylePrefix) {
			cols[i].Decorated = true
		}
	}
	return cols
}

// IDs returns the column ids in schema order
func IDs(cols []Column) []string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

// Decoration holds per-cell rendering hints from a style sidecar
type Decoration struct {
	Class string
	Href  string
}

// IsLink reports whether the cell renders as a hyperlink
func (d Decoration) IsLink() bool {
	return d.Href != ""
}

// Decorate reads the sidecar cell following column i of row.
// Anything other than an object yields no decoration.
func Decorate(row []any, i int, cols []Column) Decoration {
	if i < 0 || i >= len(cols) || !cols[i].Decorated || i+1 >= len(row) {
		return Decoration{}
	}
	attrs, ok := row[i+1].(map[string]any)
	if !ok {
		return Decoration{}
	}
	var d Decoration
	d.Class, _ = attrs["class"].(string)
	d.Href, _ = attrs["href"].(string)
	return d
}
