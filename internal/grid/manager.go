// internal/grid/manager.go
package grid

import (
	"maps"
	"slices"

	"github.com/nhath/frogtable/internal/rpc"
)

// Manager holds the column layout of one view.
// It is not safe for concurrent use; views drive it from the update loop.
type Manager struct {
	layout *LayoutStore // nil keeps layouts in memory only

	query   string
	loaded  bool
	columns []Column
	order   []string
	sizing  map[string]float64

	resizing string
}

func NewManager(layout *LayoutStore) *Manager {
	return &Manager{layout: layout, sizing: make(map[string]float64)}
}

// Mount switches to query. Its stored layout is read when the first schema
// arrives.
func (m *Manager) Mount(query string) {
	m.query = query
	m.loaded = false
	m.columns = nil
	m.order = nil
	m.sizing = make(map[string]float64)
	m.resizing = ""
}

// Query returns the mounted query name
func (m *Manager) Query() string {
	return m.query
}

// SetSchema recomputes columns. Later schemas for the same query keep the
// current layout, reconciled to the new ids.
func (m *Manager) SetSchema(fields []rpc.Field) {
	m.columns = Columns(fields)
	ids := IDs(m.columns)

	if !m.loaded && m.query != "" && m.layout != nil {
		m.order = m.layout.LoadOrder(m.query, ids)
		m.sizing = m.layout.LoadSizing(m.query, ids)
		m.loaded = true
		return
	}
	m.loaded = m.query != ""

	m.order = ReconcileOrder(m.order, ids)
	maps.DeleteFunc(m.sizing, func(id string, _ float64) bool {
		return !slices.Contains(ids, id)
	})
}

// Columns returns the columns in schema order
func (m *Manager) Columns() []Column {
	return m.columns
}

// Column looks a column up by id
func (m *Manager) Column(id string) (Column, bool) {
	i := slices.IndexFunc(m.columns, func(c Column) bool { return c.ID == id })
	if i < 0 {
		return Column{}, false
	}
	return m.columns[i], true
}

// Order returns every column id in display order
func (m *Manager) Order() []string {
	return slices.Clone(m.order)
}

// VisibleOrder returns the display order without hidden columns
func (m *Manager) VisibleOrder() []string {
	visible := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if c, ok := m.Column(id); ok && c.Visible {
			visible = append(visible, id)
		}
	}
	return visible
}

// Sizing returns a copy of the explicit column widths
func (m *Manager) Sizing() map[string]float64 {
	return maps.Clone(m.sizing)
}

// Width returns the width of column id
func (m *Manager) Width(id string) float64 {
	w, ok := m.sizing[id]
	if !ok {
		return DefaultWidth
	}
	return max(w, MinWidth)
}

// Reorder moves dragged to target's position and saves the order.
// It reports whether the order changed.
func (m *Manager) Reorder(dragged, target string) bool {
	next := MoveColumn(m.order, dragged, target)
	if slices.Equal(next, m.order) {
		return false
	}
	m.order = next
	if m.layout != nil && m.query != "" {
		m.layout.SaveOrder(m.query, m.order)
	}
	return true
}

// BeginResize marks column id as being resized
func (m *Manager) BeginResize(id string) {
	m.resizing = id
}

// Resize sets the width of column id and saves the sizing
func (m *Manager) Resize(id string, width float64) {
	if _, ok := m.Column(id); !ok {
		return
	}
	m.sizing[id] = max(width, MinWidth)
	if m.layout != nil && m.query != "" {
		m.layout.SaveSizing(m.query, m.sizing)
	}
}

// EndResize clears the resizing flag
func (m *Manager) EndResize() {
	m.resizing = ""
}

// IsResizing reports whether a resize is in progress
func (m *Manager) IsResizing() bool {
	return m.resizing != ""
}

// ResizingColumn returns the column being resized, if any
func (m *Manager) ResizingColumn() string {
	return m.resizing
}
