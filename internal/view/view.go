// internal/view/view.go
// Package view implements the per-view state machine: selection, paging,
// sorting, live refresh and fetch resolution for one grid.
package view

import (
	"log/slog"
	"slices"
	"time"

	"github.com/nhath/frogtable/internal/events"
	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/rpc"
)

// DefaultPageSize matches the server default
const DefaultPageSize = 100

// State holds the fetch dependencies of a view
type State struct {
	SelectedQuery string
	Page          int
	PageSize      int
	Sort          []grid.SortSpec
}

// Options configures a View
type Options struct {
	PageSize int
	Layout   *grid.LayoutStore
	Logger   *slog.Logger
	Now      func() time.Time
}

// View is one grid over one query. Every transition that changes what
// should be on screen returns the Fetch to execute; the caller runs it with
// Execute and hands the Outcome back to Resolve.
type View struct {
	state   State
	coord   RefreshCoordinator
	results *ResultStore
	grid    *grid.Manager
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a View with no query selected
func New(opts Options) *View {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &View{
		state:   State{Page: 1, PageSize: opts.PageSize, Sort: []grid.SortSpec{}},
		results: NewResultStore(opts.Logger),
		grid:    grid.NewManager(opts.Layout),
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

// State returns a copy of the current state
func (v *View) State() State {
	s := v.state
	s.Sort = slices.Clone(v.state.Sort)
	return s
}

// Results returns the current result snapshot
func (v *View) Results() Snapshot {
	return v.results.Snapshot()
}

// Grid returns the column manager for this view
func (v *View) Grid() *grid.Manager {
	return v.grid
}

// Suppressed reports whether live refreshes are held back by a pending fetch
func (v *View) Suppressed() bool {
	return v.coord.Suppressed()
}

// IsLatest reports whether token belongs to the most recent fetch
func (v *View) IsLatest(token FetchToken) bool {
	return token == v.results.Latest()
}

func (v *View) Pagination() Pagination {
	return Pagination{
		Page:     v.state.Page,
		PageSize: v.state.PageSize,
		Total:    v.results.Snapshot().TotalCount,
	}
}

// SelectQuery switches to name. A different name resets paging, sorting and
// results before fetching.
func (v *View) SelectQuery(name string) (Fetch, bool) {
	if name == v.state.SelectedQuery {
		return Fetch{}, false
	}
	v.logger.Debug("selecting query", "query", name, "previous", v.state.SelectedQuery)

	v.state.SelectedQuery = name
	v.state.Page = 1
	v.state.Sort = []grid.SortSpec{}
	v.results.Reset()
	v.coord.Select(name)
	v.grid.Mount(name)
	return v.issue()
}

// SetPage moves to page p
func (v *View) SetPage(p int) (Fetch, bool) {
	p = max(p, 1)
	if p == v.state.Page {
		return Fetch{}, false
	}
	v.state.Page = p
	return v.issue()
}

func (v *View) NextPage() (Fetch, bool) {
	pg := v.Pagination()
	if !pg.HasNext() {
		return Fetch{}, false
	}
	return v.SetPage(pg.Next())
}

func (v *View) PrevPage() (Fetch, bool) {
	pg := v.Pagination()
	if !pg.HasPrev() {
		return Fetch{}, false
	}
	return v.SetPage(pg.Prev())
}

// SetPageSize changes the page size and returns to the first page
func (v *View) SetPageSize(n int) (Fetch, bool) {
	if n <= 0 || n == v.state.PageSize {
		return Fetch{}, false
	}
	v.state.PageSize = n
	v.state.Page = 1
	return v.issue()
}

// ToggleSort toggles sorting on column id and returns to the first page
func (v *View) ToggleSort(id string, multi bool) (Fetch, bool) {
	if _, ok := v.grid.Column(id); !ok {
		return Fetch{}, false
	}
	v.state.Sort = grid.ToggleSort(v.state.Sort, id, multi)
	v.state.Page = 1
	return v.issue()
}

// Refresh refetches the current page on request
func (v *View) Refresh() (Fetch, bool) {
	return v.issue()
}

// HandleEvent feeds a relayed event through the refresh coordinator
func (v *View) HandleEvent(ev events.Event) (Fetch, bool) {
	if !v.coord.Observe(ev) {
		return Fetch{}, false
	}
	v.logger.Debug("query updated upstream", "query", v.state.SelectedQuery)
	return v.issue()
}

// Resolve applies a fetch outcome. Only the latest fetch clears
// suppression, whether it succeeded or failed; a superseded outcome leaves
// the pending refresh in charge. It reports whether the outcome was applied.
func (v *View) Resolve(o Outcome) bool {
	if o.Token == v.results.Latest() {
		v.coord.FetchCompleted()
	}

	applied, schemaChanged := v.results.Apply(o)
	if schemaChanged {
		v.grid.SetSchema(v.results.Snapshot().Schema)
	}
	return applied
}

func (v *View) issue() (Fetch, bool) {
	if v.state.SelectedQuery == "" {
		return Fetch{}, false
	}
	f := v.results.Begin(v.request(), v.now())
	v.logger.Debug("fetch issued", "query", f.Request.Name, "token", f.Token, "page", f.Request.Page)
	return f, true
}

// request builds the wire request. Sort columns go out by field name.
func (v *View) request() rpc.ExecQueryRequest {
	orderBy := make([]rpc.Ordering, 0, len(v.state.Sort))
	for _, s := range v.state.Sort {
		column := s.ColumnID
		if c, ok := v.grid.Column(s.ColumnID); ok {
			column = c.Name
		}
		orderBy = append(orderBy, rpc.Ordering{Column: column, Direction: s.Direction})
	}
	return rpc.ExecQueryRequest{
		Name:     v.state.SelectedQuery,
		Page:     v.state.Page,
		PageSize: v.state.PageSize,
		OrderBy:  orderBy,
	}
}
