package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/frogtable/internal/kv"
	"github.com/nhath/frogtable/internal/rpc"
)

func fields(names ...string) []rpc.Field {
	fs := make([]rpc.Field, len(names))
	for i, n := range names {
		fs[i] = rpc.Field{Name: n, Attrs: map[string]any{"name": n}}
	}
	return fs
}

func TestColumns(t *testing.T) {
	cols := Columns(fields("id", "name", "__style__name", "__internal"))

	require.Len(t, cols, 4)
	assert.Equal(t, []string{"0", "1", "2", "3"}, IDs(cols))
	assert.True(t, cols[0].Visible)
	assert.False(t, cols[0].Decorated)
	assert.True(t, cols[1].Visible)
	assert.True(t, cols[1].Decorated)
	assert.False(t, cols[2].Visible)
	assert.False(t, cols[3].Visible)
	assert.False(t, cols[3].Decorated)
}

func TestDecorate(t *testing.T) {
	cols := Columns(fields("title", "__style__link", "count"))

	tests := []struct {
		name string
		row  []any
		col  int
		want Decoration
	}{
		{
			name: "href renders as link",
			row:  []any{"docs", map[string]any{"href": "https://example.com/docs"}, json.Number("1")},
			want: Decoration{Href: "https://example.com/docs"},
		},
		{
			name: "class only",
			row:  []any{"docs", map[string]any{"class": "warn"}, json.Number("1")},
			want: Decoration{Class: "warn"},
		},
		{
			name: "non-object sidecar stays plain",
			row:  []any{"docs", "https://example.com", json.Number("1")},
		},
		{
			name: "null sidecar stays plain",
			row:  []any{"docs", nil, json.Number("1")},
		},
		{
			name: "undecorated column",
			row:  []any{"docs", map[string]any{"href": "x"}, json.Number("1")},
			col:  2,
		},
		{
			name: "short row",
			row:  []any{"docs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decorate(tt.row, tt.col, cols)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Href != "", got.IsLink())
		})
	}
}

func TestToggleSort_Single(t *testing.T) {
	var specs []SortSpec

	specs = ToggleSort(specs, "1", false)
	assert.Equal(t, []SortSpec{{ColumnID: "1", Direction: rpc.Asc}}, specs)

	specs = ToggleSort(specs, "1", false)
	assert.Equal(t, []SortSpec{{ColumnID: "1", Direction: rpc.Desc}}, specs)

	specs = ToggleSort(specs, "1", false)
	assert.Empty(t, specs)

	specs = ToggleSort([]SortSpec{{ColumnID: "0", Direction: rpc.Desc}}, "2", false)
	assert.Equal(t, []SortSpec{{ColumnID: "2", Direction: rpc.Asc}}, specs)
}

func TestToggleSort_Multi(t *testing.T) {
	specs := []SortSpec{{ColumnID: "0", Direction: rpc.Asc}}

	specs = ToggleSort(specs, "2", true)
	assert.Equal(t, []SortSpec{{"0", rpc.Asc}, {"2", rpc.Asc}}, specs)

	specs = ToggleSort(specs, "0", true)
	assert.Equal(t, []SortSpec{{"0", rpc.Desc}, {"2", rpc.Asc}}, specs)

	specs = ToggleSort(specs, "0", true)
	assert.Equal(t, []SortSpec{{"2", rpc.Asc}}, specs)
}

func TestToggleSort_DoesNotModifyInput(t *testing.T) {
	in := []SortSpec{{"0", rpc.Asc}, {"1", rpc.Asc}}
	ToggleSort(in, "0", true)
	ToggleSort(in, "1", true)
	assert.Equal(t, []SortSpec{{"0", rpc.Asc}, {"1", rpc.Asc}}, in)
}

func TestNextSortLabel(t *testing.T) {
	specs := []SortSpec{{"0", rpc.Asc}, {"1", rpc.Desc}}
	assert.Equal(t, "desc", NextSortLabel(specs, "0"))
	assert.Equal(t, "clear", NextSortLabel(specs, "1"))
	assert.Equal(t, "asc", NextSortLabel(specs, "2"))
}

func TestReconcileOrder(t *testing.T) {
	tests := []struct {
		name   string
		stored []string
		ids    []string
		want   []string
	}{
		{"foreign ids dropped, missing prepended", []string{"2", "9"}, []string{"0", "1", "2"}, []string{"0", "1", "2"}},
		{"stored order kept", []string{"2", "0", "1"}, []string{"0", "1", "2"}, []string{"2", "0", "1"}},
		{"new column prepended", []string{"1", "0"}, []string{"0", "1", "2"}, []string{"2", "1", "0"}},
		{"duplicates collapsed", []string{"1", "1", "0"}, []string{"0", "1"}, []string{"1", "0"}},
		{"nothing stored", nil, []string{"0", "1"}, []string{"0", "1"}},
		{"empty schema", []string{"0"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileOrder(tt.stored, tt.ids))
		})
	}
}

func TestMoveColumn(t *testing.T) {
	order := []string{"0", "1", "2", "3"}

	assert.Equal(t, []string{"2", "0", "1", "3"}, MoveColumn(order, "2", "0"))
	assert.Equal(t, []string{"1", "2", "0", "3"}, MoveColumn(order, "0", "2"))
	assert.Equal(t, order, MoveColumn(order, "1", "1"))
	assert.Equal(t, order, MoveColumn(order, "7", "1"))
	assert.Equal(t, []string{"0", "1", "2", "3"}, order)
}

func TestLayoutStore_LoadOrder(t *testing.T) {
	store := kv.NewMemoryStore()
	layout := NewLayoutStore(store, nil)
	ids := []string{"0", "1", "2"}

	require.NoError(t, store.Set(OrderKey("users"), `["2","9"]`))
	assert.Equal(t, []string{"0", "1", "2"}, layout.LoadOrder("users", ids))

	_, ok, _ := store.Get(OrderKey("users"))
	assert.True(t, ok, "a well-formed order is kept even when it needs reconciling")
}

func TestLayoutStore_LoadOrderMalformed(t *testing.T) {
	for _, raw := range []string{`not-json`, `{"0":1}`, `["0",1]`, `null`} {
		t.Run(raw, func(t *testing.T) {
			store := kv.NewMemoryStore()
			layout := NewLayoutStore(store, nil)
			require.NoError(t, store.Set(OrderKey("users"), raw))

			assert.Equal(t, []string{"0", "1"}, layout.LoadOrder("users", []string{"0", "1"}))

			_, ok, _ := store.Get(OrderKey("users"))
			assert.False(t, ok)
		})
	}
}

func TestLayoutStore_LoadSizing(t *testing.T) {
	store := kv.NewMemoryStore()
	layout := NewLayoutStore(store, nil)

	require.NoError(t, store.Set(SizingKey("users"), `{"0":200,"1":80.5,"7":300}`))
	assert.Equal(t, map[string]float64{"0": 200, "1": 80.5}, layout.LoadSizing("users", []string{"0", "1", "2"}))
}

func TestLayoutStore_LoadSizingMalformed(t *testing.T) {
	for _, raw := range []string{`not-json`, `{"0": "wide"}`, `[200]`, `null`} {
		t.Run(raw, func(t *testing.T) {
			store := kv.NewMemoryStore()
			layout := NewLayoutStore(store, nil)
			require.NoError(t, store.Set(SizingKey("users"), raw))

			sizing := layout.LoadSizing("users", []string{"0", "1"})
			assert.NotNil(t, sizing)
			assert.Empty(t, sizing)

			_, ok, _ := store.Get(SizingKey("users"))
			assert.False(t, ok)
		})
	}
}

func TestManager_LoadsLayoutOnFirstSchema(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(OrderKey("users"), `["2","1","0"]`))
	require.NoError(t, store.Set(SizingKey("users"), `{"1":10,"2":320}`))

	m := NewManager(NewLayoutStore(store, nil))
	m.Mount("users")
	m.SetSchema(fields("id", "name", "email"))

	assert.Equal(t, []string{"2", "1", "0"}, m.Order())
	assert.Equal(t, 320.0, m.Width("2"))
	assert.Equal(t, MinWidth, m.Width("1"))
	assert.Equal(t, DefaultWidth, m.Width("0"))

	// a later schema reconciles in memory instead of reloading
	require.NoError(t, store.Set(OrderKey("users"), `["0","1","2","3"]`))
	m.SetSchema(fields("id", "name", "email", "created_at"))
	assert.Equal(t, []string{"3", "2", "1", "0"}, m.Order())

	m.SetSchema(fields("id", "name"))
	assert.Equal(t, []string{"1", "0"}, m.Order())
	assert.Equal(t, map[string]float64{"1": 10}, m.Sizing())
}

func TestManager_MutationsPersist(t *testing.T) {
	store := kv.NewMemoryStore()
	m := NewManager(NewLayoutStore(store, nil))
	m.Mount("users")
	m.SetSchema(fields("id", "name", "email", "age"))

	assert.True(t, m.Reorder("2", "0"))
	assert.Equal(t, []string{"2", "0", "1", "3"}, m.Order())
	raw, ok, _ := store.Get(OrderKey("users"))
	require.True(t, ok)
	assert.JSONEq(t, `["2","0","1","3"]`, raw)

	assert.False(t, m.Reorder("1", "1"))

	m.BeginResize("1")
	assert.True(t, m.IsResizing())
	m.Resize("1", 212)
	m.Resize("1", 5)
	m.EndResize()
	assert.False(t, m.IsResizing())

	assert.Equal(t, MinWidth, m.Width("1"))
	raw, ok, _ = store.Get(SizingKey("users"))
	require.True(t, ok)
	assert.JSONEq(t, `{"1":24}`, raw)

	m.Resize("99", 100)
	assert.NotContains(t, m.Sizing(), "99")
}

func TestManager_MountResetsLayout(t *testing.T) {
	store := kv.NewMemoryStore()
	m := NewManager(NewLayoutStore(store, nil))
	m.Mount("users")
	m.SetSchema(fields("id", "name"))
	m.Reorder("1", "0")
	m.Resize("0", 90)

	m.Mount("orders")
	assert.Empty(t, m.Columns())
	assert.Empty(t, m.Order())
	assert.Empty(t, m.Sizing())

	m.SetSchema(fields("id", "total"))
	assert.Equal(t, []string{"0", "1"}, m.Order())

	m.Mount("users")
	m.SetSchema(fields("id", "name"))
	assert.Equal(t, []string{"1", "0"}, m.Order())
	assert.Equal(t, 90.0, m.Width("0"))
}

func TestManager_VisibleOrder(t *testing.T) {
	m := NewManager(nil)
	m.Mount("links")
	m.SetSchema(fields("__id", "title", "__style__title", "url"))

	m.Reorder("3", "1")
	assert.Equal(t, []string{"0", "3", "1", "2"}, m.Order())
	assert.Equal(t, []string{"3", "1"}, m.VisibleOrder())
}

func TestBodyCache(t *testing.T) {
	var c BodyCache[string]
	calls := 0
	build := func() string {
		calls++
		return "body"
	}

	c.Get(1, false, build)
	c.Get(1, false, build)
	assert.Equal(t, 2, calls, "not resizing always rebuilds")

	c.Get(1, true, build)
	c.Get(1, true, build)
	assert.Equal(t, 2, calls, "resizing with same data reuses the body")

	c.Get(2, true, build)
	assert.Equal(t, 3, calls, "new data rebuilds even while resizing")
	assert.Equal(t, 3, c.Builds())
}
