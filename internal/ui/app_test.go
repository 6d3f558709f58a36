package ui

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/frogtable/internal/events"
	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/kv"
	"github.com/nhath/frogtable/internal/relay"
	"github.com/nhath/frogtable/internal/rpc"
)

type fakeTransport struct {
	mu       sync.Mutex
	queries  []rpc.Query
	fields   []string
	rows     [][]any
	err      error
	requests []rpc.ExecQueryRequest
}

func (f *fakeTransport) ListQueries(context.Context) ([]rpc.Query, error) {
	return f.queries, nil
}

func (f *fakeTransport) ExecQuery(_ context.Context, req rpc.ExecQueryRequest) (*rpc.ExecQueryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	fs := make([]map[string]string, len(f.fields))
	for i, n := range f.fields {
		fs[i] = map[string]string{"name": n}
	}
	schema, _ := json.Marshal(map[string]any{"fields": fs})
	return &rpc.ExecQueryResponse{Data: f.rows, TotalCount: len(f.rows), Schema: schema}, nil
}

func (f *fakeTransport) lastRequest() rpc.ExecQueryRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeEvents struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]relay.Subscriber
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{subs: make(map[int]relay.Subscriber)}
}

func (f *fakeEvents) Subscribe(fn relay.Subscriber) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeEvents) Status() relay.Status {
	return relay.Status{Connected: true}
}

func (f *fakeEvents) publish(ev events.Event) {
	f.mu.Lock()
	subs := make([]relay.Subscriber, 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (f *fakeEvents) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func newTestModel(t *testing.T, tr *fakeTransport) (Model, *fakeEvents) {
	t.Helper()
	ev := newFakeEvents()
	m := NewModel(Deps{
		Transport: tr,
		Events:    ev,
		Layout:    grid.NewLayoutStore(kv.NewMemoryStore(), nil),
	})
	t.Cleanup(m.Close)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, ev
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// collect runs cmd and any batched commands, dropping those that block
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(200 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func fetches(msgs []tea.Msg) []FetchDoneMsg {
	var out []FetchDoneMsg
	for _, msg := range msgs {
		if f, ok := msg.(FetchDoneMsg); ok {
			out = append(out, f)
		}
	}
	return out
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model whose first tab shows "users"
func loaded(t *testing.T, tr *fakeTransport) (Model, *fakeEvents) {
	t.Helper()
	m, ev := newTestModel(t, tr)
	next, cmd := m.Update(QueryListLoadedMsg{Queries: tr.queries})
	m = next.(Model)

	done := fetches(collect(cmd))
	require.Len(t, done, 1)
	return update(t, m, done[0]), ev
}

func usersTransport() *fakeTransport {
	return &fakeTransport{
		queries: []rpc.Query{{Name: "users"}, {Name: "orders"}},
		fields:  []string{"id", "name", "__style__name"},
		rows: [][]any{
			{float64(1), "alice", map[string]any{"href": "https://example.com/alice"}},
			{float64(2), "bob", nil},
		},
	}
}

func TestModel_QueryListSelectsFirstQuery(t *testing.T) {
	tr := usersTransport()
	m, _ := loaded(t, tr)

	tb := m.currentTab()
	assert.Equal(t, "users", tb.view.State().SelectedQuery)
	assert.Equal(t, "users", tr.lastRequest().Name)

	snap := tb.view.Results()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Data, 2)
	assert.Equal(t, []string{"0", "1"}, tb.view.Grid().VisibleOrder())

	out := m.View()
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "1 - 2 of 2")
}

func TestModel_TabEventRefetches(t *testing.T) {
	tr := usersTransport()
	m, ev := loaded(t, tr)
	tb := m.currentTab()

	ev.publish(events.QueryUpdated{Name: "users"})
	msg := waitForEvent(tb)()
	require.IsType(t, TabEventMsg{}, msg)

	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.True(t, tb.view.Suppressed())

	// a second update while the refetch is pending is held back
	ev.publish(events.QueryUpdated{Name: "users"})
	_, cmd2 := m.Update(waitForEvent(tb)())
	assert.Empty(t, fetches(collect(cmd2)))

	done := fetches(collect(cmd))
	require.Len(t, done, 1)
	m = update(t, m, done[0])
	assert.False(t, tb.view.Suppressed())
	assert.Len(t, tr.requests, 2)
}

func TestModel_EventsForOtherQueriesAreIgnored(t *testing.T) {
	tr := usersTransport()
	m, ev := loaded(t, tr)
	tb := m.currentTab()

	ev.publish(events.QueryUpdated{Name: "orders"})
	_, cmd := m.Update(waitForEvent(tb)())
	assert.Empty(t, fetches(collect(cmd)))
}

func TestModel_NewAndCloseTab(t *testing.T) {
	tr := usersTransport()
	m, ev := loaded(t, tr)
	require.Equal(t, 1, ev.count())

	m = update(t, m, key("t"))
	assert.Len(t, m.tabs, 2)
	assert.Equal(t, 1, m.activeTab)
	assert.Equal(t, 2, ev.count())
	assert.Equal(t, "users", m.currentTab().view.State().SelectedQuery)

	closed := m.currentTab()
	m = update(t, m, key("x"))
	assert.Len(t, m.tabs, 1)
	assert.Equal(t, 1, ev.count())
	assert.Nil(t, waitForEvent(closed)())

	// the last tab stays
	m = update(t, m, key("x"))
	assert.Len(t, m.tabs, 1)
	assert.Equal(t, "Last tab stays open", m.statusMsg)
}

func TestModel_SortSendsFieldName(t *testing.T) {
	tr := usersTransport()
	m, _ := loaded(t, tr)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusGrid, m.focus)
	m = update(t, m, key("l"))

	next, cmd := m.Update(key("s"))
	m = next.(Model)
	require.Len(t, fetches(collect(cmd)), 1)

	req := tr.lastRequest()
	require.Len(t, req.OrderBy, 1)
	assert.Equal(t, "name", req.OrderBy[0].Column)
	assert.Equal(t, rpc.Asc, req.OrderBy[0].Direction)
	assert.Equal(t, 1, req.Page)
}

func TestModel_ResizeEndsAfterDebounce(t *testing.T) {
	tr := usersTransport()
	m, _ := loaded(t, tr)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	tb := m.currentTab()
	g := tb.view.Grid()
	m = update(t, m, key("+"))
	m = update(t, m, key("+"))
	assert.True(t, g.IsResizing())
	assert.Equal(t, grid.DefaultWidth+2*resizeStep, g.Width("0"))

	// only the latest step ends the resize
	m = update(t, m, ResizeDebounceMsg{TabID: tb.id, ID: tb.resizeID - 1})
	assert.True(t, g.IsResizing())
	update(t, m, ResizeDebounceMsg{TabID: tb.id, ID: tb.resizeID})
	assert.False(t, g.IsResizing())
}

func TestModel_TransportErrorShowsPanel(t *testing.T) {
	tr := usersTransport()
	tr.err = &rpc.TransportError{
		Body:     `{"error":"relation missing"}`,
		Request:  rpc.RequestInfo{Method: "POST", URL: "http://localhost:3000/rpc?rpcType=ExecQuery"},
		Response: rpc.ResponseInfo{Status: 500, StatusText: "Internal Server Error"},
	}
	m, _ := loaded(t, tr)

	snap := m.currentTab().view.Results()
	require.NotNil(t, snap.Err)
	out := m.View()
	assert.Contains(t, out, "TransportError - POST")
	assert.Contains(t, out, "relation missing")
}

func TestModel_PageSizeCycles(t *testing.T) {
	tr := usersTransport()
	m, _ := loaded(t, tr)

	next, cmd := m.Update(key("z"))
	m = next.(Model)
	require.Len(t, fetches(collect(cmd)), 1)
	assert.Equal(t, 250, tr.lastRequest().PageSize)
	assert.Equal(t, 250, m.currentTab().view.State().PageSize)
}

func TestModel_HelpPopupCloses(t *testing.T) {
	tr := usersTransport()
	m, _ := loaded(t, tr)

	m = update(t, m, key("?"))
	assert.Equal(t, popupHelp, m.popupStack.Top())
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.popupStack.IsEmpty())
}
