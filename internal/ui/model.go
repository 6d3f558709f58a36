// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/frogtable/internal/config"
	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/history"
	"github.com/nhath/frogtable/internal/rpc"
	eztable "github.com/nhath/frogtable/internal/ui/components/table"
)

// Deps are the collaborators the UI is built on
type Deps struct {
	Config    *config.Config
	Server    *config.Server
	Transport rpc.Transport
	Events    EventSource
	Layout    *grid.LayoutStore
	History   *history.Store // optional
	Logger    *slog.Logger
}

// Model is the root Bubble Tea model
type Model struct {
	// Core state
	width, height int
	config        *config.Config
	server        *config.Server
	transport     rpc.Transport
	events        EventSource
	layout        *grid.LayoutStore
	historyStore  *history.Store
	logger        *slog.Logger

	focus Focus

	// Query list
	queries      []rpc.Query
	queryCursor  int
	loadingList  bool
	queryListErr string

	// Tabs
	tabs      []*tab
	activeTab int
	nextTabID int

	// Popup state
	popupStack    *PopupStack
	history       []history.Entry
	historyTotal  int
	historyCursor int

	// Status
	spinner   spinner.Model
	errorMsg  string
	statusMsg string
}

// NewModel creates a new UI model with one empty tab
func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Server == nil {
		deps.Server = &config.Server{Name: "?"}
	}

	InitStyles(deps.Config.Theme)
	eztable.Init(deps.Config.Theme, deps.Config.CellClasses)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor())

	m := Model{
		config:       deps.Config,
		server:       deps.Server,
		transport:    deps.Transport,
		events:       deps.Events,
		layout:       deps.Layout,
		historyStore: deps.History,
		logger:       deps.Logger,
		focus:        FocusQueries,
		loadingList:  true,
		popupStack:   NewPopupStack(),
		spinner:      sp,
	}
	m.openTab()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.listQueriesCmd(),
		m.spinner.Tick,
		tickCmd(),
	}
	for _, t := range m.tabs {
		cmds = append(cmds, waitForEvent(t))
	}
	return tea.Batch(cmds...)
}

// Close releases every tab's relay subscription
func (m Model) Close() {
	for _, t := range m.tabs {
		t.close()
	}
}
