// Package tui is the terminal front end for browsing the catalog.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/listing"
	"github.com/mmcdole/cinelist/internal/navigation"
	"github.com/mmcdole/cinelist/internal/scroll"
	"github.com/mmcdole/cinelist/internal/tui/components"
	"github.com/mmcdole/cinelist/internal/tui/styles"
)

// ToastDuration is how long an error toast stays on screen
const ToastDuration = 5 * time.Second

// Catalog is what the front end loads outside of the list itself
type Catalog interface {
	domain.GenreProvider
	Detail(ctx context.Context, kind domain.MediaKind, id string) (*domain.TitleDetail, error)
}

// Options wires the model to the list and its navigation
type Options struct {
	Catalog         Catalog
	List            *listing.Orchestrator
	Binder          *navigation.Binder
	History         *navigation.History // optional
	ScrollThreshold int
	Theme           string

	// InitialQuery is applied once genres have loaded (or failed to),
	// so genre names in it can be resolved
	InitialQuery string
	Logger       *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	catalog  Catalog
	list     *listing.Orchestrator
	binder   *navigation.Binder
	history  *navigation.History
	observer *listing.ChannelObserver
	unsub    func()
	logger   *slog.Logger

	// UI Components
	Titles    components.TitleList
	Sidebar   components.GenreSidebar
	Inspector components.Inspector
	Search    components.SearchInput
	spinner   spinner.Model
	help      help.Model
	keys      KeyMap

	// Scrolling
	lock        *scroll.Lock
	releaseLock func()
	sensor      scroll.Sensor

	// Data
	state   listing.State
	genres  *domain.GenreDictionary
	pending *string // initial query not yet applied

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	toast    string
	toastID  int
	showHelp bool
}

// NewModel creates the model and subscribes it to the list
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	styles.ApplyTheme(opts.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	lock := &scroll.Lock{}
	list := opts.List

	m := Model{
		catalog:   opts.Catalog,
		list:      list,
		binder:    opts.Binder,
		history:   opts.History,
		observer:  listing.NewChannelObserver(),
		logger:    logger,
		Titles:    components.NewTitleList(),
		Sidebar:   components.NewGenreSidebar(),
		Inspector: components.NewInspector(),
		Search:    components.NewSearchInput(),
		spinner:   sp,
		help:      h,
		keys:      DefaultKeyMap(),
		lock:      lock,
		sensor: scroll.Sensor{
			Threshold: opts.ScrollThreshold,
			OnEnd:     list.LoadNextPage,
			Disabled:  lock.Locked,
		},
		state: list.Snapshot(),
	}
	initial := opts.InitialQuery
	m.pending = &initial
	m.unsub = list.Subscribe(m.observer)
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadGenresCmd(m.catalog),
		WaitForStateCmd(m.observer.C()),
		m.spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshStatus()
		return m, cmd

	case StateMsg:
		cmd := m.applyState(msg.State)
		return m, tea.Batch(cmd, WaitForStateCmd(m.observer.C()))

	case GenresLoadedMsg:
		m.genres = msg.Genres
		m.binder.SetGenres(msg.Genres)
		m.applyPending()
		return m, nil

	case GenresFailedMsg:
		m.logger.Warn("genres unavailable", "error", msg.Err)
		m.applyPending()
		return m, m.showToast("Genres unavailable: " + domain.UserMessage(msg.Err))

	case DetailLoadedMsg:
		m.Inspector.SetDetail(msg.Detail)
		return m, nil

	case DetailFailedMsg:
		if m.Inspector.IsVisible() && m.Inspector.Item().ID == msg.ID {
			m.Inspector.SetError(domain.UserMessage(msg.Err))
		}
		m.logger.Warn("detail load failed", "id", msg.ID, "error", msg.Err)
		return m, nil

	case ClearToastMsg:
		if msg.ID == m.toastID {
			m.toast = ""
		}
		return m, nil
	}

	return m, nil
}

// applyPending applies the initial query exactly once
func (m *Model) applyPending() {
	if m.pending == nil {
		return
	}
	raw := *m.pending
	m.pending = nil
	if _, _, err := m.binder.ApplyQuery(raw); err != nil {
		m.logger.Warn("ignoring malformed initial query", "query", raw, "error", err)
		m.binder.ApplyValues(nil)
	}
}

// applyState renders a snapshot. Snapshots older than the one on screen are dropped.
func (m *Model) applyState(s listing.State) tea.Cmd {
	if s.Revision < m.state.Revision {
		return nil
	}
	prev := m.state
	m.state = s

	if s.Phase == listing.PhaseResetting {
		m.Titles.Reset()
	}
	m.Titles.SetItems(s.Items)
	m.refreshStatus()

	var cmd tea.Cmd
	if s.Err != "" && (s.Err != prev.Err || s.Phase != prev.Phase) && s.Phase != listing.PhaseError {
		cmd = m.showToast(s.Err)
	}

	// A short first page leaves nothing to scroll; keep filling the screen
	if s.Err == "" && s.Phase == listing.PhaseReady {
		m.checkScroll()
	}
	return cmd
}

func (m *Model) checkScroll() {
	m.sensor.Check(m.Titles.LastVisible(), m.Titles.Len())
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	return ClearToastCmd(m.toastID, ToastDuration)
}

// State returns the snapshot on screen
func (m Model) State() listing.State {
	return m.state
}

// Close detaches the model from the list
func (m Model) Close() {
	if m.releaseLock != nil {
		m.releaseLock()
	}
	if m.unsub != nil {
		m.unsub()
	}
}
