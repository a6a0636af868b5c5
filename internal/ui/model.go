package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"trialsearch/internal/config"
	"trialsearch/internal/eventbus"
	"trialsearch/internal/search"
	"trialsearch/internal/ui/state"
	"trialsearch/internal/ui/views"
)

// Placeholder is shown in the empty search input
const Placeholder = "Search clinical trials..."

// inputChrome is the horizontal space around the text input
const inputChrome = 16

// Model represents the UI state
type Model struct {
	ctx      context.Context
	bus      eventbus.EventBus
	config   *config.Config
	searcher search.Searcher
	state    *state.SearchState

	// UI-specific state not in SearchState
	width      int
	height     int
	input      textinput.Model
	spinner    spinner.Model
	help       help.Model
	keys       keyMap
	statusLine string
	statusWarn bool

	cancelInFlight context.CancelFunc

	renderer *views.Renderer
	pager    *PagerOps
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, cfg *config.Config, searcher search.Searcher, bus eventbus.EventBus) *Model {
	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	errorMessage := cfg.ErrorMessage
	if strings.TrimSpace(errorMessage) == "" {
		errorMessage = config.DefaultErrorMessage
	}

	return &Model{
		ctx:      ctx,
		bus:      bus,
		config:   cfg,
		searcher: searcher,
		state:    state.NewSearchState(cfg.MinQueryLength, cfg.MaxDisplay, errorMessage),
		input:    ti,
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
		renderer: views.NewRenderer(),
		pager:    NewPagerOps(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if inspector, ok := m.searcher.(search.Inspector); ok {
		cmds = append(cmds, m.backendInfoCmd(inspector))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// frame padding, input border and padding, spinner column
		m.input.Width = max(10, msg.Width-inputChrome)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		return m, m.trigger(msg.tag)

	case searchResultMsg:
		m.handleSearchResult(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			// Dropping the tick stops the animation loop
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case backendInfoMsg:
		m.handleBackendInfo(msg)
		return m, nil

	case trialPagerMsg:
		if msg.err != nil {
			log.Printf("Failed to show %s in pager: %v", msg.nctID, msg.err)
			m.statusLine = "pager unavailable"
			m.statusWarn = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelRequest()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.state.SelectPrev()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.state.SelectNext()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if trial, ok := m.state.SelectedTrial(); ok {
			pager := m.pager
			return m, func() tea.Msg {
				return trialPagerMsg{nctID: trial.NCTID, err: pager.ShowTrial(trial)}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.input.Value() == "" {
			return m, nil
		}
		m.input.SetValue("")
		return m, m.queryChanged()
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.queryChanged())
}

// queryChanged records the new input and arms a fresh debounce timer.
// Older timers are not stopped; their tags no longer match when they fire.
func (m *Model) queryChanged() tea.Cmd {
	tag := m.state.SetQuery(m.input.Value())
	return tea.Tick(m.config.Debounce(), func(time.Time) tea.Msg {
		return debounceMsg{tag: tag}
	})
}

// trigger runs when a debounce timer expires
func (m *Model) trigger(tag int) tea.Cmd {
	result, query := m.state.Trigger(tag)
	switch result {
	case state.TriggerStale:
		return nil
	case state.TriggerCleared:
		m.cancelRequest()
		m.publish(eventbus.SearchClearedEvent{Query: m.state.Query})
		return nil
	}

	m.cancelRequest()
	seq := m.state.StartRequest()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelInFlight = cancel

	m.publish(eventbus.SearchRequestedEvent{Seq: seq, Query: query})
	return tea.Batch(m.spinner.Tick, m.searchCmd(ctx, seq, query))
}

func (m *Model) searchCmd(ctx context.Context, seq int, query string) tea.Cmd {
	searcher := m.searcher
	return func() tea.Msg {
		start := time.Now()
		results, err := searcher.Search(ctx, query)
		return searchResultMsg{
			seq:      seq,
			query:    query,
			results:  results,
			err:      err,
			duration: time.Since(start),
		}
	}
}

func (m *Model) handleSearchResult(msg searchResultMsg) {
	if msg.err != nil {
		if !m.state.Fail(msg.seq) {
			m.publish(eventbus.SearchDiscardedEvent{Seq: msg.seq, Query: msg.query})
			return
		}
		m.cancelRequest()
		m.publish(eventbus.SearchFailedEvent{Seq: msg.seq, Query: msg.query, Err: msg.err})
		return
	}

	if !m.state.Succeed(msg.seq, msg.results) {
		m.publish(eventbus.SearchDiscardedEvent{Seq: msg.seq, Query: msg.query})
		return
	}
	m.cancelRequest()
	m.publish(eventbus.SearchCompletedEvent{
		Seq:      msg.seq,
		Query:    msg.query,
		Count:    len(msg.results),
		Duration: msg.duration,
	})
}

func (m *Model) cancelRequest() {
	if m.cancelInFlight != nil {
		m.cancelInFlight()
		m.cancelInFlight = nil
	}
}

func (m *Model) backendInfoCmd(inspector search.Inspector) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		version, err := inspector.Version(ctx)
		if err != nil {
			return backendInfoMsg{err: err}
		}
		info, err := inspector.IndexInfo(ctx)
		return backendInfoMsg{version: version, info: info, err: err}
	}
}

func (m *Model) handleBackendInfo(msg backendInfoMsg) {
	if msg.err != nil {
		log.Printf("Backend info unavailable: %v", msg.err)
		m.statusLine = "index unavailable"
		m.statusWarn = true
		return
	}
	m.statusWarn = false
	m.statusLine = fmt.Sprintf("%d trials indexed · %s", msg.info.DocCount, formatBytes(msg.info.SizeInBytes))
	if msg.version != "" {
		m.statusLine += " · v" + strings.TrimPrefix(msg.version, "v")
	}
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	hint := ""
	trimmed := utf8.RuneCountInString(strings.TrimSpace(m.input.Value()))
	if trimmed > 0 && trimmed < m.config.MinQueryLength {
		hint = fmt.Sprintf("Type at least %d characters to search", m.config.MinQueryLength)
	}

	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Input:         m.input.View(),
		Loading:       m.state.Loading,
		Spinner:       m.spinner.View(),
		Error:         m.state.Error,
		Hint:          hint,
		Results:       m.state.Visible(),
		Selected:      m.state.Selected,
		StatusLine:    m.statusLine,
		StatusWarning: m.statusWarn,
		Help:          m.help.View(m.keys),
	})
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
