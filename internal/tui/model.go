// Package tui is the interactive terminal viewer for daily picks. It drives a
// view.Controller from the bubbletea event loop; fetches run as tea.Cmds and
// report back with the generation they were issued under.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"safepicks/internal/domain"
	"safepicks/internal/util"
	"safepicks/internal/view"
	"safepicks/pkg/picks"
)

// Title is shown in the header bar.
const Title = "NCAA Men's Basketball - Top 5 Safest Winners"

// Fetcher loads the picks for a date.
type Fetcher interface {
	FetchPicks(ctx context.Context, date string) ([]domain.Pick, error)
}

// Messages.
type picksLoadedMsg struct {
	gen   uint64
	date  string
	picks []domain.Pick
	err   error
}

// Model is the bubbletea model for the picks viewer.
type Model struct {
	ctrl    *view.Controller
	fetcher Fetcher
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	now     func() time.Time
	source  string

	viewport      viewport.Model
	spinner       spinner.Model
	ready         bool
	width, height int

	// Date entry.
	editing   bool
	dateInput textinput.Model
	inputErr  string
}

// Options configures New.
type Options struct {
	Calendar *util.GameCalendar
	Logger   *slog.Logger
	Now      func() time.Time // defaults to time.Now
	Source   string           // shown in the footer, e.g. the API base URL
}

// New creates the model. Cancelling ctx (or quitting) aborts in-flight
// fetches.
func New(ctx context.Context, fetcher Fetcher, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = util.DateLayout
	ti.CharLimit = len(util.DateLayout)
	ti.Prompt = "date: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return Model{
		ctrl:      view.NewController(opts.Calendar, opts.Now()),
		fetcher:   fetcher,
		ctx:       ctx,
		cancel:    cancel,
		logger:    opts.Logger,
		now:       opts.Now,
		source:    opts.Source,
		spinner:   sp,
		dateInput: ti,
	}
}

// State returns the controller state, for callers embedding the model.
func (m Model) State() view.State { return m.ctrl.State() }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.ctrl.SelectDate(m.ctrl.SelectedDate())))
}

// load returns the command that performs req, or nil if req must not be
// issued.
func (m Model) load(req view.Request) tea.Cmd {
	if !req.Valid() {
		return nil
	}
	ctx := m.ctx
	f := m.fetcher
	m.logger.Info("loading picks", "date", req.Date, "generation", req.Generation)
	return func() tea.Msg {
		data, err := f.FetchPicks(ctx, req.Date)
		return picksLoadedMsg{gen: req.Generation, date: req.Date, picks: data, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateDateInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.ctrl.Teardown()
			m.cancel()
			return m, tea.Quit
		case "left", "h":
			return m.apply(m.ctrl.StepDay(-1))
		case "right", "l":
			return m.apply(m.ctrl.StepDay(1))
		case "t":
			return m.apply(m.ctrl.Today(m.now()))
		case "r":
			return m.apply(m.ctrl.Refresh())
		case "d", "/":
			m.editing = true
			m.inputErr = ""
			m.dateInput.SetValue(m.ctrl.SelectedDate())
			m.dateInput.CursorEnd()
			return m, m.dateInput.Focus()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 1
		footerH := 1
		vpHeight := m.height - headerH - footerH
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case picksLoadedMsg:
		var applied bool
		if msg.err != nil {
			applied = m.ctrl.Failed(msg.gen, failureMessage(msg.err))
			if applied {
				m.logger.Error("loading picks", "date", msg.date, "generation", msg.gen, "error", msg.err)
			}
		} else {
			applied = m.ctrl.Succeeded(msg.gen, msg.picks)
			if applied {
				m.logger.Info("picks loaded", "date", msg.date, "generation", msg.gen, "picks", len(msg.picks))
			}
		}
		if !applied {
			m.logger.Debug("discarding stale picks", "date", msg.date, "generation", msg.gen,
				"current", m.ctrl.Generation())
			return m, nil
		}
		m.refresh()
		if m.ready {
			m.viewport.GotoTop()
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) updateDateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.inputErr = ""
		m.dateInput.Blur()
		return m, nil
	case "enter":
		v := strings.TrimSpace(m.dateInput.Value())
		if !util.ValidDate(v) {
			m.inputErr = fmt.Sprintf("invalid date %q, want %s", v, util.DateLayout)
			return m, nil
		}
		m.editing = false
		m.inputErr = ""
		m.dateInput.Blur()
		return m.apply(m.ctrl.SelectDate(v))
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return m, cmd
}

// apply redraws for a newly issued request and starts its fetch.
func (m Model) apply(req view.Request) (tea.Model, tea.Cmd) {
	m.refresh()
	return m, m.load(req)
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(renderContent(view.Project(m.ctrl.State()), m.width))
	}
}

// failureMessage extracts the user-facing text from a fetch error.
func failureMessage(err error) string {
	var fe *picks.FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return err.Error()
}
