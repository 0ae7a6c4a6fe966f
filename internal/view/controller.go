// Package view holds the picks view state machine and its rendering
// projection. A Controller is owned by a single event loop and is not safe
// for concurrent use; the request generation, not a lock, keeps stale
// responses from being applied.
package view

import (
	"math"
	"time"

	"safepicks/internal/domain"
	"safepicks/internal/util"
)

// Phase is the controller's lifecycle state.
type Phase int

const (
	PhaseIdle    Phase = iota // no request issued yet
	PhaseLoading              // request outstanding for the current generation
	PhaseLoaded               // last current-generation request succeeded
	PhaseFailed               // last current-generation request failed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// terminalGeneration marks a torn-down controller. No issued request can
// carry it, so every later completion is discarded.
const terminalGeneration = math.MaxUint64

// genericFailure replaces an empty failure message.
const genericFailure = "Failed to load picks"

// Request is a fetch the driver must perform. Its result is reported back
// with the same Generation.
type Request struct {
	Generation uint64
	Date       string
}

// Valid reports whether the request should be issued. A torn-down
// controller returns zero requests.
func (r Request) Valid() bool { return r.Generation != 0 }

// State is a snapshot of the view.
type State struct {
	SelectedDate string
	Picks        []domain.Pick
	Loading      bool
	Err          string
	Generation   uint64
	Phase        Phase
	TornDown     bool
}

// Controller coordinates date selection, request supersession, and the
// derived view state.
type Controller struct {
	cal   *util.GameCalendar
	state State
}

// NewController creates an Idle controller whose selected date is today
// according to cal and now.
func NewController(cal *util.GameCalendar, now time.Time) *Controller {
	if cal == nil {
		cal = util.NewGameCalendar(nil)
	}
	return &Controller{
		cal: cal,
		state: State{
			SelectedDate: cal.Today(now),
			Picks:        []domain.Pick{},
		},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Picks = append([]domain.Pick(nil), c.state.Picks...)
	return s
}

// SelectedDate returns the current query date.
func (c *Controller) SelectedDate() string { return c.state.SelectedDate }

// Generation returns the generation of the most recently issued request.
func (c *Controller) Generation() uint64 { return c.state.Generation }

// SelectDate supersedes any outstanding request and starts a load for d.
func (c *Controller) SelectDate(d string) Request {
	if c.state.TornDown {
		return Request{}
	}
	c.state.SelectedDate = d
	return c.issue()
}

// Refresh re-queries the selected date as a new request.
func (c *Controller) Refresh() Request {
	if c.state.TornDown {
		return Request{}
	}
	return c.issue()
}

// StepDay selects the date days away from the current selection.
func (c *Controller) StepDay(days int) Request {
	return c.SelectDate(c.cal.Shift(c.state.SelectedDate, days))
}

// Today selects the calendar date of now.
func (c *Controller) Today(now time.Time) Request {
	return c.SelectDate(c.cal.Today(now))
}

func (c *Controller) issue() Request {
	c.state.Generation++
	c.state.Err = ""
	c.state.Loading = true
	c.state.Phase = PhaseLoading
	return Request{Generation: c.state.Generation, Date: c.state.SelectedDate}
}

// Succeeded applies a successful result for gen. It reports whether the
// result was current; stale results leave the state untouched.
func (c *Controller) Succeeded(gen uint64, picks []domain.Pick) bool {
	if !c.current(gen) {
		return false
	}
	if picks == nil {
		picks = []domain.Pick{}
	}
	c.state.Picks = picks
	c.state.Err = ""
	c.state.Loading = false
	c.state.Phase = PhaseLoaded
	return true
}

// Failed applies a failure for gen. Previously loaded picks are kept.
func (c *Controller) Failed(gen uint64, msg string) bool {
	if !c.current(gen) {
		return false
	}
	if msg == "" {
		msg = genericFailure
	}
	c.state.Err = msg
	c.state.Loading = false
	c.state.Phase = PhaseFailed
	return true
}

// Teardown discards every outstanding and future completion.
func (c *Controller) Teardown() {
	c.state.TornDown = true
	c.state.Generation = terminalGeneration
	c.state.Loading = false
}

func (c *Controller) current(gen uint64) bool {
	return !c.state.TornDown && gen != 0 && gen == c.state.Generation
}
