package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"safepicks/internal/domain"
	"safepicks/internal/util"
	"safepicks/internal/view"
	"safepicks/pkg/picks"
)

var testNow = time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

// fakeFetcher answers with one pick named after the date, or a FetchError for
// dates listed in fail.
type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	ctxs  []context.Context
	fail  map[string]bool
}

func (f *fakeFetcher) FetchPicks(ctx context.Context, date string) ([]domain.Pick, error) {
	f.mu.Lock()
	f.calls = append(f.calls, date)
	f.ctxs = append(f.ctxs, ctx)
	f.mu.Unlock()
	if f.fail[date] {
		return nil, &picks.FetchError{Message: "Failed to load picks", Status: 500}
	}
	return []domain.Pick{{Home: "Home", Away: "Away", Pick: date, WinProb: domain.Prob(0.9), Confidence: "LOCK"}}, nil
}

func newTestModel(f *fakeFetcher) Model {
	return New(context.Background(), f, Options{
		Calendar: util.NewGameCalendar(time.UTC),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return testNow },
		Source:   "http://test",
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// initLoad runs Init and returns the model with its first load applied.
func initLoad(t *testing.T, m Model) Model {
	t.Helper()
	batch, ok := m.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("Init did not return a batch")
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(picksLoadedMsg); ok {
			m, _ = update(t, m, msg)
		}
	}
	return m
}

func TestInitLoadsToday(t *testing.T) {
	f := &fakeFetcher{}
	m := initLoad(t, newTestModel(f))

	if len(f.calls) != 1 || f.calls[0] != "2024-03-15" {
		t.Fatalf("fetch calls = %v, want [2024-03-15]", f.calls)
	}
	s := m.State()
	if s.Phase != view.PhaseLoaded || len(s.Picks) != 1 {
		t.Errorf("state = %+v, want one loaded pick", s)
	}
}

func TestKeysIssueSingleRequest(t *testing.T) {
	f := &fakeFetcher{}
	m := initLoad(t, newTestModel(f))

	m, cmd := update(t, m, key("right"))
	if cmd == nil {
		t.Fatal("right key returned no command")
	}
	if !m.State().Loading {
		t.Error("state not loading after date change")
	}
	m, _ = update(t, m, cmd())

	if got := f.calls[len(f.calls)-1]; got != "2024-03-16" {
		t.Errorf("last fetch = %q, want %q", got, "2024-03-16")
	}
	if len(f.calls) != 2 {
		t.Errorf("fetch calls = %v, want 2", f.calls)
	}
	if s := m.State(); s.Picks[0].Pick != "2024-03-16" {
		t.Errorf("picks = %+v, want 2024-03-16", s.Picks)
	}
}

func TestOutOfOrderResponses(t *testing.T) {
	f := &fakeFetcher{}
	m := initLoad(t, newTestModel(f))

	m, cmd1 := update(t, m, key("right"))
	m, cmd2 := update(t, m, key("right"))

	msg2 := cmd2()
	msg1 := cmd1()
	m, _ = update(t, m, msg2)
	m, _ = update(t, m, msg1)

	s := m.State()
	if s.SelectedDate != "2024-03-17" {
		t.Errorf("SelectedDate = %q, want %q", s.SelectedDate, "2024-03-17")
	}
	if len(s.Picks) != 1 || s.Picks[0].Pick != "2024-03-17" {
		t.Errorf("picks = %+v, want only 2024-03-17", s.Picks)
	}
}

func TestRefreshRequeriesSameDate(t *testing.T) {
	f := &fakeFetcher{}
	m := initLoad(t, newTestModel(f))

	for i := 0; i < 2; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, key("r"))
		m, _ = update(t, m, cmd())
	}
	for _, d := range f.calls {
		if d != "2024-03-15" {
			t.Errorf("refresh fetched %q, want 2024-03-15", d)
		}
	}
	if len(f.calls) != 3 {
		t.Errorf("fetch calls = %d, want 3", len(f.calls))
	}
}

func TestFailureKeepsPicksAndShowsError(t *testing.T) {
	f := &fakeFetcher{fail: map[string]bool{"2024-03-14": true}}
	m := initLoad(t, newTestModel(f))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := update(t, m, key("left"))
	m, _ = update(t, m, cmd())

	s := m.State()
	if s.Err != "Failed to load picks" {
		t.Errorf("Err = %q, want %q", s.Err, "Failed to load picks")
	}
	if len(s.Picks) != 1 {
		t.Errorf("picks = %+v, want previous pick kept", s.Picks)
	}
	if out := m.View(); !strings.Contains(out, "Failed to load picks") {
		t.Errorf("View() missing error panel:\n%s", out)
	}
}

func TestQuitDiscardsInFlight(t *testing.T) {
	f := &fakeFetcher{}
	m := initLoad(t, newTestModel(f))

	m, load := update(t, m, key("right"))
	m, quit := update(t, m, key("q"))
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}

	m, _ = update(t, m, load())
	s := m.State()
	if !s.TornDown {
		t.Error("controller not torn down")
	}
	if s.Picks[0].Pick != "2024-03-15" {
		t.Errorf("picks = %+v, want pre-quit picks", s.Picks)
	}
	if err := f.ctxs[len(f.ctxs)-1].Err(); err == nil {
		t.Error("fetch context not cancelled on quit")
	}

	if _, cmd := update(t, m, key("r")); cmd != nil {
		t.Error("refresh after quit issued a command")
	}
}

func TestDateEntry(t *testing.T) {
	f := &fakeFetcher{}
	m := initLoad(t, newTestModel(f))

	m, _ = update(t, m, key("d"))
	if !m.editing {
		t.Fatal("d did not open date entry")
	}
	m.dateInput.SetValue("2024-02-30")
	m, cmd := update(t, m, key("enter"))
	if cmd != nil || m.inputErr == "" || !m.editing {
		t.Errorf("invalid date accepted: editing=%v err=%q", m.editing, m.inputErr)
	}

	m.dateInput.SetValue("2024-01-02")
	m, cmd = update(t, m, key("enter"))
	if cmd == nil || m.editing {
		t.Fatal("valid date not submitted")
	}
	m, _ = update(t, m, cmd())
	if s := m.State(); s.SelectedDate != "2024-01-02" || s.Picks[0].Pick != "2024-01-02" {
		t.Errorf("state = %+v, want 2024-01-02 loaded", s)
	}

	m, _ = update(t, m, key("d"))
	m, cmd = update(t, m, key("esc"))
	if m.editing || cmd != nil {
		t.Error("esc did not cancel date entry")
	}
}

func TestTodayKey(t *testing.T) {
	f := &fakeFetcher{}
	m := initLoad(t, newTestModel(f))
	m, _ = update(t, m, key("left"))
	m, cmd := update(t, m, key("t"))
	m, _ = update(t, m, cmd())
	if got := m.State().SelectedDate; got != "2024-03-15" {
		t.Errorf("SelectedDate = %q, want %q", got, "2024-03-15")
	}
}

func TestRenderContent(t *testing.T) {
	empty := renderContent(view.Display{Kind: view.KindEmpty, Message: view.EmptyMessage}, 80)
	if !strings.Contains(empty, "No upcoming games found for this date.") {
		t.Errorf("empty panel = %q", empty)
	}

	rows := view.Rows([]domain.Pick{{Home: "Duke", Away: "UNC", Pick: "Duke", WinProb: domain.Prob(0.6667), Confidence: "lock"}})
	table := renderContent(view.Display{Kind: view.KindTable, Rows: rows}, 80)
	for _, want := range []string{"UNC @ Duke", "66.7%", "LOCK"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}

	loading := renderContent(view.Display{Kind: view.KindLoading, Message: view.LoadingMessage, Rows: rows, Stale: true}, 80)
	if !strings.Contains(loading, view.LoadingMessage) || !strings.Contains(loading, "UNC @ Duke") {
		t.Errorf("loading panel should show indicator and stale rows:\n%s", loading)
	}
}

func TestPadOrTrunc(t *testing.T) {
	if got := padOrTrunc("abc", 5); got != "abc  " {
		t.Errorf("padOrTrunc pad = %q", got)
	}
	if got := padOrTrunc("abcdef", 4); got != "abc…" {
		t.Errorf("padOrTrunc trunc = %q", got)
	}
}
