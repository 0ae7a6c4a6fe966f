package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"safepicks/internal/domain"
	"safepicks/internal/util"
	"safepicks/pkg/picks"
)

type stubFetcher struct {
	picks map[string][]domain.Pick
	fail  map[string]bool
	calls []string
}

func (f *stubFetcher) FetchPicks(_ context.Context, date string) ([]domain.Pick, error) {
	f.calls = append(f.calls, date)
	if f.fail[date] {
		return nil, &picks.FetchError{Message: "Failed to load picks", Status: 500}
	}
	return f.picks[date], nil
}

func newTestServer(f *stubFetcher) *Server {
	s := NewServer(f, util.NewGameCalendar(time.UTC), slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(&stubFetcher{}).Handler(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestViewTable(t *testing.T) {
	f := &stubFetcher{picks: map[string][]domain.Pick{
		"2024-03-15": {{Home: "Duke", Away: "UNC", Pick: "Duke", WinProb: domain.Prob(0.6667), Confidence: "Lock"}},
	}}
	rec := get(t, newTestServer(f).Handler(), "/api/view")

	var d DisplayJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if d.Kind != "table" || d.Date != "2024-03-15" {
		t.Fatalf("display = %+v, want table for 2024-03-15", d)
	}
	if len(d.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(d.Rows))
	}
	row := d.Rows[0]
	if row.Matchup != "UNC @ Duke" || row.WinProb != "66.7%" || row.Badge != "LOCK" {
		t.Errorf("row = %+v", row)
	}
	if len(f.calls) != 1 || f.calls[0] != "2024-03-15" {
		t.Errorf("fetch calls = %v, want [2024-03-15]", f.calls)
	}
}

func TestViewEmpty(t *testing.T) {
	f := &stubFetcher{picks: map[string][]domain.Pick{"2024-03-15": {}}}
	rec := get(t, newTestServer(f).Handler(), "/api/view?day=2024-03-15")

	var d DisplayJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if d.Kind != "empty" || d.Message != "No upcoming games found for this date." {
		t.Errorf("display = %+v, want empty notice", d)
	}
}

func TestViewError(t *testing.T) {
	f := &stubFetcher{fail: map[string]bool{"2024-03-15": true}}
	rec := get(t, newTestServer(f).Handler(), "/api/view?day=2024-03-15")

	var d DisplayJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if d.Kind != "error" || d.Message == "" {
		t.Errorf("display = %+v, want error with message", d)
	}
}

func TestViewInvalidDate(t *testing.T) {
	f := &stubFetcher{}
	rec := get(t, newTestServer(f).Handler(), "/api/view?day=march")

	var d DisplayJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if d.Kind != "error" {
		t.Errorf("Kind = %q, want error", d.Kind)
	}
	if len(f.calls) != 0 {
		t.Errorf("invalid date reached the fetcher: %v", f.calls)
	}
}

func TestIndexPage(t *testing.T) {
	f := &stubFetcher{picks: map[string][]domain.Pick{
		"2024-03-14": {{Home: "Kansas", Away: "Baylor", Pick: "Kansas", WinProb: domain.Prob(0.8), Confidence: "strong"}},
	}}
	rec := get(t, newTestServer(f).Handler(), "/?day=2024-03-14")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{"Baylor @ Kansas", "80%", `class="badge strong"`, "2024-03-13", "2024-03-15"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexPageError(t *testing.T) {
	f := &stubFetcher{fail: map[string]bool{"2024-03-15": true}}
	body := get(t, newTestServer(f).Handler(), "/").Body.String()
	if !strings.Contains(body, `class="error"`) || !strings.Contains(body, "Failed to load picks") {
		t.Error("page missing error panel")
	}
	if strings.Contains(body, "<table>") {
		t.Error("error page should not render the table")
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(&stubFetcher{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}
