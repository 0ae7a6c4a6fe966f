// Package web serves the browser interface for daily picks: a server-rendered
// page and a JSON projection of the same view.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"safepicks/internal/domain"
	"safepicks/internal/util"
	"safepicks/internal/view"
	"safepicks/pkg/picks"
)

// Fetcher loads the picks for a date.
type Fetcher interface {
	FetchPicks(ctx context.Context, date string) ([]domain.Pick, error)
}

// Server serves the picks page and API.
type Server struct {
	fetcher     Fetcher
	cal         *util.GameCalendar
	log         *slog.Logger
	now         func() time.Time
	corsOrigins []string
}

// NewServer creates a web server backed by fetcher.
func NewServer(fetcher Fetcher, cal *util.GameCalendar, log *slog.Logger, corsOrigins []string) *Server {
	if cal == nil {
		cal = util.NewGameCalendar(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		fetcher:     fetcher,
		cal:         cal,
		log:         log,
		now:         time.Now,
		corsOrigins: corsOrigins,
	}
}

// Handler returns the router with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/api/view", s.handleView)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

// load runs one select-fetch-apply cycle for day ("" means today) and
// returns the resulting state.
func (s *Server) load(ctx context.Context, day string) view.State {
	ctrl := view.NewController(s.cal, s.now())
	if day == "" {
		day = ctrl.SelectedDate()
	}
	req := ctrl.SelectDate(day)

	if !util.ValidDate(day) {
		ctrl.Failed(req.Generation, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", day))
		return ctrl.State()
	}

	data, err := s.fetcher.FetchPicks(ctx, req.Date)
	if err != nil {
		s.log.Error("loading picks", "date", req.Date, "error", err)
		ctrl.Failed(req.Generation, failureMessage(err))
	} else {
		ctrl.Succeeded(req.Generation, data)
	}
	return ctrl.State()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := s.load(r.Context(), r.URL.Query().Get("day"))
	page := newPage(view.Project(st), s.cal, s.cal.Today(s.now()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page); err != nil {
		s.log.Error("rendering page", "error", err)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	st := s.load(r.Context(), r.URL.Query().Get("day"))
	writeJSON(w, toDisplayJSON(view.Project(st)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// DisplayJSON is the JSON form of a view.Display.
type DisplayJSON struct {
	Date    string    `json:"date"`
	Kind    string    `json:"kind"`
	Message string    `json:"message,omitempty"`
	Stale   bool      `json:"stale,omitempty"`
	Rows    []RowJSON `json:"rows"`
}

// RowJSON is one rendered pick.
type RowJSON struct {
	Matchup string `json:"matchup"`
	Pick    string `json:"pick"`
	WinProb string `json:"winProb"`
	Badge   string `json:"badge"`
}

func toDisplayJSON(d view.Display) DisplayJSON {
	out := DisplayJSON{
		Date:    d.Date,
		Kind:    d.Kind.String(),
		Message: d.Message,
		Stale:   d.Stale,
		Rows:    make([]RowJSON, 0, len(d.Rows)),
	}
	for _, r := range d.Rows {
		out.Rows = append(out.Rows, RowJSON{
			Matchup: r.Matchup,
			Pick:    r.Pick,
			WinProb: r.WinProb,
			Badge:   r.Badge.String(),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
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
