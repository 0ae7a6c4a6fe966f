package view

import (
	"math"
	"strconv"

	"safepicks/internal/badge"
	"safepicks/internal/domain"
)

// Kind selects which panel a front end shows. Exactly one is primary.
type Kind int

const (
	KindLoading Kind = iota
	KindError
	KindEmpty
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindEmpty:
		return "empty"
	case KindTable:
		return "table"
	default:
		return "loading"
	}
}

// User-facing panel text.
const (
	LoadingMessage = "Loading picks..."
	EmptyMessage   = "No upcoming games found for this date."
	MissingValue   = "—"
)

// Row is one rendered pick.
type Row struct {
	Matchup string
	Pick    string
	WinProb string
	Badge   badge.Category
}

// Display is what a front end should draw for a State.
//
// While loading, Rows holds the previous successful load with Stale set, so
// the indicator is drawn alongside the dimmed old table. On error the table
// is not shown.
type Display struct {
	Kind    Kind
	Date    string
	Message string
	Rows    []Row
	Stale   bool
}

// Project derives the Display for s. Priority is error, loading, empty,
// then table.
func Project(s State) Display {
	d := Display{Date: s.SelectedDate}
	switch {
	case s.Err != "":
		d.Kind = KindError
		d.Message = s.Err
	case s.Loading || s.Phase == PhaseIdle:
		d.Kind = KindLoading
		d.Message = LoadingMessage
		if len(s.Picks) > 0 {
			d.Rows = Rows(s.Picks)
			d.Stale = true
		}
	case len(s.Picks) == 0:
		d.Kind = KindEmpty
		d.Message = EmptyMessage
	default:
		d.Kind = KindTable
		d.Rows = Rows(s.Picks)
	}
	return d
}

// Rows converts picks into display rows, preserving order.
func Rows(picks []domain.Pick) []Row {
	rows := make([]Row, 0, len(picks))
	for _, p := range picks {
		rows = append(rows, Row{
			Matchup: p.Matchup(),
			Pick:    p.Pick,
			WinProb: FormatWinProb(p.WinProb),
			Badge:   badge.Classify(p.Confidence),
		})
	}
	return rows
}

// FormatWinProb renders a probability as a percentage rounded to one
// decimal, e.g. 0.6667 -> "66.7%". Whole percentages drop the decimal.
// Missing or non-finite values render as MissingValue.
func FormatWinProb(p *float64) string {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return MissingValue
	}
	pct := math.Round(*p*1000) / 10
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
