// Package domain defines the records exchanged with the picks scoring
// service.
package domain

import (
	"encoding/json"
	"math"
)

// Pick is a single predicted game outcome as returned by the scoring service.
type Pick struct {
	Date       string   `json:"date,omitempty"`
	Home       string   `json:"home"`
	Away       string   `json:"away"`
	Pick       string   `json:"pick"`
	WinProb    *float64 `json:"win_prob"`   // nil when missing or not a number
	Confidence string   `json:"confidence"` // "" when missing or null
}

// pickJSON mirrors Pick with a raw win_prob so a malformed probability on one
// record does not fail the whole list.
type pickJSON struct {
	Date       *string         `json:"date"`
	Home       *string         `json:"home"`
	Away       *string         `json:"away"`
	Pick       *string         `json:"pick"`
	WinProb    json.RawMessage `json:"win_prob"`
	Confidence *string         `json:"confidence"`
}

// UnmarshalJSON decodes a pick, tolerating null strings and a win_prob that
// is absent, null, or not a JSON number.
func (p *Pick) UnmarshalJSON(data []byte) error {
	var raw pickJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Pick{
		Date:       deref(raw.Date),
		Home:       deref(raw.Home),
		Away:       deref(raw.Away),
		Pick:       deref(raw.Pick),
		Confidence: deref(raw.Confidence),
	}
	if len(raw.WinProb) > 0 {
		var f float64
		if err := json.Unmarshal(raw.WinProb, &f); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			p.WinProb = &f
		}
	}
	return nil
}

// Matchup returns the "away @ home" display string.
func (p Pick) Matchup() string {
	return p.Away + " @ " + p.Home
}

// Prob returns a pointer to v, for building picks in code.
func Prob(v float64) *float64 {
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
