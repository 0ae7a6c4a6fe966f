package util

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date format used as the picks query key.
const DateLayout = "2006-01-02"

// GameCalendar resolves calendar dates in the timezone games are scheduled in.
type GameCalendar struct {
	loc *time.Location
}

// NewGameCalendar creates a GameCalendar for loc. A nil loc means UTC.
func NewGameCalendar(loc *time.Location) *GameCalendar {
	if loc == nil {
		loc = time.UTC
	}
	return &GameCalendar{loc: loc}
}

// LoadGameCalendar creates a GameCalendar for the named IANA timezone.
func LoadGameCalendar(name string) (*GameCalendar, error) {
	if name == "" {
		return NewGameCalendar(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return NewGameCalendar(loc), nil
}

// Location returns the calendar's timezone.
func (gc *GameCalendar) Location() *time.Location { return gc.loc }

// Today returns the calendar date of now in the calendar's timezone.
func (gc *GameCalendar) Today(now time.Time) string {
	return now.In(gc.loc).Format(DateLayout)
}

// Shift moves date by days. It returns date unchanged if it does not parse.
func (gc *GameCalendar) Shift(date string, days int) string {
	t, err := time.ParseInLocation(DateLayout, date, gc.loc)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

// ValidDate reports whether s is a real YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
