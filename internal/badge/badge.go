// Package badge maps pick confidence labels onto display categories.
package badge

import "strings"

// Category is the visual classification of a pick's confidence.
type Category int

const (
	Neutral Category = iota // unknown, empty, or PASS
	Lean
	Strong
	Lock
)

// Label returns the badge text shown next to a pick.
func (c Category) Label() string {
	switch c {
	case Lock:
		return "LOCK"
	case Strong:
		return "STRONG"
	case Lean:
		return "LEAN"
	default:
		return ""
	}
}

func (c Category) String() string {
	if c == Neutral {
		return "NEUTRAL"
	}
	return c.Label()
}

// Classify maps a confidence string to its Category. Matching is
// case-insensitive; anything unrecognised is Neutral.
func Classify(confidence string) Category {
	switch strings.ToUpper(strings.TrimSpace(confidence)) {
	case "LOCK":
		return Lock
	case "STRONG":
		return Strong
	case "LEAN":
		return Lean
	default:
		return Neutral
	}
}

// ClassifyPtr is Classify with nil treated as the empty string.
func ClassifyPtr(confidence *string) Category {
	if confidence == nil {
		return Neutral
	}
	return Classify(*confidence)
}
