// Package cefr holds the closed vocabularies the engine is built on:
// CEFR levels, skill categories and exercise types.
package cefr

import (
	"fmt"
	"strings"
)

// Level is a CEFR proficiency level. The zero value is not a valid level.
type Level int

const (
	A1 Level = iota + 1
	A2
	B1
	B2
	C1
	C2
)

// AllLevels returns every level from lowest to highest.
func AllLevels() []Level {
	return []Level{A1, A2, B1, B2, C1, C2}
}

func (l Level) String() string {
	switch l {
	case A1:
		return "A1"
	case A2:
		return "A2"
	case B1:
		return "B1"
	case B2:
		return "B2"
	case C1:
		return "C1"
	case C2:
		return "C2"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// DisplayName returns the CEFR descriptor for the level.
func (l Level) DisplayName() string {
	switch l {
	case A1:
		return "Beginner"
	case A2:
		return "Elementary"
	case B1:
		return "Intermediate"
	case B2:
		return "Upper Intermediate"
	case C1:
		return "Advanced"
	case C2:
		return "Proficient"
	default:
		return l.String()
	}
}

// Valid reports whether l is one of the six CEFR levels.
func (l Level) Valid() bool {
	return l >= A1 && l <= C2
}

// Below returns the next lower level. ok is false for A1.
func (l Level) Below() (Level, bool) {
	if l <= A1 || !l.Valid() {
		return l, false
	}
	return l - 1, true
}

// ParseLevel parses "A1".."C2", case-insensitively.
func ParseLevel(s string) (Level, error) {
	for _, l := range AllLevels() {
		if strings.EqualFold(strings.TrimSpace(s), l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown CEFR level %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", l)
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
