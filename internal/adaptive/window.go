package adaptive

import "github.com/abhisek/lexiz/internal/cefr"

// DefaultWindow is the number of recent outcomes kept per skill.
const DefaultWindow = 10

// Window holds the most recent outcomes of one skill.
type Window struct {
	size     int
	outcomes []bool
}

// NewWindow creates a window of the given size (DefaultWindow if <= 0).
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindow
	}
	return &Window{size: size}
}

// Record adds an outcome, dropping the oldest once full.
func (w *Window) Record(correct bool) {
	w.outcomes = append(w.outcomes, correct)
	if len(w.outcomes) > w.size {
		w.outcomes = w.outcomes[len(w.outcomes)-w.size:]
	}
}

// Len returns the number of outcomes held.
func (w *Window) Len() int { return len(w.outcomes) }

// Accuracy returns the fraction correct. ok is false for an empty window.
func (w *Window) Accuracy() (acc float64, ok bool) {
	if len(w.outcomes) == 0 {
		return 0, false
	}
	correct := 0
	for _, c := range w.outcomes {
		if c {
			correct++
		}
	}
	return float64(correct) / float64(len(w.outcomes)), true
}

// RollingAccuracy builds per-skill accuracy from stored outcomes, oldest
// first, keyed by skill name. Skills without outcomes are omitted and
// unknown skill names are ignored.
func RollingAccuracy(outcomes map[string][]bool, size int) map[cefr.Skill]float64 {
	out := make(map[cefr.Skill]float64, len(outcomes))
	for name, results := range outcomes {
		skill, err := cefr.ParseSkill(name)
		if err != nil {
			continue
		}
		w := NewWindow(size)
		for _, c := range results {
			w.Record(c)
		}
		if acc, ok := w.Accuracy(); ok {
			out[skill] = acc
		}
	}
	return out
}
