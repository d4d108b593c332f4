package difficulty

import "github.com/abhisek/lexiz/internal/config"

// Stats is the performance history the classifier reads.
type Stats struct {
	Correct           int
	Incorrect         int
	AvgResponseTimeMs float64
}

// Attempts returns the total number of answers.
func (s Stats) Attempts() int { return s.Correct + s.Incorrect }

// Accuracy returns the fraction of correct answers, or 0 with no attempts.
func (s Stats) Accuracy() float64 {
	n := s.Attempts()
	if n == 0 {
		return 0
	}
	return float64(s.Correct) / float64(n)
}

// Rule assigns a tier when its thresholds are met.
type Rule interface {
	Name() string
	Match(s Stats) (Tier, bool)
}

type thresholdRule struct {
	name        string
	tier        Tier
	minAccuracy float64
	maxMs       float64 // 0 means no speed requirement
}

func (r thresholdRule) Name() string { return r.name }

func (r thresholdRule) Match(s Stats) (Tier, bool) {
	if s.Accuracy() < r.minAccuracy {
		return 0, false
	}
	if r.maxMs > 0 && s.AvgResponseTimeMs >= r.maxMs {
		return 0, false
	}
	return r.tier, true
}

// Rules returns the tier rules in priority order.
func Rules(cfg config.ClassifierTuning) []Rule {
	return []Rule{
		thresholdRule{name: "fast-and-accurate", tier: Easy, minAccuracy: cfg.EasyAccuracy, maxMs: cfg.EasyMaxMs},
		thresholdRule{name: "steady", tier: Medium, minAccuracy: cfg.MediumAccuracy, maxMs: cfg.MediumMaxMs},
		thresholdRule{name: "struggling", tier: Hard, minAccuracy: cfg.HardAccuracy},
	}
}

// Reclassify returns the tier for an item with the given history. Items
// with fewer than cfg.MinAttempts answers keep their current tier; items
// matching no rule are VeryHard.
func Reclassify(current Tier, s Stats, cfg config.ClassifierTuning) Tier {
	if s.Attempts() < cfg.MinAttempts {
		return current
	}
	for _, r := range Rules(cfg) {
		if t, ok := r.Match(s); ok {
			return t
		}
	}
	return VeryHard
}
