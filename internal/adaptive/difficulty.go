// Package adaptive steers exercise difficulty toward a target accuracy and
// picks the exercises for a session.
package adaptive

import "github.com/abhisek/lexiz/internal/config"

// AdjustDifficulty moves base one step up when the learner is beating the
// target accuracy band and one step down when falling short of it.
// Accuracy exactly on a band edge leaves base unchanged.
func AdjustDifficulty(base, recentAccuracy float64, cfg config.SelectorTuning) float64 {
	switch {
	case recentAccuracy > cfg.TargetAccuracy+cfg.Band:
		return clamp(base+cfg.Step, cfg.MinDifficulty, cfg.MaxDifficulty)
	case recentAccuracy < cfg.TargetAccuracy-cfg.Band:
		return clamp(base-cfg.Step, cfg.MinDifficulty, cfg.MaxDifficulty)
	default:
		return base
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
