package level

import (
	"fmt"
	"sort"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
)

// Band is the score range mapped to one CEFR level. A score belongs to the
// band when Min <= score < Max+1.
type Band struct {
	Level cefr.Level
	Min   float64
	Max   float64
}

// Contains reports whether score falls in the band.
func (b Band) Contains(score float64) bool {
	return score >= b.Min && score < b.Max+1
}

// Center returns the midpoint of the band.
func (b Band) Center() float64 { return (b.Min + b.Max) / 2 }

// Width returns Max - Min.
func (b Band) Width() float64 { return b.Max - b.Min }

// Bands parses the configured bands, ordered by Min.
func Bands(cfg config.EstimatorTuning) ([]Band, error) {
	out := make([]Band, 0, len(cfg.Bands))
	for _, bt := range cfg.Bands {
		l, err := cefr.ParseLevel(bt.Level)
		if err != nil {
			return nil, fmt.Errorf("band: %w", err)
		}
		out = append(out, Band{Level: l, Min: bt.Min, Max: bt.Max})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no level bands configured")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Min < out[j].Min })
	return out, nil
}

// BandFor returns the band containing score. Scores outside every band
// clamp to the lowest or highest band.
func BandFor(score float64, bands []Band) Band {
	for _, b := range bands {
		if b.Contains(score) {
			return b
		}
	}
	if score < bands[0].Min {
		return bands[0]
	}
	return bands[len(bands)-1]
}

// Confidence is highest at the band's center and falls linearly toward its
// edges, never below the floor.
func Confidence(score float64, b Band, cfg config.EstimatorTuning) float64 {
	half := b.Width() / 2
	if half <= 0 {
		return 1
	}
	dist := abs(score-b.Center()) / half
	c := 1 - dist*cfg.ConfidenceSpread
	if c < cfg.ConfidenceFloor {
		return cfg.ConfidenceFloor
	}
	if c > 1 {
		return 1
	}
	return c
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
