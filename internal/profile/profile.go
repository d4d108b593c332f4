// Package profile tracks per-skill proficiency for a learner and derives
// weakness reports from it.
package profile

import (
	"time"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/level"
)

const (
	// DefaultScore is the seed score of every skill.
	DefaultScore = 50.0
	// DefaultConfidence is the confidence of a seeded profile.
	DefaultConfidence = 0.3
)

// SkillProfile is a learner's per-skill proficiency on a 0-100 scale.
type SkillProfile struct {
	UserID         string                 `json:"user_id"`
	Scores         map[cefr.Skill]float64 `json:"scores"`
	EstimatedLevel cefr.Level             `json:"estimated_level"`
	Confidence     float64                `json:"confidence"`
	FocusAreas     []cefr.Skill           `json:"focus_areas"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int64                  `json:"-"`
}

// Default returns the onboarding profile: every skill at DefaultScore.
func Default(userID string, lvl cefr.Level, now time.Time) *SkillProfile {
	if !lvl.Valid() {
		lvl = cefr.A1
	}
	scores := make(map[cefr.Skill]float64, len(cefr.AllSkills()))
	for _, s := range cefr.AllSkills() {
		scores[s] = DefaultScore
	}
	return &SkillProfile{
		UserID:         userID,
		Scores:         scores,
		EstimatedLevel: lvl,
		Confidence:     DefaultConfidence,
		FocusAreas:     []cefr.Skill{},
		UpdatedAt:      now,
	}
}

// Clone returns a deep copy.
func (p *SkillProfile) Clone() *SkillProfile {
	c := *p
	c.Scores = make(map[cefr.Skill]float64, len(p.Scores))
	for k, v := range p.Scores {
		c.Scores[k] = v
	}
	c.FocusAreas = append([]cefr.Skill{}, p.FocusAreas...)
	return &c
}

// Score returns the skill's score, DefaultScore if never set.
func (p *SkillProfile) Score(s cefr.Skill) float64 {
	if v, ok := p.Scores[s]; ok {
		return v
	}
	return DefaultScore
}

// RecordOutcome folds one exercise outcome into the skill's score with an
// exponentially weighted update and recomputes the focus areas.
func (p *SkillProfile) RecordOutcome(s cefr.Skill, correct bool, weight, focusThreshold float64, now time.Time) {
	target := 0.0
	if correct {
		target = 100
	}
	if p.Scores == nil {
		p.Scores = make(map[cefr.Skill]float64)
	}
	p.Scores[s] = clamp((1-weight)*p.Score(s)+weight*target, 0, 100)
	p.FocusAreas = level.FocusAreas(p.Scores, focusThreshold)
	p.UpdatedAt = now
}

// FromLevelResult recomputes a profile from a level test. Skills the test
// did not assess keep their previous score. prev may be nil.
func FromLevelResult(userID string, r *level.Result, prev *SkillProfile, focusThreshold float64, now time.Time) *SkillProfile {
	var p *SkillProfile
	if prev != nil {
		p = prev.Clone()
	} else {
		p = Default(userID, r.EstimatedLevel, now)
	}
	for s, v := range r.SkillScores {
		p.Scores[s] = v
	}
	p.EstimatedLevel = r.EstimatedLevel
	p.Confidence = r.Confidence
	p.FocusAreas = level.FocusAreas(p.Scores, focusThreshold)
	p.UpdatedAt = now
	return p
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
