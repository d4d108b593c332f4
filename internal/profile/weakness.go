package profile

import (
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
)

// Severity grades how far a weak skill is below the threshold.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityFor returns the severity of a weak score.
func SeverityFor(score float64) Severity {
	switch {
	case score < 40:
		return SeverityHigh
	case score < 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// SkillAssessment is one skill's line in a weakness report.
type SkillAssessment struct {
	Skill      cefr.Skill `json:"skill"`
	Score      float64    `json:"score"`
	Severity   Severity   `json:"severity,omitempty"`
	Confidence float64    `json:"confidence"`
	Samples    int        `json:"samples"`
}

// WeaknessReport lists a learner's weak and strong skills.
type WeaknessReport struct {
	UserID          string            `json:"user_id"`
	Level           cefr.Level        `json:"level"`
	Weak            []SkillAssessment `json:"weak"`
	Strong          []SkillAssessment `json:"strong"`
	Recommendations []string          `json:"recommendations"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// SampleConfidence grows from 0.3 toward 1 as a skill's recent outcomes
// fill the rolling window.
func SampleConfidence(samples, window int) float64 {
	if window <= 0 {
		return DefaultConfidence
	}
	fill := float64(samples) / float64(window)
	if fill > 1 {
		fill = 1
	}
	return DefaultConfidence + (1-DefaultConfidence)*fill
}

// Weakness builds the report for p. samples holds the number of recent
// outcomes per skill, used for per-skill confidence.
func Weakness(p *SkillProfile, samples map[cefr.Skill]int, cfg config.SessionTuning, window int, now time.Time) *WeaknessReport {
	r := &WeaknessReport{
		UserID:          p.UserID,
		Level:           p.EstimatedLevel,
		Weak:            []SkillAssessment{},
		Strong:          []SkillAssessment{},
		Recommendations: []string{},
		GeneratedAt:     now,
	}

	for _, s := range cefr.AllSkills() {
		score := p.Score(s)
		a := SkillAssessment{
			Skill:      s,
			Score:      score,
			Confidence: SampleConfidence(samples[s], window),
			Samples:    samples[s],
		}
		switch {
		case score < cfg.WeakThreshold:
			a.Severity = SeverityFor(score)
			r.Weak = append(r.Weak, a)
		case score >= cfg.StrongThreshold:
			r.Strong = append(r.Strong, a)
		}
	}
	sort.SliceStable(r.Weak, func(i, j int) bool { return r.Weak[i].Score < r.Weak[j].Score })
	sort.SliceStable(r.Strong, func(i, j int) bool { return r.Strong[i].Score > r.Strong[j].Score })

	for _, a := range r.Weak {
		r.Recommendations = append(r.Recommendations, recommendation(a))
	}
	if len(r.Strong) > 0 {
		if next, ok := nextLevel(p.EstimatedLevel); ok {
			r.Recommendations = append(r.Recommendations,
				fmt.Sprintf("Try %s material in %s", next, r.Strong[0].Skill.DisplayName()))
		}
	}
	if len(r.Weak) == 0 {
		r.Recommendations = append(r.Recommendations, "Keep up your balanced practice")
	}
	return r
}

func recommendation(a SkillAssessment) string {
	var action string
	switch a.Skill {
	case cefr.Vocabulary:
		action = "review due words every day"
	case cefr.Grammar:
		action = "practice fill-in-the-blank and word-order exercises"
	case cefr.Listening:
		action = "do short listening exercises and dictations"
	case cefr.Reading:
		action = "read short texts and answer the quizzes"
	case cefr.Speaking:
		action = "practice conversations aloud"
	case cefr.Writing:
		action = "write short answers and translations"
	}
	switch a.Severity {
	case SeverityHigh:
		return fmt.Sprintf("%s needs urgent attention: %s", a.Skill.DisplayName(), action)
	case SeverityMedium:
		return fmt.Sprintf("Strengthen %s: %s", a.Skill.DisplayName(), action)
	default:
		return fmt.Sprintf("Polish %s: %s", a.Skill.DisplayName(), action)
	}
}

func nextLevel(l cefr.Level) (cefr.Level, bool) {
	if l >= cefr.C2 || !l.Valid() {
		return l, false
	}
	return l + 1, true
}
