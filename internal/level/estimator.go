// Package level estimates a learner's CEFR level from a batch of placement
// test answers.
package level

import (
	"sort"
	"strings"
	"time"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/errs"
)

// Answer is one graded placement question.
type Answer struct {
	QuestionID string     `json:"question_id,omitempty"`
	Level      cefr.Level `json:"level"`
	Skill      cefr.Skill `json:"skill"`
	Correct    bool       `json:"correct"`
}

// Result is the outcome of a level test.
type Result struct {
	ID               string                 `json:"id,omitempty"`
	UserID           string                 `json:"user_id,omitempty"`
	OverallScore     float64                `json:"overall_score"`
	EstimatedLevel   cefr.Level             `json:"estimated_level"`
	Confidence       float64                `json:"confidence"`
	RecommendedStart cefr.Level             `json:"recommended_start"`
	SkillScores      map[cefr.Skill]float64 `json:"skill_scores"`
	FocusAreas       []cefr.Skill           `json:"focus_areas"`
	Answered         int                    `json:"answered"`
	TakenAt          time.Time              `json:"taken_at"`
}

// Weight returns the scoring weight of a question at level l.
func Weight(l cefr.Level, cfg config.EstimatorTuning) float64 {
	if w, ok := cfg.Weights[strings.ToLower(l.String())]; ok {
		return w
	}
	return 1
}

// Calculate scores a batch of answers. The batch must be non-empty and
// every answer must carry a known level and an assessed skill.
func Calculate(answers []Answer, cfg config.EstimatorTuning) (*Result, error) {
	if len(answers) == 0 {
		return nil, errs.Validation("answers", "at least one answer is required")
	}
	bands, err := Bands(cfg)
	if err != nil {
		return nil, errs.Validation("bands", "%v", err)
	}

	type tally struct{ correct, total int }
	perSkill := make(map[cefr.Skill]*tally)
	var weighted, weightedCorrect float64

	for i, a := range answers {
		if !a.Level.Valid() {
			return nil, errs.Validation("answers", "answer %d has unknown level %d", i, int(a.Level))
		}
		if !a.Skill.Assessed() {
			return nil, errs.Validation("answers", "answer %d has unassessed skill %q", i, a.Skill)
		}
		w := Weight(a.Level, cfg)
		weighted += w
		t := perSkill[a.Skill]
		if t == nil {
			t = &tally{}
			perSkill[a.Skill] = t
		}
		t.total++
		if a.Correct {
			weightedCorrect += w
			t.correct++
		}
	}

	score := 0.0
	if weighted > 0 {
		score = weightedCorrect / weighted * 100
	}
	band := BandFor(score, bands)
	conf := Confidence(score, band, cfg)

	start := band.Level
	if conf < cfg.ConfidenceThreshold {
		if lower, ok := band.Level.Below(); ok {
			start = lower
		}
	}

	skillScores := make(map[cefr.Skill]float64, len(perSkill))
	for s, t := range perSkill {
		skillScores[s] = float64(t.correct) / float64(t.total) * 100
	}

	return &Result{
		OverallScore:     score,
		EstimatedLevel:   band.Level,
		Confidence:       conf,
		RecommendedStart: start,
		SkillScores:      skillScores,
		FocusAreas:       FocusAreas(skillScores, cfg.FocusThreshold),
		Answered:         len(answers),
	}, nil
}

// FocusAreas returns the skills scoring below threshold, weakest first.
// Ties keep display order.
func FocusAreas(scores map[cefr.Skill]float64, threshold float64) []cefr.Skill {
	focus := make([]cefr.Skill, 0)
	for _, s := range cefr.AllSkills() {
		if v, ok := scores[s]; ok && v < threshold {
			focus = append(focus, s)
		}
	}
	sort.SliceStable(focus, func(i, j int) bool {
		return scores[focus[i]] < scores[focus[j]]
	})
	return focus
}

// NeedsTest reports whether a learner whose latest result is latest should
// be retested at now.
func NeedsTest(latest *Result, now time.Time, cfg config.EstimatorTuning) bool {
	if latest == nil {
		return true
	}
	return now.After(latest.TakenAt.AddDate(0, cfg.RetestMonths, 0))
}
