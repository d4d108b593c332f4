package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexiz/internal/adaptive"
	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/difficulty"
	"github.com/abhisek/lexiz/internal/engine"
	"github.com/abhisek/lexiz/internal/level"
	"github.com/abhisek/lexiz/internal/profile"
	"github.com/abhisek/lexiz/internal/session"
	"github.com/abhisek/lexiz/internal/srs"
)

func TestBar(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		width    int
		filled   int
		empty    int
	}{
		{"half", 0.5, 10, 5, 5},
		{"empty", 0, 6, 0, 6},
		{"overflow", 1.5, 4, 4, 0},
		{"negative", -1, 5, 0, 5},
		{"min width", 0.3, 2, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(Bar(tt.fraction, tt.width))
			assert.Equal(t, strings.Repeat("█", tt.filled)+strings.Repeat("░", tt.empty), got)
		})
	}
}

func plain(t *testing.T, fn func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(&buf))
	return ansi.Strip(buf.String())
}

func TestProgress(t *testing.T) {
	s := &engine.ProgressSummary{
		UserID: "ana", Level: cefr.A2, Total: 4, Due: 2, Overdue: 1, Mastered: 1,
		ByTier:     map[difficulty.Tier]int{difficulty.Easy: 3, difficulty.Hard: 1},
		ByPhase:    map[srs.Phase]int{srs.PhaseNew: 2, srs.PhaseMastered: 1, srs.PhaseReviewing: 1},
		StreakDays: 1, Accuracy: 0.8, Degraded: true,
	}
	out := plain(t, func(b *bytes.Buffer) error { return Progress(b, s) })

	assert.Contains(t, out, "Progress for ana (A2)")
	assert.Contains(t, out, "1 day")
	assert.Contains(t, out, "80%")
	assert.Contains(t, out, "Very hard")
	assert.Contains(t, out, "mastered")
	assert.Contains(t, out, "cached data")
}

func TestWeakness(t *testing.T) {
	r := &profile.WeaknessReport{
		UserID: "ana", Level: cefr.B1,
		Weak:            []profile.SkillAssessment{{Skill: cefr.Listening, Score: 35, Severity: profile.SeverityHigh, Confidence: 0.65}},
		Strong:          []profile.SkillAssessment{{Skill: cefr.Reading, Score: 88, Confidence: 1}},
		Recommendations: []string{"Practice listening daily"},
	}
	out := plain(t, func(b *bytes.Buffer) error { return Weakness(b, r) })

	assert.Contains(t, out, "Needs work")
	assert.Contains(t, out, "Listening")
	assert.Contains(t, out, "high, confidence 65%")
	assert.Contains(t, out, "Strong")
	assert.Contains(t, out, "• Practice listening daily")
}

func TestPlan(t *testing.T) {
	p := &session.Plan{
		ID: "plan-1", UserID: "ana", Level: cefr.A1,
		BudgetSeconds: 600, EstimatedSeconds: 195,
		Goals: []string{"Review 1 word", "Complete 1 exercise"},
		Blocks: []session.Block{
			{Kind: session.BlockReview, Review: &srs.ReviewItem{ItemID: "a1-cat", Source: "gato", Translation: "cat"}, Seconds: 15},
			{Kind: session.BlockExercise, Exercise: &adaptive.Selection{
				Exercise:   content.Exercise{ID: "g1", Skill: cefr.Grammar, Type: cefr.FillBlank},
				Difficulty: 0.4,
			}, Seconds: 60},
			{Kind: session.BlockDialogue, Dialogue: &content.Dialogue{ID: "d1", Title: "At the café"}, Seconds: 120},
		},
	}
	out := plain(t, func(b *bytes.Buffer) error { return Plan(b, p) })

	assert.Contains(t, out, "Session plan-1")
	assert.Contains(t, out, "about 4 min of 10 min")
	assert.Contains(t, out, "✓ Review 1 word")
	assert.Contains(t, out, "gato → cat")
	assert.Contains(t, out, "Grammar fill_blank (difficulty 0.4)")
	assert.Contains(t, out, "At the café")
	assert.Contains(t, out, "[d1, 120s]")
	assert.NotContains(t, out, "cached data")
}

func TestLevelResult(t *testing.T) {
	r := &level.Result{
		OverallScore: 51, EstimatedLevel: cefr.B1, Confidence: 0.6, RecommendedStart: cefr.A2,
		SkillScores: map[cefr.Skill]float64{cefr.Listening: 40, cefr.Grammar: 75},
		FocusAreas:  []cefr.Skill{cefr.Listening},
		Answered:    20,
	}
	out := plain(t, func(b *bytes.Buffer) error { return LevelResult(b, r) })

	assert.Contains(t, out, "Estimated level: B1 (Intermediate)")
	assert.Contains(t, out, "60%")
	assert.Contains(t, out, "A2")
	assert.Contains(t, out, "Listening")
	assert.NotContains(t, out, "Grammar")
}

func TestReview(t *testing.T) {
	it := &srs.ReviewItem{
		Source: "perro", Translation: "dog", IntervalDays: 1, EaseFactor: 2.6, Tier: difficulty.Medium,
		NextReviewAt: time.Date(2025, 5, 6, 9, 0, 0, 0, time.UTC),
	}
	out := plain(t, func(b *bytes.Buffer) error { return Review(b, it) })

	assert.Contains(t, out, "perro → dog")
	assert.Contains(t, out, "2025-05-06 09:00")
	assert.Contains(t, out, "1 day")
	assert.Contains(t, out, "2.60")
	assert.Contains(t, out, "Medium")
}
