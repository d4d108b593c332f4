package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexiz/internal/adaptive"
	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/srs"
)

var now0 = time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC)

func dueItems(n int) []srs.ReviewItem {
	out := make([]srs.ReviewItem, n)
	for i := range out {
		out[i] = srs.ReviewItem{UserID: "u1", ItemID: fmt.Sprintf("w%02d", i), EaseFactor: 2.5, IntervalDays: 1}
	}
	return out
}

func exercises(secs ...int) []adaptive.Selection {
	out := make([]adaptive.Selection, len(secs))
	for i, s := range secs {
		out[i] = adaptive.Selection{
			Exercise:   content.Exercise{ID: fmt.Sprintf("e%d", i), Skill: cefr.Grammar, Type: cefr.FillBlank, EstimatedSeconds: s},
			Difficulty: 0.1 * float64(i+1),
		}
	}
	return out
}

func dialogues(n int) []content.Dialogue {
	out := make([]content.Dialogue, n)
	for i := range out {
		out[i] = content.Dialogue{ID: fmt.Sprintf("d%d", i), Level: cefr.A2, Title: "Ordering coffee"}
	}
	return out
}

func TestComposeFitsEverything(t *testing.T) {
	cfg := config.DefaultTuning().Session
	p, err := Compose(context.Background(), Input{
		UserID:        "u1",
		Level:         cefr.A2,
		BudgetMinutes: 15,
		Due:           dueItems(10),
		Exercises:     exercises(60, 60, 90),
		Dialogues:     dialogues(3),
		FocusAreas:    []cefr.Skill{cefr.Listening, cefr.Grammar},
	}, cfg, now0)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 10, p.Count(BlockReview))
	assert.Equal(t, 3, p.Count(BlockExercise))
	assert.Equal(t, 2, p.Count(BlockDialogue), "at most two dialogues")
	// 10*15 + 210 + 2*120
	assert.Equal(t, 600, p.EstimatedSeconds)
	assert.Equal(t, []string{
		"Review 10 words",
		"Complete 3 exercises",
		"Practice 2 conversations",
		"Focus on Listening",
	}, p.Goals)

	assert.Equal(t, BlockReview, p.Blocks[0].Kind)
	assert.Equal(t, "w00", p.Blocks[0].ID())
	assert.Equal(t, BlockDialogue, p.Blocks[len(p.Blocks)-1].Kind)
}

func TestComposeTrimsLowestPriorityFirst(t *testing.T) {
	cfg := config.DefaultTuning().Session
	tests := []struct {
		name                string
		budget              int
		due                 int
		exerciseSecs        []int
		wantReviews, wantEx int
		wantDialogues       int
	}{
		// 4*15 + 120 + 240 = 420 > 300: drop one dialogue -> 300.
		{"drop dialogue", 5, 4, []int{60, 60}, 4, 2, 1},
		// 4*15 + 120 = 180 > 120: no dialogues, then hardest exercise.
		{"drop hardest exercise", 2, 4, []int{60, 60}, 4, 1, 0},
		// 20*15 = 300 > 60: reviews trimmed to 4.
		{"trim reviews", 1, 20, []int{60}, 4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compose(context.Background(), Input{
				UserID:        "u1",
				Level:         cefr.A2,
				BudgetMinutes: tt.budget,
				Due:           dueItems(tt.due),
				Exercises:     exercises(tt.exerciseSecs...),
				Dialogues:     dialogues(2),
			}, cfg, now0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReviews, p.Count(BlockReview))
			assert.Equal(t, tt.wantEx, p.Count(BlockExercise))
			assert.Equal(t, tt.wantDialogues, p.Count(BlockDialogue))
			assert.LessOrEqual(t, p.EstimatedSeconds, tt.budget*60)
		})
	}
}

func TestComposeKeepsMostUrgentReviewsAndEasiestExercises(t *testing.T) {
	cfg := config.DefaultTuning().Session
	p, err := Compose(context.Background(), Input{
		UserID:        "u1",
		Level:         cefr.A2,
		BudgetMinutes: 1,
		Due:           dueItems(2),
		Exercises:     exercises(30, 30),
	}, cfg, now0)
	require.NoError(t, err)

	assert.Equal(t, 60, p.EstimatedSeconds)
	require.Len(t, p.Blocks, 3)
	assert.Equal(t, "w00", p.Blocks[0].ID())
	assert.Equal(t, "w01", p.Blocks[1].ID())
	assert.Equal(t, "e0", p.Blocks[2].ID())
}

func TestComposeBudgetBound(t *testing.T) {
	cfg := config.DefaultTuning().Session
	for budget := 1; budget <= 30; budget++ {
		p, err := Compose(context.Background(), Input{
			UserID:        "u1",
			Level:         cefr.B1,
			BudgetMinutes: budget,
			Due:           dueItems(40),
			Exercises:     exercises(45, 60, 90, 120, 180),
			Dialogues:     dialogues(2),
		}, cfg, now0)
		require.NoError(t, err)
		assert.LessOrEqual(t, p.EstimatedSeconds, budget*60, "budget %d", budget)

		sum := 0
		for _, b := range p.Blocks {
			sum += b.Seconds
		}
		assert.Equal(t, p.EstimatedSeconds, sum)
	}
}

func TestComposeEmptyAndInvalid(t *testing.T) {
	cfg := config.DefaultTuning().Session

	p, err := Compose(context.Background(), Input{UserID: "u1", Level: cefr.A1, BudgetMinutes: 10}, cfg, now0)
	require.NoError(t, err)
	assert.Empty(t, p.Blocks)
	assert.Empty(t, p.Goals)
	assert.Zero(t, p.EstimatedSeconds)

	_, err = Compose(context.Background(), Input{UserID: "u1", Level: cefr.A1}, cfg, now0)
	assert.True(t, errs.IsValidation(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Compose(ctx, Input{UserID: "u1", Level: cefr.A1, BudgetMinutes: 10}, cfg, now0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeDoesNotShareInput(t *testing.T) {
	due := dueItems(1)
	p, err := Compose(context.Background(), Input{UserID: "u1", Level: cefr.A1, BudgetMinutes: 5, Due: due}, config.DefaultTuning().Session, now0)
	require.NoError(t, err)
	p.Blocks[0].Review.Repetitions = 9
	assert.Zero(t, due[0].Repetitions)
}

func TestGoalsSingular(t *testing.T) {
	assert.Equal(t, []string{"Review 1 word", "Complete 1 exercise", "Practice 1 conversation"}, Goals(1, 1, 1, nil))
}

func TestSummary(t *testing.T) {
	p := &Plan{ID: "p1", UserID: "u1", CreatedAt: now0, EstimatedSeconds: 600}
	s := BuildSummary(p, now0.Add(12*time.Minute))
	s.ReviewsDone = 8
	s.ExercisesDone = 4
	s.ExercisesCorrect = 3

	require.NoError(t, s.Validate())
	assert.Equal(t, 12*time.Minute, s.Duration())
	assert.Equal(t, 0.75, s.Accuracy())

	back := SummaryFromRecord(s.ToRecord())
	assert.Equal(t, *s, back)

	s.ExercisesCorrect = 5
	assert.True(t, errs.IsValidation(s.Validate()))
}
