// Package session composes time-boxed study sessions from due reviews,
// adaptive exercises and micro-dialogues.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lexiz/internal/adaptive"
	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/srs"
)

// Input is what a session is composed from.
type Input struct {
	UserID        string
	Level         cefr.Level
	BudgetMinutes int
	// Due is in urgency order, most urgent first.
	Due []srs.ReviewItem
	// Exercises is easiest first.
	Exercises  []adaptive.Selection
	Dialogues  []content.Dialogue
	FocusAreas []cefr.Skill
	Degraded   bool
}

// ValidateBudget rejects non-positive budgets.
func ValidateBudget(minutes int) error {
	if minutes <= 0 {
		return errs.Validation("budget_minutes", "must be positive, got %d", minutes)
	}
	return nil
}

// EstimateSeconds returns the time estimate of a session with the given
// content.
func EstimateSeconds(reviews int, exercises []adaptive.Selection, dialogues int, cfg config.SessionTuning) int {
	total := reviews*cfg.ReviewSeconds + dialogues*cfg.DialogueSeconds
	for _, e := range exercises {
		total += e.Seconds()
	}
	return total
}

// Compose builds a plan that fits the budget. When the candidates do not
// fit, dialogues are dropped first, then the hardest exercises, then the
// least urgent reviews.
func Compose(ctx context.Context, in Input, cfg config.SessionTuning, now time.Time) (*Plan, error) {
	if err := ValidateBudget(in.BudgetMinutes); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	budget := in.BudgetMinutes * 60
	reviews := capSlice(in.Due, cfg.MaxReviews)
	exercises := append([]adaptive.Selection(nil), in.Exercises...)
	dialogues := capSlice(in.Dialogues, cfg.MaxDialogues)

	for EstimateSeconds(len(reviews), exercises, len(dialogues), cfg) > budget {
		switch {
		case len(dialogues) > 0:
			dialogues = dialogues[:len(dialogues)-1]
		case len(exercises) > 0:
			exercises = exercises[:len(exercises)-1]
		case len(reviews) > 0:
			reviews = reviews[:len(reviews)-1]
		}
	}

	p := &Plan{
		ID:               uuid.New().String(),
		UserID:           in.UserID,
		Level:            in.Level,
		CreatedAt:        now,
		BudgetSeconds:    budget,
		EstimatedSeconds: EstimateSeconds(len(reviews), exercises, len(dialogues), cfg),
		Degraded:         in.Degraded,
	}
	for i := range reviews {
		r := reviews[i].Clone()
		p.Blocks = append(p.Blocks, Block{Kind: BlockReview, Review: &r, Seconds: cfg.ReviewSeconds})
	}
	for i := range exercises {
		e := exercises[i]
		p.Blocks = append(p.Blocks, Block{Kind: BlockExercise, Exercise: &e, Seconds: e.Seconds()})
	}
	for i := range dialogues {
		d := dialogues[i]
		p.Blocks = append(p.Blocks, Block{Kind: BlockDialogue, Dialogue: &d, Seconds: cfg.DialogueSeconds})
	}
	p.Goals = Goals(len(reviews), len(exercises), len(dialogues), in.FocusAreas)
	return p, nil
}

// Goals returns the learner-facing goals of a session.
func Goals(reviews, exercises, dialogues int, focus []cefr.Skill) []string {
	goals := []string{}
	if reviews > 0 {
		goals = append(goals, fmt.Sprintf("Review %d %s", reviews, plural(reviews, "word", "words")))
	}
	if exercises > 0 {
		goals = append(goals, fmt.Sprintf("Complete %d %s", exercises, plural(exercises, "exercise", "exercises")))
	}
	if dialogues > 0 {
		goals = append(goals, fmt.Sprintf("Practice %d %s", dialogues, plural(dialogues, "conversation", "conversations")))
	}
	if len(focus) > 0 {
		goals = append(goals, "Focus on "+focus[0].DisplayName())
	}
	return goals
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func capSlice[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		s = s[:n]
	}
	return append([]T(nil), s...)
}
