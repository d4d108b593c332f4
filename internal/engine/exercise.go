package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/profile"
	"github.com/abhisek/lexiz/internal/store"
)

// ExerciseResult is the outcome of one answered exercise.
type ExerciseResult struct {
	ExerciseID string
	Skill      cefr.Skill
	Correct    bool
	Difficulty float64
	AnsweredAt time.Time // zero means now
}

func (r ExerciseResult) validate() error {
	switch {
	case r.ExerciseID == "":
		return errs.Validation("exercise_id", "must not be empty")
	case !r.Skill.Valid():
		return errs.Validation("skill", "unknown skill %q", r.Skill)
	case r.Difficulty < 0 || r.Difficulty > 1:
		return errs.Validation("difficulty", "must be in [0,1], got %v", r.Difficulty)
	}
	return nil
}

// RecordExerciseResult appends an exercise outcome and folds it into the
// skill profile.
func (e *Engine) RecordExerciseResult(ctx context.Context, userID string, r ExerciseResult) (err error) {
	ctx, span := e.start(ctx, "RecordExerciseResult", userID)
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("exercise.id", r.ExerciseID), attribute.Bool("exercise.correct", r.Correct))

	if userID == "" {
		return errs.Validation("user_id", "must not be empty")
	}
	if err := r.validate(); err != nil {
		return err
	}
	now := e.clock.Now()
	if r.AnsweredAt.IsZero() {
		r.AnsweredAt = now
	}

	tuning := e.Tuning()
	_, err = e.updateProfile(ctx, userID, func(p *profile.SkillProfile) {
		p.RecordOutcome(r.Skill, r.Correct, tuning.Session.ProfileWeight, tuning.Estimator.FocusThreshold, now)
	})
	if err != nil {
		return err
	}

	rec := store.ExerciseResultRecord{
		UserID:     userID,
		ExerciseID: r.ExerciseID,
		Skill:      string(r.Skill),
		Correct:    r.Correct,
		Difficulty: r.Difficulty,
		AnsweredAt: r.AnsweredAt,
	}
	if err := e.repo.AppendExerciseResult(ctx, &rec); err != nil {
		return err
	}
	e.metrics.ObserveExercise(string(r.Skill), r.Correct)
	return nil
}
