package session

import (
	"time"

	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/store"
)

// Summary holds what a learner completed in a session.
type Summary struct {
	PlanID           string
	UserID           string
	StartedAt        time.Time
	CompletedAt      time.Time
	PlannedSeconds   int
	ReviewsDone      int
	ExercisesDone    int
	DialoguesDone    int
	ExercisesCorrect int
}

// Duration returns the wall time spent in the session.
func (s *Summary) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

// Accuracy returns the exercise accuracy, 0 with no exercises.
func (s *Summary) Accuracy() float64 {
	if s.ExercisesDone == 0 {
		return 0
	}
	return float64(s.ExercisesCorrect) / float64(s.ExercisesDone)
}

// Validate checks the summary is internally consistent.
func (s *Summary) Validate() error {
	switch {
	case s.PlanID == "":
		return errs.Validation("plan_id", "must not be empty")
	case s.CompletedAt.Before(s.StartedAt):
		return errs.Validation("completed_at", "must not precede started_at")
	case s.ReviewsDone < 0 || s.ExercisesDone < 0 || s.DialoguesDone < 0:
		return errs.Validation("counts", "must not be negative")
	case s.ExercisesCorrect < 0 || s.ExercisesCorrect > s.ExercisesDone:
		return errs.Validation("exercises_correct", "must be within [0, exercises_done]")
	}
	return nil
}

// BuildSummary starts a summary for a plan.
func BuildSummary(p *Plan, completedAt time.Time) *Summary {
	return &Summary{
		PlanID:         p.ID,
		UserID:         p.UserID,
		StartedAt:      p.CreatedAt,
		CompletedAt:    completedAt,
		PlannedSeconds: p.EstimatedSeconds,
	}
}

// ToRecord converts the summary for persistence.
func (s *Summary) ToRecord() store.SessionSummaryRecord {
	return store.SessionSummaryRecord{
		ID:               s.PlanID,
		UserID:           s.UserID,
		StartedAt:        s.StartedAt,
		CompletedAt:      s.CompletedAt,
		PlannedSeconds:   s.PlannedSeconds,
		ReviewsDone:      s.ReviewsDone,
		ExercisesDone:    s.ExercisesDone,
		DialoguesDone:    s.DialoguesDone,
		ExercisesCorrect: s.ExercisesCorrect,
	}
}

// SummaryFromRecord restores a persisted summary.
func SummaryFromRecord(r store.SessionSummaryRecord) Summary {
	return Summary{
		PlanID:           r.ID,
		UserID:           r.UserID,
		StartedAt:        r.StartedAt,
		CompletedAt:      r.CompletedAt,
		PlannedSeconds:   r.PlannedSeconds,
		ReviewsDone:      r.ReviewsDone,
		ExercisesDone:    r.ExercisesDone,
		DialoguesDone:    r.DialoguesDone,
		ExercisesCorrect: r.ExercisesCorrect,
	}
}
