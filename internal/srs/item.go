// Package srs implements the SM-2 review scheduler: per-item ease and
// interval state, due ordering and review recording.
package srs

import (
	"math"
	"time"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/difficulty"
)

// ReviewItem is one learner's scheduling state for one vocabulary entry.
type ReviewItem struct {
	UserID      string     `json:"user_id"`
	ItemID      string     `json:"item_id"`
	Source      string     `json:"source"`
	Translation string     `json:"translation"`
	Level       cefr.Level `json:"level"`

	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	EaseFactor     float64    `json:"ease_factor"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`

	CorrectCount      int             `json:"correct_count"`
	IncorrectCount    int             `json:"incorrect_count"`
	AvgResponseTimeMs float64         `json:"avg_response_time_ms"`
	Tier              difficulty.Tier `json:"tier"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the item.
func (it ReviewItem) Clone() ReviewItem {
	if it.LastReviewedAt != nil {
		t := *it.LastReviewedAt
		it.LastReviewedAt = &t
	}
	return it
}

// Stats returns the performance history fed to the classifier.
func (it *ReviewItem) Stats() difficulty.Stats {
	return difficulty.Stats{
		Correct:           it.CorrectCount,
		Incorrect:         it.IncorrectCount,
		AvgResponseTimeMs: it.AvgResponseTimeMs,
	}
}

// Attempts returns the number of recorded reviews.
func (it *ReviewItem) Attempts() int {
	return it.CorrectCount + it.IncorrectCount
}

// IsDue returns true if the item is at or past its review time.
func (it *ReviewItem) IsDue(now time.Time) bool {
	return !now.Before(it.NextReviewAt)
}

// Overdue returns how long past due the item is, or 0 if not yet due.
func (it *ReviewItem) Overdue(now time.Time) time.Duration {
	if now.Before(it.NextReviewAt) {
		return 0
	}
	return now.Sub(it.NextReviewAt)
}

// OverdueDays returns Overdue in fractional days.
func (it *ReviewItem) OverdueDays(now time.Time) float64 {
	return it.Overdue(now).Hours() / 24.0
}

// IsOverdue returns true once the item has sat past due for longer than
// grace times its interval.
func (it *ReviewItem) IsOverdue(now time.Time, grace float64) bool {
	if !it.IsDue(now) {
		return false
	}
	graceHours := float64(it.IntervalDays) * grace * 24.0
	threshold := it.NextReviewAt.Add(time.Duration(graceHours * float64(time.Hour)))
	return now.After(threshold)
}

// IsMastered reports whether the item has left the review rotation.
func (it *ReviewItem) IsMastered(cfg config.SchedulerTuning) bool {
	return it.Repetitions >= cfg.MasteredRepetitions && it.EaseFactor >= cfg.MasteredEase
}

// DaysUntilReview returns whole days until the next review, 0 if due.
func (it *ReviewItem) DaysUntilReview(now time.Time) int {
	if it.IsDue(now) {
		return 0
	}
	return int(math.Ceil(it.NextReviewAt.Sub(now).Hours() / 24.0))
}

// Phase is an item's place in the learning lifecycle.
type Phase string

const (
	PhaseNew       Phase = "new"
	PhaseLearning  Phase = "learning"
	PhaseReviewing Phase = "reviewing"
	PhaseMastered  Phase = "mastered"
)

// AllPhases returns the phases in lifecycle order.
func AllPhases() []Phase {
	return []Phase{PhaseNew, PhaseLearning, PhaseReviewing, PhaseMastered}
}

// Phase reports where the item is in its lifecycle. A failed review
// resets repetitions and so puts the item back in Learning.
func (it *ReviewItem) Phase(cfg config.SchedulerTuning) Phase {
	switch {
	case it.LastReviewedAt == nil && it.Attempts() == 0:
		return PhaseNew
	case it.IsMastered(cfg):
		return PhaseMastered
	case it.Repetitions == 0:
		return PhaseLearning
	default:
		return PhaseReviewing
	}
}
