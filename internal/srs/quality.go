package srs

import "github.com/abhisek/lexiz/internal/errs"

// Quality is the self-graded recall quality of a review, 0 to 5.
type Quality int

const (
	// Complete blackout, unable to recall.
	QualityBlackout Quality = 0
	// Incorrect, but remembered on seeing the answer.
	QualityIncorrect Quality = 1
	// Incorrect, but the answer felt familiar.
	QualityIncorrectFamiliar Quality = 2
	// Correct with significant effort.
	QualityCorrectDifficult Quality = 3
	// Correct after some hesitation.
	QualityCorrectHesitation Quality = 4
	// Perfect recall.
	QualityPerfect Quality = 5
)

// Valid reports whether q is within [0,5].
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// ValidateReview rejects out-of-range review input.
func ValidateReview(q Quality, responseTimeMs int) error {
	if !q.Valid() {
		return errs.Validation("quality", "must be in [0,5], got %d", int(q))
	}
	if responseTimeMs < 0 {
		return errs.Validation("response_time_ms", "must not be negative, got %d", responseTimeMs)
	}
	return nil
}
