package level

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/store"
)

// ToRecord converts a result for persistence.
func ToRecord(r *Result) (store.LevelResultRecord, error) {
	scores, err := json.Marshal(r.SkillScores)
	if err != nil {
		return store.LevelResultRecord{}, fmt.Errorf("encode skill scores: %w", err)
	}
	focus, err := json.Marshal(r.FocusAreas)
	if err != nil {
		return store.LevelResultRecord{}, fmt.Errorf("encode focus areas: %w", err)
	}
	return store.LevelResultRecord{
		ID:               r.ID,
		UserID:           r.UserID,
		TakenAt:          r.TakenAt,
		OverallScore:     r.OverallScore,
		EstimatedLevel:   r.EstimatedLevel.String(),
		RecommendedLevel: r.RecommendedStart.String(),
		Confidence:       r.Confidence,
		SkillScores:      string(scores),
		FocusAreas:       string(focus),
		Answered:         r.Answered,
	}, nil
}

// FromRecord restores a persisted result.
func FromRecord(rec store.LevelResultRecord) (*Result, error) {
	est, err := cefr.ParseLevel(rec.EstimatedLevel)
	if err != nil {
		return nil, err
	}
	start, err := cefr.ParseLevel(rec.RecommendedLevel)
	if err != nil {
		return nil, err
	}
	r := &Result{
		ID:               rec.ID,
		UserID:           rec.UserID,
		OverallScore:     rec.OverallScore,
		EstimatedLevel:   est,
		Confidence:       rec.Confidence,
		RecommendedStart: start,
		Answered:         rec.Answered,
		TakenAt:          rec.TakenAt,
	}
	if err := json.Unmarshal([]byte(rec.SkillScores), &r.SkillScores); err != nil {
		return nil, fmt.Errorf("decode skill scores: %w", err)
	}
	if err := json.Unmarshal([]byte(rec.FocusAreas), &r.FocusAreas); err != nil {
		return nil, fmt.Errorf("decode focus areas: %w", err)
	}
	return r, nil
}
