package profile

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/store"
)

// ToRecord converts a profile for persistence.
func ToRecord(p *SkillProfile) (store.SkillProfileRecord, error) {
	scores, err := json.Marshal(p.Scores)
	if err != nil {
		return store.SkillProfileRecord{}, fmt.Errorf("encode scores: %w", err)
	}
	focus := p.FocusAreas
	if focus == nil {
		focus = []cefr.Skill{}
	}
	focusJSON, err := json.Marshal(focus)
	if err != nil {
		return store.SkillProfileRecord{}, fmt.Errorf("encode focus areas: %w", err)
	}
	return store.SkillProfileRecord{
		UserID:         p.UserID,
		Scores:         string(scores),
		EstimatedLevel: p.EstimatedLevel.String(),
		Confidence:     p.Confidence,
		FocusAreas:     string(focusJSON),
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}, nil
}

// FromRecord restores a persisted profile.
func FromRecord(rec store.SkillProfileRecord) (*SkillProfile, error) {
	lvl, err := cefr.ParseLevel(rec.EstimatedLevel)
	if err != nil {
		return nil, err
	}
	p := &SkillProfile{
		UserID:         rec.UserID,
		EstimatedLevel: lvl,
		Confidence:     rec.Confidence,
		UpdatedAt:      rec.UpdatedAt,
		Version:        rec.Version,
	}
	if err := json.Unmarshal([]byte(rec.Scores), &p.Scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	if err := json.Unmarshal([]byte(rec.FocusAreas), &p.FocusAreas); err != nil {
		return nil, fmt.Errorf("decode focus areas: %w", err)
	}
	return p, nil
}
