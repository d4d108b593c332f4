package srs

import (
	"fmt"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/difficulty"
	"github.com/abhisek/lexiz/internal/store"
)

func toRecord(it ReviewItem) store.ReviewItemRecord {
	return store.ReviewItemRecord{
		UserID:            it.UserID,
		ItemID:            it.ItemID,
		Source:            it.Source,
		Translation:       it.Translation,
		Level:             it.Level.String(),
		IntervalDays:      it.IntervalDays,
		Repetitions:       it.Repetitions,
		EaseFactor:        it.EaseFactor,
		NextReviewAt:      it.NextReviewAt,
		LastReviewedAt:    it.LastReviewedAt,
		CorrectCount:      it.CorrectCount,
		IncorrectCount:    it.IncorrectCount,
		AvgResponseTimeMs: it.AvgResponseTimeMs,
		Tier:              it.Tier.String(),
		Version:           it.Version,
		CreatedAt:         it.CreatedAt,
	}
}

func fromRecord(r store.ReviewItemRecord) (ReviewItem, error) {
	level, err := cefr.ParseLevel(r.Level)
	if err != nil {
		return ReviewItem{}, fmt.Errorf("item %s: %w", r.ItemID, err)
	}
	tier, err := difficulty.ParseTier(r.Tier)
	if err != nil {
		return ReviewItem{}, fmt.Errorf("item %s: %w", r.ItemID, err)
	}
	it := ReviewItem{
		UserID:            r.UserID,
		ItemID:            r.ItemID,
		Source:            r.Source,
		Translation:       r.Translation,
		Level:             level,
		IntervalDays:      r.IntervalDays,
		Repetitions:       r.Repetitions,
		EaseFactor:        r.EaseFactor,
		NextReviewAt:      r.NextReviewAt,
		LastReviewedAt:    r.LastReviewedAt,
		CorrectCount:      r.CorrectCount,
		IncorrectCount:    r.IncorrectCount,
		AvgResponseTimeMs: r.AvgResponseTimeMs,
		Tier:              tier,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
	}
	return it.Clone(), nil
}

func fromRecords(rs []store.ReviewItemRecord) ([]ReviewItem, error) {
	items := make([]ReviewItem, 0, len(rs))
	for _, r := range rs {
		it, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
