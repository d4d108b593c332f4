package srs

import (
	"math"
	"time"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/difficulty"
)

// Snap rounds days up to the nearest bucket, capped at the largest.
func Snap(days int, buckets []int) int {
	if len(buckets) == 0 {
		return days
	}
	for _, b := range buckets {
		if b >= days {
			return b
		}
	}
	return buckets[len(buckets)-1]
}

// NextInterval returns the interval in days after a review that left the
// item with the given repetitions and ease factor. The multiplier is that
// of the tier the item had when the review started.
func NextInterval(prevDays, repetitions int, ease float64, tier difficulty.Tier, cfg config.SchedulerTuning) int {
	switch repetitions {
	case 0:
		return firstBucket(cfg.Intervals, 1)
	case 1:
		return secondBucket(cfg.Intervals, 3)
	}
	raw := math.Round(float64(prevDays) * ease * tier.Multiplier(cfg.Multipliers))
	return Snap(int(raw), cfg.Intervals)
}

func firstBucket(b []int, fallback int) int {
	if len(b) > 0 {
		return b[0]
	}
	return fallback
}

func secondBucket(b []int, fallback int) int {
	if len(b) > 1 {
		return b[1]
	}
	return fallback
}

// UpdateEase applies the SM-2 ease adjustment for quality q. A passing
// review never lowers the ease factor: the SM-2 delta is negative for
// quality 3 and is floored at zero.
func UpdateEase(ease float64, q Quality, cfg config.SchedulerTuning) float64 {
	if int(q) < cfg.PassQuality {
		return math.Max(cfg.MinEase, ease-cfg.LapsePenalty)
	}
	d := float64(QualityPerfect - q)
	delta := 0.1 - d*(0.08+d*0.02)
	next := ease + math.Max(0, delta)
	return math.Min(cfg.MaxEase, math.Max(cfg.MinEase, next))
}

// ApplyReview returns item updated for a review at now. It does not
// validate input; see ValidateReview.
func ApplyReview(item ReviewItem, q Quality, responseTimeMs int, now time.Time, tuning config.Tuning) ReviewItem {
	cfg := tuning.Scheduler
	next := item.Clone()
	correct := int(q) >= cfg.PassQuality

	attempts := next.Attempts() + 1
	next.AvgResponseTimeMs += (float64(responseTimeMs) - next.AvgResponseTimeMs) / float64(attempts)
	if correct {
		next.CorrectCount++
		next.Repetitions++
	} else {
		next.IncorrectCount++
		next.Repetitions = 0
	}
	next.EaseFactor = UpdateEase(item.EaseFactor, q, cfg)
	next.IntervalDays = NextInterval(item.IntervalDays, next.Repetitions, next.EaseFactor, item.Tier, cfg)
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	reviewed := now
	next.LastReviewedAt = &reviewed

	next.Tier = difficulty.Reclassify(item.Tier, next.Stats(), tuning.Classifier)
	return next
}

// NewItem seeds a review item for a vocabulary entry, due immediately.
func NewItem(userID string, v content.Vocab, now time.Time, cfg config.SchedulerTuning) ReviewItem {
	return ReviewItem{
		UserID:       userID,
		ItemID:       v.ID,
		Source:       v.Source,
		Translation:  v.Translation,
		Level:        v.Level,
		IntervalDays: firstBucket(cfg.Intervals, 1),
		EaseFactor:   cfg.InitialEase,
		NextReviewAt: now,
		Tier:         difficulty.Medium,
		CreatedAt:    now,
	}
}

// SeedItems builds review items for every entry at or below level.
func SeedItems(userID string, level cefr.Level, vocab content.Store, now time.Time, cfg config.SchedulerTuning) []ReviewItem {
	entries := vocab.Vocabulary(level)
	items := make([]ReviewItem, 0, len(entries))
	for _, v := range entries {
		items = append(items, NewItem(userID, v, now, cfg))
	}
	return items
}
