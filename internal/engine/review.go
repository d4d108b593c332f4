package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/difficulty"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/srs"
)

// streakLookback bounds how far back review days are read for streaks.
const streakLookback = 400 * 24 * time.Hour

// RecordReview grades one review of an item and returns its new state.
func (e *Engine) RecordReview(ctx context.Context, userID, itemID string, q srs.Quality, responseTimeMs int) (item *srs.ReviewItem, err error) {
	ctx, span := e.start(ctx, "RecordReview", userID)
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("item.id", itemID), attribute.Int("review.quality", int(q)))

	started := time.Now()
	item, err = e.sched.RecordReview(ctx, userID, itemID, q, responseTimeMs)
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveReview(int(q) >= e.Tuning().Scheduler.PassQuality, time.Since(started))
	span.SetAttributes(
		attribute.Int("item.interval_days", item.IntervalDays),
		attribute.String("item.tier", item.Tier.String()))
	return item, nil
}

// DueItems returns up to limit due items in urgency order.
func (e *Engine) DueItems(ctx context.Context, userID string, limit int) (*srs.DueResult, error) {
	return e.sched.DueItems(ctx, userID, limit)
}

// DueCount returns how many items the user has due now.
func (e *Engine) DueCount(ctx context.Context, userID string) (int, error) {
	res, err := e.sched.DueItems(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	return len(res.Items), nil
}

// ProgressSummary is a snapshot of a learner's review state.
type ProgressSummary struct {
	UserID     string                  `json:"user_id"`
	Level      cefr.Level              `json:"level"`
	Total      int                     `json:"total"`
	Due        int                     `json:"due"`
	Overdue    int                     `json:"overdue"`
	Mastered   int                     `json:"mastered"`
	ByTier     map[difficulty.Tier]int `json:"by_tier"`
	ByPhase    map[srs.Phase]int       `json:"by_phase"`
	StreakDays int                     `json:"streak_days"`
	Accuracy   float64                 `json:"accuracy"`
	Degraded   bool                    `json:"degraded"`
}

// GetProgressSummary counts the user's items by state. Overdue items are
// due and past the grace fraction of their interval.
func (e *Engine) GetProgressSummary(ctx context.Context, userID string) (sum *ProgressSummary, err error) {
	ctx, span := e.start(ctx, "GetProgressSummary", userID)
	defer func() { endSpan(span, err) }()

	items, degraded, err := e.sched.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, profDegraded, err := e.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil && len(items) == 0 {
		return nil, &errs.ErrNotFound{Kind: "user", ID: userID}
	}

	cfg := e.Tuning().Scheduler
	now := e.clock.Now()
	sum = &ProgressSummary{
		UserID:   userID,
		Level:    cefr.A1,
		Total:    len(items),
		ByTier:   make(map[difficulty.Tier]int),
		ByPhase:  make(map[srs.Phase]int),
		Degraded: degraded || profDegraded,
	}
	if p != nil {
		sum.Level = p.EstimatedLevel
	}
	for _, t := range difficulty.AllTiers() {
		sum.ByTier[t] = 0
	}
	for _, ph := range srs.AllPhases() {
		sum.ByPhase[ph] = 0
	}

	correct, attempts := 0, 0
	for i := range items {
		it := &items[i]
		sum.ByTier[it.Tier]++
		sum.ByPhase[it.Phase(cfg)]++
		correct += it.CorrectCount
		attempts += it.Attempts()
		if it.IsMastered(cfg) {
			sum.Mastered++
			continue
		}
		if it.IsDue(now) {
			sum.Due++
			if it.IsOverdue(now, cfg.OverdueGrace) {
				sum.Overdue++
			}
		}
	}
	if attempts > 0 {
		sum.Accuracy = float64(correct) / float64(attempts)
	}

	times, err := e.sched.ReviewTimes(ctx, userID, now.Add(-streakLookback))
	if err != nil {
		if !errs.IsStorage(err) {
			return nil, err
		}
		e.log.Warn("progress without review history", zap.String("user", userID), zap.Error(err))
		e.metrics.DegradedRead()
		sum.Degraded = true
	}
	sum.StreakDays = srs.StreakDays(times, now)
	return sum, nil
}
