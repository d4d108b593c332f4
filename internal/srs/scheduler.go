package srs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/clock"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/logging"
	"github.com/abhisek/lexiz/internal/metrics"
	"github.com/abhisek/lexiz/internal/store"
)

// Scheduler owns review item state for all users. Writes to one
// (user, item) pair are serialized in-process and compare-and-swapped in
// the store; different items and users proceed in parallel.
type Scheduler struct {
	repo    store.ReviewRepo
	content content.Store
	clock   clock.Clock
	tuning  atomic.Pointer[config.Tuning]
	log     *zap.Logger
	metrics *metrics.Metrics

	locks   sync.Map // lockKey -> *sync.Mutex
	cache   sync.Map // userID -> []ReviewItem, last good load
	cacheMu sync.Mutex
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = logging.OrNop(log) }
}

// WithMetrics sets the collectors the scheduler reports to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// NewScheduler creates a scheduler over repo, seeding from vocab.
func NewScheduler(repo store.ReviewRepo, vocab content.Store, clk clock.Clock, tuning config.Tuning, opts ...Option) *Scheduler {
	s := &Scheduler{
		repo:    repo,
		content: vocab,
		clock:   clk,
		log:     zap.NewNop(),
	}
	s.tuning.Store(&tuning)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTuning swaps the tables used by subsequent operations.
func (s *Scheduler) SetTuning(t config.Tuning) {
	s.tuning.Store(&t)
}

// Tuning returns the tables currently in use.
func (s *Scheduler) Tuning() config.Tuning {
	return *s.tuning.Load()
}

type lockKey struct {
	userID string
	itemID string
}

func (s *Scheduler) lock(userID, itemID string) func() {
	v, _ := s.locks.LoadOrStore(lockKey{userID, itemID}, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Initialize seeds one review item per vocabulary entry at or below
// startLevel. Existing items are kept; returns how many were added.
func (s *Scheduler) Initialize(ctx context.Context, userID string, startLevel cefr.Level) (int, error) {
	if userID == "" {
		return 0, errs.Validation("user_id", "must not be empty")
	}
	if !startLevel.Valid() {
		return 0, errs.Validation("start_level", "unknown level %d", int(startLevel))
	}

	tuning := s.Tuning()
	items := SeedItems(userID, startLevel, s.content, s.clock.Now(), tuning.Scheduler)
	records := make([]store.ReviewItemRecord, len(items))
	for i, it := range items {
		records[i] = toRecord(it)
	}
	n, err := s.repo.InsertReviewItems(ctx, records)
	if err != nil {
		return 0, err
	}
	s.cache.Delete(userID)
	s.log.Info("review items seeded",
		zap.String("user", userID),
		zap.Stringer("level", startLevel),
		zap.Int("inserted", n),
		zap.Int("candidates", len(items)))
	return n, nil
}

// Items returns every item of the user. When the store fails with a
// storage error and an earlier load is cached, the cached items are
// returned with degraded set.
func (s *Scheduler) Items(ctx context.Context, userID string) (items []ReviewItem, degraded bool, err error) {
	records, err := s.repo.LoadReviewItems(ctx, userID)
	if err != nil {
		if cached, ok := s.cached(userID); ok && errs.IsStorage(err) {
			s.log.Warn("serving cached review items", zap.String("user", userID), zap.Error(err))
			s.metrics.DegradedRead()
			return cached, true, nil
		}
		return nil, false, err
	}
	items, err = fromRecords(records)
	if err != nil {
		return nil, false, &errs.ErrStorage{Op: "decode review items", Err: err}
	}
	s.storeCache(userID, items)
	return items, false, nil
}

// DueResult is the outcome of a due query.
type DueResult struct {
	Items    []ReviewItem
	Degraded bool
}

// DueItems returns due, unmastered items in urgency order. limit <= 0
// means no limit. Nothing due is an empty result, not an error.
func (s *Scheduler) DueItems(ctx context.Context, userID string, limit int) (*DueResult, error) {
	items, degraded, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DueResult{
		Items:    SelectDue(items, s.clock.Now(), limit, s.Tuning().Scheduler),
		Degraded: degraded,
	}, nil
}

// RecordReview applies a review to one item and persists it together with
// the review event. A version conflict is retried once against fresh
// state before being returned.
func (s *Scheduler) RecordReview(ctx context.Context, userID, itemID string, q Quality, responseTimeMs int) (*ReviewItem, error) {
	if err := ValidateReview(q, responseTimeMs); err != nil {
		return nil, err
	}
	if userID == "" || itemID == "" {
		return nil, errs.Validation("item", "user and item ids are required")
	}

	unlock := s.lock(userID, itemID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		updated, err := s.recordOnce(ctx, userID, itemID, q, responseTimeMs)
		if err == nil {
			s.updateCache(userID, *updated)
			return updated, nil
		}
		var conflict *errs.ErrConflict
		if !errors.As(err, &conflict) {
			return nil, err
		}
		lastErr = err
		if attempt == 0 {
			s.metrics.ConflictRetried()
			s.log.Debug("review conflict, retrying", zap.String("user", userID), zap.String("item", itemID))
		}
	}
	return nil, lastErr
}

func (s *Scheduler) recordOnce(ctx context.Context, userID, itemID string, q Quality, responseTimeMs int) (*ReviewItem, error) {
	rec, err := s.repo.LoadReviewItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &errs.ErrNotFound{Kind: "review item", ID: itemID}
	}
	item, err := fromRecord(*rec)
	if err != nil {
		return nil, &errs.ErrStorage{Op: "decode review item", Err: err}
	}

	tuning := s.Tuning()
	now := s.clock.Now()
	updated := ApplyReview(item, q, responseTimeMs, now, tuning)

	out := toRecord(updated)
	ev := store.ReviewEventRecord{
		UserID:         userID,
		ItemID:         itemID,
		Quality:        int(q),
		ResponseTimeMs: responseTimeMs,
		Correct:        int(q) >= tuning.Scheduler.PassQuality,
		IntervalDays:   updated.IntervalDays,
		ReviewedAt:     now,
	}
	if err := s.repo.SaveReviewItem(ctx, &out, &ev); err != nil {
		return nil, err
	}
	updated.Version = out.Version

	if updated.Tier != item.Tier {
		s.log.Debug("item reclassified",
			zap.String("item", itemID),
			zap.Stringer("from", item.Tier),
			zap.Stringer("to", updated.Tier))
	}
	return &updated, nil
}

// ReviewTimes returns the user's review timestamps since the given time.
func (s *Scheduler) ReviewTimes(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	return s.repo.ReviewTimes(ctx, userID, since)
}

func (s *Scheduler) cached(userID string) ([]ReviewItem, bool) {
	v, ok := s.cache.Load(userID)
	if !ok {
		return nil, false
	}
	src := v.([]ReviewItem)
	out := make([]ReviewItem, len(src))
	for i, it := range src {
		out[i] = it.Clone()
	}
	return out, true
}

func (s *Scheduler) storeCache(userID string, items []ReviewItem) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	snap := make([]ReviewItem, len(items))
	for i, it := range items {
		snap[i] = it.Clone()
	}
	s.cache.Store(userID, snap)
}

// updateCache replaces one item in the user's cached snapshot, if any.
func (s *Scheduler) updateCache(userID string, item ReviewItem) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	items, ok := s.cached(userID)
	if !ok {
		return
	}
	for i := range items {
		if items[i].ItemID == item.ItemID {
			items[i] = item.Clone()
			s.cache.Store(userID, items)
			return
		}
	}
}
