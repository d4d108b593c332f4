package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lexiz/internal/adaptive"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/profile"
	"github.com/abhisek/lexiz/internal/session"
	"github.com/abhisek/lexiz/internal/srs"
)

// GenerateSession composes a study session that fits budgetMinutes. Due
// items, the profile and recent exercise outcomes are loaded
// concurrently. Nothing is written.
func (e *Engine) GenerateSession(ctx context.Context, userID string, budgetMinutes int) (plan *session.Plan, err error) {
	ctx, span := e.start(ctx, "GenerateSession", userID)
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int("session.budget_minutes", budgetMinutes))

	if userID == "" {
		return nil, errs.Validation("user_id", "must not be empty")
	}
	if err := session.ValidateBudget(budgetMinutes); err != nil {
		return nil, err
	}

	tuning := e.Tuning()
	var (
		due          *srs.DueResult
		prof         *profile.SkillProfile
		profDegraded bool
		outcomes     map[string][]bool
		outDegraded  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := e.sched.DueItems(gctx, userID, tuning.Session.MaxReviews)
		if err != nil {
			return err
		}
		due = res
		return nil
	})
	g.Go(func() error {
		p, degraded, err := e.requireProfile(gctx, userID)
		if err != nil {
			return err
		}
		prof, profDegraded = p, degraded
		return nil
	})
	g.Go(func() error {
		o, err := e.repo.RecentExerciseOutcomes(gctx, userID, tuning.Selector.Window)
		if err != nil {
			if !errs.IsStorage(err) || gctx.Err() != nil {
				return err
			}
			e.log.Warn("selecting exercises without history", zap.String("user", userID), zap.Error(err))
			e.metrics.DegradedRead()
			outDegraded = true
			return nil
		}
		outcomes = o
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	budget := budgetMinutes * 60
	remaining := budget - len(due.Items)*tuning.Session.ReviewSeconds
	if remaining < 0 {
		remaining = 0
	}
	selector := adaptive.NewSelector(e.content, tuning.Selector)
	exercises, err := selector.Select(adaptive.Request{
		UserID:        userID,
		Level:         prof.EstimatedLevel,
		Skills:        prof.FocusAreas,
		BudgetSeconds: remaining,
		Accuracy:      adaptive.RollingAccuracy(outcomes, tuning.Selector.Window),
	})
	if err != nil {
		return nil, err
	}

	plan, err = session.Compose(ctx, session.Input{
		UserID:        userID,
		Level:         prof.EstimatedLevel,
		BudgetMinutes: budgetMinutes,
		Due:           due.Items,
		Exercises:     exercises,
		Dialogues:     e.content.Dialogues(prof.EstimatedLevel),
		FocusAreas:    prof.FocusAreas,
		Degraded:      due.Degraded || profDegraded || outDegraded,
	}, tuning.Session, e.clock.Now())
	if err != nil {
		return nil, err
	}

	e.metrics.ObserveSession(plan.EstimatedSeconds)
	span.SetAttributes(
		attribute.String("session.id", plan.ID),
		attribute.Int("session.estimated_seconds", plan.EstimatedSeconds),
		attribute.Bool("session.degraded", plan.Degraded))
	e.log.Debug("session generated",
		zap.String("user", userID),
		zap.String("plan", plan.ID),
		zap.Int("reviews", plan.Count(session.BlockReview)),
		zap.Int("exercises", plan.Count(session.BlockExercise)),
		zap.Int("dialogues", plan.Count(session.BlockDialogue)),
		zap.Int("estimated_seconds", plan.EstimatedSeconds))
	return plan, nil
}

// CompleteSession records what the learner finished of a plan.
func (e *Engine) CompleteSession(ctx context.Context, s *session.Summary) (err error) {
	ctx, span := e.start(ctx, "CompleteSession", s.UserID)
	defer func() { endSpan(span, err) }()

	if s.UserID == "" {
		return errs.Validation("user_id", "must not be empty")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return e.repo.SaveSessionSummary(ctx, s.ToRecord())
}

// RecentSessions returns up to limit completed sessions, newest first.
func (e *Engine) RecentSessions(ctx context.Context, userID string, limit int) ([]session.Summary, error) {
	recs, err := e.repo.RecentSessions(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]session.Summary, len(recs))
	for i, r := range recs {
		out[i] = session.SummaryFromRecord(r)
	}
	return out, nil
}
