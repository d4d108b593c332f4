package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/level"
	"github.com/abhisek/lexiz/internal/profile"
)

// CalculateLevel scores a batch of placement answers without persisting.
func (e *Engine) CalculateLevel(answers []level.Answer) (*level.Result, error) {
	return level.Calculate(answers, e.Tuning().Estimator)
}

// SubmitLevelTest scores answers, stores the result, recomputes the
// user's profile from it and seeds review items up to the recommended
// start level.
func (e *Engine) SubmitLevelTest(ctx context.Context, userID string, answers []level.Answer) (res *level.Result, err error) {
	ctx, span := e.start(ctx, "SubmitLevelTest", userID)
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return nil, errs.Validation("user_id", "must not be empty")
	}
	tuning := e.Tuning()
	res, err = level.Calculate(answers, tuning.Estimator)
	if err != nil {
		return nil, err
	}
	now := e.clock.Now()
	res.ID = e.newID(now)
	res.UserID = userID
	res.TakenAt = now

	rec, err := level.ToRecord(res)
	if err != nil {
		return nil, err
	}
	if err := e.repo.SaveLevelResult(ctx, rec); err != nil {
		return nil, err
	}

	_, err = e.updateProfile(ctx, userID, func(p *profile.SkillProfile) {
		*p = *profile.FromLevelResult(userID, res, p, tuning.Estimator.FocusThreshold, now)
	})
	if errs.IsNotFound(err) {
		err = e.saveProfile(ctx, profile.FromLevelResult(userID, res, nil, tuning.Estimator.FocusThreshold, now))
	}
	if err != nil {
		return nil, err
	}
	if _, err := e.sched.Initialize(ctx, userID, res.RecommendedStart); err != nil {
		return nil, err
	}

	e.metrics.ObserveLevelTest(res.EstimatedLevel.String())
	span.SetAttributes(
		attribute.String("level.estimated", res.EstimatedLevel.String()),
		attribute.Float64("level.score", res.OverallScore))
	e.log.Info("level test submitted",
		zap.String("user", userID),
		zap.String("result", res.ID),
		zap.Stringer("level", res.EstimatedLevel),
		zap.Float64("score", res.OverallScore),
		zap.Float64("confidence", res.Confidence))
	return res, nil
}

// LatestLevelResult returns the user's most recent level test, nil if none.
func (e *Engine) LatestLevelResult(ctx context.Context, userID string) (*level.Result, error) {
	rec, err := e.repo.LatestLevelResult(ctx, userID)
	if err != nil || rec == nil {
		return nil, err
	}
	return level.FromRecord(*rec)
}

// LevelHistory returns up to limit level tests, newest first.
func (e *Engine) LevelHistory(ctx context.Context, userID string, limit int) ([]*level.Result, error) {
	recs, err := e.repo.LevelHistory(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*level.Result, 0, len(recs))
	for _, r := range recs {
		res, err := level.FromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// NeedsLevelTest reports whether the user has never taken a level test or
// the latest is older than the retest period.
func (e *Engine) NeedsLevelTest(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, errs.Validation("user_id", "must not be empty")
	}
	latest, err := e.LatestLevelResult(ctx, userID)
	if err != nil {
		return false, err
	}
	return level.NeedsTest(latest, e.clock.Now(), e.Tuning().Estimator), nil
}
