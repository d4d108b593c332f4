package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/errs"
	"github.com/abhisek/lexiz/internal/profile"
)

func (e *Engine) lockProfile(userID string) func() {
	v, _ := e.profileLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// loadProfile returns the user's profile, nil if none. A storage failure
// falls back to the last profile seen, reported through degraded.
func (e *Engine) loadProfile(ctx context.Context, userID string) (p *profile.SkillProfile, degraded bool, err error) {
	rec, err := e.repo.LoadSkillProfile(ctx, userID)
	if err != nil {
		if v, ok := e.profiles.Load(userID); ok && errs.IsStorage(err) {
			e.log.Warn("serving cached profile", zap.String("user", userID), zap.Error(err))
			e.metrics.DegradedRead()
			return v.(*profile.SkillProfile).Clone(), true, nil
		}
		return nil, false, err
	}
	if rec == nil {
		return nil, false, nil
	}
	p, err = profile.FromRecord(*rec)
	if err != nil {
		return nil, false, &errs.ErrStorage{Op: "decode skill profile", Err: err}
	}
	e.profiles.Store(userID, p.Clone())
	return p, false, nil
}

// requireProfile is loadProfile with a missing profile reported as an
// unknown user.
func (e *Engine) requireProfile(ctx context.Context, userID string) (*profile.SkillProfile, bool, error) {
	p, degraded, err := e.loadProfile(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, &errs.ErrNotFound{Kind: "user", ID: userID}
	}
	return p, degraded, nil
}

func (e *Engine) saveProfile(ctx context.Context, p *profile.SkillProfile) error {
	rec, err := profile.ToRecord(p)
	if err != nil {
		return err
	}
	if err := e.repo.SaveSkillProfile(ctx, &rec); err != nil {
		return err
	}
	p.Version = rec.Version
	e.profiles.Store(p.UserID, p.Clone())
	return nil
}

// updateProfile applies fn to the stored profile and writes it back. A
// version conflict is retried once against a fresh copy.
func (e *Engine) updateProfile(ctx context.Context, userID string, fn func(p *profile.SkillProfile)) (*profile.SkillProfile, error) {
	unlock := e.lockProfile(userID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		p, _, err := e.loadProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, &errs.ErrNotFound{Kind: "user", ID: userID}
		}
		fn(p)
		err = e.saveProfile(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errs.IsConflict(err) {
			return nil, err
		}
		lastErr = err
		if attempt == 0 {
			e.metrics.ConflictRetried()
		}
	}
	return nil, lastErr
}

// Profile returns the user's skill profile.
func (e *Engine) Profile(ctx context.Context, userID string) (*profile.SkillProfile, error) {
	p, _, err := e.requireProfile(ctx, userID)
	return p, err
}

// GetWeaknessReport lists the user's weak and strong skills.
func (e *Engine) GetWeaknessReport(ctx context.Context, userID string) (report *profile.WeaknessReport, err error) {
	ctx, span := e.start(ctx, "GetWeaknessReport", userID)
	defer func() { endSpan(span, err) }()

	p, _, err := e.requireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	tuning := e.Tuning()
	samples := make(map[cefr.Skill]int)
	outcomes, err := e.repo.RecentExerciseOutcomes(ctx, userID, tuning.Selector.Window)
	if err != nil {
		if !errs.IsStorage(err) {
			return nil, err
		}
		e.log.Warn("weakness report without exercise history", zap.String("user", userID), zap.Error(err))
		e.metrics.DegradedRead()
	}
	for name, results := range outcomes {
		if s, err := cefr.ParseSkill(name); err == nil {
			samples[s] = len(results)
		}
	}
	return profile.Weakness(p, samples, tuning.Session, tuning.Selector.Window, e.clock.Now()), nil
}
