package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lexiz/internal/cefr"
)

var tierNames = []string{"easy", "medium", "hard", "very_hard"}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Reminder.Every <= 0 {
		errs = append(errs, errors.New("reminder.every: must be positive"))
	}
	if c.Reminder.StartHour < 0 || c.Reminder.EndHour > 24 || c.Reminder.StartHour >= c.Reminder.EndHour {
		errs = append(errs, fmt.Errorf("reminder: invalid hour window [%d,%d)", c.Reminder.StartHour, c.Reminder.EndHour))
	}
	if err := c.Tuning.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks every tuning table.
func (t Tuning) Validate() error {
	var errs []error

	s := t.Scheduler
	if len(s.Intervals) == 0 {
		errs = append(errs, errors.New("scheduler.intervals: empty"))
	}
	for i, d := range s.Intervals {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("scheduler.intervals[%d]: must be positive", i))
		}
		if i > 0 && d <= s.Intervals[i-1] {
			errs = append(errs, fmt.Errorf("scheduler.intervals[%d]: must be ascending", i))
		}
	}
	if s.MinEase <= 0 || s.MinEase > s.MaxEase {
		errs = append(errs, fmt.Errorf("scheduler: ease bounds [%g,%g] invalid", s.MinEase, s.MaxEase))
	}
	if s.InitialEase < s.MinEase || s.InitialEase > s.MaxEase {
		errs = append(errs, fmt.Errorf("scheduler.initial_ease: %g outside [%g,%g]", s.InitialEase, s.MinEase, s.MaxEase))
	}
	if s.PassQuality < 0 || s.PassQuality > 5 {
		errs = append(errs, fmt.Errorf("scheduler.pass_quality: %d outside [0,5]", s.PassQuality))
	}
	for _, name := range tierNames {
		m, ok := s.Multipliers[name]
		if !ok {
			errs = append(errs, fmt.Errorf("scheduler.multipliers: missing %q", name))
		} else if m <= 0 {
			errs = append(errs, fmt.Errorf("scheduler.multipliers.%s: must be positive", name))
		}
	}
	if s.OverdueGrace < 0 {
		errs = append(errs, errors.New("scheduler.overdue_grace: must not be negative"))
	}

	c := t.Classifier
	if c.MinAttempts < 1 {
		errs = append(errs, errors.New("classifier.min_attempts: must be at least 1"))
	}
	if !(c.EasyAccuracy >= c.MediumAccuracy && c.MediumAccuracy >= c.HardAccuracy) {
		errs = append(errs, errors.New("classifier: accuracy thresholds must descend easy > medium > hard"))
	}

	sel := t.Selector
	if sel.MinDifficulty <= 0 || sel.MinDifficulty > sel.MaxDifficulty {
		errs = append(errs, fmt.Errorf("selector: difficulty bounds [%g,%g] invalid", sel.MinDifficulty, sel.MaxDifficulty))
	}
	if sel.Window < 1 {
		errs = append(errs, errors.New("selector.window: must be at least 1"))
	}
	if sel.Band < 0 || sel.Step <= 0 {
		errs = append(errs, errors.New("selector: band must be non-negative and step positive"))
	}

	e := t.Estimator
	for _, l := range cefr.AllLevels() {
		if w := e.Weights[strings.ToLower(l.String())]; w <= 0 {
			errs = append(errs, fmt.Errorf("estimator.weights: missing or non-positive weight for %s", l))
		}
	}
	if len(e.Bands) != len(cefr.AllLevels()) {
		errs = append(errs, fmt.Errorf("estimator.bands: want %d bands, got %d", len(cefr.AllLevels()), len(e.Bands)))
	}
	for i, b := range e.Bands {
		if _, err := cefr.ParseLevel(b.Level); err != nil {
			errs = append(errs, fmt.Errorf("estimator.bands[%d]: %w", i, err))
		}
		if b.Min > b.Max {
			errs = append(errs, fmt.Errorf("estimator.bands[%d]: min > max", i))
		}
		if i > 0 && b.Min <= e.Bands[i-1].Max {
			errs = append(errs, fmt.Errorf("estimator.bands[%d]: overlaps previous band", i))
		}
	}
	if e.RetestMonths < 1 {
		errs = append(errs, errors.New("estimator.retest_months: must be at least 1"))
	}

	ss := t.Session
	if ss.ReviewSeconds <= 0 || ss.DialogueSeconds <= 0 {
		errs = append(errs, errors.New("session: item costs must be positive"))
	}
	if ss.MaxDialogues < 0 {
		errs = append(errs, errors.New("session.max_dialogues: must not be negative"))
	}
	if ss.ProfileWeight <= 0 || ss.ProfileWeight > 1 {
		errs = append(errs, fmt.Errorf("session.profile_weight: %g outside (0,1]", ss.ProfileWeight))
	}

	return errors.Join(errs...)
}
