// Package reminder periodically scans learners for due reviews and
// notifies those with work waiting.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/abhisek/lexiz/internal/clock"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/logging"
	"github.com/abhisek/lexiz/internal/metrics"
)

// Source provides the users to scan and their due counts.
type Source interface {
	ListUsers(ctx context.Context) ([]string, error)
	DueCount(ctx context.Context, userID string) (int, error)
}

// Notifier delivers a reminder.
type Notifier interface {
	Notify(ctx context.Context, userID string, due int) error
}

// LogNotifier writes reminders to a logger.
type LogNotifier struct {
	Log *zap.Logger
}

// Notify logs the reminder.
func (n LogNotifier) Notify(_ context.Context, userID string, due int) error {
	logging.OrNop(n.Log).Info("reminder", zap.String("user", userID), zap.Int("due", due))
	return nil
}

// Scheduler runs the reminder scan on a fixed period.
type Scheduler struct {
	cron     *gocron.Scheduler
	source   Source
	notifier Notifier
	clock    clock.Clock
	cfg      config.ReminderConfig
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// New creates a reminder scheduler. log and m may be nil.
func New(src Source, n Notifier, clk clock.Clock, cfg config.ReminderConfig, log *zap.Logger, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		cron:     gocron.NewScheduler(time.UTC),
		source:   src,
		notifier: n,
		clock:    clk,
		cfg:      cfg,
		log:      logging.OrNop(log),
		metrics:  m,
	}
}

// Start schedules the scan every cfg.Every and starts the scheduler in the
// background. The scan stops when ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Every <= 0 {
		return fmt.Errorf("reminder period must be positive, got %s", s.cfg.Every)
	}
	_, err := s.cron.Every(s.cfg.Every).Do(func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Warn("reminder scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder scan: %w", err)
	}
	s.cron.StartAsync()
	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
	s.log.Info("reminder scan scheduled", zap.Duration("every", s.cfg.Every))
	return nil
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// InWindow reports whether hour falls within the notification hours.
func InWindow(hour int, cfg config.ReminderConfig) bool {
	if cfg.StartHour <= cfg.EndHour {
		return hour >= cfg.StartHour && hour <= cfg.EndHour
	}
	// Window wraps past midnight.
	return hour >= cfg.StartHour || hour <= cfg.EndHour
}

// RunOnce scans every user and notifies those with due items. It returns
// the number of reminders sent. Outside the notification hours nothing is
// sent.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	hour := s.clock.Now().UTC().Hour()
	if !InWindow(hour, s.cfg) {
		s.log.Debug("outside notification hours, skipping",
			zap.Int("hour", hour), zap.Int("start", s.cfg.StartHour), zap.Int("end", s.cfg.EndHour))
		return 0, nil
	}

	users, err := s.source.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	sent := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		due, err := s.source.DueCount(ctx, u)
		if err != nil {
			s.log.Warn("due count failed", zap.String("user", u), zap.Error(err))
			continue
		}
		if due == 0 {
			continue
		}
		if err := s.notifier.Notify(ctx, u, due); err != nil {
			s.log.Warn("reminder failed", zap.String("user", u), zap.Error(err))
			continue
		}
		s.metrics.ReminderSent()
		sent++
	}
	return sent, nil
}
