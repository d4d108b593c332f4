// Package metrics defines the prometheus collectors exported by the engine.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's collectors.
type Metrics struct {
	Reviews         *prometheus.CounterVec
	ReviewLatency   prometheus.Histogram
	Sessions        prometheus.Counter
	SessionSeconds  prometheus.Histogram
	Exercises       *prometheus.CounterVec
	LevelTests      *prometheus.CounterVec
	DegradedReads   prometheus.Counter
	ConflictRetries prometheus.Counter
	Reminders       prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexiz",
			Name:      "reviews_total",
			Help:      "Reviews recorded, by outcome.",
		}, []string{"outcome"}),
		ReviewLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexiz",
			Name:      "review_record_duration_seconds",
			Help:      "Time spent persisting a review.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lexiz",
			Name:      "sessions_generated_total",
			Help:      "Session plans generated.",
		}),
		SessionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexiz",
			Name:      "session_estimated_seconds",
			Help:      "Estimated length of generated sessions.",
			Buckets:   []float64{60, 300, 600, 900, 1200, 1800, 3600},
		}),
		Exercises: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexiz",
			Name:      "exercise_results_total",
			Help:      "Exercise results recorded, by skill and outcome.",
		}, []string{"skill", "outcome"}),
		LevelTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexiz",
			Name:      "level_tests_total",
			Help:      "Level tests submitted, by estimated level.",
		}, []string{"level"}),
		DegradedReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lexiz",
			Name:      "degraded_reads_total",
			Help:      "Reads served from the cached snapshot after a storage failure.",
		}),
		ConflictRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lexiz",
			Name:      "conflict_retries_total",
			Help:      "Optimistic concurrency conflicts retried.",
		}),
		Reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lexiz",
			Name:      "reminders_sent_total",
			Help:      "Due-item reminders sent.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Reviews, m.ReviewLatency, m.Sessions, m.SessionSeconds,
			m.Exercises, m.LevelTests, m.DegradedReads, m.ConflictRetries,
			m.Reminders,
		)
	}
	return m
}

func outcome(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

// ObserveReview counts a review and how long it took to persist.
func (m *Metrics) ObserveReview(correct bool, d time.Duration) {
	if m == nil {
		return
	}
	m.Reviews.WithLabelValues(outcome(correct)).Inc()
	m.ReviewLatency.Observe(d.Seconds())
}

// ObserveSession counts a generated session plan.
func (m *Metrics) ObserveSession(estimatedSeconds int) {
	if m == nil {
		return
	}
	m.Sessions.Inc()
	m.SessionSeconds.Observe(float64(estimatedSeconds))
}

// ObserveExercise counts an exercise result.
func (m *Metrics) ObserveExercise(skill string, correct bool) {
	if m == nil {
		return
	}
	m.Exercises.WithLabelValues(skill, outcome(correct)).Inc()
}

// ObserveLevelTest counts a submitted level test.
func (m *Metrics) ObserveLevelTest(level string) {
	if m == nil {
		return
	}
	m.LevelTests.WithLabelValues(level).Inc()
}

// DegradedRead counts a read served from cache.
func (m *Metrics) DegradedRead() {
	if m == nil {
		return
	}
	m.DegradedReads.Inc()
}

// ConflictRetried counts a retried version conflict.
func (m *Metrics) ConflictRetried() {
	if m == nil {
		return
	}
	m.ConflictRetries.Inc()
}

// ReminderSent counts a delivered reminder.
func (m *Metrics) ReminderSent() {
	if m == nil {
		return
	}
	m.Reminders.Inc()
}
