// Package config loads runtime configuration and the tuning tables that
// drive scheduling, classification, selection, estimation and session
// composition.
package config

import (
	"time"
)

// Config holds all lexiz configuration.
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Tuning   Tuning         `mapstructure:"tuning"`
}

// StoreConfig selects the database file. An empty Path resolves to the
// default data directory.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string `mapstructure:"level"` // debug, info, warn, error
	File       string `mapstructure:"file"`  // optional JSON log file
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MetricsConfig configures the prometheus endpoint served by `lexiz serve`.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ReminderConfig configures the periodic due-item scan.
type ReminderConfig struct {
	Every     time.Duration `mapstructure:"every"`
	StartHour int           `mapstructure:"start_hour"`
	EndHour   int           `mapstructure:"end_hour"`
}

// Tuning groups every table the engine's algorithms read.
type Tuning struct {
	Scheduler  SchedulerTuning  `mapstructure:"scheduler"`
	Classifier ClassifierTuning `mapstructure:"classifier"`
	Selector   SelectorTuning   `mapstructure:"selector"`
	Estimator  EstimatorTuning  `mapstructure:"estimator"`
	Session    SessionTuning    `mapstructure:"session"`
}

// SchedulerTuning holds the SM-2 parameters.
type SchedulerTuning struct {
	// Intervals are the allowed review intervals in days, ascending.
	Intervals    []int   `mapstructure:"intervals"`
	InitialEase  float64 `mapstructure:"initial_ease"`
	MinEase      float64 `mapstructure:"min_ease"`
	MaxEase      float64 `mapstructure:"max_ease"`
	LapsePenalty float64 `mapstructure:"lapse_penalty"`
	PassQuality  int     `mapstructure:"pass_quality"`

	// Multipliers scale the interval by difficulty tier, keyed by tier name.
	Multipliers map[string]float64 `mapstructure:"multipliers"`

	MasteredRepetitions int     `mapstructure:"mastered_repetitions"`
	MasteredEase        float64 `mapstructure:"mastered_ease"`

	// OverdueGrace is the fraction of an item's interval it may sit past
	// due before it counts as overdue in progress reports.
	OverdueGrace float64 `mapstructure:"overdue_grace"`
}

// ClassifierTuning holds the difficulty tier thresholds.
type ClassifierTuning struct {
	MinAttempts    int     `mapstructure:"min_attempts"`
	EasyAccuracy   float64 `mapstructure:"easy_accuracy"`
	EasyMaxMs      float64 `mapstructure:"easy_max_ms"`
	MediumAccuracy float64 `mapstructure:"medium_accuracy"`
	MediumMaxMs    float64 `mapstructure:"medium_max_ms"`
	HardAccuracy   float64 `mapstructure:"hard_accuracy"`
}

// SelectorTuning holds the adaptive difficulty controller parameters.
type SelectorTuning struct {
	TargetAccuracy float64 `mapstructure:"target_accuracy"`
	Band           float64 `mapstructure:"band"`
	Step           float64 `mapstructure:"step"`
	MinDifficulty  float64 `mapstructure:"min_difficulty"`
	MaxDifficulty  float64 `mapstructure:"max_difficulty"`
	Window         int     `mapstructure:"window"`
}

// BandTuning maps a score range to a CEFR level.
type BandTuning struct {
	Level string  `mapstructure:"level"`
	Min   float64 `mapstructure:"min"`
	Max   float64 `mapstructure:"max"`
}

// EstimatorTuning holds the level estimator tables.
type EstimatorTuning struct {
	// Weights are keyed by lowercase level name ("a1".."c2").
	Weights             map[string]float64 `mapstructure:"weights"`
	Bands               []BandTuning       `mapstructure:"bands"`
	ConfidenceFloor     float64            `mapstructure:"confidence_floor"`
	ConfidenceSpread    float64            `mapstructure:"confidence_spread"`
	ConfidenceThreshold float64            `mapstructure:"confidence_threshold"`
	FocusThreshold      float64            `mapstructure:"focus_threshold"`
	RetestMonths        int                `mapstructure:"retest_months"`
}

// SessionTuning holds the session composer and profile parameters.
type SessionTuning struct {
	ReviewSeconds   int `mapstructure:"review_seconds"`
	DialogueSeconds int `mapstructure:"dialogue_seconds"`
	MaxDialogues    int `mapstructure:"max_dialogues"`
	MaxReviews      int `mapstructure:"max_reviews"`

	ProfileWeight   float64 `mapstructure:"profile_weight"`
	WeakThreshold   float64 `mapstructure:"weak_threshold"`
	StrongThreshold float64 `mapstructure:"strong_threshold"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Metrics: MetricsConfig{Addr: ":9464"},
		Reminder: ReminderConfig{
			Every:     time.Hour,
			StartHour: 8,
			EndHour:   21,
		},
		Tuning: DefaultTuning(),
	}
}

// DefaultTuning returns the standard SM-2 and CEFR tables.
func DefaultTuning() Tuning {
	return Tuning{
		Scheduler: SchedulerTuning{
			Intervals:    []int{1, 3, 7, 14, 30, 90, 180, 365},
			InitialEase:  2.5,
			MinEase:      1.3,
			MaxEase:      3.0,
			LapsePenalty: 0.1,
			PassQuality:  3,
			Multipliers: map[string]float64{
				"easy":      1.3,
				"medium":    1.0,
				"hard":      0.7,
				"very_hard": 0.5,
			},
			MasteredRepetitions: 5,
			MasteredEase:        2.5,
			OverdueGrace:        0.5,
		},
		Classifier: ClassifierTuning{
			MinAttempts:    3,
			EasyAccuracy:   0.9,
			EasyMaxMs:      3000,
			MediumAccuracy: 0.7,
			MediumMaxMs:    5000,
			HardAccuracy:   0.5,
		},
		Selector: SelectorTuning{
			TargetAccuracy: 0.75,
			Band:           0.1,
			Step:           0.1,
			MinDifficulty:  0.1,
			MaxDifficulty:  1.0,
			Window:         10,
		},
		Estimator: EstimatorTuning{
			Weights: map[string]float64{
				"a1": 1.0,
				"a2": 1.2,
				"b1": 1.5,
				"b2": 2.0,
				"c1": 2.5,
				"c2": 3.0,
			},
			Bands: []BandTuning{
				{Level: "A1", Min: 0, Max: 30},
				{Level: "A2", Min: 31, Max: 50},
				{Level: "B1", Min: 51, Max: 70},
				{Level: "B2", Min: 71, Max: 85},
				{Level: "C1", Min: 86, Max: 95},
				{Level: "C2", Min: 96, Max: 100},
			},
			ConfidenceFloor:     0.3,
			ConfidenceSpread:    0.4,
			ConfidenceThreshold: 0.7,
			FocusThreshold:      60,
			RetestMonths:        6,
		},
		Session: SessionTuning{
			ReviewSeconds:   15,
			DialogueSeconds: 120,
			MaxDialogues:    2,
			MaxReviews:      50,
			ProfileWeight:   0.1,
			WeakThreshold:   60,
			StrongThreshold: 80,
		},
	}
}
