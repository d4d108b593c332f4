package store

import (
	"context"
	"time"
)

// ReviewItemRecord is the persisted form of one learner's scheduling state
// for one vocabulary item. Enums are stored by name.
type ReviewItemRecord struct {
	UserID            string     `db:"user_id"`
	ItemID            string     `db:"item_id"`
	Source            string     `db:"source"`
	Translation       string     `db:"translation"`
	Level             string     `db:"level"`
	IntervalDays      int        `db:"interval_days"`
	Repetitions       int        `db:"repetitions"`
	EaseFactor        float64    `db:"ease_factor"`
	NextReviewAt      time.Time  `db:"next_review_at"`
	LastReviewedAt    *time.Time `db:"last_reviewed_at"`
	CorrectCount      int        `db:"correct_count"`
	IncorrectCount    int        `db:"incorrect_count"`
	AvgResponseTimeMs float64    `db:"avg_response_time_ms"`
	Tier              string     `db:"tier"`
	Version           int64      `db:"version"`
	CreatedAt         time.Time  `db:"created_at"`
}

// ReviewEventRecord is one accepted review, appended alongside the item
// update that it caused.
type ReviewEventRecord struct {
	Sequence       int64     `db:"sequence"`
	UserID         string    `db:"user_id"`
	ItemID         string    `db:"item_id"`
	Quality        int       `db:"quality"`
	ResponseTimeMs int       `db:"response_time_ms"`
	Correct        bool      `db:"correct"`
	IntervalDays   int       `db:"interval_days"`
	ReviewedAt     time.Time `db:"reviewed_at"`
}

// SkillProfileRecord is the persisted skill profile. Scores and focus
// areas are JSON-encoded.
type SkillProfileRecord struct {
	UserID         string    `db:"user_id"`
	Scores         string    `db:"scores"`
	EstimatedLevel string    `db:"estimated_level"`
	Confidence     float64   `db:"confidence"`
	FocusAreas     string    `db:"focus_areas"`
	UpdatedAt      time.Time `db:"updated_at"`
	Version        int64     `db:"version"`
}

// ExerciseResultRecord is one answered exercise.
type ExerciseResultRecord struct {
	Sequence   int64     `db:"sequence"`
	UserID     string    `db:"user_id"`
	ExerciseID string    `db:"exercise_id"`
	Skill      string    `db:"skill"`
	Correct    bool      `db:"correct"`
	Difficulty float64   `db:"difficulty"`
	AnsweredAt time.Time `db:"answered_at"`
}

// LevelResultRecord is one submitted level test.
type LevelResultRecord struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	TakenAt          time.Time `db:"taken_at"`
	OverallScore     float64   `db:"overall_score"`
	EstimatedLevel   string    `db:"estimated_level"`
	RecommendedLevel string    `db:"recommended_level"`
	Confidence       float64   `db:"confidence"`
	SkillScores      string    `db:"skill_scores"`
	FocusAreas       string    `db:"focus_areas"`
	Answered         int       `db:"answered"`
}

// SessionSummaryRecord is what remains of a session plan once completed.
type SessionSummaryRecord struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	StartedAt        time.Time `db:"started_at"`
	CompletedAt      time.Time `db:"completed_at"`
	PlannedSeconds   int       `db:"planned_seconds"`
	ReviewsDone      int       `db:"reviews_done"`
	ExercisesDone    int       `db:"exercises_done"`
	DialoguesDone    int       `db:"dialogues_done"`
	ExercisesCorrect int       `db:"exercises_correct"`
}

// ReviewRepo persists review items and the review event log.
type ReviewRepo interface {
	// LoadReviewItems returns every item of the user, ordered by item ID.
	LoadReviewItems(ctx context.Context, userID string) ([]ReviewItemRecord, error)

	// LoadReviewItem returns one item, or nil if the user has no such item.
	LoadReviewItem(ctx context.Context, userID, itemID string) (*ReviewItemRecord, error)

	// InsertReviewItems inserts items that do not exist yet and leaves
	// existing ones untouched. Returns the number inserted.
	InsertReviewItems(ctx context.Context, items []ReviewItemRecord) (int, error)

	// SaveReviewItems upserts items unconditionally, bumping each version.
	SaveReviewItems(ctx context.Context, items []ReviewItemRecord) error

	// SaveReviewItem writes item if its stored version still equals
	// item.Version and appends ev in the same transaction. On success
	// item.Version is incremented and ev.Sequence assigned. A version
	// mismatch returns *errs.ErrConflict.
	SaveReviewItem(ctx context.Context, item *ReviewItemRecord, ev *ReviewEventRecord) error

	// ReviewTimes returns the timestamps of the user's reviews at or after
	// since, oldest first.
	ReviewTimes(ctx context.Context, userID string, since time.Time) ([]time.Time, error)
}

// ProfileRepo persists skill profiles.
type ProfileRepo interface {
	// LoadSkillProfile returns the profile, or nil if the user has none.
	LoadSkillProfile(ctx context.Context, userID string) (*SkillProfileRecord, error)

	// SaveSkillProfile inserts the profile when p.Version is 0, otherwise
	// compare-and-swaps on p.Version. On success p.Version is incremented.
	SaveSkillProfile(ctx context.Context, p *SkillProfileRecord) error

	// ListUsers returns every user with a profile, sorted.
	ListUsers(ctx context.Context) ([]string, error)
}

// ExerciseRepo persists the exercise result log.
type ExerciseRepo interface {
	AppendExerciseResult(ctx context.Context, r *ExerciseResultRecord) error

	// RecentExerciseOutcomes returns, per skill, the outcomes of the user's
	// last n exercises of that skill, oldest first.
	RecentExerciseOutcomes(ctx context.Context, userID string, n int) (map[string][]bool, error)
}

// LevelRepo persists level test results.
type LevelRepo interface {
	SaveLevelResult(ctx context.Context, r LevelResultRecord) error

	// LatestLevelResult returns the most recent result, or nil if none.
	LatestLevelResult(ctx context.Context, userID string) (*LevelResultRecord, error)

	// LevelHistory returns up to limit results, newest first.
	LevelHistory(ctx context.Context, userID string, limit int) ([]LevelResultRecord, error)
}

// SessionRepo persists session completion summaries.
type SessionRepo interface {
	SaveSessionSummary(ctx context.Context, s SessionSummaryRecord) error
	RecentSessions(ctx context.Context, userID string, limit int) ([]SessionSummaryRecord, error)
}

// Repository is the full persistence contract.
type Repository interface {
	ReviewRepo
	ProfileRepo
	ExerciseRepo
	LevelRepo
	SessionRepo
	Close() error
}
