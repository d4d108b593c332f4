package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableReviewItems     = "review_items"
	tableReviewEvents    = "review_events"
	tableSkillProfiles   = "skill_profiles"
	tableExerciseResults = "exercise_results"
	tableLevelResults    = "level_results"
	tableSessionSummary  = "session_summaries"
)

var (
	reviewItemColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "translation", Type: field.TypeString},
		{Name: "level", Type: field.TypeString},
		{Name: "interval_days", Type: field.TypeInt},
		{Name: "repetitions", Type: field.TypeInt},
		{Name: "ease_factor", Type: field.TypeFloat64},
		{Name: "next_review_at", Type: field.TypeTime},
		{Name: "last_reviewed_at", Type: field.TypeTime, Nullable: true},
		{Name: "correct_count", Type: field.TypeInt},
		{Name: "incorrect_count", Type: field.TypeInt},
		{Name: "avg_response_time_ms", Type: field.TypeFloat64},
		{Name: "tier", Type: field.TypeString},
		{Name: "version", Type: field.TypeInt64},
		{Name: "created_at", Type: field.TypeTime},
	}
	reviewItemsTable = &schema.Table{
		Name:       tableReviewItems,
		Columns:    reviewItemColumns,
		PrimaryKey: []*schema.Column{reviewItemColumns[0], reviewItemColumns[1]},
		Indexes: []*schema.Index{
			{Name: "reviewitem_user_id_next_review_at", Columns: []*schema.Column{reviewItemColumns[0], reviewItemColumns[8]}},
		},
	}

	reviewEventColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "user_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "quality", Type: field.TypeInt},
		{Name: "response_time_ms", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeBool},
		{Name: "interval_days", Type: field.TypeInt},
		{Name: "reviewed_at", Type: field.TypeTime},
	}
	reviewEventsTable = &schema.Table{
		Name:       tableReviewEvents,
		Columns:    reviewEventColumns,
		PrimaryKey: []*schema.Column{reviewEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "reviewevent_user_id_reviewed_at", Columns: []*schema.Column{reviewEventColumns[1], reviewEventColumns[7]}},
		},
	}

	skillProfileColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "scores", Type: field.TypeString},
		{Name: "estimated_level", Type: field.TypeString},
		{Name: "confidence", Type: field.TypeFloat64},
		{Name: "focus_areas", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "version", Type: field.TypeInt64},
	}
	skillProfilesTable = &schema.Table{
		Name:       tableSkillProfiles,
		Columns:    skillProfileColumns,
		PrimaryKey: []*schema.Column{skillProfileColumns[0]},
	}

	exerciseResultColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "user_id", Type: field.TypeString},
		{Name: "exercise_id", Type: field.TypeString},
		{Name: "skill", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "difficulty", Type: field.TypeFloat64},
		{Name: "answered_at", Type: field.TypeTime},
	}
	exerciseResultsTable = &schema.Table{
		Name:       tableExerciseResults,
		Columns:    exerciseResultColumns,
		PrimaryKey: []*schema.Column{exerciseResultColumns[0]},
		Indexes: []*schema.Index{
			{Name: "exerciseresult_user_id_skill", Columns: []*schema.Column{exerciseResultColumns[1], exerciseResultColumns[3]}},
		},
	}

	levelResultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "taken_at", Type: field.TypeTime},
		{Name: "overall_score", Type: field.TypeFloat64},
		{Name: "estimated_level", Type: field.TypeString},
		{Name: "recommended_level", Type: field.TypeString},
		{Name: "confidence", Type: field.TypeFloat64},
		{Name: "skill_scores", Type: field.TypeString},
		{Name: "focus_areas", Type: field.TypeString},
		{Name: "answered", Type: field.TypeInt},
	}
	levelResultsTable = &schema.Table{
		Name:       tableLevelResults,
		Columns:    levelResultColumns,
		PrimaryKey: []*schema.Column{levelResultColumns[0]},
		Indexes: []*schema.Index{
			{Name: "levelresult_user_id", Columns: []*schema.Column{levelResultColumns[1]}},
		},
	}

	sessionSummaryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime},
		{Name: "planned_seconds", Type: field.TypeInt},
		{Name: "reviews_done", Type: field.TypeInt},
		{Name: "exercises_done", Type: field.TypeInt},
		{Name: "dialogues_done", Type: field.TypeInt},
		{Name: "exercises_correct", Type: field.TypeInt},
	}
	sessionSummariesTable = &schema.Table{
		Name:       tableSessionSummary,
		Columns:    sessionSummaryColumns,
		PrimaryKey: []*schema.Column{sessionSummaryColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionsummary_user_id_completed_at", Columns: []*schema.Column{sessionSummaryColumns[1], sessionSummaryColumns[3]}},
		},
	}

	// Tables holds every table managed by migration.
	Tables = []*schema.Table{
		reviewItemsTable,
		reviewEventsTable,
		skillProfilesTable,
		exerciseResultsTable,
		levelResultsTable,
		sessionSummariesTable,
	}
)

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
