package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lexiz/internal/errs"
)

func (s *Store) SaveSessionSummary(ctx context.Context, sum SessionSummaryRecord) error {
	query, args := builder().Insert(tableSessionSummary).
		Columns(columnNames(sessionSummaryColumns)...).
		Values(sum.ID, sum.UserID, sum.StartedAt, sum.CompletedAt, sum.PlannedSeconds,
			sum.ReviewsDone, sum.ExercisesDone, sum.DialoguesDone, sum.ExercisesCorrect).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &errs.ErrStorage{Op: "save session summary", Err: err}
	}
	return nil
}

func (s *Store) RecentSessions(ctx context.Context, userID string, limit int) ([]SessionSummaryRecord, error) {
	sel := builder().
		Select(columnNames(sessionSummaryColumns)...).
		From(entsql.Table(tableSessionSummary)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows []SessionSummaryRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "load session summaries", Err: err}
	}
	for i := range rows {
		rows[i].StartedAt = rows[i].StartedAt.UTC()
		rows[i].CompletedAt = rows[i].CompletedAt.UTC()
	}
	return rows, nil
}
