package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lexiz/internal/errs"
)

func (s *Store) SaveLevelResult(ctx context.Context, r LevelResultRecord) error {
	query, args := builder().Insert(tableLevelResults).
		Columns(columnNames(levelResultColumns)...).
		Values(r.ID, r.UserID, r.TakenAt, r.OverallScore, r.EstimatedLevel,
			r.RecommendedLevel, r.Confidence, r.SkillScores, r.FocusAreas, r.Answered).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &errs.ErrStorage{Op: "save level result", Err: err}
	}
	return nil
}

func (s *Store) LatestLevelResult(ctx context.Context, userID string) (*LevelResultRecord, error) {
	history, err := s.LevelHistory(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	return &history[0], nil
}

// LevelHistory orders by ID; result IDs are ULIDs and sort by creation time.
func (s *Store) LevelHistory(ctx context.Context, userID string, limit int) ([]LevelResultRecord, error) {
	sel := builder().
		Select(columnNames(levelResultColumns)...).
		From(entsql.Table(tableLevelResults)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows []LevelResultRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "load level results", Err: err}
	}
	for i := range rows {
		rows[i].TakenAt = rows[i].TakenAt.UTC()
	}
	return rows, nil
}
