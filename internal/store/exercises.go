package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lexiz/internal/errs"
)

func (s *Store) AppendExerciseResult(ctx context.Context, r *ExerciseResultRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &errs.ErrStorage{Op: "append exercise result", Err: err}
	}
	defer tx.Rollback()

	seq, err := s.seq.Next(ctx, tx)
	if err != nil {
		return &errs.ErrStorage{Op: "append exercise result", Err: err}
	}
	query, args := builder().Insert(tableExerciseResults).
		Columns(columnNames(exerciseResultColumns)...).
		Values(seq, r.UserID, r.ExerciseID, r.Skill, r.Correct, r.Difficulty, r.AnsweredAt).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return &errs.ErrStorage{Op: "append exercise result", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &errs.ErrStorage{Op: "append exercise result", Err: err}
	}
	r.Sequence = seq
	return nil
}

func (s *Store) RecentExerciseOutcomes(ctx context.Context, userID string, n int) (map[string][]bool, error) {
	query, args := builder().
		Select("skill", "correct").
		From(entsql.Table(tableExerciseResults)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence")).
		Query()

	var rows []struct {
		Skill   string `db:"skill"`
		Correct bool   `db:"correct"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "load exercise outcomes", Err: err}
	}

	newestFirst := make(map[string][]bool)
	for _, row := range rows {
		if n > 0 && len(newestFirst[row.Skill]) >= n {
			continue
		}
		newestFirst[row.Skill] = append(newestFirst[row.Skill], row.Correct)
	}
	out := make(map[string][]bool, len(newestFirst))
	for skill, outcomes := range newestFirst {
		out[skill] = reversed(outcomes)
	}
	return out, nil
}

func reversed(in []bool) []bool {
	out := make([]bool, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
