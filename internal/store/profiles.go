package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lexiz/internal/errs"
)

func (s *Store) LoadSkillProfile(ctx context.Context, userID string) (*SkillProfileRecord, error) {
	query, args := builder().
		Select(columnNames(skillProfileColumns)...).
		From(entsql.Table(tableSkillProfiles)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var rows []SkillProfileRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "load skill profile", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := rows[0]
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *Store) SaveSkillProfile(ctx context.Context, p *SkillProfileRecord) error {
	var query string
	var args []any
	if p.Version == 0 {
		query, args = builder().Insert(tableSkillProfiles).
			Columns(columnNames(skillProfileColumns)...).
			Values(p.UserID, p.Scores, p.EstimatedLevel, p.Confidence, p.FocusAreas, p.UpdatedAt, int64(1)).
			OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()).
			Query()
	} else {
		query, args = builder().Update(tableSkillProfiles).
			Set("scores", p.Scores).
			Set("estimated_level", p.EstimatedLevel).
			Set("confidence", p.Confidence).
			Set("focus_areas", p.FocusAreas).
			Set("updated_at", p.UpdatedAt).
			Set("version", p.Version+1).
			Where(entsql.And(
				entsql.EQ("user_id", p.UserID),
				entsql.EQ("version", p.Version),
			)).
			Query()
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &errs.ErrStorage{Op: "save skill profile", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &errs.ErrStorage{Op: "save skill profile", Err: err}
	}
	if n == 0 {
		return &errs.ErrConflict{UserID: p.UserID, ItemID: "profile"}
	}
	p.Version++
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]string, error) {
	query, args := builder().
		Select("user_id").
		From(entsql.Table(tableSkillProfiles)).
		OrderBy("user_id").
		Query()

	var users []string
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "list users", Err: err}
	}
	return users, nil
}
