package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lexiz/internal/errs"
)

// insertBatch bounds rows per INSERT to stay under SQLite's variable limit.
const insertBatch = 200

func reviewItemValues(r ReviewItemRecord) []any {
	return []any{
		r.UserID, r.ItemID, r.Source, r.Translation, r.Level,
		r.IntervalDays, r.Repetitions, r.EaseFactor,
		r.NextReviewAt, r.LastReviewedAt,
		r.CorrectCount, r.IncorrectCount, r.AvgResponseTimeMs,
		r.Tier, r.Version, r.CreatedAt,
	}
}

func (s *Store) LoadReviewItems(ctx context.Context, userID string) ([]ReviewItemRecord, error) {
	query, args := builder().
		Select(columnNames(reviewItemColumns)...).
		From(entsql.Table(tableReviewItems)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("item_id").
		Query()

	var rows []ReviewItemRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "load review items", Err: err}
	}
	for i := range rows {
		normalizeItem(&rows[i])
	}
	return rows, nil
}

func (s *Store) LoadReviewItem(ctx context.Context, userID, itemID string) (*ReviewItemRecord, error) {
	query, args := builder().
		Select(columnNames(reviewItemColumns)...).
		From(entsql.Table(tableReviewItems)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("item_id", itemID),
		)).
		Query()

	var rows []ReviewItemRecord
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "load review item", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	normalizeItem(&rows[0])
	return &rows[0], nil
}

func (s *Store) InsertReviewItems(ctx context.Context, items []ReviewItemRecord) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, &errs.ErrStorage{Op: "insert review items", Err: err}
	}
	defer tx.Rollback()

	inserted := 0
	for start := 0; start < len(items); start += insertBatch {
		end := min(start+insertBatch, len(items))
		ins := builder().Insert(tableReviewItems).Columns(columnNames(reviewItemColumns)...)
		for _, it := range items[start:end] {
			ins.Values(reviewItemValues(it)...)
		}
		query, args := ins.OnConflict(
			entsql.ConflictColumns("user_id", "item_id"),
			entsql.DoNothing(),
		).Query()

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, &errs.ErrStorage{Op: "insert review items", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &errs.ErrStorage{Op: "insert review items", Err: err}
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, &errs.ErrStorage{Op: "insert review items", Err: err}
	}
	return inserted, nil
}

func (s *Store) SaveReviewItems(ctx context.Context, items []ReviewItemRecord) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &errs.ErrStorage{Op: "save review items", Err: err}
	}
	defer tx.Rollback()

	for start := 0; start < len(items); start += insertBatch {
		end := min(start+insertBatch, len(items))
		ins := builder().Insert(tableReviewItems).Columns(columnNames(reviewItemColumns)...)
		for _, it := range items[start:end] {
			it.Version++
			ins.Values(reviewItemValues(it)...)
		}
		query, args := ins.OnConflict(
			entsql.ConflictColumns("user_id", "item_id"),
			entsql.ResolveWithNewValues(),
		).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return &errs.ErrStorage{Op: "save review items", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &errs.ErrStorage{Op: "save review items", Err: err}
	}
	return nil
}

func (s *Store) SaveReviewItem(ctx context.Context, item *ReviewItemRecord, ev *ReviewEventRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &errs.ErrStorage{Op: "save review item", Err: err}
	}
	defer tx.Rollback()

	query, args := builder().Update(tableReviewItems).
		Set("interval_days", item.IntervalDays).
		Set("repetitions", item.Repetitions).
		Set("ease_factor", item.EaseFactor).
		Set("next_review_at", item.NextReviewAt).
		Set("last_reviewed_at", item.LastReviewedAt).
		Set("correct_count", item.CorrectCount).
		Set("incorrect_count", item.IncorrectCount).
		Set("avg_response_time_ms", item.AvgResponseTimeMs).
		Set("tier", item.Tier).
		Set("version", item.Version+1).
		Where(entsql.And(
			entsql.EQ("user_id", item.UserID),
			entsql.EQ("item_id", item.ItemID),
			entsql.EQ("version", item.Version),
		)).
		Query()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return &errs.ErrStorage{Op: "save review item", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &errs.ErrStorage{Op: "save review item", Err: err}
	}
	if n == 0 {
		return &errs.ErrConflict{UserID: item.UserID, ItemID: item.ItemID}
	}

	seq, err := s.seq.Next(ctx, tx)
	if err != nil {
		return &errs.ErrStorage{Op: "save review item", Err: err}
	}
	event := *ev
	event.Sequence = seq
	query, args = builder().Insert(tableReviewEvents).
		Columns(columnNames(reviewEventColumns)...).
		Values(event.Sequence, event.UserID, event.ItemID, event.Quality,
			event.ResponseTimeMs, event.Correct, event.IntervalDays, event.ReviewedAt).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return &errs.ErrStorage{Op: "append review event", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &errs.ErrStorage{Op: "save review item", Err: err}
	}
	item.Version++
	ev.Sequence = seq
	return nil
}

func (s *Store) ReviewTimes(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	query, args := builder().
		Select("reviewed_at").
		From(entsql.Table(tableReviewEvents)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("sequence").
		Query()

	var all []time.Time
	if err := s.db.SelectContext(ctx, &all, query, args...); err != nil {
		return nil, &errs.ErrStorage{Op: "load review times", Err: err}
	}
	out := make([]time.Time, 0, len(all))
	for _, t := range all {
		if !t.Before(since) {
			out = append(out, t.UTC())
		}
	}
	return out, nil
}

// normalizeItem puts scanned times back in UTC.
func normalizeItem(r *ReviewItemRecord) {
	r.NextReviewAt = r.NextReviewAt.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	if r.LastReviewedAt != nil {
		t := r.LastReviewedAt.UTC()
		r.LastReviewedAt = &t
	}
}
