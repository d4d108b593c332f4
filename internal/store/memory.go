package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/lexiz/internal/errs"
)

// Memory is an in-process Repository with the same semantics as Store.
// Records are copied on the way in and out.
type Memory struct {
	mu       sync.RWMutex
	items    map[string]map[string]ReviewItemRecord // user -> item -> record
	events   []ReviewEventRecord
	profiles map[string]SkillProfileRecord
	results  []ExerciseResultRecord
	levels   []LevelResultRecord
	sessions []SessionSummaryRecord
	seq      int64
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		items:    make(map[string]map[string]ReviewItemRecord),
		profiles: make(map[string]SkillProfileRecord),
	}
}

func copyItem(r ReviewItemRecord) ReviewItemRecord {
	if r.LastReviewedAt != nil {
		t := *r.LastReviewedAt
		r.LastReviewedAt = &t
	}
	return r
}

func (m *Memory) LoadReviewItems(ctx context.Context, userID string) ([]ReviewItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "load review items", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ReviewItemRecord, 0, len(m.items[userID]))
	for _, r := range m.items[userID] {
		out = append(out, copyItem(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (m *Memory) LoadReviewItem(ctx context.Context, userID, itemID string) (*ReviewItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "load review item", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.items[userID][itemID]
	if !ok {
		return nil, nil
	}
	r = copyItem(r)
	return &r, nil
}

func (m *Memory) InsertReviewItems(ctx context.Context, items []ReviewItemRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &errs.ErrStorage{Op: "insert review items", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range items {
		userItems := m.items[r.UserID]
		if userItems == nil {
			userItems = make(map[string]ReviewItemRecord)
			m.items[r.UserID] = userItems
		}
		if _, ok := userItems[r.ItemID]; ok {
			continue
		}
		userItems[r.ItemID] = copyItem(r)
		n++
	}
	return n, nil
}

func (m *Memory) SaveReviewItems(ctx context.Context, items []ReviewItemRecord) error {
	if err := ctx.Err(); err != nil {
		return &errs.ErrStorage{Op: "save review items", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range items {
		userItems := m.items[r.UserID]
		if userItems == nil {
			userItems = make(map[string]ReviewItemRecord)
			m.items[r.UserID] = userItems
		}
		r = copyItem(r)
		r.Version++
		userItems[r.ItemID] = r
	}
	return nil
}

func (m *Memory) SaveReviewItem(ctx context.Context, item *ReviewItemRecord, ev *ReviewEventRecord) error {
	if err := ctx.Err(); err != nil {
		return &errs.ErrStorage{Op: "save review item", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[item.UserID][item.ItemID]
	if !ok || stored.Version != item.Version {
		return &errs.ErrConflict{UserID: item.UserID, ItemID: item.ItemID}
	}

	next := copyItem(*item)
	next.Version++
	next.Source, next.Translation, next.Level = stored.Source, stored.Translation, stored.Level
	next.CreatedAt = stored.CreatedAt
	m.items[item.UserID][item.ItemID] = next

	m.seq++
	event := *ev
	event.Sequence = m.seq
	m.events = append(m.events, event)

	item.Version++
	ev.Sequence = m.seq
	return nil
}

func (m *Memory) ReviewTimes(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "load review times", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []time.Time
	for _, ev := range m.events {
		if ev.UserID == userID && !ev.ReviewedAt.Before(since) {
			out = append(out, ev.ReviewedAt)
		}
	}
	return out, nil
}

func (m *Memory) LoadSkillProfile(ctx context.Context, userID string) (*SkillProfileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "load skill profile", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) SaveSkillProfile(ctx context.Context, p *SkillProfileRecord) error {
	if err := ctx.Err(); err != nil {
		return &errs.ErrStorage{Op: "save skill profile", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.profiles[p.UserID]
	switch {
	case p.Version == 0 && exists:
		return &errs.ErrConflict{UserID: p.UserID, ItemID: "profile"}
	case p.Version != 0 && (!exists || stored.Version != p.Version):
		return &errs.ErrConflict{UserID: p.UserID, ItemID: "profile"}
	}
	next := *p
	next.Version++
	m.profiles[p.UserID] = next
	p.Version++
	return nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "list users", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]string, 0, len(m.profiles))
	for u := range m.profiles {
		users = append(users, u)
	}
	sort.Strings(users)
	return users, nil
}

func (m *Memory) AppendExerciseResult(ctx context.Context, r *ExerciseResultRecord) error {
	if err := ctx.Err(); err != nil {
		return &errs.ErrStorage{Op: "append exercise result", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	rec := *r
	rec.Sequence = m.seq
	m.results = append(m.results, rec)
	r.Sequence = m.seq
	return nil
}

func (m *Memory) RecentExerciseOutcomes(ctx context.Context, userID string, n int) (map[string][]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "load exercise outcomes", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	newestFirst := make(map[string][]bool)
	for i := len(m.results) - 1; i >= 0; i-- {
		r := m.results[i]
		if r.UserID != userID {
			continue
		}
		if n > 0 && len(newestFirst[r.Skill]) >= n {
			continue
		}
		newestFirst[r.Skill] = append(newestFirst[r.Skill], r.Correct)
	}
	out := make(map[string][]bool, len(newestFirst))
	for skill, outcomes := range newestFirst {
		out[skill] = reversed(outcomes)
	}
	return out, nil
}

func (m *Memory) SaveLevelResult(ctx context.Context, r LevelResultRecord) error {
	if err := ctx.Err(); err != nil {
		return &errs.ErrStorage{Op: "save level result", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = append(m.levels, r)
	return nil
}

func (m *Memory) LatestLevelResult(ctx context.Context, userID string) (*LevelResultRecord, error) {
	history, err := m.LevelHistory(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	return &history[0], nil
}

func (m *Memory) LevelHistory(ctx context.Context, userID string, limit int) ([]LevelResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "load level results", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []LevelResultRecord
	for _, r := range m.levels {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SaveSessionSummary(ctx context.Context, s SessionSummaryRecord) error {
	if err := ctx.Err(); err != nil {
		return &errs.ErrStorage{Op: "save session summary", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *Memory) RecentSessions(ctx context.Context, userID string, limit int) ([]SessionSummaryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "load session summaries", Err: err}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []SessionSummaryRecord
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
