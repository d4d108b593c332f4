package srs

import (
	"sort"
	"time"

	"github.com/abhisek/lexiz/internal/config"
)

// SortDue orders items most urgent first: longest overdue, then harder
// tier, then lower ease factor, then item ID.
func SortDue(items []ReviewItem, now time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if oa, ob := a.Overdue(now), b.Overdue(now); oa != ob {
			return oa > ob
		}
		if a.Tier != b.Tier {
			return a.Tier.Rank() > b.Tier.Rank()
		}
		if a.EaseFactor != b.EaseFactor {
			return a.EaseFactor < b.EaseFactor
		}
		return a.ItemID < b.ItemID
	})
}

// SelectDue returns the due, unmastered items in urgency order, at most
// limit of them (limit <= 0 means all). The input is not modified.
func SelectDue(items []ReviewItem, now time.Time, limit int, cfg config.SchedulerTuning) []ReviewItem {
	due := make([]ReviewItem, 0)
	for _, it := range items {
		if it.IsDue(now) && !it.IsMastered(cfg) {
			due = append(due, it.Clone())
		}
	}
	SortDue(due, now)
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}
