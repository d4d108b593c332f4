package srs

import "time"

const dayLayout = "2006-01-02"

// StreakDays counts consecutive UTC days with at least one review, ending
// today. A streak that ended yesterday is still live until today ends.
func StreakDays(reviews []time.Time, now time.Time) int {
	days := make(map[string]bool, len(reviews))
	for _, t := range reviews {
		days[t.UTC().Format(dayLayout)] = true
	}

	day := now.UTC()
	if !days[day.Format(dayLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format(dayLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
