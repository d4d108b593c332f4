package srs

import (
	"math"
	"testing"
	"time"

	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/difficulty"
)

var now0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func freshItem() ReviewItem {
	return ReviewItem{
		UserID:       "u1",
		ItemID:       "a1-house",
		IntervalDays: 1,
		EaseFactor:   2.5,
		NextReviewAt: now0,
		Tier:         difficulty.Medium,
		CreatedAt:    now0,
	}
}

func TestSnap(t *testing.T) {
	buckets := config.DefaultTuning().Scheduler.Intervals
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 3}, {3, 3}, {4, 7}, {8, 14}, {15, 30},
		{31, 90}, {91, 180}, {181, 365}, {365, 365}, {1000, 365},
	}
	for _, tt := range tests {
		if got := Snap(tt.in, buckets); got != tt.want {
			t.Errorf("Snap(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFreshItemPerfectThenLapse(t *testing.T) {
	tuning := config.DefaultTuning()

	it := ApplyReview(freshItem(), QualityPerfect, 1500, now0, tuning)
	if it.Repetitions != 1 || it.IntervalDays != 3 || !approx(it.EaseFactor, 2.6) {
		t.Fatalf("after q5: reps=%d interval=%d ease=%v, want 1, 3, 2.6", it.Repetitions, it.IntervalDays, it.EaseFactor)
	}
	if want := now0.AddDate(0, 0, 3); !it.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", it.NextReviewAt, want)
	}
	if it.LastReviewedAt == nil || !it.LastReviewedAt.Equal(now0) {
		t.Errorf("LastReviewedAt = %v, want %v", it.LastReviewedAt, now0)
	}

	later := now0.AddDate(0, 0, 3)
	it = ApplyReview(it, QualityIncorrectFamiliar, 4000, later, tuning)
	if it.Repetitions != 0 || it.IntervalDays != 1 || !approx(it.EaseFactor, 2.5) {
		t.Fatalf("after q2: reps=%d interval=%d ease=%v, want 0, 1, 2.5", it.Repetitions, it.IntervalDays, it.EaseFactor)
	}
	if it.CorrectCount != 1 || it.IncorrectCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", it.CorrectCount, it.IncorrectCount)
	}
	if !approx(it.AvgResponseTimeMs, 2750) {
		t.Errorf("AvgResponseTimeMs = %v, want 2750", it.AvgResponseTimeMs)
	}
}

func TestPassingReviewsNeverLowerEase(t *testing.T) {
	tuning := config.DefaultTuning()
	for q := QualityCorrectDifficult; q <= QualityPerfect; q++ {
		for _, ease := range []float64{1.3, 1.9, 2.5, 2.95, 3.0} {
			it := freshItem()
			it.EaseFactor = ease
			it.Repetitions = 3
			it.IntervalDays = 7
			got := ApplyReview(it, q, 1000, now0, tuning)
			if got.Repetitions != it.Repetitions+1 {
				t.Errorf("q=%d: repetitions = %d, want %d", q, got.Repetitions, it.Repetitions+1)
			}
			if got.EaseFactor < ease {
				t.Errorf("q=%d ease=%v: ease decreased to %v", q, ease, got.EaseFactor)
			}
			if got.EaseFactor > tuning.Scheduler.MaxEase {
				t.Errorf("q=%d: ease %v above max", q, got.EaseFactor)
			}
		}
	}
}

func TestFailingReviewsResetAndPenalize(t *testing.T) {
	tuning := config.DefaultTuning()
	for q := QualityBlackout; q < QualityCorrectDifficult; q++ {
		for _, ease := range []float64{1.3, 1.35, 2.0, 3.0} {
			it := freshItem()
			it.EaseFactor = ease
			it.Repetitions = 4
			it.IntervalDays = 30
			got := ApplyReview(it, q, 1000, now0, tuning)
			if got.Repetitions != 0 {
				t.Errorf("q=%d: repetitions = %d, want 0", q, got.Repetitions)
			}
			want := math.Max(1.3, ease-0.1)
			if !approx(got.EaseFactor, want) {
				t.Errorf("q=%d ease=%v: got %v, want %v", q, ease, got.EaseFactor, want)
			}
			if got.IntervalDays != 1 {
				t.Errorf("q=%d: interval = %d, want 1", q, got.IntervalDays)
			}
		}
	}
}

func TestIntervalScalesByTier(t *testing.T) {
	tuning := config.DefaultTuning()
	tests := []struct {
		tier difficulty.Tier
		want int
	}{
		{difficulty.Easy, 14},    // 3 * 2.7 * 1.3 = 10.53 -> 11 -> 14
		{difficulty.Medium, 14},  // 3 * 2.7 = 8.1 -> 8 -> 14
		{difficulty.Hard, 7},     // 3 * 2.7 * 0.7 = 5.67 -> 6 -> 7
		{difficulty.VeryHard, 7}, // 3 * 2.7 * 0.5 = 4.05 -> 4 -> 7
	}
	for _, tt := range tests {
		it := freshItem()
		it.Tier = tt.tier
		it.Repetitions = 1
		it.IntervalDays = 3
		it.EaseFactor = 2.6
		got := ApplyReview(it, QualityPerfect, 1000, now0, tuning)
		if got.IntervalDays != tt.want {
			t.Errorf("%v: interval = %d, want %d", tt.tier, got.IntervalDays, tt.want)
		}
	}
}

func TestIntervalUsesTierBeforeReclassification(t *testing.T) {
	tuning := config.DefaultTuning()
	it := freshItem()
	it.Tier = difficulty.VeryHard
	it.Repetitions = 1
	it.IntervalDays = 3
	it.EaseFactor = 2.6
	it.CorrectCount = 9
	it.AvgResponseTimeMs = 1000

	got := ApplyReview(it, QualityPerfect, 1000, now0, tuning)
	if got.Tier != difficulty.Easy {
		t.Fatalf("tier = %v, want easy", got.Tier)
	}
	if got.IntervalDays != 7 {
		t.Errorf("interval = %d, want 7 (very_hard multiplier)", got.IntervalDays)
	}
}

func TestIntervalCappedAtLargestBucket(t *testing.T) {
	it := freshItem()
	it.Repetitions = 6
	it.IntervalDays = 365
	it.EaseFactor = 3.0
	it.Tier = difficulty.Easy
	got := ApplyReview(it, QualityPerfect, 800, now0, config.DefaultTuning())
	if got.IntervalDays != 365 {
		t.Errorf("interval = %d, want 365", got.IntervalDays)
	}
}

func TestTierOnlyChangesAfterMinAttempts(t *testing.T) {
	tuning := config.DefaultTuning()
	it := freshItem()
	it = ApplyReview(it, QualityBlackout, 9000, now0, tuning)
	it = ApplyReview(it, QualityBlackout, 9000, now0, tuning)
	if it.Tier != difficulty.Medium {
		t.Fatalf("tier after 2 attempts = %v, want medium", it.Tier)
	}
	it = ApplyReview(it, QualityBlackout, 9000, now0, tuning)
	if it.Tier != difficulty.VeryHard {
		t.Errorf("tier after 3 misses = %v, want very_hard", it.Tier)
	}
}

func TestApplyReviewDoesNotMutateInput(t *testing.T) {
	it := freshItem()
	last := now0.Add(-time.Hour)
	it.LastReviewedAt = &last
	_ = ApplyReview(it, QualityPerfect, 1000, now0, config.DefaultTuning())
	if it.Repetitions != 0 || !it.LastReviewedAt.Equal(last) {
		t.Error("ApplyReview mutated its input")
	}
}

func TestValidateReview(t *testing.T) {
	tests := []struct {
		q       Quality
		rt      int
		wantErr bool
	}{
		{0, 0, false},
		{5, 100, false},
		{-1, 0, true},
		{6, 0, true},
		{3, -1, true},
	}
	for _, tt := range tests {
		err := ValidateReview(tt.q, tt.rt)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateReview(%d, %d) error = %v, wantErr %v", tt.q, tt.rt, err, tt.wantErr)
		}
	}
}
