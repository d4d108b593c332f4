package level

import (
	"math"
	"testing"
	"time"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/errs"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool { return math.Abs(a-b) < epsilon }

func answers(level cefr.Level, skill cefr.Skill, correct, total int) []Answer {
	out := make([]Answer, total)
	for i := range out {
		out[i] = Answer{Level: level, Skill: skill, Correct: i < correct}
	}
	return out
}

func TestBandFor(t *testing.T) {
	bands, err := Bands(config.DefaultTuning().Estimator)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		score float64
		want  cefr.Level
	}{
		{0, cefr.A1},
		{30, cefr.A1},
		{30.5, cefr.A1},
		{31, cefr.A2},
		{50.99, cefr.A2},
		{51, cefr.B1},
		{70, cefr.B1},
		{85.9, cefr.B2},
		{86, cefr.C1},
		{90, cefr.C1},
		{95.5, cefr.C1},
		{96, cefr.C2},
		{100, cefr.C2},
		{120, cefr.C2},
		{-5, cefr.A1},
	}
	for _, tt := range tests {
		if got := BandFor(tt.score, bands).Level; got != tt.want {
			t.Errorf("BandFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCalculateScoreNinetyIsC1(t *testing.T) {
	cfg := config.DefaultTuning().Estimator
	res, err := Calculate(answers(cefr.A1, cefr.Vocabulary, 9, 10), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(res.OverallScore, 90) {
		t.Errorf("OverallScore = %v, want 90", res.OverallScore)
	}
	if res.EstimatedLevel != cefr.C1 {
		t.Errorf("EstimatedLevel = %s, want C1", res.EstimatedLevel)
	}
	// center 90.5, half-width 4.5: 1 - 0.5/4.5*0.4
	if !almostEqual(res.Confidence, 0.9556) {
		t.Errorf("Confidence = %v, want ~0.956", res.Confidence)
	}
	if res.RecommendedStart != cefr.C1 {
		t.Errorf("RecommendedStart = %s, want C1", res.RecommendedStart)
	}
	if len(res.FocusAreas) != 0 {
		t.Errorf("FocusAreas = %v, want none", res.FocusAreas)
	}
}

func TestCalculateWeightsHarderQuestions(t *testing.T) {
	cfg := config.DefaultTuning().Estimator
	batch := append(
		answers(cefr.A1, cefr.Grammar, 1, 1),
		answers(cefr.C2, cefr.Grammar, 0, 1)...,
	)
	res, err := Calculate(batch, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// 1 / (1 + 3)
	if !almostEqual(res.OverallScore, 25) {
		t.Errorf("OverallScore = %v, want 25", res.OverallScore)
	}
	if !almostEqual(res.SkillScores[cefr.Grammar], 50) {
		t.Errorf("grammar = %v, want 50", res.SkillScores[cefr.Grammar])
	}
}

func TestLowConfidenceRecommendsLowerStart(t *testing.T) {
	cfg := config.DefaultTuning().Estimator
	// 51/100 correct at one level: score 51, at the B1 edge.
	res, err := Calculate(answers(cefr.B1, cefr.Reading, 51, 100), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.EstimatedLevel != cefr.B1 {
		t.Fatalf("EstimatedLevel = %s, want B1", res.EstimatedLevel)
	}
	if !almostEqual(res.Confidence, 0.6) {
		t.Errorf("Confidence = %v, want 0.6", res.Confidence)
	}
	if res.RecommendedStart != cefr.A2 {
		t.Errorf("RecommendedStart = %s, want A2", res.RecommendedStart)
	}

	// A1 never drops further.
	res, err = Calculate(answers(cefr.A1, cefr.Reading, 0, 4), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.RecommendedStart != cefr.A1 {
		t.Errorf("RecommendedStart = %s, want A1", res.RecommendedStart)
	}
	if res.Confidence < cfg.ConfidenceFloor {
		t.Errorf("Confidence %v below floor", res.Confidence)
	}
}

func TestFocusAreasWeakestFirst(t *testing.T) {
	cfg := config.DefaultTuning().Estimator
	var batch []Answer
	batch = append(batch, answers(cefr.A2, cefr.Vocabulary, 9, 10)...)
	batch = append(batch, answers(cefr.A2, cefr.Grammar, 5, 10)...)
	batch = append(batch, answers(cefr.A2, cefr.Listening, 2, 10)...)
	batch = append(batch, answers(cefr.A2, cefr.Reading, 6, 10)...)

	res, err := Calculate(batch, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []cefr.Skill{cefr.Listening, cefr.Grammar}
	if len(res.FocusAreas) != len(want) {
		t.Fatalf("FocusAreas = %v, want %v", res.FocusAreas, want)
	}
	for i := range want {
		if res.FocusAreas[i] != want[i] {
			t.Errorf("FocusAreas[%d] = %s, want %s", i, res.FocusAreas[i], want[i])
		}
	}
	if _, ok := res.SkillScores[cefr.Speaking]; ok {
		t.Error("unanswered skills must not be scored")
	}
}

func TestCalculateIsMonotonic(t *testing.T) {
	cfg := config.DefaultTuning().Estimator
	levels := cefr.AllLevels()
	skills := cefr.AssessedSkills()

	var batch []Answer
	for i := 0; i < 24; i++ {
		batch = append(batch, Answer{Level: levels[i%len(levels)], Skill: skills[i%len(skills)]})
	}

	prev, err := Calculate(batch, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Flip answers to correct one at a time, hardest last.
	for i := range batch {
		batch[i].Correct = true
		next, err := Calculate(batch, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if next.OverallScore < prev.OverallScore {
			t.Fatalf("score dropped from %v to %v", prev.OverallScore, next.OverallScore)
		}
		if next.EstimatedLevel < prev.EstimatedLevel {
			t.Fatalf("level dropped from %s to %s", prev.EstimatedLevel, next.EstimatedLevel)
		}
		prev = next
	}
	if prev.EstimatedLevel != cefr.C2 {
		t.Errorf("all correct = %s, want C2", prev.EstimatedLevel)
	}
}

func TestCalculateValidation(t *testing.T) {
	cfg := config.DefaultTuning().Estimator
	tests := []struct {
		name  string
		batch []Answer
	}{
		{"empty", nil},
		{"unknown level", []Answer{{Level: cefr.Level(7), Skill: cefr.Grammar}}},
		{"zero level", []Answer{{Skill: cefr.Grammar}}},
		{"unassessed skill", []Answer{{Level: cefr.A1, Skill: cefr.Speaking}}},
		{"unknown skill", []Answer{{Level: cefr.A1, Skill: "dancing"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.batch, cfg)
			if !errs.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestNeedsTest(t *testing.T) {
	cfg := config.DefaultTuning().Estimator
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	if !NeedsTest(nil, now, cfg) {
		t.Error("no result should need a test")
	}
	recent := &Result{TakenAt: now.AddDate(0, -5, 0)}
	if NeedsTest(recent, now, cfg) {
		t.Error("5-month-old result should not need a retest")
	}
	stale := &Result{TakenAt: now.AddDate(0, -6, -1)}
	if !NeedsTest(stale, now, cfg) {
		t.Error("result older than 6 months should need a retest")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	res, err := Calculate(answers(cefr.B2, cefr.Listening, 3, 10), config.DefaultTuning().Estimator)
	if err != nil {
		t.Fatal(err)
	}
	res.ID = "01J0000000000000000000000"
	res.UserID = "u1"
	res.TakenAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	rec, err := ToRecord(res)
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	if got.EstimatedLevel != res.EstimatedLevel || got.RecommendedStart != res.RecommendedStart {
		t.Errorf("levels = %s/%s, want %s/%s", got.EstimatedLevel, got.RecommendedStart, res.EstimatedLevel, res.RecommendedStart)
	}
	if !almostEqual(got.SkillScores[cefr.Listening], 30) {
		t.Errorf("listening = %v, want 30", got.SkillScores[cefr.Listening])
	}
	if len(got.FocusAreas) != 1 || got.FocusAreas[0] != cefr.Listening {
		t.Errorf("FocusAreas = %v", got.FocusAreas)
	}
}
