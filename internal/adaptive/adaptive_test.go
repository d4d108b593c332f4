package adaptive

import (
	"math"
	"testing"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/errs"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAdjustDifficulty(t *testing.T) {
	cfg := config.DefaultTuning().Selector
	tests := []struct {
		name     string
		base     float64
		accuracy float64
		want     float64
	}{
		{"well above target", 0.5, 0.95, 0.6},
		{"upper edge unchanged", 0.5, 0.85, 0.5},
		{"inside band", 0.5, 0.75, 0.5},
		{"lower edge unchanged", 0.5, 0.65, 0.5},
		{"below target", 0.5, 0.4, 0.4},
		{"capped at max", 0.95, 1.0, 1.0},
		{"floored at min", 0.15, 0.0, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustDifficulty(tt.base, tt.accuracy, cfg); !almostEqual(got, tt.want) {
				t.Errorf("AdjustDifficulty(%v, %v) = %v, want %v", tt.base, tt.accuracy, got, tt.want)
			}
		})
	}
}

func TestWindowKeepsLastN(t *testing.T) {
	w := NewWindow(3)
	if _, ok := w.Accuracy(); ok {
		t.Error("empty window has no accuracy")
	}
	for _, c := range []bool{false, false, true, true, true} {
		w.Record(c)
	}
	if w.Len() != 3 {
		t.Errorf("Len = %d, want 3", w.Len())
	}
	if acc, _ := w.Accuracy(); acc != 1 {
		t.Errorf("Accuracy = %v, want 1", acc)
	}
}

func TestRollingAccuracy(t *testing.T) {
	got := RollingAccuracy(map[string][]bool{
		"grammar":  {true, false, true, true},
		"reading":  {},
		"juggling": {true},
	}, DefaultWindow)
	if len(got) != 1 {
		t.Fatalf("got %v, want only grammar", got)
	}
	if !almostEqual(got[cefr.Grammar], 0.75) {
		t.Errorf("grammar = %v, want 0.75", got[cefr.Grammar])
	}
}

type fakeContent struct {
	exercises []content.Exercise
}

func (f fakeContent) Vocabulary(cefr.Level) []content.Vocab   { return nil }
func (f fakeContent) Dialogues(cefr.Level) []content.Dialogue { return nil }
func (f fakeContent) Exercises(l cefr.Level) []content.Exercise {
	var out []content.Exercise
	for _, e := range f.exercises {
		if e.Level == l {
			out = append(out, e)
		}
	}
	return out
}

func ex(id string, skill cefr.Skill, typ cefr.ExerciseType, d float64, secs int) content.Exercise {
	return content.Exercise{ID: id, Level: cefr.A2, Skill: skill, Type: typ, Difficulty: d, EstimatedSeconds: secs}
}

func testSelector() *Selector {
	return NewSelector(fakeContent{exercises: []content.Exercise{
		ex("g1", cefr.Grammar, cefr.FillBlank, 0.3, 60),
		ex("g2", cefr.Grammar, cefr.FillBlank, 0.5, 60),
		ex("g3", cefr.Grammar, cefr.WordOrder, 0.7, 60),
		ex("v1", cefr.Vocabulary, cefr.MultipleChoice, 0.2, 30),
		ex("v2", cefr.Vocabulary, cefr.Matching, 0.4, 30),
		ex("l1", cefr.Listening, cefr.ListenSelect, 0.6, 90),
		{ID: "b1-x", Level: cefr.B1, Skill: cefr.Grammar, Type: cefr.FillBlank, Difficulty: 0.1, EstimatedSeconds: 10},
	}}, config.DefaultTuning().Selector)
}

func ids(sel []Selection) []string {
	out := make([]string, len(sel))
	for i, s := range sel {
		out[i] = s.Exercise.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelectRoundRobinAcrossTargets(t *testing.T) {
	s := testSelector()
	got, err := s.Select(Request{
		Level:         cefr.A2,
		Skills:        []cefr.Skill{cefr.Grammar, cefr.Listening},
		BudgetSeconds: 210,
	})
	if err != nil {
		t.Fatal(err)
	}
	// g1 (60), l1 (90), g2 (60) = 210; easiest first.
	want := []string{"g1", "g2", "l1"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Select = %v, want %v", ids(got), want)
	}
}

func TestSelectSkipsExercisesThatDoNotFit(t *testing.T) {
	s := testSelector()
	got, err := s.Select(Request{
		Level:         cefr.A2,
		Skills:        []cefr.Skill{cefr.Listening, cefr.Vocabulary},
		BudgetSeconds: 60,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"v1", "v2"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Select = %v, want %v", ids(got), want)
	}
	total := 0
	for _, sel := range got {
		total += sel.Seconds()
	}
	if total > 60 {
		t.Errorf("selection takes %ds, budget 60s", total)
	}
}

func TestSelectAppliesAccuracy(t *testing.T) {
	s := testSelector()
	got, err := s.Select(Request{
		Level:         cefr.A2,
		Skills:        []cefr.Skill{cefr.Grammar, cefr.Vocabulary},
		BudgetSeconds: 1000,
		Accuracy:      map[cefr.Skill]float64{cefr.Grammar: 0.3, cefr.Vocabulary: 0.95},
	})
	if err != nil {
		t.Fatal(err)
	}
	byID := make(map[string]float64)
	for _, sel := range got {
		byID[sel.Exercise.ID] = sel.Difficulty
	}
	if !almostEqual(byID["g1"], 0.2) || !almostEqual(byID["v1"], 0.3) {
		t.Errorf("adjusted difficulties = %v", byID)
	}
	want := []string{"g1", "v1", "g2", "v2", "g3"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Select = %v, want %v", ids(got), want)
	}
}

func TestSelectFiltersTypesAndDefaultsToAllSkills(t *testing.T) {
	s := testSelector()
	got, err := s.Select(Request{
		Level:         cefr.A2,
		Types:         []cefr.ExerciseType{cefr.FillBlank, cefr.Matching},
		BudgetSeconds: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"g1", "v2", "g2"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Select = %v, want %v", ids(got), want)
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	s := testSelector()
	req := Request{Level: cefr.A2, BudgetSeconds: 150}
	first, err := s.Select(req)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := s.Select(req)
		if !equalIDs(ids(first), ids(again)) {
			t.Fatalf("run %d = %v, first = %v", i, ids(again), ids(first))
		}
	}
}

func TestSelectEmptyAndInvalid(t *testing.T) {
	s := testSelector()
	got, err := s.Select(Request{Level: cefr.C2, BudgetSeconds: 600})
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Select at empty level = %v, %v", got, err)
	}
	if _, err := s.Select(Request{Level: 0, BudgetSeconds: 60}); !errs.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
	if _, err := s.Select(Request{Level: cefr.A1, BudgetSeconds: -1}); !errs.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}
