package adaptive

import (
	"sort"

	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/config"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/errs"
)

// Request describes the exercises wanted for one session.
type Request struct {
	UserID string
	Level  cefr.Level
	// Skills are the target skills, most important first. Empty means all.
	Skills []cefr.Skill
	// Types restricts exercise types. Empty means all.
	Types         []cefr.ExerciseType
	BudgetSeconds int
	// Accuracy is the rolling accuracy per skill. Skills without history
	// are absent.
	Accuracy map[cefr.Skill]float64
}

// Selection is a chosen exercise with its adjusted difficulty.
type Selection struct {
	Exercise   content.Exercise
	Difficulty float64
}

// Seconds returns the exercise's time estimate.
func (s Selection) Seconds() int { return s.Exercise.Seconds() }

// Selector picks exercises from the content store.
type Selector struct {
	content content.Store
	cfg     config.SelectorTuning
}

// NewSelector creates a selector over exercises from c.
func NewSelector(c content.Store, cfg config.SelectorTuning) *Selector {
	return &Selector{content: c, cfg: cfg}
}

// Select fills the request's budget with exercises. Skills take turns so
// every target skill is represented; within a skill the easiest adjusted
// difficulty goes first. The result is ordered easiest first. The same
// request always yields the same selection.
func (s *Selector) Select(req Request) ([]Selection, error) {
	if !req.Level.Valid() {
		return nil, errs.Validation("level", "unknown level %d", int(req.Level))
	}
	if req.BudgetSeconds < 0 {
		return nil, errs.Validation("budget", "must not be negative")
	}

	targets := req.Skills
	if len(targets) == 0 {
		targets = cefr.AllSkills()
	}
	types := make(map[cefr.ExerciseType]bool, len(req.Types))
	for _, t := range req.Types {
		types[t] = true
	}

	// Group candidates by skill.
	queues := make(map[cefr.Skill][]Selection)
	for _, ex := range s.content.Exercises(req.Level) {
		if len(types) > 0 && !types[ex.Type] {
			continue
		}
		d := ex.Difficulty
		if acc, ok := req.Accuracy[ex.Skill]; ok {
			d = AdjustDifficulty(d, acc, s.cfg)
		}
		queues[ex.Skill] = append(queues[ex.Skill], Selection{Exercise: ex, Difficulty: d})
	}
	for _, q := range queues {
		sortSelections(q)
	}

	// Round-robin across target skills, taking the easiest exercise that
	// still fits the remaining budget.
	var picked []Selection
	remaining := req.BudgetSeconds
	seen := make(map[cefr.Skill]bool, len(targets))
	order := make([]cefr.Skill, 0, len(targets))
	for _, sk := range targets {
		if !seen[sk] && len(queues[sk]) > 0 {
			seen[sk] = true
			order = append(order, sk)
		}
	}
	for len(order) > 0 {
		next := order[:0]
		for _, sk := range order {
			q := queues[sk]
			idx := -1
			for i, sel := range q {
				if sel.Seconds() <= remaining {
					idx = i
					break
				}
			}
			if idx < 0 {
				continue
			}
			picked = append(picked, q[idx])
			remaining -= q[idx].Seconds()
			queues[sk] = append(q[:idx:idx], q[idx+1:]...)
			if len(queues[sk]) > 0 {
				next = append(next, sk)
			}
		}
		order = next
	}

	sortSelections(picked)
	if picked == nil {
		picked = []Selection{}
	}
	return picked, nil
}

func sortSelections(s []Selection) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Difficulty != s[j].Difficulty {
			return s[i].Difficulty < s[j].Difficulty
		}
		return s[i].Exercise.ID < s[j].Exercise.ID
	})
}
