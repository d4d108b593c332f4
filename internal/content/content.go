// Package content loads and indexes the learning corpus: vocabulary
// entries, exercises and micro-dialogues, each tagged with a CEFR level.
package content

import (
	"sort"

	"github.com/abhisek/lexiz/internal/cefr"
)

// Vocab is a lexical pair the scheduler turns into a review item.
type Vocab struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	Translation string     `json:"translation"`
	Level       cefr.Level `json:"level"`
	Topic       string     `json:"topic,omitempty"`
}

// Exercise is a practice task for one skill.
type Exercise struct {
	ID               string            `json:"id"`
	Level            cefr.Level        `json:"level"`
	Skill            cefr.Skill        `json:"skill"`
	Type             cefr.ExerciseType `json:"type"`
	Difficulty       float64           `json:"difficulty"`
	EstimatedSeconds int               `json:"estimated_seconds,omitempty"`
	Prompt           string            `json:"prompt,omitempty"`
}

// Seconds returns the exercise's time estimate, falling back to the
// default for its type.
func (e Exercise) Seconds() int {
	if e.EstimatedSeconds > 0 {
		return e.EstimatedSeconds
	}
	return e.Type.DefaultSeconds()
}

// Dialogue is a short conversational scenario.
type Dialogue struct {
	ID    string     `json:"id"`
	Level cefr.Level `json:"level"`
	Title string     `json:"title"`
	Goal  string     `json:"goal,omitempty"`
	Turns int        `json:"turns,omitempty"`
}

// Store is the read-only content port.
type Store interface {
	// Vocabulary returns entries at or below level, ordered by ID.
	Vocabulary(level cefr.Level) []Vocab
	// Exercises returns exercises at exactly level, ordered by ID.
	Exercises(level cefr.Level) []Exercise
	// Dialogues returns dialogues at exactly level, ordered by ID.
	Dialogues(level cefr.Level) []Dialogue
}

// Catalog is an immutable Store indexed by level.
type Catalog struct {
	version   string
	vocab     map[cefr.Level][]Vocab
	exercises map[cefr.Level][]Exercise
	dialogues map[cefr.Level][]Dialogue
}

var _ Store = (*Catalog)(nil)

// NewCatalog indexes a validated pack.
func NewCatalog(p *Pack) *Catalog {
	c := &Catalog{
		version:   p.Version,
		vocab:     make(map[cefr.Level][]Vocab),
		exercises: make(map[cefr.Level][]Exercise),
		dialogues: make(map[cefr.Level][]Dialogue),
	}
	for _, v := range p.Vocabulary {
		c.vocab[v.Level] = append(c.vocab[v.Level], v)
	}
	for _, e := range p.Exercises {
		c.exercises[e.Level] = append(c.exercises[e.Level], e)
	}
	for _, d := range p.Dialogues {
		c.dialogues[d.Level] = append(c.dialogues[d.Level], d)
	}
	for _, l := range cefr.AllLevels() {
		sort.Slice(c.vocab[l], func(i, j int) bool { return c.vocab[l][i].ID < c.vocab[l][j].ID })
		sort.Slice(c.exercises[l], func(i, j int) bool { return c.exercises[l][i].ID < c.exercises[l][j].ID })
		sort.Slice(c.dialogues[l], func(i, j int) bool { return c.dialogues[l][i].ID < c.dialogues[l][j].ID })
	}
	return c
}

// Version returns the pack version the catalog was built from.
func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Vocabulary(level cefr.Level) []Vocab {
	var out []Vocab
	for _, l := range cefr.AllLevels() {
		if l > level {
			break
		}
		out = append(out, c.vocab[l]...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) Exercises(level cefr.Level) []Exercise {
	return append([]Exercise(nil), c.exercises[level]...)
}

func (c *Catalog) Dialogues(level cefr.Level) []Dialogue {
	return append([]Dialogue(nil), c.dialogues[level]...)
}
