package session

import (
	"time"

	"github.com/abhisek/lexiz/internal/adaptive"
	"github.com/abhisek/lexiz/internal/cefr"
	"github.com/abhisek/lexiz/internal/content"
	"github.com/abhisek/lexiz/internal/srs"
)

// BlockKind is the activity type of a plan block.
type BlockKind string

const (
	BlockReview   BlockKind = "review"
	BlockExercise BlockKind = "exercise"
	BlockDialogue BlockKind = "dialogue"
)

// Block is one activity of a session plan.
type Block struct {
	Kind     BlockKind
	Review   *srs.ReviewItem
	Exercise *adaptive.Selection
	Dialogue *content.Dialogue
	Seconds  int
}

// ID returns the ID of the block's item.
func (b Block) ID() string {
	switch b.Kind {
	case BlockReview:
		return b.Review.ItemID
	case BlockExercise:
		return b.Exercise.Exercise.ID
	case BlockDialogue:
		return b.Dialogue.ID
	default:
		return ""
	}
}

// Plan is a bounded-time study session: reviews first, then exercises
// easiest first, then dialogues.
type Plan struct {
	ID               string
	UserID           string
	Level            cefr.Level
	CreatedAt        time.Time
	BudgetSeconds    int
	EstimatedSeconds int
	Blocks           []Block
	Goals            []string
	// Degraded is set when due items came from a cached snapshot.
	Degraded bool
}

// Count returns the number of blocks of the given kind.
func (p *Plan) Count(kind BlockKind) int {
	n := 0
	for _, b := range p.Blocks {
		if b.Kind == kind {
			n++
		}
	}
	return n
}

// Reviews returns the review items of the plan in order.
func (p *Plan) Reviews() []srs.ReviewItem {
	var out []srs.ReviewItem
	for _, b := range p.Blocks {
		if b.Kind == BlockReview {
			out = append(out, *b.Review)
		}
	}
	return out
}

// Duration returns the estimate as a time.Duration.
func (p *Plan) Duration() time.Duration {
	return time.Duration(p.EstimatedSeconds) * time.Second
}
