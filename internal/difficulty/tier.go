// Package difficulty classifies review items into difficulty tiers from
// their accuracy and response speed.
package difficulty

import "fmt"

// Tier is an item's difficulty tier. Higher values are harder.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
	VeryHard
)

// AllTiers returns every tier from easiest to hardest.
func AllTiers() []Tier {
	return []Tier{Easy, Medium, Hard, VeryHard}
}

func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case VeryHard:
		return "very_hard"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// DisplayName returns a human-readable tier name.
func (t Tier) DisplayName() string {
	switch t {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	case VeryHard:
		return "Very hard"
	default:
		return t.String()
	}
}

// Rank orders tiers for sorting; harder tiers rank higher.
func (t Tier) Rank() int { return int(t) }

// Multiplier looks up the interval multiplier for t. Missing entries
// leave the interval unscaled.
func (t Tier) Multiplier(table map[string]float64) float64 {
	if m, ok := table[t.String()]; ok {
		return m
	}
	return 1.0
}

// ParseTier parses a tier name as produced by String.
func ParseTier(s string) (Tier, error) {
	for _, t := range AllTiers() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
