package cefr

import "fmt"

// Skill is a proficiency skill category.
type Skill string

const (
	Vocabulary Skill = "vocabulary"
	Grammar    Skill = "grammar"
	Listening  Skill = "listening"
	Reading    Skill = "reading"
	Speaking   Skill = "speaking"
	Writing    Skill = "writing"
)

// AllSkills returns every skill tracked in a profile, in display order.
func AllSkills() []Skill {
	return []Skill{Vocabulary, Grammar, Listening, Reading, Speaking, Writing}
}

// AssessedSkills returns the skills a placement test can score.
func AssessedSkills() []Skill {
	return []Skill{Vocabulary, Grammar, Listening, Reading}
}

// Valid reports whether s is a known skill.
func (s Skill) Valid() bool {
	switch s {
	case Vocabulary, Grammar, Listening, Reading, Speaking, Writing:
		return true
	default:
		return false
	}
}

// Assessed reports whether s can appear in a level test answer.
func (s Skill) Assessed() bool {
	switch s {
	case Vocabulary, Grammar, Listening, Reading:
		return true
	default:
		return false
	}
}

// DisplayName returns a human-readable name for the skill.
func (s Skill) DisplayName() string {
	switch s {
	case Vocabulary:
		return "Vocabulary"
	case Grammar:
		return "Grammar"
	case Listening:
		return "Listening"
	case Reading:
		return "Reading"
	case Speaking:
		return "Speaking"
	case Writing:
		return "Writing"
	default:
		return string(s)
	}
}

// ParseSkill validates s as a Skill.
func ParseSkill(s string) (Skill, error) {
	sk := Skill(s)
	if !sk.Valid() {
		return "", fmt.Errorf("unknown skill %q", s)
	}
	return sk, nil
}
