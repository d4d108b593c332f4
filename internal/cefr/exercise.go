package cefr

import "fmt"

// ExerciseType is the presentation format of an exercise.
type ExerciseType string

const (
	MultipleChoice ExerciseType = "multiple_choice"
	FillBlank      ExerciseType = "fill_blank"
	Translation    ExerciseType = "translation"
	WordOrder      ExerciseType = "word_order"
	Matching       ExerciseType = "matching"
	ListenSelect   ExerciseType = "listen_select"
	Dictation      ExerciseType = "dictation"
	ReadingQuiz    ExerciseType = "reading_quiz"
	ShortAnswer    ExerciseType = "short_answer"
	RepeatAloud    ExerciseType = "repeat_aloud"
)

// AllExerciseTypes returns every exercise type.
func AllExerciseTypes() []ExerciseType {
	return []ExerciseType{
		MultipleChoice, FillBlank, Translation, WordOrder, Matching,
		ListenSelect, Dictation, ReadingQuiz, ShortAnswer, RepeatAloud,
	}
}

// Valid reports whether t is a known exercise type.
func (t ExerciseType) Valid() bool {
	for _, et := range AllExerciseTypes() {
		if et == t {
			return true
		}
	}
	return false
}

// PrimarySkill returns the skill an exercise of this type mostly trains.
func (t ExerciseType) PrimarySkill() Skill {
	switch t {
	case MultipleChoice, Matching, Translation:
		return Vocabulary
	case FillBlank, WordOrder:
		return Grammar
	case ListenSelect, Dictation:
		return Listening
	case ReadingQuiz:
		return Reading
	case ShortAnswer:
		return Writing
	case RepeatAloud:
		return Speaking
	default:
		return Vocabulary
	}
}

// DefaultSeconds is the time estimate used when an exercise carries none.
func (t ExerciseType) DefaultSeconds() int {
	switch t {
	case MultipleChoice, Matching:
		return 20
	case FillBlank, WordOrder, Translation:
		return 30
	case ListenSelect, RepeatAloud:
		return 40
	case Dictation, ShortAnswer:
		return 60
	case ReadingQuiz:
		return 90
	default:
		return 30
	}
}

// ParseExerciseType validates s as an ExerciseType.
func ParseExerciseType(s string) (ExerciseType, error) {
	t := ExerciseType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown exercise type %q", s)
	}
	return t, nil
}
