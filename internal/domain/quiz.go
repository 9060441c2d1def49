package domain

import (
	"strings"
	"time"
)

// Quiz difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// OptionsPerQuestion is fixed by the prompt format: every generated
// question carries exactly four lettered options.
const OptionsPerQuestion = 4

// QuizSpec describes a quiz generation request.
type QuizSpec struct {
	Topic         string
	QuestionCount int
	Difficulty    string
}

// QuizQuestion is one validated multiple-choice question. CorrectIndex is
// always in [0, OptionsPerQuestion).
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Valid reports whether the question satisfies the structural invariant:
// exactly four distinct non-empty options and a correct index among them.
func (q QuizQuestion) Valid() bool {
	if strings.TrimSpace(q.Question) == "" {
		return false
	}
	if len(q.Options) != OptionsPerQuestion {
		return false
	}
	seen := make(map[string]struct{}, OptionsPerQuestion)
	for _, opt := range q.Options {
		trimmed := strings.TrimSpace(opt)
		if trimmed == "" {
			return false
		}
		if _, dup := seen[trimmed]; dup {
			return false
		}
		seen[trimmed] = struct{}{}
	}
	return q.CorrectIndex >= 0 && q.CorrectIndex < OptionsPerQuestion
}

// Quiz is a persisted, user-owned quiz. Score and SubmittedAt are nil until
// the user submits answers.
type Quiz struct {
	ID          string
	UserID      string
	Topic       string
	Difficulty  string
	Questions   []QuizQuestion
	Score       *int
	SubmittedAt *time.Time
	CreatedAt   time.Time
}

func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
