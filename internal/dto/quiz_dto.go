package dto

import "time"

// GenerateQuizRequest is the request body for generating a new quiz.
// @Description Request body for quiz generation
type GenerateQuizRequest struct {
	Topic         string `json:"topic" validate:"required"`
	QuestionCount int    `json:"question_count" validate:"required,min=1,max=20"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

// QuizQuestionResponse is a single question as returned to clients.
// The correct index is omitted until the quiz has been submitted.
type QuizQuestionResponse struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}

// QuizResponse is the full quiz representation.
// @Description Response body for a quiz
type QuizResponse struct {
	ID          string                 `json:"id"`
	Topic       string                 `json:"topic"`
	Difficulty  string                 `json:"difficulty"`
	Questions   []QuizQuestionResponse `json:"questions"`
	Score       *int                   `json:"score,omitempty"`
	SubmittedAt *time.Time             `json:"submitted_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// QuizSummaryResponse describes a quiz in list views.
type QuizSummaryResponse struct {
	ID            string     `json:"id"`
	Topic         string     `json:"topic"`
	Difficulty    string     `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
	Score         *int       `json:"score,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SubmitQuizRequest carries the user's selected option per question.
// @Description Request body for submitting quiz answers
type SubmitQuizRequest struct {
	Answers []int `json:"answers" validate:"required"`
}

// QuestionResult reports the outcome of a single answered question.
type QuestionResult struct {
	Question      string `json:"question"`
	SelectedIndex int    `json:"selected_index"`
	CorrectIndex  int    `json:"correct_index"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// SubmitQuizResponse reports the graded result of a submission.
// @Description Response body for a graded quiz submission
type SubmitQuizResponse struct {
	QuizID  string           `json:"quiz_id"`
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Results []QuestionResult `json:"results"`
}
