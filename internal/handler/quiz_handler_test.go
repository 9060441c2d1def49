package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/handler"
	"tutorhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	GenerateQuizFunc func(ctx context.Context, userID string, spec domain.QuizSpec) (*domain.Quiz, error)
	GetQuizFunc      func(ctx context.Context, userID, quizID string) (*domain.Quiz, error)
	ListQuizzesFunc  func(ctx context.Context, userID string) ([]domain.Quiz, error)
	SubmitQuizFunc   func(ctx context.Context, userID, quizID string, answers []int) (*dto.SubmitQuizResponse, error)
	DeleteQuizFunc   func(ctx context.Context, userID, quizID string) error
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, userID string, spec domain.QuizSpec) (*domain.Quiz, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, userID, spec)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}
func (m *MockQuizService) GetQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, userID, quizID)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}
func (m *MockQuizService) ListQuizzes(ctx context.Context, userID string) ([]domain.Quiz, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, userID)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}
func (m *MockQuizService) SubmitQuiz(ctx context.Context, userID, quizID string, answers []int) (*dto.SubmitQuizResponse, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, userID, quizID, answers)
	}
	panic("MockQuizService.SubmitQuizFunc not implemented")
}
func (m *MockQuizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, userID, quizID)
	}
	panic("MockQuizService.DeleteQuizFunc not implemented")
}

const testQuizID = "01HN2K8G7QRXM4T9V6W3Y5Z8AB"

func newQuizTestApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	// Stand-in for the auth middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, "user-1")
		return c.Next()
	})
	h := handler.NewQuizHandler(svc)
	app.Post("/api/quizzes", h.GenerateQuiz)
	app.Get("/api/quizzes/:id", h.GetQuiz)
	app.Post("/api/quizzes/:id/submit", h.SubmitQuiz)
	return app
}

func TestGenerateQuizEndpoint_Success(t *testing.T) {
	svc := &MockQuizService{
		GenerateQuizFunc: func(ctx context.Context, userID string, spec domain.QuizSpec) (*domain.Quiz, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "go slices", spec.Topic)
			return &domain.Quiz{
				ID:         testQuizID,
				UserID:     userID,
				Topic:      spec.Topic,
				Difficulty: spec.Difficulty,
				Questions: []domain.QuizQuestion{
					{Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 1, Explanation: "why"},
				},
			}, nil
		},
	}
	app := newQuizTestApp(svc)

	body, _ := json.Marshal(dto.GenerateQuizRequest{Topic: "go slices", QuestionCount: 1, Difficulty: "easy"})
	req := httptest.NewRequest("POST", "/api/quizzes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var quizResp dto.QuizResponse
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &quizResp))
	assert.Equal(t, testQuizID, quizResp.ID)
	assert.Len(t, quizResp.Questions, 1)
	// The answer key stays hidden until submission.
	assert.Nil(t, quizResp.Questions[0].CorrectIndex)
	assert.Empty(t, quizResp.Questions[0].Explanation)
}

func TestGenerateQuizEndpoint_ValidationFailure(t *testing.T) {
	app := newQuizTestApp(&MockQuizService{})

	body, _ := json.Marshal(dto.GenerateQuizRequest{Topic: "", QuestionCount: 0, Difficulty: "extreme"})
	req := httptest.NewRequest("POST", "/api/quizzes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp middleware.ValidationErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, string(domain.CodeValidation), errResp.Code)
	assert.Len(t, errResp.Errors, 3)
}

func TestGenerateQuizEndpoint_ServiceUnavailable(t *testing.T) {
	svc := &MockQuizService{
		GenerateQuizFunc: func(ctx context.Context, userID string, spec domain.QuizSpec) (*domain.Quiz, error) {
			return nil, domain.NewAIServiceError(nil)
		},
	}
	app := newQuizTestApp(svc)

	body, _ := json.Marshal(dto.GenerateQuizRequest{Topic: "go slices", QuestionCount: 2, Difficulty: "medium"})
	req := httptest.NewRequest("POST", "/api/quizzes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var errResp middleware.ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, string(domain.CodeAIServiceError), errResp.Code)
}

func TestGetQuizEndpoint_RevealsAnswersAfterSubmission(t *testing.T) {
	score := 1
	svc := &MockQuizService{
		GetQuizFunc: func(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
			submitted := time.Now()
			return &domain.Quiz{
				ID:          quizID,
				UserID:      userID,
				Questions:   []domain.QuizQuestion{{Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2, Explanation: "why"}},
				Score:       &score,
				SubmittedAt: &submitted,
			}, nil
		},
	}
	app := newQuizTestApp(svc)

	req := httptest.NewRequest("GET", "/api/quizzes/"+testQuizID, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quizResp dto.QuizResponse
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &quizResp))
	assert.NotNil(t, quizResp.Questions[0].CorrectIndex)
	assert.Equal(t, 2, *quizResp.Questions[0].CorrectIndex)
	assert.Equal(t, "why", quizResp.Questions[0].Explanation)
}

func TestGetQuizEndpoint_InvalidID(t *testing.T) {
	app := newQuizTestApp(&MockQuizService{})

	req := httptest.NewRequest("GET", "/api/quizzes/not-a-ulid", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitQuizEndpoint_Conflict(t *testing.T) {
	svc := &MockQuizService{
		SubmitQuizFunc: func(ctx context.Context, userID, quizID string, answers []int) (*dto.SubmitQuizResponse, error) {
			return nil, domain.NewError(domain.CodeQuizSubmitted, "quiz already submitted", nil)
		},
	}
	app := newQuizTestApp(svc)

	body, _ := json.Marshal(dto.SubmitQuizRequest{Answers: []int{0}})
	req := httptest.NewRequest("POST", "/api/quizzes/"+testQuizID+"/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
