package handler

import (
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/middleware"
	"tutorhub/internal/service"
	"tutorhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	quizService service.QuizService
	validator   *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		validator:   validation.NewValidator(),
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates a multiple-choice quiz on a topic and stores it for the user.
// @Tags quizzes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.GenerateQuizRequest true "Quiz parameters"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Quiz generation failed"
// @Router /quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateQuizSpec(req.Topic, req.QuestionCount, req.Difficulty); len(errs) > 0 {
		return errs
	}

	quiz, err := h.quizService.GenerateQuiz(c.Context(), userID, domain.QuizSpec{
		Topic:         req.Topic,
		QuestionCount: req.QuestionCount,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(quizToResponse(quiz))
}

// ListQuizzes godoc
// @Summary List quizzes
// @Tags quizzes
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.QuizSummaryResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	quizzes, err := h.quizService.ListQuizzes(c.Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]dto.QuizSummaryResponse, 0, len(quizzes))
	for i := range quizzes {
		q := &quizzes[i]
		resp = append(resp, dto.QuizSummaryResponse{
			ID:            q.ID,
			Topic:         q.Topic,
			Difficulty:    q.Difficulty,
			QuestionCount: len(q.Questions),
			Score:         q.Score,
			SubmittedAt:   q.SubmittedAt,
			CreatedAt:     q.CreatedAt,
		})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	quizID := c.Params("id")

	if errs := h.validator.ValidateID("quiz_id", quizID); len(errs) > 0 {
		return errs
	}

	quiz, err := h.quizService.GetQuiz(c.Context(), userID, quizID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(quizToResponse(quiz))
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Grades the submitted answers server side. A quiz accepts one submission.
// @Tags quizzes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param body body dto.SubmitQuizRequest true "Selected option index per question"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Already submitted"
// @Router /quizzes/{id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	quizID := c.Params("id")

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateID("quiz_id", quizID); len(errs) > 0 {
		return errs
	}

	result, err := h.quizService.SubmitQuiz(c.Context(), userID, quizID, req.Answers)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	quizID := c.Params("id")

	if errs := h.validator.ValidateID("quiz_id", quizID); len(errs) > 0 {
		return errs
	}

	if err := h.quizService.DeleteQuiz(c.Context(), userID, quizID); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "quiz deleted"})
}

// quizToResponse hides the answer key until the quiz has been submitted.
func quizToResponse(quiz *domain.Quiz) dto.QuizResponse {
	submitted := quiz.SubmittedAt != nil
	questions := make([]dto.QuizQuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		item := dto.QuizQuestionResponse{
			Question: q.Question,
			Options:  q.Options,
		}
		if submitted {
			idx := q.CorrectIndex
			item.CorrectIndex = &idx
			item.Explanation = q.Explanation
		}
		questions = append(questions, item)
	}
	return dto.QuizResponse{
		ID:          quiz.ID,
		Topic:       quiz.Topic,
		Difficulty:  quiz.Difficulty,
		Questions:   questions,
		Score:       quiz.Score,
		SubmittedAt: quiz.SubmittedAt,
		CreatedAt:   quiz.CreatedAt,
	}
}
