package service

import (
	"context"
	"fmt"

	"tutorhub/internal/ai"
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/logger"
	"tutorhub/internal/repository"
	"tutorhub/internal/util"

	"go.uber.org/zap"
)

// QuizService defines quiz generation and grading operations.
type QuizService interface {
	GenerateQuiz(ctx context.Context, userID string, spec domain.QuizSpec) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context, userID string) ([]domain.Quiz, error)
	SubmitQuiz(ctx context.Context, userID, quizID string, answers []int) (*dto.SubmitQuizResponse, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
}

type quizServiceImpl struct {
	quizRepo  repository.QuizRepository
	generator ai.Generator
	prompts   *ai.PromptBuilder
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(quizRepo repository.QuizRepository, generator ai.Generator, prompts *ai.PromptBuilder) QuizService {
	return &quizServiceImpl{
		quizRepo:  quizRepo,
		generator: generator,
		prompts:   prompts,
	}
}

// GenerateQuiz runs the full generation pipeline. Nothing is written until
// the model's output has been parsed into at least one valid question.
func (s *quizServiceImpl) GenerateQuiz(ctx context.Context, userID string, spec domain.QuizSpec) (*domain.Quiz, error) {
	appLogger := logger.Get()

	req := s.prompts.BuildQuizPrompt(spec)
	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		appLogger.Warn("Quiz generation failed",
			zap.String("topic", spec.Topic),
			zap.Error(err))
		return nil, domain.NewAIServiceError(err)
	}

	questions, err := ai.ParseQuiz(text)
	if err != nil {
		appLogger.Warn("Quiz output could not be parsed",
			zap.String("topic", spec.Topic),
			zap.Error(err))
		return nil, domain.NewAIServiceError(err)
	}
	if len(questions) > spec.QuestionCount {
		questions = questions[:spec.QuestionCount]
	}

	quiz := &domain.Quiz{
		ID:         util.NewULID(),
		UserID:     userID,
		Topic:      spec.Topic,
		Difficulty: spec.Difficulty,
		Questions:  questions,
	}
	if err := s.quizRepo.CreateQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("failed to persist quiz", err)
	}

	appLogger.Info("Quiz generated",
		zap.String("quizID", quiz.ID),
		zap.String("topic", spec.Topic),
		zap.Int("questions", len(questions)))
	return quiz, nil
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	return s.ownedQuiz(ctx, userID, quizID)
}

func (s *quizServiceImpl) ListQuizzes(ctx context.Context, userID string) ([]domain.Quiz, error) {
	quizzes, err := s.quizRepo.GetQuizzesByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}
	return quizzes, nil
}

// SubmitQuiz grades answers server side. A quiz accepts exactly one
// submission; repeats are rejected.
func (s *quizServiceImpl) SubmitQuiz(ctx context.Context, userID, quizID string, answers []int) (*dto.SubmitQuizResponse, error) {
	quiz, err := s.ownedQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.SubmittedAt != nil {
		return nil, domain.NewError(domain.CodeQuizSubmitted,
			fmt.Sprintf("quiz %s has already been submitted", quizID), nil)
	}
	if len(answers) != len(quiz.Questions) {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("expected %d answers, got %d", len(quiz.Questions), len(answers)))
	}

	score := 0
	results := make([]dto.QuestionResult, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		correct := answers[i] == q.CorrectIndex
		if correct {
			score++
		}
		results = append(results, dto.QuestionResult{
			Question:      q.Question,
			SelectedIndex: answers[i],
			CorrectIndex:  q.CorrectIndex,
			Correct:       correct,
			Explanation:   q.Explanation,
		})
	}

	if err := s.quizRepo.RecordScore(ctx, quizID, score); err != nil {
		return nil, domain.NewInternalError("failed to record quiz score", err)
	}

	return &dto.SubmitQuizResponse{
		QuizID:  quizID,
		Score:   score,
		Total:   len(quiz.Questions),
		Results: results,
	}, nil
}

func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if _, err := s.ownedQuiz(ctx, userID, quizID); err != nil {
		return err
	}
	if err := s.quizRepo.DeleteQuiz(ctx, quizID); err != nil {
		return domain.NewInternalError("failed to delete quiz", err)
	}
	return nil
}

func (s *quizServiceImpl) ownedQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get quiz %s", quizID), err)
	}
	if quiz == nil || quiz.UserID != userID {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return quiz, nil
}
