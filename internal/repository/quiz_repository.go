package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository/models"
	"tutorhub/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizRepository defines data operations for generated quizzes.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *domain.Quiz) error
	GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error)
	GetQuizzesByUserID(ctx context.Context, userID string) ([]domain.Quiz, error)
	RecordScore(ctx context.Context, quizID string, score int) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = util.NewULID()
	}
	quiz.CreatedAt = time.Now()

	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz questions: %w", err)
	}

	query := `INSERT INTO quizzes (id, user_id, topic, difficulty, questions, created_at)
	          VALUES (:id, :user_id, :topic, :difficulty, :questions, :created_at)`

	_, err = r.db.NamedExecContext(ctx, query, &models.Quiz{
		ID:         quiz.ID,
		UserID:     quiz.UserID,
		Topic:      quiz.Topic,
		Difficulty: quiz.Difficulty,
		Questions:  string(questionsJSON),
		CreatedAt:  quiz.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var quiz models.Quiz
	query := `SELECT * FROM quizzes WHERE id = :id AND deleted_at IS NULL`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetQuizByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &quiz, map[string]interface{}{"id": quizID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return quizToDomain(&quiz)
}

func (r *sqlxQuizRepository) GetQuizzesByUserID(ctx context.Context, userID string) ([]domain.Quiz, error) {
	var rows []models.Quiz
	query := `SELECT * FROM quizzes WHERE user_id = :user_id AND deleted_at IS NULL ORDER BY created_at DESC`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetQuizzesByUserID: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &rows, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("failed to get quizzes by user id: %w", err)
	}

	quizzes := make([]domain.Quiz, 0, len(rows))
	for i := range rows {
		q, err := quizToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, nil
}

func (r *sqlxQuizRepository) RecordScore(ctx context.Context, quizID string, score int) error {
	query := `UPDATE quizzes SET score = :score, submitted_at = :submitted_at
	          WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":           quizID,
		"score":        score,
		"submitted_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to record quiz score: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for score update: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	query := `UPDATE quizzes SET deleted_at = :deleted_at WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         quizID,
		"deleted_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for quiz delete: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func quizToDomain(m *models.Quiz) (*domain.Quiz, error) {
	var questions []domain.QuizQuestion
	if err := json.Unmarshal([]byte(m.Questions), &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz questions for %s: %w", m.ID, err)
	}

	quiz := &domain.Quiz{
		ID:         m.ID,
		UserID:     m.UserID,
		Topic:      m.Topic,
		Difficulty: m.Difficulty,
		Questions:  questions,
		CreatedAt:  m.CreatedAt,
	}
	if m.Score.Valid {
		score := int(m.Score.Int64)
		quiz.Score = &score
	}
	if m.SubmittedAt.Valid {
		submittedAt := m.SubmittedAt.Time
		quiz.SubmittedAt = &submittedAt
	}
	return quiz, nil
}
