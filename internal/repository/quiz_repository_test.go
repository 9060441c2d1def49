package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"tutorhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupQuizTestDB creates a new sqlx.DB instance and sqlmock for quiz repository testing.
func setupQuizTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func sampleQuestionsJSON() string {
	return `[{"question":"What does len return?","options":["the length","the capacity","the type","an error"],"correct_index":0,"explanation":"len returns the element count."}]`
}

func TestQuizRepository_CreateQuiz(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectExec(`INSERT INTO quizzes`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	quiz := &domain.Quiz{
		UserID:     "user1",
		Topic:      "slices",
		Difficulty: domain.DifficultyEasy,
		Questions: []domain.QuizQuestion{
			{
				Question:     "What does len return?",
				Options:      []string{"the length", "the capacity", "the type", "an error"},
				CorrectIndex: 0,
			},
		},
	}

	err := repo.CreateQuiz(context.Background(), quiz)

	require.NoError(t, err)
	assert.NotEmpty(t, quiz.ID, "CreateQuiz must assign a ULID")
	assert.False(t, quiz.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizRepository_GetQuizByID(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	now := time.Now()
	columns := []string{"ID", "USER_ID", "TOPIC", "DIFFICULTY", "QUESTIONS", "SCORE", "SUBMITTED_AT", "CREATED_AT", "DELETED_AT"}

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow("quiz1", "user1", "slices", "easy", sampleQuestionsJSON(), nil, nil, now, nil)
		mock.ExpectPrepare(`SELECT \* FROM quizzes`).
			ExpectQuery().
			WithArgs("quiz1").
			WillReturnRows(rows)

		quiz, err := repo.GetQuizByID(context.Background(), "quiz1")

		require.NoError(t, err)
		require.NotNil(t, quiz)
		assert.Equal(t, "slices", quiz.Topic)
		require.Len(t, quiz.Questions, 1)
		assert.Equal(t, 0, quiz.Questions[0].CorrectIndex)
		assert.Nil(t, quiz.Score)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectPrepare(`SELECT \* FROM quizzes`).
			ExpectQuery().
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		quiz, err := repo.GetQuizByID(context.Background(), "missing")

		require.NoError(t, err)
		assert.Nil(t, quiz)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuizRepository_RecordScore(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE quizzes SET score`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RecordScore(context.Background(), "quiz1", 3)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE quizzes SET score`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RecordScore(context.Background(), "missing", 3)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
