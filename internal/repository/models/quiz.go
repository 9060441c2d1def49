package models

import (
	"database/sql"
	"time"
)

// Quiz represents a row in the quizzes table. Questions are stored as a
// JSON document in a CLOB column; the repository marshals them.
type Quiz struct {
	ID          string        `db:"ID"` // ULID
	UserID      string        `db:"USER_ID"`
	Topic       string        `db:"TOPIC"`
	Difficulty  string        `db:"DIFFICULTY"`
	Questions   string        `db:"QUESTIONS"` // JSON array
	Score       sql.NullInt64 `db:"SCORE"`
	SubmittedAt sql.NullTime  `db:"SUBMITTED_AT"`
	CreatedAt   time.Time     `db:"CREATED_AT"`
	DeletedAt   sql.NullTime  `db:"DELETED_AT"`
}
