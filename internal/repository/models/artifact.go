package models

import (
	"database/sql"
	"time"
)

// Resource represents a row in the resources table.
type Resource struct {
	ID        string       `db:"ID"` // ULID
	UserID    string       `db:"USER_ID"`
	Query     string       `db:"QUERY"`
	Content   string       `db:"CONTENT"` // markdown, as returned by the model
	CreatedAt time.Time    `db:"CREATED_AT"`
	DeletedAt sql.NullTime `db:"DELETED_AT"`
}

// Roadmap represents a row in the roadmaps table.
type Roadmap struct {
	ID        string       `db:"ID"` // ULID
	UserID    string       `db:"USER_ID"`
	Topic     string       `db:"TOPIC"`
	Content   string       `db:"CONTENT"` // markdown
	CreatedAt time.Time    `db:"CREATED_AT"`
	DeletedAt sql.NullTime `db:"DELETED_AT"`
}
