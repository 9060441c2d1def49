package models

import (
	"database/sql"
	"time"
)

// Chat represents a row in the chats table.
type Chat struct {
	ID        string       `db:"ID"` // ULID
	UserID    string       `db:"USER_ID"`
	Title     string       `db:"TITLE"`
	CreatedAt time.Time    `db:"CREATED_AT"`
	UpdatedAt time.Time    `db:"UPDATED_AT"`
	DeletedAt sql.NullTime `db:"DELETED_AT"`
}

// Message represents a row in the messages table. Messages are append-only.
type Message struct {
	ID        string    `db:"ID"` // ULID
	ChatID    string    `db:"CHAT_ID"`
	Role      string    `db:"ROLE"`
	Content   string    `db:"CONTENT"`
	CreatedAt time.Time `db:"CREATED_AT"`
}
