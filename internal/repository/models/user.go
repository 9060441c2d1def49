package models

import (
	"database/sql"
	"time"
)

// User represents a row in the users table.
type User struct {
	ID                string         `db:"ID"` // ULID
	GoogleID          string         `db:"GOOGLE_ID"`
	Email             string         `db:"EMAIL"`
	Name              sql.NullString `db:"NAME"`
	ProfilePictureURL sql.NullString `db:"PROFILE_PICTURE_URL"`
	CreatedAt         time.Time      `db:"CREATED_AT"`
	UpdatedAt         time.Time      `db:"UPDATED_AT"`
	DeletedAt         sql.NullTime   `db:"DELETED_AT"`
}
