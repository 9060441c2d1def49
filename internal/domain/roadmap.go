package domain

import "time"

// Roadmap is a generated learning plan, stored as markdown.
type Roadmap struct {
	ID        string
	UserID    string
	Topic     string
	Content   string
	CreatedAt time.Time
}
