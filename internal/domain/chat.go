package domain

import "time"

// Message roles. Only these two ever appear in persisted history; system
// text lives in the prompt preamble, not in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Chat is one conversation thread owned by a user.
type Chat struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a single turn in a chat. History is append-only: messages are
// inserted one at a time and never updated.
type Message struct {
	ID        string
	ChatID    string
	Role      string
	Content   string
	CreatedAt time.Time
}

func NewChat(userID, title string) *Chat {
	now := time.Now()
	return &Chat{
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
