package dto

import "time"

// CreateChatRequest is the request body for starting a new chat.
// @Description Request body for creating a chat
type CreateChatRequest struct {
	Title string `json:"title,omitempty"`
}

// SendMessageRequest is the request body for sending a message in a chat.
// @Description Request body for sending a chat message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MessageResponseItem represents a single message in a conversation.
type MessageResponseItem struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageResponse carries the assistant's reply along with the persisted
// user message.
// @Description Response body for a chat exchange
type SendMessageResponse struct {
	UserMessage      MessageResponseItem `json:"user_message"`
	AssistantMessage MessageResponseItem `json:"assistant_message"`
	ChatTitle        string              `json:"chat_title,omitempty"`
}

// ChatSummaryResponse describes a chat in list views.
type ChatSummaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatDetailResponse contains a chat and its full message history.
type ChatDetailResponse struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Messages  []MessageResponseItem `json:"messages"`
}

// RenameChatRequest is the request body for renaming a chat.
type RenameChatRequest struct {
	Title string `json:"title" validate:"required"`
}
