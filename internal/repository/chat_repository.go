package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository/models"
	"tutorhub/internal/util"

	"github.com/jmoiron/sqlx"
)

// ChatRepository defines data operations for chats and their messages.
// Message history is append-only; each insert is a single atomic write.
type ChatRepository interface {
	CreateChat(ctx context.Context, chat *domain.Chat) error
	GetChatByID(ctx context.Context, chatID string) (*domain.Chat, error)
	GetChatsByUserID(ctx context.Context, userID string) ([]domain.Chat, error)
	UpdateChatTitle(ctx context.Context, chatID, title string) error
	DeleteChat(ctx context.Context, chatID string) error

	InsertMessage(ctx context.Context, message *domain.Message) error
	// GetHistory returns the most recent messages in chronological order.
	// limit <= 0 means no limit.
	GetHistory(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
	CountMessages(ctx context.Context, chatID string) (int, error)
}

type sqlxChatRepository struct {
	db *sqlx.DB
}

// NewSQLXChatRepository creates a new instance of sqlxChatRepository.
func NewSQLXChatRepository(db *sqlx.DB) ChatRepository {
	return &sqlxChatRepository{db: db}
}

func (r *sqlxChatRepository) CreateChat(ctx context.Context, chat *domain.Chat) error {
	if chat.ID == "" {
		chat.ID = util.NewULID()
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	query := `INSERT INTO chats (id, user_id, title, created_at, updated_at)
	          VALUES (:id, :user_id, :title, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, chatToModel(chat))
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

func (r *sqlxChatRepository) GetChatByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat models.Chat
	query := `SELECT * FROM chats WHERE id = :id AND deleted_at IS NULL`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetChatByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &chat, map[string]interface{}{"id": chatID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat by id: %w", err)
	}
	return chatToDomain(&chat), nil
}

func (r *sqlxChatRepository) GetChatsByUserID(ctx context.Context, userID string) ([]domain.Chat, error) {
	var rows []models.Chat
	query := `SELECT * FROM chats WHERE user_id = :user_id AND deleted_at IS NULL ORDER BY updated_at DESC`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetChatsByUserID: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &rows, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("failed to get chats by user id: %w", err)
	}

	chats := make([]domain.Chat, 0, len(rows))
	for i := range rows {
		chats = append(chats, *chatToDomain(&rows[i]))
	}
	return chats, nil
}

func (r *sqlxChatRepository) UpdateChatTitle(ctx context.Context, chatID, title string) error {
	query := `UPDATE chats SET title = :title, updated_at = :updated_at
	          WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         chatID,
		"title":      title,
		"updated_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to update chat title: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for chat title update: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxChatRepository) DeleteChat(ctx context.Context, chatID string) error {
	query := `UPDATE chats SET deleted_at = :deleted_at WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         chatID,
		"deleted_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for chat delete: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxChatRepository) InsertMessage(ctx context.Context, message *domain.Message) error {
	if message.ID == "" {
		message.ID = util.NewULID()
	}
	message.CreatedAt = time.Now()

	query := `INSERT INTO messages (id, chat_id, role, content, created_at)
	          VALUES (:id, :chat_id, :role, :content, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, &models.Message{
		ID:        message.ID,
		ChatID:    message.ChatID,
		Role:      message.Role,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *sqlxChatRepository) GetHistory(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	var rows []models.Message

	// Most recent N rows, then reversed into chronological order.
	query := `SELECT * FROM (
	            SELECT * FROM messages WHERE chat_id = :chat_id ORDER BY created_at DESC
	          ) WHERE ROWNUM <= :row_limit ORDER BY created_at ASC`
	args := map[string]interface{}{"chat_id": chatID, "row_limit": limit}
	if limit <= 0 {
		query = `SELECT * FROM messages WHERE chat_id = :chat_id ORDER BY created_at ASC`
		args = map[string]interface{}{"chat_id": chatID}
	}

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetHistory: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, m := range rows {
		messages = append(messages, domain.Message{
			ID:        m.ID,
			ChatID:    m.ChatID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return messages, nil
}

func (r *sqlxChatRepository) CountMessages(ctx context.Context, chatID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE chat_id = :chat_id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare query for CountMessages: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &count, map[string]interface{}{"chat_id": chatID}); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func chatToModel(c *domain.Chat) *models.Chat {
	return &models.Chat{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func chatToDomain(m *models.Chat) *domain.Chat {
	return &domain.Chat{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
