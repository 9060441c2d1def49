package service

import (
	"context"
	"fmt"
	"strings"

	"tutorhub/internal/ai"
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/logger"
	"tutorhub/internal/repository"
	"tutorhub/internal/util"

	"go.uber.org/zap"
)

const (
	defaultChatTitle  = "New chat"
	maxFallbackTitle  = 50
	historyFetchLimit = 50
)

// ChatService defines tutor conversation operations.
type ChatService interface {
	CreateChat(ctx context.Context, userID, title string) (*domain.Chat, error)
	GetChat(ctx context.Context, userID, chatID string) (*domain.Chat, []domain.Message, error)
	ListChats(ctx context.Context, userID string) ([]domain.Chat, error)
	RenameChat(ctx context.Context, userID, chatID, title string) error
	DeleteChat(ctx context.Context, userID, chatID string) error
	SendMessage(ctx context.Context, userID, chatID, content string) (*dto.SendMessageResponse, error)
}

type chatServiceImpl struct {
	chatRepo  repository.ChatRepository
	generator ai.Generator
	prompts   *ai.PromptBuilder
}

// NewChatService creates a new instance of ChatService.
func NewChatService(chatRepo repository.ChatRepository, generator ai.Generator, prompts *ai.PromptBuilder) ChatService {
	return &chatServiceImpl{
		chatRepo:  chatRepo,
		generator: generator,
		prompts:   prompts,
	}
}

func (s *chatServiceImpl) CreateChat(ctx context.Context, userID, title string) (*domain.Chat, error) {
	if strings.TrimSpace(title) == "" {
		title = defaultChatTitle
	}
	chat := domain.NewChat(userID, title)
	chat.ID = util.NewULID()
	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		return nil, domain.NewInternalError("failed to create chat", err)
	}
	return chat, nil
}

func (s *chatServiceImpl) GetChat(ctx context.Context, userID, chatID string) (*domain.Chat, []domain.Message, error) {
	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.chatRepo.GetHistory(ctx, chatID, 0)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to load chat history", err)
	}
	return chat, messages, nil
}

func (s *chatServiceImpl) ListChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	chats, err := s.chatRepo.GetChatsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list chats", err)
	}
	return chats, nil
}

func (s *chatServiceImpl) RenameChat(ctx context.Context, userID, chatID, title string) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	if err := s.chatRepo.UpdateChatTitle(ctx, chatID, title); err != nil {
		return domain.NewInternalError("failed to rename chat", err)
	}
	return nil
}

func (s *chatServiceImpl) DeleteChat(ctx context.Context, userID, chatID string) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	if err := s.chatRepo.DeleteChat(ctx, chatID); err != nil {
		return domain.NewInternalError("failed to delete chat", err)
	}
	return nil
}

// SendMessage runs one tutor exchange. The user message is committed as its
// own write before the model is called, so a failed generation leaves the
// question in the transcript with no answer; the assistant message is only
// written after a successful generation.
func (s *chatServiceImpl) SendMessage(ctx context.Context, userID, chatID, content string) (*dto.SendMessageResponse, error) {
	appLogger := logger.Get()

	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	history, err := s.chatRepo.GetHistory(ctx, chatID, historyFetchLimit)
	if err != nil {
		return nil, domain.NewInternalError("failed to load chat history", err)
	}
	firstExchange := len(history) == 0

	userMsg := &domain.Message{
		ID:      util.NewULID(),
		ChatID:  chatID,
		Role:    domain.RoleUser,
		Content: content,
	}
	if err := s.chatRepo.InsertMessage(ctx, userMsg); err != nil {
		return nil, domain.NewInternalError("failed to persist user message", err)
	}

	turns := make([]ai.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, ai.Turn{Role: m.Role, Content: m.Content})
	}

	req := s.prompts.BuildChatPrompt(turns, content)
	answer, err := s.generator.Generate(ctx, req)
	if err != nil {
		appLogger.Warn("Tutor generation failed",
			zap.String("chatID", chatID),
			zap.Error(err))
		return nil, domain.NewAIServiceError(err)
	}

	assistantMsg := &domain.Message{
		ID:      util.NewULID(),
		ChatID:  chatID,
		Role:    domain.RoleAssistant,
		Content: answer,
	}
	if err := s.chatRepo.InsertMessage(ctx, assistantMsg); err != nil {
		return nil, domain.NewInternalError("failed to persist assistant message", err)
	}

	resp := &dto.SendMessageResponse{
		UserMessage: dto.MessageResponseItem{
			ID:        userMsg.ID,
			Role:      userMsg.Role,
			Content:   userMsg.Content,
			CreatedAt: userMsg.CreatedAt,
		},
		AssistantMessage: dto.MessageResponseItem{
			ID:        assistantMsg.ID,
			Role:      assistantMsg.Role,
			Content:   assistantMsg.Content,
			CreatedAt: assistantMsg.CreatedAt,
		},
	}

	if firstExchange && (chat.Title == "" || chat.Title == defaultChatTitle) {
		title := s.generateTitle(ctx, content)
		if err := s.chatRepo.UpdateChatTitle(ctx, chatID, title); err != nil {
			// The exchange already succeeded; a stale title is acceptable.
			appLogger.Warn("Failed to update chat title",
				zap.String("chatID", chatID),
				zap.Error(err))
		} else {
			resp.ChatTitle = title
		}
	}

	return resp, nil
}

// generateTitle asks the model for a short chat title and falls back to a
// truncated copy of the first message when generation fails.
func (s *chatServiceImpl) generateTitle(ctx context.Context, firstMessage string) string {
	req := s.prompts.BuildTitlePrompt(firstMessage)
	title, err := s.generator.Generate(ctx, req)
	if err == nil {
		title = strings.Trim(strings.TrimSpace(title), `"`)
		if title != "" {
			return title
		}
	}

	fallback := strings.TrimSpace(firstMessage)
	if len(fallback) > maxFallbackTitle {
		fallback = fallback[:maxFallbackTitle] + "..."
	}
	if fallback == "" {
		fallback = defaultChatTitle
	}
	return fallback
}

func (s *chatServiceImpl) ownedChat(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get chat %s", chatID), err)
	}
	if chat == nil || chat.UserID != userID {
		return nil, domain.NewChatNotFoundError(chatID)
	}
	return chat, nil
}
