package handler

import (
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/middleware"
	"tutorhub/internal/service"
	"tutorhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles tutor conversation HTTP requests
type ChatHandler struct {
	chatService service.ChatService
	validator   *validation.Validator
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validation.NewValidator(),
	}
}

// CreateChat godoc
// @Summary Start a new chat
// @Description Creates an empty conversation thread for the authenticated user.
// @Tags chats
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateChatRequest false "Optional title"
// @Success 201 {object} dto.ChatSummaryResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	var req dto.CreateChatRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return domain.NewInvalidInputError("invalid request body")
	}

	chat, err := h.chatService.CreateChat(c.Context(), userID, req.Title)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ChatSummaryResponse{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	})
}

// ListChats godoc
// @Summary List chats
// @Description Returns the authenticated user's chats, most recently active first.
// @Tags chats
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.ChatSummaryResponse
// @Router /chats [get]
func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	chats, err := h.chatService.ListChats(c.Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]dto.ChatSummaryResponse, 0, len(chats))
	for _, chat := range chats {
		resp = append(resp, dto.ChatSummaryResponse{
			ID:        chat.ID,
			Title:     chat.Title,
			CreatedAt: chat.CreatedAt,
			UpdatedAt: chat.UpdatedAt,
		})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetChat godoc
// @Summary Get a chat with its messages
// @Tags chats
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Chat ID"
// @Success 200 {object} dto.ChatDetailResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /chats/{id} [get]
func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	chatID := c.Params("id")

	if errs := h.validator.ValidateID("chat_id", chatID); len(errs) > 0 {
		return errs
	}

	chat, messages, err := h.chatService.GetChat(c.Context(), userID, chatID)
	if err != nil {
		return err
	}

	items := make([]dto.MessageResponseItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, dto.MessageResponseItem{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.Status(fiber.StatusOK).JSON(dto.ChatDetailResponse{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
		Messages:  items,
	})
}

// SendMessage godoc
// @Summary Ask the tutor a question
// @Description Appends a user message, generates the tutor's reply, and returns both.
// @Tags chats
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Chat ID"
// @Param body body dto.SendMessageRequest true "Message content"
// @Success 200 {object} dto.SendMessageResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Tutor generation failed"
// @Router /chats/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	chatID := c.Params("id")

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateSendMessage(chatID, req.Content); len(errs) > 0 {
		return errs
	}

	resp, err := h.chatService.SendMessage(c.Context(), userID, chatID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// RenameChat godoc
// @Summary Rename a chat
// @Tags chats
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "Chat ID"
// @Param body body dto.RenameChatRequest true "New title"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /chats/{id} [patch]
func (h *ChatHandler) RenameChat(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	chatID := c.Params("id")

	var req dto.RenameChatRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateID("chat_id", chatID); len(errs) > 0 {
		return errs
	}
	if errs := h.validator.ValidateChatTitle(req.Title); len(errs) > 0 {
		return errs
	}

	if err := h.chatService.RenameChat(c.Context(), userID, chatID, req.Title); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "chat renamed"})
}

// DeleteChat godoc
// @Summary Delete a chat
// @Tags chats
// @Security ApiKeyAuth
// @Param id path string true "Chat ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /chats/{id} [delete]
func (h *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	chatID := c.Params("id")

	if errs := h.validator.ValidateID("chat_id", chatID); len(errs) > 0 {
		return errs
	}

	if err := h.chatService.DeleteChat(c.Context(), userID, chatID); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "chat deleted"})
}
