package handler

import (
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/middleware"
	"tutorhub/internal/service"
	"tutorhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RoadmapHandler handles learning roadmap HTTP requests
type RoadmapHandler struct {
	roadmapService service.RoadmapService
	validator      *validation.Validator
}

// NewRoadmapHandler creates a new RoadmapHandler instance
func NewRoadmapHandler(roadmapService service.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{
		roadmapService: roadmapService,
		validator:      validation.NewValidator(),
	}
}

// GenerateRoadmap godoc
// @Summary Generate a learning roadmap
// @Description Generates a staged markdown plan for a topic. Plans are cached per topic.
// @Tags roadmaps
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.GenerateRoadmapRequest true "Topic"
// @Success 200 {object} dto.RoadmapResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Roadmap generation failed"
// @Router /roadmaps/generate [post]
func (h *RoadmapHandler) GenerateRoadmap(c *fiber.Ctx) error {
	var req dto.GenerateRoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateRoadmapTopic(req.Topic); len(errs) > 0 {
		return errs
	}

	content, cached, err := h.roadmapService.GenerateRoadmap(c.Context(), req.Topic)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(dto.RoadmapResponse{
		Topic:   req.Topic,
		Content: content,
		Cached:  cached,
	})
}

// SaveRoadmap godoc
// @Summary Save a roadmap
// @Tags roadmaps
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SaveRoadmapRequest true "Roadmap to save"
// @Success 201 {object} dto.RoadmapResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /roadmaps [post]
func (h *RoadmapHandler) SaveRoadmap(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	var req dto.SaveRoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateRoadmapTopic(req.Topic); len(errs) > 0 {
		return errs
	}
	if req.Content == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("content")}
	}

	roadmap, err := h.roadmapService.SaveRoadmap(c.Context(), userID, req.Topic, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(roadmapToResponse(roadmap))
}

// ListRoadmaps godoc
// @Summary List saved roadmaps
// @Tags roadmaps
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.RoadmapResponse
// @Router /roadmaps [get]
func (h *RoadmapHandler) ListRoadmaps(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	roadmaps, err := h.roadmapService.ListRoadmaps(c.Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]dto.RoadmapResponse, 0, len(roadmaps))
	for i := range roadmaps {
		resp = append(resp, roadmapToResponse(&roadmaps[i]))
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetRoadmap godoc
// @Summary Get a saved roadmap
// @Tags roadmaps
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Roadmap ID"
// @Success 200 {object} dto.RoadmapResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /roadmaps/{id} [get]
func (h *RoadmapHandler) GetRoadmap(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	roadmapID := c.Params("id")

	if errs := h.validator.ValidateID("roadmap_id", roadmapID); len(errs) > 0 {
		return errs
	}

	roadmap, err := h.roadmapService.GetRoadmap(c.Context(), userID, roadmapID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(roadmapToResponse(roadmap))
}

// DeleteRoadmap godoc
// @Summary Delete a saved roadmap
// @Tags roadmaps
// @Security ApiKeyAuth
// @Param id path string true "Roadmap ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /roadmaps/{id} [delete]
func (h *RoadmapHandler) DeleteRoadmap(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	roadmapID := c.Params("id")

	if errs := h.validator.ValidateID("roadmap_id", roadmapID); len(errs) > 0 {
		return errs
	}

	if err := h.roadmapService.DeleteRoadmap(c.Context(), userID, roadmapID); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "roadmap deleted"})
}

func roadmapToResponse(r *domain.Roadmap) dto.RoadmapResponse {
	return dto.RoadmapResponse{
		ID:        r.ID,
		Topic:     r.Topic,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}
