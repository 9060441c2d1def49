package handler

import (
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/middleware"
	"tutorhub/internal/service"
	"tutorhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ResourceHandler handles learning resource HTTP requests
type ResourceHandler struct {
	resourceService service.ResourceService
	validator       *validation.Validator
}

// NewResourceHandler creates a new ResourceHandler instance
func NewResourceHandler(resourceService service.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		validator:       validation.NewValidator(),
	}
}

// SearchResources godoc
// @Summary Search learning resources
// @Description Generates resource recommendations for a query. Results are cached.
// @Tags resources
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SearchResourcesRequest true "Search query"
// @Success 200 {object} dto.SearchResourcesResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Resource generation failed"
// @Router /resources/search [post]
func (h *ResourceHandler) SearchResources(c *fiber.Ctx) error {
	var req dto.SearchResourcesRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateSearchQuery(req.Query); len(errs) > 0 {
		return errs
	}

	resp, err := h.resourceService.SearchResources(c.Context(), req.Query)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// SaveResource godoc
// @Summary Save a resource result
// @Tags resources
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SaveResourceRequest true "Resource to save"
// @Success 201 {object} dto.ResourceResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /resources [post]
func (h *ResourceHandler) SaveResource(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	var req dto.SaveResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateSearchQuery(req.Query); len(errs) > 0 {
		return errs
	}
	if req.Content == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("content")}
	}

	resource, err := h.resourceService.SaveResource(c.Context(), userID, req.Query, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resourceToResponse(resource))
}

// ListResources godoc
// @Summary List saved resources
// @Tags resources
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.ResourceResponse
// @Router /resources [get]
func (h *ResourceHandler) ListResources(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	resources, err := h.resourceService.ListResources(c.Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]dto.ResourceResponse, 0, len(resources))
	for i := range resources {
		resp = append(resp, resourceToResponse(&resources[i]))
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetResource godoc
// @Summary Get a saved resource
// @Tags resources
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} dto.ResourceResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /resources/{id} [get]
func (h *ResourceHandler) GetResource(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	resourceID := c.Params("id")

	if errs := h.validator.ValidateID("resource_id", resourceID); len(errs) > 0 {
		return errs
	}

	resource, err := h.resourceService.GetResource(c.Context(), userID, resourceID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resourceToResponse(resource))
}

// DeleteResource godoc
// @Summary Delete a saved resource
// @Tags resources
// @Security ApiKeyAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /resources/{id} [delete]
func (h *ResourceHandler) DeleteResource(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)
	resourceID := c.Params("id")

	if errs := h.validator.ValidateID("resource_id", resourceID); len(errs) > 0 {
		return errs
	}

	if err := h.resourceService.DeleteResource(c.Context(), userID, resourceID); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "resource deleted"})
}

func resourceToResponse(r *domain.Resource) dto.ResourceResponse {
	return dto.ResourceResponse{
		ID:        r.ID,
		Query:     r.Query,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}
