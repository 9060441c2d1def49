package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutorhub/internal/ai"
	"tutorhub/internal/cache"
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"
	"tutorhub/internal/logger"
	"tutorhub/internal/repository"
	"tutorhub/internal/util"

	"go.uber.org/zap"
)

// ResourceService defines resource lookup and bookkeeping operations.
type ResourceService interface {
	SearchResources(ctx context.Context, query string) (*dto.SearchResourcesResponse, error)
	SaveResource(ctx context.Context, userID, query, content string) (*domain.Resource, error)
	GetResource(ctx context.Context, userID, resourceID string) (*domain.Resource, error)
	ListResources(ctx context.Context, userID string) ([]domain.Resource, error)
	DeleteResource(ctx context.Context, userID, resourceID string) error
}

type resourceServiceImpl struct {
	resourceRepo repository.ResourceRepository
	generator    ai.Generator
	prompts      *ai.PromptBuilder
	cache        domain.Cache
	cacheTTL     time.Duration
}

// NewResourceService creates a new instance of ResourceService.
func NewResourceService(
	resourceRepo repository.ResourceRepository,
	generator ai.Generator,
	prompts *ai.PromptBuilder,
	cacheClient domain.Cache,
	cacheTTL time.Duration,
) ResourceService {
	return &resourceServiceImpl{
		resourceRepo: resourceRepo,
		generator:    generator,
		prompts:      prompts,
		cache:        cacheClient,
		cacheTTL:     cacheTTL,
	}
}

// SearchResources generates recommendations for a query. Results are shared
// across users, so they are cached by normalized query text.
func (s *resourceServiceImpl) SearchResources(ctx context.Context, query string) (*dto.SearchResourcesResponse, error) {
	appLogger := logger.Get()
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	cacheKey := cache.GenerateCacheKey("resource", "search", normalized)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil && cached != "" {
			var resp dto.SearchResourcesResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				resp.Cached = true
				return &resp, nil
			}
			appLogger.Warn("Failed to unmarshal cached resource result", zap.String("key", cacheKey))
		} else if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			appLogger.Warn("Resource cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	req := s.prompts.BuildResourcePrompt(query)
	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		appLogger.Warn("Resource generation failed",
			zap.String("query", query),
			zap.Error(err))
		return nil, domain.NewAIServiceError(err)
	}

	list, err := ai.ParseResources(text)
	if err != nil {
		appLogger.Warn("Resource output could not be parsed",
			zap.String("query", query),
			zap.Error(err))
		return nil, domain.NewAIServiceError(err)
	}

	links := make([]dto.ResourceLinkItem, 0, len(list.Links))
	for _, l := range list.Links {
		links = append(links, dto.ResourceLinkItem{Title: l.Title, URL: l.URL})
	}
	resp := &dto.SearchResourcesResponse{
		Query:       query,
		Explanation: list.Explanation,
		Links:       links,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL); err != nil {
				appLogger.Warn("Resource cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return resp, nil
}

func (s *resourceServiceImpl) SaveResource(ctx context.Context, userID, query, content string) (*domain.Resource, error) {
	resource := &domain.Resource{
		ID:      util.NewULID(),
		UserID:  userID,
		Query:   query,
		Content: content,
	}
	if err := s.resourceRepo.CreateResource(ctx, resource); err != nil {
		return nil, domain.NewInternalError("failed to save resource", err)
	}
	return resource, nil
}

func (s *resourceServiceImpl) GetResource(ctx context.Context, userID, resourceID string) (*domain.Resource, error) {
	return s.ownedResource(ctx, userID, resourceID)
}

func (s *resourceServiceImpl) ListResources(ctx context.Context, userID string) ([]domain.Resource, error) {
	resources, err := s.resourceRepo.GetResourcesByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list resources", err)
	}
	return resources, nil
}

func (s *resourceServiceImpl) DeleteResource(ctx context.Context, userID, resourceID string) error {
	if _, err := s.ownedResource(ctx, userID, resourceID); err != nil {
		return err
	}
	if err := s.resourceRepo.DeleteResource(ctx, resourceID); err != nil {
		return domain.NewInternalError("failed to delete resource", err)
	}
	return nil
}

func (s *resourceServiceImpl) ownedResource(ctx context.Context, userID, resourceID string) (*domain.Resource, error) {
	resource, err := s.resourceRepo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get resource %s", resourceID), err)
	}
	if resource == nil || resource.UserID != userID {
		return nil, domain.NewResourceNotFoundError(resourceID)
	}
	return resource, nil
}
