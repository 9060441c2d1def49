package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutorhub/internal/ai"
	"tutorhub/internal/cache"
	"tutorhub/internal/domain"
	"tutorhub/internal/logger"
	"tutorhub/internal/repository"
	"tutorhub/internal/util"

	"go.uber.org/zap"
)

// RoadmapService defines learning roadmap operations.
type RoadmapService interface {
	GenerateRoadmap(ctx context.Context, topic string) (content string, cached bool, err error)
	SaveRoadmap(ctx context.Context, userID, topic, content string) (*domain.Roadmap, error)
	GetRoadmap(ctx context.Context, userID, roadmapID string) (*domain.Roadmap, error)
	ListRoadmaps(ctx context.Context, userID string) ([]domain.Roadmap, error)
	DeleteRoadmap(ctx context.Context, userID, roadmapID string) error
}

type roadmapServiceImpl struct {
	roadmapRepo repository.RoadmapRepository
	generator   ai.Generator
	prompts     *ai.PromptBuilder
	cache       domain.Cache
	cacheTTL    time.Duration
}

// NewRoadmapService creates a new instance of RoadmapService.
func NewRoadmapService(
	roadmapRepo repository.RoadmapRepository,
	generator ai.Generator,
	prompts *ai.PromptBuilder,
	cacheClient domain.Cache,
	cacheTTL time.Duration,
) RoadmapService {
	return &roadmapServiceImpl{
		roadmapRepo: roadmapRepo,
		generator:   generator,
		prompts:     prompts,
		cache:       cacheClient,
		cacheTTL:    cacheTTL,
	}
}

// GenerateRoadmap returns a staged markdown plan for a topic. Plans are
// user-independent, so they are cached by normalized topic.
func (s *roadmapServiceImpl) GenerateRoadmap(ctx context.Context, topic string) (string, bool, error) {
	appLogger := logger.Get()
	normalized := strings.ToLower(strings.Join(strings.Fields(topic), " "))
	cacheKey := cache.GenerateCacheKey("roadmap", "plan", normalized)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil && cached != "" {
			return cached, true, nil
		}
		if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			appLogger.Warn("Roadmap cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	req := s.prompts.BuildRoadmapPrompt(topic)
	content, err := s.generator.Generate(ctx, req)
	if err != nil {
		appLogger.Warn("Roadmap generation failed",
			zap.String("topic", topic),
			zap.Error(err))
		return "", false, domain.NewAIServiceError(err)
	}
	if strings.TrimSpace(content) == "" {
		return "", false, domain.NewAIServiceError(&ai.GenerationError{
			Kind:   ai.KindParseFailure,
			Detail: "model returned an empty roadmap",
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, content, s.cacheTTL); err != nil {
			appLogger.Warn("Roadmap cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return content, false, nil
}

func (s *roadmapServiceImpl) SaveRoadmap(ctx context.Context, userID, topic, content string) (*domain.Roadmap, error) {
	roadmap := &domain.Roadmap{
		ID:      util.NewULID(),
		UserID:  userID,
		Topic:   topic,
		Content: content,
	}
	if err := s.roadmapRepo.CreateRoadmap(ctx, roadmap); err != nil {
		return nil, domain.NewInternalError("failed to save roadmap", err)
	}
	return roadmap, nil
}

func (s *roadmapServiceImpl) GetRoadmap(ctx context.Context, userID, roadmapID string) (*domain.Roadmap, error) {
	return s.ownedRoadmap(ctx, userID, roadmapID)
}

func (s *roadmapServiceImpl) ListRoadmaps(ctx context.Context, userID string) ([]domain.Roadmap, error) {
	roadmaps, err := s.roadmapRepo.GetRoadmapsByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list roadmaps", err)
	}
	return roadmaps, nil
}

func (s *roadmapServiceImpl) DeleteRoadmap(ctx context.Context, userID, roadmapID string) error {
	if _, err := s.ownedRoadmap(ctx, userID, roadmapID); err != nil {
		return err
	}
	if err := s.roadmapRepo.DeleteRoadmap(ctx, roadmapID); err != nil {
		return domain.NewInternalError("failed to delete roadmap", err)
	}
	return nil
}

func (s *roadmapServiceImpl) ownedRoadmap(ctx context.Context, userID, roadmapID string) (*domain.Roadmap, error) {
	roadmap, err := s.roadmapRepo.GetRoadmapByID(ctx, roadmapID)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get roadmap %s", roadmapID), err)
	}
	if roadmap == nil || roadmap.UserID != userID {
		return nil, domain.NewRoadmapNotFoundError(roadmapID)
	}
	return roadmap, nil
}
