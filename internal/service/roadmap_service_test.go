package service

import (
	"context"
	"testing"
	"time"

	"tutorhub/internal/ai"
	"tutorhub/internal/cache"
	"tutorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const roadmapModelOutput = `### 1. Foundations
Learn syntax, types, and control flow.

### 2. Concurrency
Goroutines, channels, and the sync package.
`

func newRoadmapServiceForTest(repo *MockRoadmapRepository, gen *MockGenerator, c domain.Cache) RoadmapService {
	return NewRoadmapService(repo, gen, ai.NewPromptBuilder(10, 6000), c, time.Hour)
}

func TestGenerateRoadmap_GeneratesAndCaches(t *testing.T) {
	repo := new(MockRoadmapRepository)
	gen := new(MockGenerator)
	mockCache := new(MockCache)
	svc := newRoadmapServiceForTest(repo, gen, mockCache)

	key := cache.GenerateCacheKey("roadmap", "plan", "golang")

	mockCache.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return(roadmapModelOutput, nil).Once()
	mockCache.On("Set", mock.Anything, key, roadmapModelOutput, time.Hour).Return(nil).Once()

	content, cached, err := svc.GenerateRoadmap(context.Background(), "Golang")

	assert.NoError(t, err)
	assert.False(t, cached)
	assert.Contains(t, content, "### 1. Foundations")
	mockCache.AssertExpectations(t)
}

func TestGenerateRoadmap_CacheHit(t *testing.T) {
	repo := new(MockRoadmapRepository)
	gen := new(MockGenerator)
	mockCache := new(MockCache)
	svc := newRoadmapServiceForTest(repo, gen, mockCache)

	key := cache.GenerateCacheKey("roadmap", "plan", "golang")
	mockCache.On("Get", mock.Anything, key).Return(roadmapModelOutput, nil).Once()

	content, cached, err := svc.GenerateRoadmap(context.Background(), "golang")

	assert.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, roadmapModelOutput, content)
	gen.AssertNotCalled(t, "Generate")
}

func TestGenerateRoadmap_EmptyOutputFails(t *testing.T) {
	repo := new(MockRoadmapRepository)
	gen := new(MockGenerator)
	mockCache := new(MockCache)
	svc := newRoadmapServiceForTest(repo, gen, mockCache)

	mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return("   \n", nil).Once()

	content, cached, err := svc.GenerateRoadmap(context.Background(), "golang")

	assert.Empty(t, content)
	assert.False(t, cached)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAIServiceError, domainErr.Code)
	assert.True(t, ai.IsKind(domainErr.Cause, ai.KindParseFailure))
	mockCache.AssertNotCalled(t, "Set")
}

func TestSaveRoadmap_AssignsID(t *testing.T) {
	repo := new(MockRoadmapRepository)
	svc := newRoadmapServiceForTest(repo, new(MockGenerator), new(MockCache))

	repo.On("CreateRoadmap", mock.Anything, mock.MatchedBy(func(r *domain.Roadmap) bool {
		return r.ID != "" && r.UserID == "user-1" && r.Topic == "golang"
	})).Return(nil).Once()

	roadmap, err := svc.SaveRoadmap(context.Background(), "user-1", "golang", roadmapModelOutput)

	assert.NoError(t, err)
	assert.NotEmpty(t, roadmap.ID)
	repo.AssertExpectations(t)
}

func TestGetRoadmap_NotFound(t *testing.T) {
	repo := new(MockRoadmapRepository)
	svc := newRoadmapServiceForTest(repo, new(MockGenerator), new(MockCache))

	repo.On("GetRoadmapByID", mock.Anything, "missing").Return(nil, nil)

	roadmap, err := svc.GetRoadmap(context.Background(), "user-1", "missing")

	assert.Nil(t, roadmap)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeRoadmapNotFound, domainErr.Code)
}
