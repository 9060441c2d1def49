package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tutorhub/internal/ai"
	"tutorhub/internal/cache"
	"tutorhub/internal/domain"
	"tutorhub/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const resourceModelOutput = `Slices are the idiomatic list type, so start with the official material.
- Go Tour, slices section: https://go.dev/tour/moretypes/7
- [Go Slices: usage and internals](https://go.dev/blog/slices-intro)
`

func newResourceServiceForTest(repo *MockResourceRepository, gen *MockGenerator, c domain.Cache) ResourceService {
	return NewResourceService(repo, gen, ai.NewPromptBuilder(10, 6000), c, time.Hour)
}

func TestSearchResources_GeneratesAndCaches(t *testing.T) {
	repo := new(MockResourceRepository)
	gen := new(MockGenerator)
	mockCache := new(MockCache)
	svc := newResourceServiceForTest(repo, gen, mockCache)

	key := cache.GenerateCacheKey("resource", "search", "go slices")

	mockCache.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return(resourceModelOutput, nil).Once()
	mockCache.On("Set", mock.Anything, key, mock.MatchedBy(func(payload string) bool {
		var resp dto.SearchResourcesResponse
		return json.Unmarshal([]byte(payload), &resp) == nil && len(resp.Links) == 2
	}), time.Hour).Return(nil).Once()

	resp, err := svc.SearchResources(context.Background(), "Go  Slices")

	assert.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Len(t, resp.Links, 2)
	assert.Equal(t, "https://go.dev/blog/slices-intro", resp.Links[1].URL)
	assert.Contains(t, resp.Explanation, "idiomatic list type")
	mockCache.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestSearchResources_CacheHitSkipsGeneration(t *testing.T) {
	repo := new(MockResourceRepository)
	gen := new(MockGenerator)
	mockCache := new(MockCache)
	svc := newResourceServiceForTest(repo, gen, mockCache)

	cached := dto.SearchResourcesResponse{
		Query:       "go slices",
		Explanation: "cached explanation",
		Links:       []dto.ResourceLinkItem{{Title: "Go Tour", URL: "https://go.dev/tour"}},
	}
	payload, err := json.Marshal(cached)
	assert.NoError(t, err)

	key := cache.GenerateCacheKey("resource", "search", "go slices")
	mockCache.On("Get", mock.Anything, key).Return(string(payload), nil).Once()

	resp, err := svc.SearchResources(context.Background(), "go slices")

	assert.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, "cached explanation", resp.Explanation)
	gen.AssertNotCalled(t, "Generate")
}

func TestSearchResources_GenerationFailure(t *testing.T) {
	repo := new(MockResourceRepository)
	gen := new(MockGenerator)
	mockCache := new(MockCache)
	svc := newResourceServiceForTest(repo, gen, mockCache)

	mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return("", &ai.GenerationError{
		Kind:   ai.KindClientError,
		Detail: "bad token",
	}).Once()

	resp, err := svc.SearchResources(context.Background(), "go slices")

	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAIServiceError, domainErr.Code)
	mockCache.AssertNotCalled(t, "Set")
}

func TestSaveResource_AssignsID(t *testing.T) {
	repo := new(MockResourceRepository)
	svc := newResourceServiceForTest(repo, new(MockGenerator), new(MockCache))

	repo.On("CreateResource", mock.Anything, mock.MatchedBy(func(r *domain.Resource) bool {
		return r.ID != "" && r.UserID == "user-1" && r.Query == "go slices"
	})).Return(nil).Once()

	resource, err := svc.SaveResource(context.Background(), "user-1", "go slices", "content")

	assert.NoError(t, err)
	assert.NotEmpty(t, resource.ID)
	repo.AssertExpectations(t)
}

func TestDeleteResource_OwnedByAnotherUser(t *testing.T) {
	repo := new(MockResourceRepository)
	svc := newResourceServiceForTest(repo, new(MockGenerator), new(MockCache))

	repo.On("GetResourceByID", mock.Anything, "res-1").Return(&domain.Resource{ID: "res-1", UserID: "someone-else"}, nil)

	err := svc.DeleteResource(context.Background(), "user-1", "res-1")

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeResourceNotFound, domainErr.Code)
	repo.AssertNotCalled(t, "DeleteResource")
}
