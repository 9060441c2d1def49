package dto

import "time"

// SearchResourcesRequest is the request body for a resource lookup.
// @Description Request body for resource search
type SearchResourcesRequest struct {
	Query string `json:"query" validate:"required"`
}

// ResourceLinkItem is a single recommended link.
type ResourceLinkItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SearchResourcesResponse carries the generated recommendations.
// @Description Response body for resource search
type SearchResourcesResponse struct {
	Query       string             `json:"query"`
	Explanation string             `json:"explanation,omitempty"`
	Links       []ResourceLinkItem `json:"links"`
	Cached      bool               `json:"cached"`
}

// SaveResourceRequest is the request body for saving a resource result.
type SaveResourceRequest struct {
	Query   string `json:"query" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// ResourceResponse is a saved resource entry.
type ResourceResponse struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
