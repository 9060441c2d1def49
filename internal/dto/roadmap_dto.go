package dto

import "time"

// GenerateRoadmapRequest is the request body for generating a learning roadmap.
// @Description Request body for roadmap generation
type GenerateRoadmapRequest struct {
	Topic string `json:"topic" validate:"required"`
}

// RoadmapResponse is a generated or saved roadmap.
// @Description Response body for a roadmap
type RoadmapResponse struct {
	ID        string    `json:"id,omitempty"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	Cached    bool      `json:"cached,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SaveRoadmapRequest is the request body for saving a roadmap.
type SaveRoadmapRequest struct {
	Topic   string `json:"topic" validate:"required"`
	Content string `json:"content" validate:"required"`
}
