package domain

import "time"

// ResourceLink is one entry in the bulleted list the model is asked to emit.
type ResourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// ResourceList is the parsed result of a resource lookup: free-text
// explanation plus zero or more links. An empty Links slice is a valid
// result as long as the explanation is present.
type ResourceList struct {
	Explanation string         `json:"explanation"`
	Links       []ResourceLink `json:"links"`
}

// Resource is a saved lookup result owned by a user.
type Resource struct {
	ID        string
	UserID    string
	Query     string
	Content   string
	CreatedAt time.Time
}
