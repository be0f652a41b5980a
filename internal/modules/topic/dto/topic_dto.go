package dto

// CreateTopicRequest leaves presence checks to the service so a missing field
// yields the combined "Please provide ..." message.
type CreateTopicRequest struct {
	Title       string `json:"title" binding:"max=100"`
	Slug        string `json:"slug" binding:"max=150"`
	Description string `json:"description" binding:"max=500"`
	Icon        string `json:"icon" binding:"max=50"`
	Color       string `json:"color" binding:"max=20"`
	Order       *int   `json:"order"`
	IsPublished *bool  `json:"isPublished"`
}

// UpdateTopicRequest merges into the stored topic; nil fields keep their value.
type UpdateTopicRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=100"`
	Slug        *string `json:"slug" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
	Color       *string `json:"color" binding:"omitempty,max=20"`
	Order       *int    `json:"order"`
	IsPublished *bool   `json:"isPublished"`
}
