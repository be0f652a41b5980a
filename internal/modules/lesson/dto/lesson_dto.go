package dto

import commonDto "anoa.com/learnify/pkg/dto"

type CreateLessonRequest struct {
	TopicID     string `json:"topicId"`
	Title       string `json:"title" binding:"max=200"`
	Slug        string `json:"slug" binding:"max=150"`
	Level       string `json:"level"`
	Content     string `json:"content"`
	SampleCode  string `json:"sampleCode"`
	Order       *int   `json:"order"`
	IsPublished *bool  `json:"isPublished"`
}

// UpdateLessonRequest merges into the stored lesson; nil fields keep their value.
type UpdateLessonRequest struct {
	TopicID     *string `json:"topicId"`
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Slug        *string `json:"slug" binding:"omitempty,max=150"`
	Level       *string `json:"level"`
	Content     *string `json:"content"`
	SampleCode  *string `json:"sampleCode"`
	Order       *int    `json:"order"`
	IsPublished *bool   `json:"isPublished"`
}

// TopicLessons is the reading list of one topic.
type TopicLessons struct {
	Topic   commonDto.TopicSummary
	Lessons []commonDto.LessonResponse
}
