package dto

import (
	"time"

	"anoa.com/learnify/internal/entity"
	"github.com/google/uuid"
)

type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type UserSummary struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TopicSummary is the trimmed topic attached to lessons and listings.
type TopicSummary struct {
	ID    uuid.UUID `json:"_id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
	Icon  string    `json:"icon,omitempty"`
	Color string    `json:"color,omitempty"`
}

type TopicResponse struct {
	ID           uuid.UUID    `json:"_id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	Icon         string       `json:"icon"`
	Color        string       `json:"color"`
	Order        int          `json:"order"`
	IsPublished  bool         `json:"isPublished"`
	CreatedBy    *UserSummary `json:"createdBy,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	LessonsCount *int64       `json:"lessonsCount,omitempty"`
}

// TopicDetailResponse is a topic with its lessons. Lessons is never null.
type TopicDetailResponse struct {
	TopicResponse
	Lessons []LessonResponse `json:"lessons"`
}

type LessonResponse struct {
	ID          uuid.UUID     `json:"_id"`
	TopicID     uuid.UUID     `json:"topicId"`
	Topic       *TopicSummary `json:"topic,omitempty"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Level       string        `json:"level"`
	Content     string        `json:"content,omitempty"`
	SampleCode  string        `json:"sampleCode"`
	Order       int           `json:"order"`
	IsPublished bool          `json:"isPublished"`
	CreatedBy   *UserSummary  `json:"createdBy,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type LessonLink struct {
	ID    uuid.UUID `json:"_id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

type Navigation struct {
	Previous *LessonLink `json:"previous"`
	Next     *LessonLink `json:"next"`
}

type LessonDetailResponse struct {
	LessonResponse
	Navigation Navigation `json:"navigation"`
}

// LessonView selects which optional parts of a lesson are rendered.
type LessonView struct {
	WithContent   bool
	WithCreatedBy bool
}

var (
	FullLesson    = LessonView{WithContent: true, WithCreatedBy: true}
	PublicLesson  = LessonView{WithContent: true}
	LessonListing = LessonView{}
)

func NewUserSummary(u *entity.User) *UserSummary {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewTopicSummary(t *entity.Topic) *TopicSummary {
	if t == nil || t.ID == uuid.Nil {
		return nil
	}
	return &TopicSummary{ID: t.ID, Title: t.Title, Slug: t.Slug, Icon: t.Icon, Color: t.Color}
}

func NewTopicResponse(t *entity.Topic, withCreatedBy bool) TopicResponse {
	res := TopicResponse{
		ID:          t.ID,
		Title:       t.Title,
		Slug:        t.Slug,
		Description: t.Description,
		Icon:        t.Icon,
		Color:       t.Color,
		Order:       t.Order,
		IsPublished: t.IsPublished,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if withCreatedBy {
		res.CreatedBy = NewUserSummary(t.CreatedBy)
	}
	return res
}

func NewLessonResponse(l *entity.Lesson, view LessonView) LessonResponse {
	res := LessonResponse{
		ID:          l.ID,
		TopicID:     l.TopicID,
		Topic:       NewTopicSummary(l.Topic),
		Title:       l.Title,
		Slug:        l.Slug,
		Level:       l.Level,
		SampleCode:  l.SampleCode,
		Order:       l.Order,
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if view.WithContent {
		res.Content = l.Content
	}
	if view.WithCreatedBy {
		res.CreatedBy = NewUserSummary(l.CreatedBy)
	}
	return res
}

func NewLessonResponses(lessons []*entity.Lesson, view LessonView) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, NewLessonResponse(l, view))
	}
	return out
}

func NewLessonLink(l *entity.Lesson) *LessonLink {
	if l == nil {
		return nil
	}
	return &LessonLink{ID: l.ID, Title: l.Title, Slug: l.Slug}
}
