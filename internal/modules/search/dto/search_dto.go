package dto

import (
	"anoa.com/learnify/internal/entity"
	commonDto "anoa.com/learnify/pkg/dto"
	"github.com/google/uuid"
)

const (
	TypeTopic  = "topic"
	TypeLesson = "lesson"
)

type SearchQuery struct {
	Q string `form:"q"`
}

type AdvancedSearchQuery struct {
	Q         string `form:"q"`
	Type      string `form:"type"`
	Level     string `form:"level"`
	TopicSlug string `form:"topicSlug"`
}

type SearchTopic struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
}

type SearchLesson struct {
	ID      uuid.UUID               `json:"_id"`
	Title   string                  `json:"title"`
	Slug    string                  `json:"slug"`
	Level   string                  `json:"level"`
	TopicID uuid.UUID               `json:"topicId"`
	Topic   *commonDto.TopicSummary `json:"topic,omitempty"`
}

type SearchResults struct {
	Topics  []SearchTopic  `json:"topics"`
	Lessons []SearchLesson `json:"lessons"`
}

// Total is the number of topics and lessons returned.
func (r SearchResults) Total() int {
	return len(r.Topics) + len(r.Lessons)
}

// Filters echoes the advanced search parameters that were supplied.
type Filters struct {
	Type      string `json:"type,omitempty"`
	Level     string `json:"level,omitempty"`
	TopicSlug string `json:"topicSlug,omitempty"`
}

// Suggestion is one autocomplete entry. Topic holds the parent topic title
// of a lesson suggestion.
type Suggestion struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Icon  string `json:"icon,omitempty"`
	Topic string `json:"topic,omitempty"`
}

func NewSearchTopic(t *entity.Topic) SearchTopic {
	return SearchTopic{
		ID:          t.ID,
		Title:       t.Title,
		Slug:        t.Slug,
		Description: t.Description,
		Icon:        t.Icon,
		Color:       t.Color,
	}
}

func NewSearchLesson(l *entity.Lesson) SearchLesson {
	return SearchLesson{
		ID:      l.ID,
		Title:   l.Title,
		Slug:    l.Slug,
		Level:   l.Level,
		TopicID: l.TopicID,
		Topic:   commonDto.NewTopicSummary(l.Topic),
	}
}

func NewTopicSuggestion(t *entity.Topic) Suggestion {
	return Suggestion{Type: TypeTopic, Title: t.Title, Slug: t.Slug, Icon: t.Icon}
}

func NewLessonSuggestion(l *entity.Lesson) Suggestion {
	s := Suggestion{Type: TypeLesson, Title: l.Title, Slug: l.Slug}
	if l.Topic != nil {
		s.Topic = l.Topic.Title
	}
	return s
}
