package dto

import (
	"time"

	"anoa.com/learnify/internal/entity"
	"github.com/google/uuid"
)

type Overview struct {
	TotalTopics        int64 `json:"totalTopics"`
	PublishedTopics    int64 `json:"publishedTopics"`
	UnpublishedTopics  int64 `json:"unpublishedTopics"`
	TotalLessons       int64 `json:"totalLessons"`
	PublishedLessons   int64 `json:"publishedLessons"`
	UnpublishedLessons int64 `json:"unpublishedLessons"`
	TotalUsers         int64 `json:"totalUsers"`
}

type RecentTopic struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TopicRef struct {
	ID    uuid.UUID `json:"_id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

type RecentLesson struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Topic       *TopicRef `json:"topic"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DashboardStats struct {
	Overview       Overview         `json:"overview"`
	RecentTopics   []RecentTopic    `json:"recentTopics"`
	RecentLessons  []RecentLesson   `json:"recentLessons"`
	LessonsByLevel map[string]int64 `json:"lessonsByLevel"`
}

func NewRecentTopic(t *entity.Topic) RecentTopic {
	return RecentTopic{
		ID:          t.ID,
		Title:       t.Title,
		Slug:        t.Slug,
		IsPublished: t.IsPublished,
		CreatedAt:   t.CreatedAt,
	}
}

func NewRecentLesson(l *entity.Lesson) RecentLesson {
	res := RecentLesson{
		ID:          l.ID,
		Title:       l.Title,
		Slug:        l.Slug,
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt,
	}
	if l.Topic != nil && l.Topic.ID != uuid.Nil {
		res.Topic = &TopicRef{ID: l.Topic.ID, Title: l.Topic.Title, Slug: l.Topic.Slug}
	}
	return res
}
