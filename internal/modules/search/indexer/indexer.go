package indexer

import (
	"context"
	"strings"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/pkg/sanitize"
	"github.com/meilisearch/meilisearch-go"
)

const (
	TopicsIndex  = "topics"
	LessonsIndex = "lessons"
)

// Indexer mirrors topics and lessons into a full-text engine.
type Indexer interface {
	IndexTopic(ctx context.Context, topic *entity.Topic) error
	IndexLesson(ctx context.Context, lesson *entity.Lesson) error
	DeleteTopic(ctx context.Context, id string) error
	DeleteLesson(ctx context.Context, id string) error
}

type topicDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
	IsPublished bool   `json:"is_published"`
	CreatedAt   int64  `json:"created_at"`
}

type lessonDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Level       string `json:"level"`
	Content     string `json:"content"`
	TopicID     string `json:"topic_id"`
	TopicTitle  string `json:"topic_title,omitempty"`
	TopicSlug   string `json:"topic_slug,omitempty"`
	IsPublished bool   `json:"is_published"`
	CreatedAt   int64  `json:"created_at"`
}

type meiliIndexer struct {
	client meilisearch.ServiceManager
	log    logger.Logger
}

// NewMeiliClient normalizes host ("meili" -> "http://meili:7700") and builds a client.
func NewMeiliClient(host, masterKey string) meilisearch.ServiceManager {
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	return meilisearch.New(host, meilisearch.WithAPIKey(masterKey))
}

// NewMeiliIndexer configures index settings and returns an Indexer. Setting
// failures are logged; documents can still be written.
func NewMeiliIndexer(client meilisearch.ServiceManager, log logger.Logger) Indexer {
	idx := &meiliIndexer{client: client, log: log.With(map[string]interface{}{"component": "meilisearch"})}
	idx.initIndexes()
	return idx
}

func (m *meiliIndexer) initIndexes() {
	topicFilterable := []any{"is_published"}
	if _, err := m.client.Index(TopicsIndex).UpdateFilterableAttributes(&topicFilterable); err != nil {
		m.log.Error(err, "failed to update topics filterable attributes")
	}
	topicSortable := []string{"order", "created_at"}
	if _, err := m.client.Index(TopicsIndex).UpdateSortableAttributes(&topicSortable); err != nil {
		m.log.Error(err, "failed to update topics sortable attributes")
	}

	lessonFilterable := []any{"is_published", "level", "topic_id", "topic_slug"}
	if _, err := m.client.Index(LessonsIndex).UpdateFilterableAttributes(&lessonFilterable); err != nil {
		m.log.Error(err, "failed to update lessons filterable attributes")
	}
	lessonSortable := []string{"created_at"}
	if _, err := m.client.Index(LessonsIndex).UpdateSortableAttributes(&lessonSortable); err != nil {
		m.log.Error(err, "failed to update lessons sortable attributes")
	}
}

func (m *meiliIndexer) IndexTopic(ctx context.Context, topic *entity.Topic) error {
	doc := newTopicDoc(topic)
	_, err := m.client.Index(TopicsIndex).AddDocumentsWithContext(ctx, []topicDoc{doc}, strPtr("id"))
	return err
}

func (m *meiliIndexer) IndexLesson(ctx context.Context, lesson *entity.Lesson) error {
	doc := newLessonDoc(lesson)
	_, err := m.client.Index(LessonsIndex).AddDocumentsWithContext(ctx, []lessonDoc{doc}, strPtr("id"))
	return err
}

func (m *meiliIndexer) DeleteTopic(ctx context.Context, id string) error {
	_, err := m.client.Index(TopicsIndex).DeleteDocumentWithContext(ctx, id)
	return err
}

func (m *meiliIndexer) DeleteLesson(ctx context.Context, id string) error {
	_, err := m.client.Index(LessonsIndex).DeleteDocumentWithContext(ctx, id)
	return err
}

func newTopicDoc(t *entity.Topic) topicDoc {
	return topicDoc{
		ID:          t.ID.String(),
		Title:       t.Title,
		Slug:        t.Slug,
		Description: t.Description,
		Icon:        t.Icon,
		Color:       t.Color,
		Order:       t.Order,
		IsPublished: t.IsPublished,
		CreatedAt:   t.CreatedAt.Unix(),
	}
}

func newLessonDoc(l *entity.Lesson) lessonDoc {
	doc := lessonDoc{
		ID:          l.ID.String(),
		Title:       l.Title,
		Slug:        l.Slug,
		Level:       l.Level,
		Content:     sanitize.PlainText(l.Content),
		TopicID:     l.TopicID.String(),
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt.Unix(),
	}
	if l.Topic != nil {
		doc.TopicTitle = l.Topic.Title
		doc.TopicSlug = l.Topic.Slug
	}
	return doc
}

func strPtr(s string) *string {
	return &s
}

type nopIndexer struct{}

// Nop is used when no search engine is configured.
func Nop() Indexer {
	return nopIndexer{}
}

func (nopIndexer) IndexTopic(context.Context, *entity.Topic) error   { return nil }
func (nopIndexer) IndexLesson(context.Context, *entity.Lesson) error { return nil }
func (nopIndexer) DeleteTopic(context.Context, string) error         { return nil }
func (nopIndexer) DeleteLesson(context.Context, string) error        { return nil }
