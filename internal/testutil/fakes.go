package testutil

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"anoa.com/learnify/internal/entity"
)

// MemoryCache is an in-process cache.Cache. Patterns support a trailing '*' only.
type MemoryCache struct {
	mu          sync.Mutex
	Items       map[string][]byte
	Invalidated int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{Items: make(map[string][]byte)}
}

func (m *MemoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *MemoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.Items[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated++
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.Items {
		if strings.HasPrefix(k, prefix) {
			delete(m.Items, k)
		}
	}
	return nil
}

// RecordingIndexer remembers which documents were indexed or removed.
type RecordingIndexer struct {
	mu             sync.Mutex
	Topics         []string
	Lessons        []string
	DeletedTopics  []string
	DeletedLessons []string
}

func (r *RecordingIndexer) IndexTopic(_ context.Context, t *entity.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Topics = append(r.Topics, t.Slug)
	return nil
}

func (r *RecordingIndexer) IndexLesson(_ context.Context, l *entity.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lessons = append(r.Lessons, l.Slug)
	return nil
}

func (r *RecordingIndexer) DeleteTopic(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeletedTopics = append(r.DeletedTopics, id)
	return nil
}

func (r *RecordingIndexer) DeleteLesson(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeletedLessons = append(r.DeletedLessons, id)
	return nil
}
