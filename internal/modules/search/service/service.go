package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/internal/modules/search/dto"
	"anoa.com/learnify/internal/modules/search/repository"
	topicRepo "anoa.com/learnify/internal/modules/topic/repository"
	"anoa.com/learnify/pkg/apperror"
	"gorm.io/gorm"
)

const (
	msgMissingQuery = "Please provide a search query"

	topicLimit      = 10
	lessonLimit     = 20
	suggestionLimit = 5
	minSuggestLen   = 2
)

type Service interface {
	Search(ctx context.Context, q string) (string, *dto.SearchResults, error)
	AdvancedSearch(ctx context.Context, query dto.AdvancedSearchQuery) (string, *dto.SearchResults, error)
	Suggestions(ctx context.Context, q string) ([]dto.Suggestion, error)
}

type service struct {
	repo      repository.SearchRepository
	topicRepo topicRepo.TopicRepository
	log       logger.Logger
}

func NewService(repo repository.SearchRepository, topicRepo topicRepo.TopicRepository, log logger.Logger) Service {
	return &service{
		repo:      repo,
		topicRepo: topicRepo,
		log:       log.With(map[string]interface{}{"module": "search"}),
	}
}

func (s *service) Search(ctx context.Context, q string) (string, *dto.SearchResults, error) {
	term := strings.TrimSpace(q)
	if term == "" {
		return "", nil, apperror.BadRequest(msgMissingQuery)
	}

	topics, err := s.searchTopics(ctx, term)
	if err != nil {
		return "", nil, err
	}
	lessons, err := s.searchLessons(ctx, term, repository.LessonFilter{})
	if err != nil {
		return "", nil, err
	}
	return term, &dto.SearchResults{Topics: topics, Lessons: lessons}, nil
}

// AdvancedSearch applies the type, level and topic filters. An unknown
// topicSlug leaves lessons unfiltered by topic.
func (s *service) AdvancedSearch(ctx context.Context, query dto.AdvancedSearchQuery) (string, *dto.SearchResults, error) {
	term := strings.TrimSpace(query.Q)
	if term == "" {
		return "", nil, apperror.BadRequest(msgMissingQuery)
	}

	results := &dto.SearchResults{Topics: []dto.SearchTopic{}, Lessons: []dto.SearchLesson{}}
	kind := strings.ToLower(strings.TrimSpace(query.Type))

	if kind == "" || kind == dto.TypeTopic {
		topics, err := s.searchTopics(ctx, term)
		if err != nil {
			return "", nil, err
		}
		results.Topics = topics
	}

	if kind == "" || kind == dto.TypeLesson {
		filter := repository.LessonFilter{Level: strings.ToLower(strings.TrimSpace(query.Level))}
		if slug := strings.ToLower(strings.TrimSpace(query.TopicSlug)); slug != "" {
			topic, err := s.topicRepo.FindBySlug(ctx, slug)
			switch {
			case err == nil:
				filter.TopicID = &topic.ID
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return "", nil, fmt.Errorf("failed to resolve topic filter: %w", err)
			}
		}

		lessons, err := s.searchLessons(ctx, term, filter)
		if err != nil {
			return "", nil, err
		}
		results.Lessons = lessons
	}

	return term, results, nil
}

func (s *service) Suggestions(ctx context.Context, q string) ([]dto.Suggestion, error) {
	term := strings.TrimSpace(q)
	suggestions := []dto.Suggestion{}
	if len([]rune(term)) < minSuggestLen {
		return suggestions, nil
	}

	topics, err := s.repo.SuggestTopics(ctx, term, suggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest topics: %w", err)
	}
	lessons, err := s.repo.SuggestLessons(ctx, term, suggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest lessons: %w", err)
	}

	for _, t := range topics {
		suggestions = append(suggestions, dto.NewTopicSuggestion(t))
	}
	for _, l := range lessons {
		suggestions = append(suggestions, dto.NewLessonSuggestion(l))
	}
	return suggestions, nil
}

func (s *service) searchTopics(ctx context.Context, term string) ([]dto.SearchTopic, error) {
	topics, err := s.repo.SearchTopics(ctx, term, topicLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search topics: %w", err)
	}
	out := make([]dto.SearchTopic, 0, len(topics))
	for _, t := range topics {
		out = append(out, dto.NewSearchTopic(t))
	}
	return out, nil
}

func (s *service) searchLessons(ctx context.Context, term string, filter repository.LessonFilter) ([]dto.SearchLesson, error) {
	lessons, err := s.repo.SearchLessons(ctx, term, filter, lessonLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search lessons: %w", err)
	}
	out := make([]dto.SearchLesson, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, dto.NewSearchLesson(l))
	}
	return out, nil
}
