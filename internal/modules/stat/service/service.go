package service

import (
	"context"
	"fmt"
	"strings"

	lessonRepo "anoa.com/learnify/internal/modules/lesson/repository"
	"anoa.com/learnify/internal/modules/stat/dto"
	topicRepo "anoa.com/learnify/internal/modules/topic/repository"
	userRepo "anoa.com/learnify/internal/modules/user/repository"
)

const (
	recentLimit  = 5
	unknownLevel = "unknown"
)

type StatService interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error)
}

type statService struct {
	topicRepo  topicRepo.TopicRepository
	lessonRepo lessonRepo.LessonRepository
	userRepo   userRepo.UserRepository
}

func NewStatService(topicRepo topicRepo.TopicRepository, lessonRepo lessonRepo.LessonRepository, userRepo userRepo.UserRepository) StatService {
	return &statService{
		topicRepo:  topicRepo,
		lessonRepo: lessonRepo,
		userRepo:   userRepo,
	}
}

func (s *statService) GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	overview, err := s.overview(ctx)
	if err != nil {
		return nil, err
	}

	topics, err := s.topicRepo.FindRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent topics: %w", err)
	}
	lessons, err := s.lessonRepo.FindRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent lessons: %w", err)
	}
	byLevel, err := s.lessonRepo.CountByLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons by level: %w", err)
	}

	stats := &dto.DashboardStats{
		Overview:       *overview,
		RecentTopics:   make([]dto.RecentTopic, 0, len(topics)),
		RecentLessons:  make([]dto.RecentLesson, 0, len(lessons)),
		LessonsByLevel: normalizeLevels(byLevel),
	}
	for _, t := range topics {
		stats.RecentTopics = append(stats.RecentTopics, dto.NewRecentTopic(t))
	}
	for _, l := range lessons {
		stats.RecentLessons = append(stats.RecentLessons, dto.NewRecentLesson(l))
	}
	return stats, nil
}

func (s *statService) overview(ctx context.Context) (*dto.Overview, error) {
	published := true

	totalTopics, err := s.topicRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}
	publishedTopics, err := s.topicRepo.Count(ctx, &published)
	if err != nil {
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}
	totalLessons, err := s.lessonRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}
	publishedLessons, err := s.lessonRepo.Count(ctx, &published)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &dto.Overview{
		TotalTopics:        totalTopics,
		PublishedTopics:    publishedTopics,
		UnpublishedTopics:  totalTopics - publishedTopics,
		TotalLessons:       totalLessons,
		PublishedLessons:   publishedLessons,
		UnpublishedLessons: totalLessons - publishedLessons,
		TotalUsers:         totalUsers,
	}, nil
}

// normalizeLevels folds stored levels to lowercase; blanks count as unknown.
func normalizeLevels(raw map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(raw))
	for level, n := range raw {
		key := strings.ToLower(strings.TrimSpace(level))
		if key == "" {
			key = unknownLevel
		}
		out[key] += n
	}
	return out
}
