package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/internal/modules/lesson/dto"
	"anoa.com/learnify/internal/modules/lesson/repository"
	"anoa.com/learnify/internal/modules/search/indexer"
	topicRepo "anoa.com/learnify/internal/modules/topic/repository"
	"anoa.com/learnify/pkg/apperror"
	"anoa.com/learnify/pkg/cache"
	commonDto "anoa.com/learnify/pkg/dto"
	"anoa.com/learnify/pkg/sanitize"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgLessonNotFound = "Lesson not found"
	msgTopicNotFound  = "Topic not found"
	msgMissingFields  = "Please provide topicId, title, slug, and content"
	msgSlugTaken      = "Lesson with this slug already exists in this topic"
	msgInvalidTopicID = "Invalid topic id"
	msgInvalidLevel   = "Level must be one of: beginner, intermediate, advanced"
)

type Service interface {
	ListPublished(ctx context.Context) ([]commonDto.LessonResponse, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*commonDto.LessonDetailResponse, error)
	ListByTopicSlug(ctx context.Context, topicSlug string) (*dto.TopicLessons, error)
	ListAll(ctx context.Context) ([]commonDto.LessonResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*commonDto.LessonResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateLessonRequest) (*commonDto.LessonResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLessonRequest) (*commonDto.LessonResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      repository.LessonRepository
	topicRepo topicRepo.TopicRepository
	cache     cache.Cache
	indexer   indexer.Indexer
	log       logger.Logger
}

func NewService(
	repo repository.LessonRepository,
	topicRepo topicRepo.TopicRepository,
	c cache.Cache,
	idx indexer.Indexer,
	log logger.Logger,
) Service {
	if c == nil {
		c = cache.New(nil)
	}
	if idx == nil {
		idx = indexer.Nop()
	}
	return &service{
		repo:      repo,
		topicRepo: topicRepo,
		cache:     c,
		indexer:   idx,
		log:       log.With(map[string]interface{}{"module": "lesson"}),
	}
}

func (s *service) ListPublished(ctx context.Context) ([]commonDto.LessonResponse, error) {
	lessons, err := s.repo.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return commonDto.NewLessonResponses(lessons, commonDto.PublicLesson), nil
}

func (s *service) GetPublishedBySlug(ctx context.Context, slug string) (*commonDto.LessonDetailResponse, error) {
	lesson, err := s.repo.FindPublishedBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		return nil, notFoundOr(err, msgLessonNotFound, "failed to get lesson")
	}

	siblings, err := s.repo.FindByTopicID(ctx, lesson.TopicID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic lessons: %w", err)
	}

	return &commonDto.LessonDetailResponse{
		LessonResponse: commonDto.NewLessonResponse(lesson, commonDto.PublicLesson),
		Navigation:     navigation(siblings, lesson.ID),
	}, nil
}

func (s *service) ListByTopicSlug(ctx context.Context, topicSlug string) (*dto.TopicLessons, error) {
	topic, err := s.topicRepo.FindBySlug(ctx, normalizeSlug(topicSlug))
	if err != nil {
		return nil, notFoundOr(err, msgTopicNotFound, "failed to get topic")
	}

	lessons, err := s.repo.FindByTopicID(ctx, topic.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic lessons: %w", err)
	}

	return &dto.TopicLessons{
		Topic:   *commonDto.NewTopicSummary(topic),
		Lessons: commonDto.NewLessonResponses(lessons, commonDto.LessonListing),
	}, nil
}

func (s *service) ListAll(ctx context.Context) ([]commonDto.LessonResponse, error) {
	lessons, err := s.repo.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return commonDto.NewLessonResponses(lessons, commonDto.FullLesson), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*commonDto.LessonResponse, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgLessonNotFound, "failed to get lesson")
	}
	res := commonDto.NewLessonResponse(lesson, commonDto.FullLesson)
	return &res, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req dto.CreateLessonRequest) (*commonDto.LessonResponse, error) {
	rawTopicID := strings.TrimSpace(req.TopicID)
	title := strings.TrimSpace(req.Title)
	slug := normalizeSlug(req.Slug)
	if rawTopicID == "" || title == "" || slug == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apperror.BadRequest(msgMissingFields)
	}

	topicID, err := uuid.Parse(rawTopicID)
	if err != nil {
		return nil, apperror.BadRequest(msgInvalidTopicID)
	}

	level := strings.ToLower(strings.TrimSpace(req.Level))
	if level == "" {
		level = entity.LevelBeginner
	}
	if !entity.IsValidLevel(level) {
		return nil, apperror.BadRequest(msgInvalidLevel)
	}

	topic, err := s.topicRepo.FindByID(ctx, topicID)
	if err != nil {
		return nil, notFoundOr(err, msgTopicNotFound, "failed to get topic")
	}

	exists, err := s.repo.ExistsByTopicAndSlug(ctx, topic.ID, slug, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check lesson slug: %w", err)
	}
	if exists {
		return nil, apperror.Conflict(msgSlugTaken)
	}

	lesson := &entity.Lesson{
		TopicID:     topic.ID,
		Title:       title,
		Slug:        slug,
		Level:       level,
		Content:     sanitize.Content(req.Content),
		SampleCode:  req.SampleCode,
		IsPublished: true,
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}
	if userID != uuid.Nil {
		lesson.CreatedByID = &userID
	}

	if err := s.repo.Create(ctx, lesson); err != nil {
		if apperror.IsDuplicateKey(err) {
			return nil, apperror.Conflict(msgSlugTaken)
		}
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	lesson.Topic = topic
	s.afterWrite(ctx, lesson)

	res := commonDto.NewLessonResponse(lesson, commonDto.PublicLesson)
	return &res, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLessonRequest) (*commonDto.LessonResponse, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgLessonNotFound, "failed to get lesson")
	}

	topicChanged := false
	if req.TopicID != nil {
		topicID, err := uuid.Parse(strings.TrimSpace(*req.TopicID))
		if err != nil {
			return nil, apperror.BadRequest(msgInvalidTopicID)
		}
		if topicID != lesson.TopicID {
			topic, err := s.topicRepo.FindByID(ctx, topicID)
			if err != nil {
				return nil, notFoundOr(err, msgTopicNotFound, "failed to get topic")
			}
			lesson.TopicID = topic.ID
			lesson.Topic = topic
			topicChanged = true
		}
	}

	slugChanged := false
	if req.Slug != nil {
		slug := normalizeSlug(*req.Slug)
		if slug == "" {
			return nil, apperror.BadRequest("Slug cannot be empty")
		}
		slugChanged = slug != lesson.Slug
		lesson.Slug = slug
	}

	if topicChanged || slugChanged {
		exists, err := s.repo.ExistsByTopicAndSlug(ctx, lesson.TopicID, lesson.Slug, &lesson.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check lesson slug: %w", err)
		}
		if exists {
			return nil, apperror.Conflict(msgSlugTaken)
		}
	}

	if err := applyLessonUpdate(lesson, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, lesson); err != nil {
		if apperror.IsDuplicateKey(err) {
			return nil, apperror.Conflict(msgSlugTaken)
		}
		return nil, notFoundOr(err, msgLessonNotFound, "failed to update lesson")
	}

	s.afterWrite(ctx, lesson)

	res := commonDto.NewLessonResponse(lesson, commonDto.FullLesson)
	return &res, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, msgLessonNotFound, "failed to get lesson")
	}

	if err := s.repo.Delete(ctx, lesson.ID); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	s.invalidate(ctx)
	if err := s.indexer.DeleteLesson(ctx, lesson.ID.String()); err != nil {
		s.log.Error(err, "failed to remove lesson from search index")
	}
	return nil
}

func notFoundOr(err error, notFound, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
