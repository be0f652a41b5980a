package topic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/logger"
	lessonRepo "anoa.com/learnify/internal/modules/lesson/repository"
	"anoa.com/learnify/internal/modules/search/indexer"
	"anoa.com/learnify/internal/modules/topic/dto"
	"anoa.com/learnify/internal/modules/topic/repository"
	"anoa.com/learnify/pkg/apperror"
	"anoa.com/learnify/pkg/cache"
	commonDto "anoa.com/learnify/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgTopicNotFound = "Topic not found"
	msgMissingFields = "Please provide title, slug, and description"
	msgSlugTaken     = "Slug already exists. Please use a unique slug."
	msgDuplicateSlug = "Topic with this slug already exists"
)

type Service interface {
	ListPublished(ctx context.Context) ([]commonDto.TopicResponse, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*commonDto.TopicDetailResponse, error)
	ListAll(ctx context.Context) ([]commonDto.TopicResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*commonDto.TopicDetailResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateTopicRequest) (*commonDto.TopicResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTopicRequest) (*commonDto.TopicResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo       repository.TopicRepository
	lessonRepo lessonRepo.LessonRepository
	cache      cache.Cache
	cacheTTL   time.Duration
	indexer    indexer.Indexer
	log        logger.Logger
}

func NewService(
	repo repository.TopicRepository,
	lessonRepo lessonRepo.LessonRepository,
	c cache.Cache,
	cacheTTL time.Duration,
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
		repo:       repo,
		lessonRepo: lessonRepo,
		cache:      c,
		cacheTTL:   cacheTTL,
		indexer:    idx,
		log:        log.With(map[string]interface{}{"module": "topic"}),
	}
}

func (s *service) ListPublished(ctx context.Context) ([]commonDto.TopicResponse, error) {
	var cached []commonDto.TopicResponse
	if s.readCache(ctx, cache.PublishedTopicsKey, &cached) {
		return cached, nil
	}

	topics, err := s.repo.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	res, err := s.withLessonCounts(ctx, topics, true, false)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, cache.PublishedTopicsKey, res)
	return res, nil
}

func (s *service) GetPublishedBySlug(ctx context.Context, slug string) (*commonDto.TopicDetailResponse, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	key := cache.TopicSlugKey(slug)

	var cached commonDto.TopicDetailResponse
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	topic, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, s.notFoundOr(err, "failed to get topic")
	}

	lessons, err := s.lessonRepo.FindByTopicID(ctx, topic.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic lessons: %w", err)
	}

	res := &commonDto.TopicDetailResponse{
		TopicResponse: commonDto.NewTopicResponse(topic, false),
		Lessons:       commonDto.NewLessonResponses(lessons, commonDto.LessonListing),
	}

	s.writeCache(ctx, key, res)
	return res, nil
}

func (s *service) ListAll(ctx context.Context) ([]commonDto.TopicResponse, error) {
	topics, err := s.repo.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return s.withLessonCounts(ctx, topics, false, true)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*commonDto.TopicDetailResponse, error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "failed to get topic")
	}

	lessons, err := s.lessonRepo.FindByTopicID(ctx, topic.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic lessons: %w", err)
	}

	return &commonDto.TopicDetailResponse{
		TopicResponse: commonDto.NewTopicResponse(topic, true),
		Lessons:       commonDto.NewLessonResponses(lessons, commonDto.PublicLesson),
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req dto.CreateTopicRequest) (*commonDto.TopicResponse, error) {
	title := strings.TrimSpace(req.Title)
	slug := normalizeSlug(req.Slug)
	description := strings.TrimSpace(req.Description)
	if title == "" || slug == "" || description == "" {
		return nil, apperror.BadRequest(msgMissingFields)
	}

	exists, err := s.repo.ExistsBySlug(ctx, slug, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic slug: %w", err)
	}
	if exists {
		return nil, apperror.Conflict(msgSlugTaken)
	}

	topic := &entity.Topic{
		Title:       title,
		Slug:        slug,
		Description: description,
		Icon:        orDefault(req.Icon, entity.DefaultTopicIcon),
		Color:       orDefault(req.Color, entity.DefaultTopicColor),
		IsPublished: true,
	}
	if req.Order != nil {
		topic.Order = *req.Order
	}
	if req.IsPublished != nil {
		topic.IsPublished = *req.IsPublished
	}
	if userID != uuid.Nil {
		topic.CreatedByID = &userID
	}

	if err := s.repo.Create(ctx, topic); err != nil {
		if apperror.IsDuplicateKey(err) {
			return nil, apperror.Conflict(msgDuplicateSlug)
		}
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	s.afterWrite(ctx, topic)

	res := commonDto.NewTopicResponse(topic, false)
	return &res, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTopicRequest) (*commonDto.TopicResponse, error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "failed to get topic")
	}

	if req.Slug != nil {
		slug := normalizeSlug(*req.Slug)
		if slug == "" {
			return nil, apperror.BadRequest("Slug cannot be empty")
		}
		if slug != topic.Slug {
			exists, err := s.repo.ExistsBySlug(ctx, slug, &topic.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check topic slug: %w", err)
			}
			if exists {
				return nil, apperror.Conflict(msgSlugTaken)
			}
		}
		topic.Slug = slug
	}

	if err := applyTopicUpdate(topic, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, topic); err != nil {
		if apperror.IsDuplicateKey(err) {
			return nil, apperror.Conflict(msgSlugTaken)
		}
		return nil, s.notFoundOr(err, "failed to update topic")
	}

	s.afterWrite(ctx, topic)

	res := commonDto.NewTopicResponse(topic, true)
	return &res, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.notFoundOr(err, "failed to get topic")
	}

	count, err := s.lessonRepo.CountByTopicID(ctx, topic.ID)
	if err != nil {
		return fmt.Errorf("failed to count topic lessons: %w", err)
	}
	if count > 0 {
		return apperror.BadRequest(fmt.Sprintf("Cannot delete topic. It has %d lesson(s). Please delete lessons first.", count))
	}

	if err := s.repo.Delete(ctx, topic.ID); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	s.invalidate(ctx)
	if err := s.indexer.DeleteTopic(ctx, topic.ID.String()); err != nil {
		s.log.Error(err, "failed to remove topic from search index")
	}
	return nil
}

func (s *service) notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(msgTopicNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
