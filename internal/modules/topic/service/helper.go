package topic

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/modules/topic/dto"
	"anoa.com/learnify/pkg/apperror"
	"anoa.com/learnify/pkg/cache"
	commonDto "anoa.com/learnify/pkg/dto"
	"github.com/google/uuid"
)

func (s *service) withLessonCounts(ctx context.Context, topics []*entity.Topic, publishedOnly, withCreatedBy bool) ([]commonDto.TopicResponse, error) {
	ids := make([]uuid.UUID, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}

	counts, err := s.lessonRepo.CountByTopicIDs(ctx, ids, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}

	res := make([]commonDto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		item := commonDto.NewTopicResponse(t, withCreatedBy)
		count := counts[t.ID]
		item.LessonsCount = &count
		res = append(res, item)
	}
	return res, nil
}

func applyTopicUpdate(topic *entity.Topic, req dto.UpdateTopicRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return apperror.BadRequest("Title cannot be empty")
		}
		topic.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return apperror.BadRequest("Description cannot be empty")
		}
		topic.Description = description
	}
	if req.Icon != nil {
		topic.Icon = orDefault(*req.Icon, entity.DefaultTopicIcon)
	}
	if req.Color != nil {
		topic.Color = orDefault(*req.Color, entity.DefaultTopicColor)
	}
	if req.Order != nil {
		topic.Order = *req.Order
	}
	if req.IsPublished != nil {
		topic.IsPublished = *req.IsPublished
	}
	return nil
}

func (s *service) readCache(ctx context.Context, key string, dest any) bool {
	hit, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		s.log.Error(err, "cache read failed")
		return false
	}
	return hit
}

func (s *service) writeCache(ctx context.Context, key string, value any) {
	if err := s.cache.SetJSON(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Error(err, "cache write failed")
	}
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.TopicsPattern); err != nil {
		s.log.Error(err, "cache invalidation failed")
	}
}

func (s *service) afterWrite(ctx context.Context, topic *entity.Topic) {
	s.invalidate(ctx)
	if err := s.indexer.IndexTopic(ctx, topic); err != nil {
		s.log.Error(err, "failed to index topic")
	}
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
