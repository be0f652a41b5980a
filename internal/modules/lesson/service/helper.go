package lesson

import (
	"context"
	"strings"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/modules/lesson/dto"
	"anoa.com/learnify/pkg/apperror"
	"anoa.com/learnify/pkg/cache"
	commonDto "anoa.com/learnify/pkg/dto"
	"anoa.com/learnify/pkg/sanitize"
	"github.com/google/uuid"
)

// navigation finds the neighbours of current by position in the ordered
// siblings list. Order values are not compared.
func navigation(siblings []*entity.Lesson, current uuid.UUID) commonDto.Navigation {
	var nav commonDto.Navigation
	for i, l := range siblings {
		if l.ID != current {
			continue
		}
		if i > 0 {
			nav.Previous = commonDto.NewLessonLink(siblings[i-1])
		}
		if i < len(siblings)-1 {
			nav.Next = commonDto.NewLessonLink(siblings[i+1])
		}
		break
	}
	return nav
}

func applyLessonUpdate(lesson *entity.Lesson, req dto.UpdateLessonRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return apperror.BadRequest("Title cannot be empty")
		}
		lesson.Title = title
	}
	if req.Level != nil {
		level := strings.ToLower(strings.TrimSpace(*req.Level))
		if !entity.IsValidLevel(level) {
			return apperror.BadRequest(msgInvalidLevel)
		}
		lesson.Level = level
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return apperror.BadRequest("Content cannot be empty")
		}
		lesson.Content = sanitize.Content(*req.Content)
	}
	if req.SampleCode != nil {
		lesson.SampleCode = *req.SampleCode
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}
	return nil
}

// Topic read models embed lesson counts and listings, so every lesson write
// drops them.
func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.TopicsPattern); err != nil {
		s.log.Error(err, "cache invalidation failed")
	}
}

func (s *service) afterWrite(ctx context.Context, lesson *entity.Lesson) {
	s.invalidate(ctx)
	if err := s.indexer.IndexLesson(ctx, lesson); err != nil {
		s.log.Error(err, "failed to index lesson")
	}
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
