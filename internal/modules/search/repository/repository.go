package repository

import (
	"context"
	"strings"

	"anoa.com/learnify/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonFilter narrows lesson matches. Zero values are ignored.
type LessonFilter struct {
	Level   string
	TopicID *uuid.UUID
}

// SearchRepository runs case-insensitive matching over published content.
type SearchRepository interface {
	SearchTopics(ctx context.Context, term string, limit int) ([]*entity.Topic, error)
	SearchLessons(ctx context.Context, term string, filter LessonFilter, limit int) ([]*entity.Lesson, error)
	SuggestTopics(ctx context.Context, prefix string, limit int) ([]*entity.Topic, error)
	SuggestLessons(ctx context.Context, prefix string, limit int) ([]*entity.Lesson, error)
}

type searchRepository struct {
	db   *gorm.DB
	like func(column string) string
	fold func(term string) string
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	dialect := db.Dialector.Name()
	return &searchRepository{db: db, like: likeClause(dialect), fold: foldCase(dialect)}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains and prefix build LIKE patterns that match term literally.
func contains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func prefix(term string) string {
	return likeEscaper.Replace(term) + "%"
}

// likeClause returns the case-insensitive match condition for a dialect.
// Postgres gets ILIKE. Other drivers compare LOWER(column); SQLite's LOWER
// only folds ASCII, so non-ASCII letters there match in their stored case.
func likeClause(dialect string) func(column string) string {
	if dialect == "postgres" {
		return func(column string) string {
			return column + ` ILIKE ? ESCAPE '\'`
		}
	}
	return func(column string) string {
		return `LOWER(` + column + `) LIKE ? ESCAPE '\'`
	}
}

// foldCase lowers the search term the same way the dialect's match does.
func foldCase(dialect string) func(string) string {
	if dialect == "postgres" {
		return strings.ToLower
	}
	return func(term string) string {
		return strings.Map(func(r rune) rune {
			if r >= 'A' && r <= 'Z' {
				return r + ('a' - 'A')
			}
			return r
		}, term)
	}
}

func (r *searchRepository) SearchTopics(ctx context.Context, term string, limit int) ([]*entity.Topic, error) {
	var topics []*entity.Topic
	pattern := contains(r.fold(term))
	err := r.db.WithContext(ctx).
		Select("id", "title", "slug", "description", "icon", "color").
		Where("is_published = ?", true).
		Where(r.db.Where(r.like("title"), pattern).Or(r.like("description"), pattern)).
		Order("sort_order ASC").Order("created_at DESC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

func (r *searchRepository) SearchLessons(ctx context.Context, term string, filter LessonFilter, limit int) ([]*entity.Lesson, error) {
	var lessons []*entity.Lesson
	pattern := contains(r.fold(term))
	query := r.db.WithContext(ctx).
		Select("id", "topic_id", "title", "slug", "level").
		Preload("Topic", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "slug", "icon", "color")
		}).
		Where("is_published = ?", true).
		Where(r.db.Where(r.like("title"), pattern).Or(r.like("content"), pattern))

	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.TopicID != nil {
		query = query.Where("topic_id = ?", *filter.TopicID)
	}

	err := query.Order("sort_order ASC").Order("created_at DESC").Limit(limit).Find(&lessons).Error
	return lessons, err
}

func (r *searchRepository) SuggestTopics(ctx context.Context, term string, limit int) ([]*entity.Topic, error) {
	var topics []*entity.Topic
	err := r.db.WithContext(ctx).
		Select("id", "title", "slug", "icon").
		Where("is_published = ?", true).
		Where(r.like("title"), prefix(r.fold(term))).
		Order("sort_order ASC").
		Limit(limit).
		Find(&topics).Error
	return topics, err
}

func (r *searchRepository) SuggestLessons(ctx context.Context, term string, limit int) ([]*entity.Lesson, error) {
	var lessons []*entity.Lesson
	err := r.db.WithContext(ctx).
		Select("id", "topic_id", "title", "slug").
		Preload("Topic", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "slug")
		}).
		Where("is_published = ?", true).
		Where(r.like("title"), prefix(r.fold(term))).
		Order("sort_order ASC").
		Limit(limit).
		Find(&lessons).Error
	return lessons, err
}
