package repository

import (
	"context"

	"anoa.com/learnify/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *entity.Lesson) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*entity.Lesson, error)
	FindAll(ctx context.Context, publishedOnly bool) ([]*entity.Lesson, error)
	FindByTopicID(ctx context.Context, topicID uuid.UUID, publishedOnly bool) ([]*entity.Lesson, error)
	FindRecent(ctx context.Context, limit int) ([]*entity.Lesson, error)
	ExistsByTopicAndSlug(ctx context.Context, topicID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error)
	CountByTopicID(ctx context.Context, topicID uuid.UUID) (int64, error)
	CountByTopicIDs(ctx context.Context, topicIDs []uuid.UUID, publishedOnly bool) (map[uuid.UUID]int64, error)
	Count(ctx context.Context, published *bool) (int64, error)
	CountByLevel(ctx context.Context) (map[string]int64, error)
	Update(ctx context.Context, lesson *entity.Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func withTopic(db *gorm.DB) *gorm.DB {
	return db.Preload("Topic", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "title", "slug", "icon", "color")
	})
}

func withCreator(db *gorm.DB) *gorm.DB {
	return db.Preload("CreatedBy", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "email")
	})
}

func (r *lessonRepository) Create(ctx context.Context, lesson *entity.Lesson) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(lesson).Error
}

func (r *lessonRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lesson, error) {
	var lesson entity.Lesson
	query := withCreator(withTopic(r.db.WithContext(ctx)))
	if err := query.First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindPublishedBySlug picks the oldest lesson when several topics share the slug.
func (r *lessonRepository) FindPublishedBySlug(ctx context.Context, slug string) (*entity.Lesson, error) {
	var lesson entity.Lesson
	err := withTopic(r.db.WithContext(ctx)).
		Where("slug = ? AND is_published = ?", slug, true).
		Order("created_at ASC").
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) FindAll(ctx context.Context, publishedOnly bool) ([]*entity.Lesson, error) {
	var lessons []*entity.Lesson
	query := withTopic(r.db.WithContext(ctx))

	if publishedOnly {
		query = query.Where("is_published = ?", true).Order("sort_order ASC").Order("created_at DESC")
	} else {
		query = withCreator(query).Order("created_at DESC")
	}

	if err := query.Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// FindByTopicID returns lessons in reading order.
func (r *lessonRepository) FindByTopicID(ctx context.Context, topicID uuid.UUID, publishedOnly bool) ([]*entity.Lesson, error) {
	var lessons []*entity.Lesson
	query := r.db.WithContext(ctx).Where("topic_id = ?", topicID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	err := query.Order("sort_order ASC").Order("created_at ASC").Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) FindRecent(ctx context.Context, limit int) ([]*entity.Lesson, error) {
	var lessons []*entity.Lesson
	err := r.db.WithContext(ctx).
		Preload("Topic", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "slug")
		}).
		Select("id", "topic_id", "title", "slug", "is_published", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) ExistsByTopicAndSlug(ctx context.Context, topicID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Lesson{}).Where("topic_id = ? AND slug = ?", topicID, slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *lessonRepository) CountByTopicID(ctx context.Context, topicID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Lesson{}).Where("topic_id = ?", topicID).Count(&count).Error
	return count, err
}

type topicCount struct {
	TopicID uuid.UUID
	Count   int64
}

// CountByTopicIDs counts lessons for many topics in one grouped query.
// Topics without lessons are absent from the map.
func (r *lessonRepository) CountByTopicIDs(ctx context.Context, topicIDs []uuid.UUID, publishedOnly bool) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(topicIDs))
	if len(topicIDs) == 0 {
		return counts, nil
	}

	query := r.db.WithContext(ctx).Model(&entity.Lesson{}).
		Select("topic_id, COUNT(*) AS count").
		Where("topic_id IN ?", topicIDs)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var rows []topicCount
	if err := query.Group("topic_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TopicID] = row.Count
	}
	return counts, nil
}

func (r *lessonRepository) Count(ctx context.Context, published *bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Lesson{})
	if published != nil {
		query = query.Where("is_published = ?", *published)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type levelCount struct {
	Level string
	Count int64
}

// CountByLevel returns raw per-level counts as stored.
func (r *lessonRepository) CountByLevel(ctx context.Context) (map[string]int64, error) {
	var rows []levelCount
	err := r.db.WithContext(ctx).Model(&entity.Lesson{}).
		Select("level, COUNT(*) AS count").
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Level] = row.Count
	}
	return counts, nil
}

// Update writes every column of an existing row. A row that no longer exists
// yields gorm.ErrRecordNotFound.
func (r *lessonRepository) Update(ctx context.Context, lesson *entity.Lesson) error {
	result := r.db.WithContext(ctx).
		Model(lesson).
		Select("*").
		Omit(clause.Associations).
		Updates(lesson)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *lessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Lesson{}, "id = ?", id).Error
}
