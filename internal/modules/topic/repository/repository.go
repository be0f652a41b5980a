package repository

import (
	"context"

	"anoa.com/learnify/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *entity.Topic) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Topic, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*entity.Topic, error)
	FindAll(ctx context.Context, publishedOnly bool) ([]*entity.Topic, error)
	FindRecent(ctx context.Context, limit int) ([]*entity.Topic, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Count(ctx context.Context, published *bool) (int64, error)
	Update(ctx context.Context, topic *entity.Topic) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func withCreator(db *gorm.DB) *gorm.DB {
	return db.Preload("CreatedBy", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "email")
	})
}

func (r *topicRepository) Create(ctx context.Context, topic *entity.Topic) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(topic).Error
}

func (r *topicRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	var topic entity.Topic
	if err := withCreator(r.db.WithContext(ctx)).First(&topic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindBySlug(ctx context.Context, slug string) (*entity.Topic, error) {
	var topic entity.Topic
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindPublishedBySlug(ctx context.Context, slug string) (*entity.Topic, error) {
	var topic entity.Topic
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// FindAll orders by display order, newest first within the same order.
// The creator is only loaded for the unfiltered admin listing.
func (r *topicRepository) FindAll(ctx context.Context, publishedOnly bool) ([]*entity.Topic, error) {
	var topics []*entity.Topic
	query := r.db.WithContext(ctx).Order("sort_order ASC").Order("created_at DESC")

	if publishedOnly {
		query = query.Where("is_published = ?", true)
	} else {
		query = withCreator(query)
	}

	if err := query.Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) FindRecent(ctx context.Context, limit int) ([]*entity.Topic, error) {
	var topics []*entity.Topic
	err := r.db.WithContext(ctx).
		Select("id", "title", "slug", "is_published", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Topic{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts all topics, or only those matching published when it is set.
func (r *topicRepository) Count(ctx context.Context, published *bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Topic{})
	if published != nil {
		query = query.Where("is_published = ?", *published)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update writes every column of an existing row. A row that no longer exists
// yields gorm.ErrRecordNotFound.
func (r *topicRepository) Update(ctx context.Context, topic *entity.Topic) error {
	result := r.db.WithContext(ctx).
		Model(topic).
		Select("*").
		Omit(clause.Associations).
		Updates(topic)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *topicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Topic{}, "id = ?", id).Error
}
