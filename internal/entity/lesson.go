package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Levels lists the accepted lesson levels in display order.
var Levels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

func IsValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Lesson belongs to exactly one topic. Slugs are unique per topic only.
type Lesson struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"_id"`
	TopicID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_topic_slug,priority:1" json:"topicId"`
	Topic       *Topic     `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:150;not null;uniqueIndex:idx_lesson_topic_slug,priority:2" json:"slug"`
	Level       string     `gorm:"size:20;not null;index" json:"level"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	SampleCode  string     `gorm:"type:text" json:"sampleCode"`
	Order       int        `gorm:"column:sort_order;not null" json:"order"`
	IsPublished bool       `gorm:"not null;index" json:"isPublished"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"-"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"createdBy,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}
