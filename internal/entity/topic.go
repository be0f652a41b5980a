package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultTopicIcon  = "📚"
	DefaultTopicColor = "#3b82f6"
)

// Topic groups lessons into a track. Order is stored as sort_order since
// ORDER is reserved in SQL.
type Topic struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"_id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Slug        string     `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"size:500;not null" json:"description"`
	Icon        string     `gorm:"size:50;not null" json:"icon"`
	Color       string     `gorm:"size:20;not null" json:"color"`
	Order       int        `gorm:"column:sort_order;not null" json:"order"`
	IsPublished bool       `gorm:"not null;index" json:"isPublished"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"-"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"createdBy,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	Lessons []Lesson `gorm:"foreignKey:TopicID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (t *Topic) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
