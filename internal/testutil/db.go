// Package testutil holds fixtures shared by repository and service tests.
package testutil

import (
	"testing"

	"anoa.com/learnify/internal/bootstrap"
	"anoa.com/learnify/internal/config"
	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/pkg/database"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite store. A single connection keeps
// every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, false)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email, role string) *entity.User {
	t.Helper()
	u := &entity.User{Name: "User " + email, Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// CreateTopic inserts a topic; Icon and Color fall back to the entity defaults.
func CreateTopic(t *testing.T, db *gorm.DB, topic *entity.Topic) *entity.Topic {
	t.Helper()
	if topic.Icon == "" {
		topic.Icon = entity.DefaultTopicIcon
	}
	if topic.Color == "" {
		topic.Color = entity.DefaultTopicColor
	}
	if topic.Description == "" {
		topic.Description = topic.Title + " description"
	}
	if err := db.Omit("CreatedBy", "Lessons").Create(topic).Error; err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	return topic
}

func CreateLesson(t *testing.T, db *gorm.DB, lesson *entity.Lesson) *entity.Lesson {
	t.Helper()
	if lesson.Level == "" {
		lesson.Level = entity.LevelBeginner
	}
	if lesson.Content == "" {
		lesson.Content = "<p>" + lesson.Title + "</p>"
	}
	if err := db.Omit("Topic", "CreatedBy").Create(lesson).Error; err != nil {
		t.Fatalf("failed to create lesson: %v", err)
	}
	return lesson
}
