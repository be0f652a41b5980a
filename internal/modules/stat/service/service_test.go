package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"anoa.com/learnify/internal/entity"
	lessonRepo "anoa.com/learnify/internal/modules/lesson/repository"
	topicRepo "anoa.com/learnify/internal/modules/topic/repository"
	userRepo "anoa.com/learnify/internal/modules/user/repository"
	"anoa.com/learnify/internal/testutil"
)

func TestGetDashboardStats(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "admin@learnify.com", entity.RoleAdmin)
	testutil.CreateUser(t, db, "reader@learnify.com", entity.RoleUser)

	base := time.Now().Add(-time.Hour)
	var topics []*entity.Topic
	for i := 0; i < 7; i++ {
		topics = append(topics, testutil.CreateTopic(t, db, &entity.Topic{
			Title:       fmt.Sprintf("Topic %d", i),
			Slug:        fmt.Sprintf("topic-%d", i),
			IsPublished: i%2 == 0,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	levels := []string{entity.LevelBeginner, entity.LevelBeginner, entity.LevelIntermediate, entity.LevelAdvanced}
	for i, level := range levels {
		testutil.CreateLesson(t, db, &entity.Lesson{
			TopicID:     topics[0].ID,
			Title:       fmt.Sprintf("Lesson %d", i),
			Slug:        fmt.Sprintf("lesson-%d", i),
			Level:       level,
			IsPublished: i != 3,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	svc := NewStatService(topicRepo.NewTopicRepository(db), lessonRepo.NewLessonRepository(db), userRepo.NewUserRepository(db))
	stats, err := svc.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	o := stats.Overview
	if o.TotalTopics != 7 || o.PublishedTopics != 4 || o.UnpublishedTopics != 3 {
		t.Errorf("unexpected topic counts %+v", o)
	}
	if o.TotalLessons != 4 || o.PublishedLessons != 3 || o.UnpublishedLessons != 1 {
		t.Errorf("unexpected lesson counts %+v", o)
	}
	if o.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", o.TotalUsers)
	}

	if len(stats.RecentTopics) != 5 || stats.RecentTopics[0].Slug != "topic-6" {
		t.Errorf("unexpected recent topics %+v", stats.RecentTopics)
	}
	if len(stats.RecentLessons) != 4 || stats.RecentLessons[0].Slug != "lesson-3" {
		t.Fatalf("unexpected recent lessons %+v", stats.RecentLessons)
	}
	if ref := stats.RecentLessons[0].Topic; ref == nil || ref.Slug != "topic-0" {
		t.Errorf("topic not attached: %+v", ref)
	}

	want := map[string]int64{"beginner": 2, "intermediate": 1, "advanced": 1}
	for level, n := range want {
		if stats.LessonsByLevel[level] != n {
			t.Errorf("level %s: expected %d, got %d", level, n, stats.LessonsByLevel[level])
		}
	}
}

func TestNormalizeLevels(t *testing.T) {
	got := normalizeLevels(map[string]int64{"Beginner": 2, "beginner": 1, "": 4, "ADVANCED": 1})
	want := map[string]int64{"beginner": 3, "unknown": 4, "advanced": 1}
	if len(got) != len(want) {
		t.Fatalf("unexpected buckets %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %d, got %d", k, v, got[k])
		}
	}
}
