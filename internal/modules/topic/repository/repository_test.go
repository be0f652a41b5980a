package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/testutil"
	"anoa.com/learnify/pkg/apperror"
	"gorm.io/gorm"
)

func TestFindAllOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	testutil.CreateTopic(t, db, &entity.Topic{Title: "Old", Slug: "old", Order: 1, IsPublished: true, CreatedAt: base})
	testutil.CreateTopic(t, db, &entity.Topic{Title: "New", Slug: "new", Order: 1, IsPublished: true, CreatedAt: base.Add(time.Minute)})
	testutil.CreateTopic(t, db, &entity.Topic{Title: "First", Slug: "first", Order: 0, IsPublished: true, CreatedAt: base})
	testutil.CreateTopic(t, db, &entity.Topic{Title: "Draft", Slug: "draft", Order: 0, IsPublished: false, CreatedAt: base})

	published, err := repo.FindAll(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "new", "old"}
	if len(published) != len(want) {
		t.Fatalf("expected %d topics, got %d", len(want), len(published))
	}
	for i, slug := range want {
		if published[i].Slug != slug {
			t.Errorf("position %d: expected %s, got %s", i, slug, published[i].Slug)
		}
	}

	all, err := repo.FindAll(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 topics, got %d", len(all))
	}
}

func TestFindByIDLoadsCreator(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	admin := testutil.CreateUser(t, db, "admin@learnify.com", entity.RoleAdmin)
	topic := testutil.CreateTopic(t, db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true, CreatedByID: &admin.ID})

	got, err := repo.FindByID(context.Background(), topic.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CreatedBy == nil || got.CreatedBy.Email != admin.Email {
		t.Errorf("expected creator to be loaded, got %+v", got.CreatedBy)
	}
	if got.CreatedBy.PasswordHash != "" {
		t.Error("creator password hash should not be selected")
	}
}

func TestFindPublishedBySlug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	testutil.CreateTopic(t, db, &entity.Topic{Title: "Draft", Slug: "draft", IsPublished: false})

	_, err := repo.FindPublishedBySlug(context.Background(), "draft")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected not found for unpublished topic, got %v", err)
	}

	got, err := repo.FindBySlug(context.Background(), "draft")
	if err != nil || got.Slug != "draft" {
		t.Errorf("FindBySlug should ignore publish state: %v", err)
	}
}

func TestExistsBySlugExcludesSelf(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})

	exists, err := repo.ExistsBySlug(ctx, "go", nil)
	if err != nil || !exists {
		t.Errorf("expected slug to exist: %v", err)
	}

	exists, err = repo.ExistsBySlug(ctx, "go", &topic.ID)
	if err != nil || exists {
		t.Errorf("slug should not clash with its own topic: %v", err)
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	ctx := context.Background()

	first := &entity.Topic{Title: "Go", Slug: "go", Description: "d", Icon: "x", Color: "y", IsPublished: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := &entity.Topic{Title: "Go again", Slug: "go", Description: "d", Icon: "x", Color: "y"}
	err := repo.Create(ctx, second)
	if !apperror.IsDuplicateKey(err) {
		t.Errorf("expected duplicated key error, got %v", err)
	}
}

func TestUpdateKeepsFalseValues(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, db, &entity.Topic{Title: "Go", Slug: "go", Order: 3, IsPublished: true})

	topic.IsPublished = false
	topic.Order = 0
	if err := repo.Update(ctx, topic); err != nil {
		t.Fatal(err)
	}

	got, err := repo.FindByID(ctx, topic.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsPublished || got.Order != 0 {
		t.Errorf("zero values were not persisted: %+v", got)
	}
}

func TestCountAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	ctx := context.Background()
	a := testutil.CreateTopic(t, db, &entity.Topic{Title: "A", Slug: "a", IsPublished: true})
	testutil.CreateTopic(t, db, &entity.Topic{Title: "B", Slug: "b", IsPublished: false})

	published := true
	total, _ := repo.Count(ctx, nil)
	pub, _ := repo.Count(ctx, &published)
	if total != 2 || pub != 1 {
		t.Errorf("unexpected counts total=%d published=%d", total, pub)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByID(ctx, a.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected topic to be gone, got %v", err)
	}
}

func TestDeleteRestrictedByLessons(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	topic := testutil.CreateTopic(t, db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
	testutil.CreateLesson(t, db, &entity.Lesson{TopicID: topic.ID, Title: "Intro", Slug: "intro", IsPublished: true})

	if err := repo.Delete(context.Background(), topic.ID); err == nil {
		t.Error("expected foreign key violation when topic still has lessons")
	}
}

func TestUpdateDeletedTopic(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTopicRepository(db)
	ctx := context.Background()
	created := testutil.CreateTopic(t, db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})

	loaded, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	loaded.Title = "Go, revised"
	if err := repo.Update(ctx, loaded); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected record not found, got %v", err)
	}
	if n, _ := repo.Count(ctx, nil); n != 0 {
		t.Errorf("deleted topic came back, %d topics stored", n)
	}
}
