package topic

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/logger"
	lessonRepo "anoa.com/learnify/internal/modules/lesson/repository"
	"anoa.com/learnify/internal/modules/topic/dto"
	"anoa.com/learnify/internal/modules/topic/repository"
	"anoa.com/learnify/internal/testutil"
	"anoa.com/learnify/pkg/apperror"
	"anoa.com/learnify/pkg/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     Service
	cache   *testutil.MemoryCache
	indexer *testutil.RecordingIndexer
	admin   *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	c := testutil.NewMemoryCache()
	idx := &testutil.RecordingIndexer{}
	svc := NewService(repository.NewTopicRepository(db), lessonRepo.NewLessonRepository(db), c, 0, idx, logger.Nop())
	return &fixture{
		db:      db,
		svc:     svc,
		cache:   c,
		indexer: idx,
		admin:   testutil.CreateUser(t, db, "admin@learnify.com", entity.RoleAdmin),
	}
}

func assertStatus(t *testing.T, err error, code int, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d", code)
	}
	if got := apperror.MapErrorToStatus(err); got != code {
		t.Errorf("expected status %d, got %d (%v)", code, got, err)
	}
	if msg != "" && err.Error() != msg {
		t.Errorf("expected message %q, got %q", msg, err.Error())
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(ctx, f.admin.ID, dto.CreateTopicRequest{Title: "Go", Slug: "  "})
		assertStatus(t, err, http.StatusBadRequest, msgMissingFields)
	})

	t.Run("applies defaults and lowercases slug", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.Create(ctx, f.admin.ID, dto.CreateTopicRequest{
			Title:       "  JavaScript ",
			Slug:        "JavaScript",
			Description: "The language of the web",
		})
		if err != nil {
			t.Fatal(err)
		}
		if res.Slug != "javascript" || res.Title != "JavaScript" {
			t.Errorf("unexpected topic %+v", res)
		}
		if res.Icon != entity.DefaultTopicIcon || res.Color != entity.DefaultTopicColor || !res.IsPublished || res.Order != 0 {
			t.Errorf("defaults not applied: %+v", res)
		}

		var stored entity.Topic
		if err := f.db.First(&stored, "id = ?", res.ID).Error; err != nil {
			t.Fatal(err)
		}
		if stored.CreatedByID == nil || *stored.CreatedByID != f.admin.ID {
			t.Error("createdBy was not stamped")
		}
		if len(f.indexer.Topics) != 1 || f.cache.Invalidated != 1 {
			t.Errorf("expected index and invalidation, got %v / %d", f.indexer.Topics, f.cache.Invalidated)
		}
	})

	t.Run("explicit unpublished", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.Create(ctx, f.admin.ID, dto.CreateTopicRequest{
			Title: "Rust", Slug: "rust", Description: "d", IsPublished: ptr(false), Order: ptr(4),
		})
		if err != nil {
			t.Fatal(err)
		}
		if res.IsPublished || res.Order != 4 {
			t.Errorf("explicit values lost: %+v", res)
		}
	})

	t.Run("duplicate slug", func(t *testing.T) {
		f := newFixture(t)
		req := dto.CreateTopicRequest{Title: "Go", Slug: "go", Description: "d"}
		if _, err := f.svc.Create(ctx, f.admin.ID, req); err != nil {
			t.Fatal(err)
		}
		req.Slug = "GO"
		_, err := f.svc.Create(ctx, f.admin.ID, req)
		assertStatus(t, err, http.StatusBadRequest, msgSlugTaken)

		var count int64
		f.db.Model(&entity.Topic{}).Count(&count)
		if count != 1 {
			t.Errorf("expected a single topic, got %d", count)
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Update(ctx, uuid.New(), dto.UpdateTopicRequest{})
		assertStatus(t, err, http.StatusNotFound, msgTopicNotFound)
	})

	t.Run("same slug does not clash with itself", func(t *testing.T) {
		f := newFixture(t)
		topic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
		res, err := f.svc.Update(ctx, topic.ID, dto.UpdateTopicRequest{Slug: ptr("go"), Title: ptr("Golang")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Title != "Golang" || res.Description != topic.Description {
			t.Errorf("merge failed: %+v", res)
		}
	})

	t.Run("slug taken by another topic", func(t *testing.T) {
		f := newFixture(t)
		testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
		other := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Rust", Slug: "rust", IsPublished: true})
		_, err := f.svc.Update(ctx, other.ID, dto.UpdateTopicRequest{Slug: ptr("Go")})
		assertStatus(t, err, http.StatusBadRequest, msgSlugTaken)
	})

	t.Run("unpublish", func(t *testing.T) {
		f := newFixture(t)
		topic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
		res, err := f.svc.Update(ctx, topic.ID, dto.UpdateTopicRequest{IsPublished: ptr(false)})
		if err != nil {
			t.Fatal(err)
		}
		if res.IsPublished {
			t.Error("expected topic to be unpublished")
		}
		list, err := f.svc.ListPublished(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 0 {
			t.Errorf("unpublished topic listed: %+v", list)
		}
	})

	t.Run("empty title rejected", func(t *testing.T) {
		f := newFixture(t)
		topic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
		_, err := f.svc.Update(ctx, topic.ID, dto.UpdateTopicRequest{Title: ptr(" ")})
		assertStatus(t, err, http.StatusBadRequest, "")
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects topic with lessons", func(t *testing.T) {
		f := newFixture(t)
		topic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
		testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: topic.ID, Title: "A", Slug: "a"})
		testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: topic.ID, Title: "B", Slug: "b"})

		err := f.svc.Delete(ctx, topic.ID)
		assertStatus(t, err, http.StatusBadRequest, "Cannot delete topic. It has 2 lesson(s). Please delete lessons first.")

		var topics, lessons int64
		f.db.Model(&entity.Topic{}).Count(&topics)
		f.db.Model(&entity.Lesson{}).Count(&lessons)
		if topics != 1 || lessons != 2 {
			t.Errorf("data changed: topics=%d lessons=%d", topics, lessons)
		}
	})

	t.Run("deletes empty topic", func(t *testing.T) {
		f := newFixture(t)
		topic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
		if err := f.svc.Delete(ctx, topic.ID); err != nil {
			t.Fatal(err)
		}
		_, err := f.svc.GetByID(ctx, topic.ID)
		assertStatus(t, err, http.StatusNotFound, msgTopicNotFound)
		if len(f.indexer.DeletedTopics) != 1 {
			t.Error("topic was not removed from the index")
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Delete(ctx, uuid.New())
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	goTopic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true, CreatedByID: &f.admin.ID})
	testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Draft", Slug: "draft", IsPublished: false})
	testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: goTopic.ID, Title: "A", Slug: "a", IsPublished: true})
	testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: goTopic.ID, Title: "B", Slug: "b", IsPublished: false})

	published, err := f.svc.ListPublished(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 1 || published[0].Slug != "go" {
		t.Fatalf("unexpected published topics %+v", published)
	}
	if published[0].LessonsCount == nil || *published[0].LessonsCount != 1 {
		t.Errorf("expected 1 published lesson, got %v", published[0].LessonsCount)
	}
	if published[0].CreatedBy != nil {
		t.Error("public listing must not expose createdBy")
	}
	if _, ok := f.cache.Items[cache.PublishedTopicsKey]; !ok {
		t.Error("public listing was not cached")
	}

	all, err := f.svc.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(all))
	}
	for _, topic := range all {
		if topic.Slug == "go" {
			if *topic.LessonsCount != 2 {
				t.Errorf("admin count should include drafts, got %d", *topic.LessonsCount)
			}
			if topic.CreatedBy == nil || topic.CreatedBy.Email != f.admin.Email {
				t.Errorf("admin listing should populate createdBy: %+v", topic.CreatedBy)
			}
		}
		if topic.Slug == "draft" && *topic.LessonsCount != 0 {
			t.Errorf("expected zero lessons for draft, got %d", *topic.LessonsCount)
		}
	}
}

func TestGetPublishedBySlug(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	topic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})
	testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Draft", Slug: "draft", IsPublished: false})
	testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: topic.ID, Title: "Second", Slug: "second", Order: 2, IsPublished: true})
	testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: topic.ID, Title: "First", Slug: "first", Order: 1, IsPublished: true})
	testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: topic.ID, Title: "Hidden", Slug: "hidden", IsPublished: false})

	_, err := f.svc.GetPublishedBySlug(ctx, "draft")
	assertStatus(t, err, http.StatusNotFound, msgTopicNotFound)

	detail, err := f.svc.GetPublishedBySlug(ctx, "go")
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Lessons) != 2 || detail.Lessons[0].Slug != "first" || detail.Lessons[1].Slug != "second" {
		t.Fatalf("unexpected lessons %+v", detail.Lessons)
	}
	for _, l := range detail.Lessons {
		if l.Content != "" || l.CreatedBy != nil {
			t.Errorf("listing should strip content and createdBy: %+v", l)
		}
	}

	// Served from cache until a write invalidates it.
	f.db.Model(&entity.Topic{}).Where("id = ?", topic.ID).Update("title", "Changed")
	cached, err := f.svc.GetPublishedBySlug(ctx, "go")
	if err != nil {
		t.Fatal(err)
	}
	if cached.Title != "Go" {
		t.Errorf("expected cached title, got %q", cached.Title)
	}
}

func TestGetByIDIncludesDrafts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topic := testutil.CreateTopic(t, f.db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: false, CreatedByID: &f.admin.ID})
	testutil.CreateLesson(t, f.db, &entity.Lesson{TopicID: topic.ID, Title: "Hidden", Slug: "hidden", IsPublished: false})

	detail, err := f.svc.GetByID(ctx, topic.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Lessons) != 1 || detail.Lessons[0].Content == "" {
		t.Errorf("expected full draft lesson, got %+v", detail.Lessons)
	}
	if detail.CreatedBy == nil {
		t.Error("expected createdBy on admin detail")
	}
}

// deletingRepo removes the topic between the read and the write of an update.
type deletingRepo struct {
	repository.TopicRepository
}

func (r deletingRepo) Update(ctx context.Context, topic *entity.Topic) error {
	if err := r.TopicRepository.Delete(ctx, topic.ID); err != nil {
		return err
	}
	return r.TopicRepository.Update(ctx, topic)
}

func TestUpdateConcurrentlyDeleted(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewTopicRepository(db)
	svc := NewService(deletingRepo{repo}, lessonRepo.NewLessonRepository(db), testutil.NewMemoryCache(), 0, &testutil.RecordingIndexer{}, logger.Nop())
	topic := testutil.CreateTopic(t, db, &entity.Topic{Title: "Go", Slug: "go", IsPublished: true})

	_, err := svc.Update(context.Background(), topic.ID, dto.UpdateTopicRequest{Title: ptr("Go, revised")})
	assertStatus(t, err, http.StatusNotFound, "Topic not found")

	if n, _ := repo.Count(context.Background(), nil); n != 0 {
		t.Errorf("deleted topic came back, %d topics stored", n)
	}
}
