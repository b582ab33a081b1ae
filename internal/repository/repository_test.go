package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/mocks"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/publishing-api/internal/tags"
)

func newArticle(slug string, status models.ArticleStatus) *models.Article {
	now := time.Now()
	a := &models.Article{Title: slug, Slug: slug, Content: "c", Status: status, CategoryID: 1, AuthorID: 42, CreatedAt: now, UpdatedAt: now}
	if status == models.ArticleStatusPublished {
		a.PublishedAt = &now
	}
	return a
}

func TestTagUpsert_DistinctIDsBySlug(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	input := []tags.Tag{
		{Name: "React", Slug: "react"},
		{Name: "react", Slug: "react"},
		{Name: "Vue", Slug: "vue"},
	}
	ids, err := repos.Tag.Upsert(ctx, input)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("Expected one id per input, got %v", ids)
	}

	distinct := map[int64]bool{}
	for _, id := range ids {
		distinct[id] = true
	}
	if len(distinct) != 2 {
		t.Errorf("Expected 2 distinct ids, got %d (%v)", len(distinct), ids)
	}
	if ids[0] != ids[1] {
		t.Errorf("Expected both spellings of react to share an id, got %v", ids)
	}
}

func TestTagUpsert_LastSpellingWins(t *testing.T) {
	store := mocks.NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	first, _ := repos.Tag.Upsert(ctx, []tags.Tag{{Name: "golang", Slug: "golang"}})
	second, _ := repos.Tag.Upsert(ctx, []tags.Tag{{Name: "GoLang", Slug: "golang"}})

	if first[0] != second[0] {
		t.Fatalf("Expected same id, got %d and %d", first[0], second[0])
	}
	if got := store.Tags[first[0]].Name; got != "GoLang" {
		t.Errorf("Expected name to be updated to the last spelling, got %q", got)
	}
}

func TestArticleRepo_SlugChecks(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	a := newArticle("taken", models.ArticleStatusDraft)
	if err := repos.Article.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, _ := repos.Article.SlugExists(ctx, "taken")
	if !exists {
		t.Error("Slug should exist")
	}
	exists, _ = repos.Article.SlugExists(ctx, "free")
	if exists {
		t.Error("Slug should not exist")
	}

	other, _ := repos.Article.SlugTakenByOther(ctx, "taken", a.ID)
	if other {
		t.Error("An article's own slug is not taken by another")
	}
	other, _ = repos.Article.SlugTakenByOther(ctx, "taken", a.ID+1)
	if !other {
		t.Error("Slug should be taken for a different article")
	}

	err := repos.Article.Create(ctx, newArticle("taken", models.ArticleStatusDraft))
	if !database.IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}
}

func TestArticleRepo_PublishedAtIsSticky(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	a := newArticle("sticky", models.ArticleStatusPublished)
	repos.Article.Create(ctx, a)
	original := *a.PublishedAt

	later := original.Add(time.Hour)
	a.PublishedAt = &later
	if err := repos.Article.Update(ctx, a); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, _ := repos.Article.GetByID(ctx, a.ID)
	if !stored.PublishedAt.Equal(original) {
		t.Errorf("Expected published_at %v to be kept, got %v", original, stored.PublishedAt)
	}
}

func TestArticleRepo_MissingRows(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	got, err := repos.Article.GetByID(ctx, 404)
	if err != nil || got != nil {
		t.Errorf("Expected (nil, nil), got (%v, %v)", got, err)
	}
	if err := repos.Article.Update(ctx, &models.Article{ID: 404}); !errors.Is(err, repository.ErrNoRows) {
		t.Errorf("Expected ErrNoRows on update, got %v", err)
	}
	if err := repos.Article.Delete(ctx, 404); !errors.Is(err, repository.ErrNoRows) {
		t.Errorf("Expected ErrNoRows on delete, got %v", err)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := mocks.NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	boom := errors.New("boom")
	err := repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := repos.Article.Create(ctx, newArticle("temp", models.ArticleStatusDraft)); err != nil {
			return err
		}
		if _, err := repos.Tag.Upsert(ctx, []tags.Tag{{Name: "x", Slug: "x"}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected original error, got %v", err)
	}
	if len(store.Articles) != 0 || len(store.Tags) != 0 {
		t.Errorf("Expected rollback, found %d articles and %d tags", len(store.Articles), len(store.Tags))
	}

	err = repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return repos.Article.Create(ctx, newArticle("kept", models.ArticleStatusDraft))
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}
	if len(store.Articles) != 1 || store.Commits != 1 {
		t.Errorf("Expected one committed article, got %d (commits %d)", len(store.Articles), store.Commits)
	}
}

func TestCommentRepo_ListApprovedNewestFirst(t *testing.T) {
	store := mocks.NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	a := newArticle("a", models.ArticleStatusPublished)
	repos.Article.Create(ctx, a)

	base := time.Now()
	for i, status := range []models.CommentStatus{models.CommentStatusApproved, models.CommentStatusPending, models.CommentStatusApproved} {
		c := &models.Comment{ArticleID: a.ID, AuthorID: 7, Content: "c", Status: status, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repos.Comment.Create(ctx, c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := repos.Comment.ListApprovedByArticle(ctx, a.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 approved comments, got %d", len(list))
	}
	if !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Error("Expected newest first")
	}
}

func TestNotificationRepo_Scoping(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	n := &models.Notification{RecipientID: 7, Type: models.NotificationSystem, Title: "hi", CreatedAt: time.Now()}
	repos.Notification.Create(ctx, n)

	ok, _ := repos.Notification.MarkRead(ctx, n.ID, 8)
	if ok {
		t.Error("Another user must not mark the notification read")
	}
	ok, _ = repos.Notification.Delete(ctx, n.ID, 8)
	if ok {
		t.Error("Another user must not delete the notification")
	}

	changed, _ := repos.Notification.MarkAllRead(ctx, 7)
	if changed != 1 {
		t.Errorf("Expected 1 changed, got %d", changed)
	}
	count, _ := repos.Notification.CountUnread(ctx, 7)
	if count != 0 {
		t.Errorf("Expected 0 unread, got %d", count)
	}
}
