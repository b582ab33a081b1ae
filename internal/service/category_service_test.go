package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/models"
)

func TestCategory_ListCountsPublishedArticles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.services.Article.Create(ctx, authorID, publishedInput("Live"), nil, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := h.services.Article.Create(ctx, authorID, draftInput("Draft"), nil, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	categories, err := h.services.Category.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "news" || categories[1].Name != "tech" {
		t.Fatalf("Expected news and tech ordered by name, got %+v", categories)
	}
	if categories[0].ArticleCount != 1 || categories[1].ArticleCount != 0 {
		t.Errorf("Expected counts 1 and 0, got %d and %d", categories[0].ArticleCount, categories[1].ArticleCount)
	}

	_, err = h.services.Category.Get(ctx, 99)
	expectKind(t, err, apperr.KindNotFound)
}

func TestCategory_CreateIsAdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	input := models.CategoryInput{Name: strPtr(" Food & Drink "), Description: strPtr("Recipes")}

	_, err := h.services.Category.Create(ctx, author, input)
	expectKind(t, err, apperr.KindForbidden)
	_, err = h.services.Category.Create(ctx, nil, input)
	expectKind(t, err, apperr.KindForbidden)

	c, err := h.services.Category.Create(ctx, admin, input)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Name != "Food & Drink" || c.Slug != "food-drink" || c.Description != "Recipes" {
		t.Errorf("Unexpected category %+v", c)
	}

	// New categories are immediately usable by articles
	in := draftInput("First meal")
	in.CategoryID = int64Ptr(c.ID)
	if _, err := h.services.Article.Create(ctx, authorID, in, nil, nil); err != nil {
		t.Errorf("Expected article in new category, got %v", err)
	}
}

func TestCategory_CreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   models.CategoryInput
	}{
		{"missing name", models.CategoryInput{}},
		{"blank name", models.CategoryInput{Name: strPtr("   ")}},
		{"no slug characters", models.CategoryInput{Name: strPtr("!!!")}},
		{"too long", models.CategoryInput{Name: strPtr(strings.Repeat("x", 101))}},
		{"duplicate slug", models.CategoryInput{Name: strPtr("News")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.services.Category.Create(ctx, admin, tt.in)
			expectKind(t, err, apperr.KindValidation)
		})
	}
	if len(h.store.Categories) != 2 {
		t.Errorf("Expected no new categories, got %d", len(h.store.Categories))
	}
}

func TestCategory_Update(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.services.Category.Update(ctx, author, 1, models.CategoryInput{Name: strPtr("World")})
	expectKind(t, err, apperr.KindForbidden)

	c, err := h.services.Category.Update(ctx, admin, 1, models.CategoryInput{Name: strPtr("World News")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.Slug != "world-news" {
		t.Errorf("Expected slug 'world-news', got %q", c.Slug)
	}

	c, err = h.services.Category.Update(ctx, admin, 1, models.CategoryInput{Description: strPtr("Daily")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.Name != "World News" || c.Description != "Daily" {
		t.Errorf("Expected name kept and description set, got %+v", c)
	}

	// Keeping its own name is not a collision
	if _, err := h.services.Category.Update(ctx, admin, 1, models.CategoryInput{Name: strPtr("World News")}); err != nil {
		t.Errorf("Expected own slug to be accepted, got %v", err)
	}

	_, err = h.services.Category.Update(ctx, admin, 1, models.CategoryInput{Name: strPtr("Tech")})
	expectKind(t, err, apperr.KindValidation)

	_, err = h.services.Category.Update(ctx, admin, 99, models.CategoryInput{Name: strPtr("Gone")})
	expectKind(t, err, apperr.KindNotFound)
}

func TestCategory_Delete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.services.Article.Create(ctx, authorID, draftInput("Uses news"), nil, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	expectKind(t, h.services.Category.Delete(ctx, author, 2), apperr.KindForbidden)
	expectKind(t, h.services.Category.Delete(ctx, admin, 1), apperr.KindValidation)
	expectKind(t, h.services.Category.Delete(ctx, admin, 99), apperr.KindNotFound)

	if err := h.services.Category.Delete(ctx, admin, 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := h.store.Categories[2]; ok {
		t.Error("Expected category 2 to be removed")
	}
	if _, ok := h.store.Categories[1]; !ok {
		t.Error("Expected category in use to remain")
	}
}
