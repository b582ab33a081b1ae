package service

import (
	"context"
	"errors"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/publishing-api/internal/slug"
	"github.com/publishing-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	maxCategoryNameLength = 100
	maxCategorySlugLength = 120
)

// Categories have no owner, so only the admin override of CanModify passes
const unowned int64 = 0

// categoryService is the concrete implementation of CategoryService
type categoryService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newCategoryService(repos *repository.Repositories, log zerolog.Logger) *categoryService {
	return &categoryService{
		repos: repos,
		log:   log.With().Str("service", "category").Logger(),
	}
}

// List returns every category with its published article count
func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repos.Category.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list categories", err)
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repos.Category.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get category", err)
	}
	if category == nil {
		return nil, apperr.NotFound("category not found")
	}
	return category, nil
}

// Create adds a category. The slug is derived from the name.
func (s *categoryService) Create(ctx context.Context, principal *auth.Principal, input models.CategoryInput) (*models.Category, error) {
	if !auth.CanModify(principal, unowned) {
		return nil, apperr.Forbidden("only admins can create categories")
	}

	name := trimmed(input.Name)
	categorySlug, err := validateCategory(name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Slug:        categorySlug,
		Description: trimmed(input.Description),
	}
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkSlugFree(ctx, category.Slug, unowned); err != nil {
			return err
		}
		if err := s.repos.Category.Create(ctx, category); err != nil {
			if database.IsUniqueViolation(err) {
				return categoryExists()
			}
			return apperr.Persistence("insert category", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap("create category", err)
	}

	s.log.Info().Int64("category_id", category.ID).Str("slug", category.Slug).Msg("Category created")
	return category, nil
}

// Update renames a category or changes its description
func (s *categoryService) Update(ctx context.Context, principal *auth.Principal, id int64, input models.CategoryInput) (*models.Category, error) {
	if !auth.CanModify(principal, unowned) {
		return nil, apperr.Forbidden("only admins can update categories")
	}

	var newSlug string
	if input.Name != nil {
		var err error
		if newSlug, err = validateCategory(trimmed(input.Name)); err != nil {
			return nil, err
		}
	}

	var category *models.Category
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.repos.Category.GetByID(ctx, id)
		if err != nil {
			return apperr.Persistence("get category", err)
		}
		if category == nil {
			return apperr.NotFound("category not found")
		}

		if input.Name != nil {
			if err := s.checkSlugFree(ctx, newSlug, id); err != nil {
				return err
			}
			category.Name = trimmed(input.Name)
			category.Slug = newSlug
		}
		if input.Description != nil {
			category.Description = trimmed(input.Description)
		}

		if err := s.repos.Category.Update(ctx, category); err != nil {
			if database.IsUniqueViolation(err) {
				return categoryExists()
			}
			if errors.Is(err, repository.ErrNoRows) {
				return apperr.NotFound("category not found")
			}
			return apperr.Persistence("update category", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap("update category", err)
	}

	s.log.Info().Int64("category_id", category.ID).Str("slug", category.Slug).Msg("Category updated")
	return category, nil
}

// Delete removes a category that no article references
func (s *categoryService) Delete(ctx context.Context, principal *auth.Principal, id int64) error {
	if !auth.CanModify(principal, unowned) {
		return apperr.Forbidden("only admins can delete categories")
	}

	err := s.repos.Category.Delete(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNoRows):
		return apperr.NotFound("category not found")
	case database.IsForeignKeyViolation(err):
		return apperr.ValidationFields("category is still in use",
			map[string]string{"category_id": "reassign or delete its articles first"})
	default:
		return apperr.Persistence("delete category", err)
	}

	s.log.Info().Int64("category_id", id).Msg("Category deleted")
	return nil
}

func (s *categoryService) checkSlugFree(ctx context.Context, categorySlug string, exceptID int64) error {
	taken, err := s.repos.Category.SlugTakenByOther(ctx, categorySlug, exceptID)
	if err != nil {
		return apperr.Persistence("check category slug", err)
	}
	if taken {
		return categoryExists()
	}
	return nil
}

// validateCategory checks a category name and returns its slug
func validateCategory(name string) (string, error) {
	v := validation.New()
	v.Required("name", name)
	v.MaxLength("name", name, maxCategoryNameLength)

	categorySlug := slug.Make(name)
	if name != "" {
		v.Check(categorySlug != "", "name", "must contain at least one letter or digit")
	}
	v.Check(len(categorySlug) <= maxCategorySlugLength, "name", "is too long")
	return categorySlug, v.Err()
}

func categoryExists() error {
	return apperr.ValidationFields("a category with this name already exists",
		map[string]string{"name": "already exists"})
}
