package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
)

// Categories are listed with the number of published articles in each
const categorySelect = `
	SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
		COUNT(a.id) AS article_count
	FROM categories c
	LEFT JOIN articles a ON a.category_id = c.id AND a.status = 'published'
`

type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.ArticleCount)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	row := r.db.Executor(ctx).QueryRowContext(ctx,
		categorySelect+" WHERE c.id = $1 GROUP BY c.id", id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// List returns every category ordered by name
func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Executor(ctx).QueryContext(ctx,
		categorySelect+" GROUP BY c.id ORDER BY c.name ASC, c.id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SlugTakenByOther reports whether another category already uses slug.
// Pass 0 to check against every category.
func (r *categoryRepo) SlugTakenByOther(ctx context.Context, slug string, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)", slug, categoryID).Scan(&exists)
	return exists, err
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.db.Executor(ctx).QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, category.Name, category.Slug, category.Description,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	err := r.db.Executor(ctx).QueryRowContext(ctx, `
		UPDATE categories SET name = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`, category.Name, category.Slug, category.Description, category.ID,
	).Scan(&category.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

// Delete removes a category. Categories still referenced by articles fail
// with a foreign key violation.
func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Executor(ctx).ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
