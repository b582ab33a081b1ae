package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
)

const articleColumns = `id, title, slug, excerpt, content, status, category_id, author_id,
	featured_image_url, featured_image_alt, meta_title, meta_description, view_count,
	published_at, created_at, updated_at`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		article     models.Article
		imageURL    sql.NullString
		imageAlt    sql.NullString
		publishedAt sql.NullTime
	)
	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &article.Excerpt, &article.Content,
		&article.Status, &article.CategoryID, &article.AuthorID,
		&imageURL, &imageAlt, &article.MetaTitle, &article.MetaDescription, &article.ViewCount,
		&publishedAt, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		article.FeaturedImageURL = &imageURL.String
	}
	if imageAlt.Valid {
		article.FeaturedImageAlt = &imageAlt.String
	}
	if publishedAt.Valid {
		article.PublishedAt = &publishedAt.Time
	}
	return &article, nil
}

// Create inserts a new article and fills in its generated ID
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (title, slug, excerpt, content, status, category_id, author_id,
			featured_image_url, featured_image_alt, meta_title, meta_description,
			published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	return r.db.Executor(ctx).QueryRowContext(ctx, query,
		article.Title, article.Slug, article.Excerpt, article.Content, article.Status,
		article.CategoryID, article.AuthorID, article.FeaturedImageURL, article.FeaturedImageAlt,
		article.MetaTitle, article.MetaDescription, article.PublishedAt,
		article.CreatedAt, article.UpdatedAt,
	).Scan(&article.ID)
}

// Update writes every mutable column. published_at is never cleared once set.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET
			title = $1, slug = $2, excerpt = $3, content = $4, status = $5, category_id = $6,
			featured_image_url = $7, featured_image_alt = $8, meta_title = $9,
			meta_description = $10, published_at = COALESCE(published_at, $11), updated_at = $12
		WHERE id = $13
	`
	res, err := r.db.Executor(ctx).ExecContext(ctx, query,
		article.Title, article.Slug, article.Excerpt, article.Content, article.Status,
		article.CategoryID, article.FeaturedImageURL, article.FeaturedImageAlt,
		article.MetaTitle, article.MetaDescription, article.PublishedAt, article.UpdatedAt,
		article.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete removes an article; comments and tag links cascade
func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Executor(ctx).ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE id = $1"
	article, err := scanArticle(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return article, err
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE slug = $1"
	article, err := scanArticle(r.db.Executor(ctx).QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return article, err
}

// SlugExists checks if an article with the given slug exists
func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// SlugTakenByOther checks if a different article already uses slug
func (r *articleRepo) SlugTakenByOther(ctx context.Context, slug string, articleID int64) (bool, error) {
	var exists bool
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)", slug, articleID).Scan(&exists)
	return exists, err
}

// IncrementViewCount adds one view
func (r *articleRepo) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := r.db.Executor(ctx).ExecContext(ctx,
		"UPDATE articles SET view_count = view_count + 1 WHERE id = $1", id)
	return err
}

// ListPublished returns one page of published articles and the total match count
func (r *articleRepo) ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	where := []string{"a.status = 'published'"}
	var args []any

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("a.category_id = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		where = append(where, fmt.Sprintf("a.author_id = $%d", len(args)))
	}
	if filter.TagSlug != "" {
		args = append(args, filter.TagSlug)
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM article_tags at JOIN tags t ON t.id = at.tag_id
			WHERE at.article_id = a.id AND t.slug = $%d)`, len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	exec := r.db.Executor(ctx)

	var total int
	if err := exec.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles a WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "a.published_at DESC, a.id DESC"
	if filter.Sort == models.SortPopular {
		order = "a.view_count DESC, a.published_at DESC, a.id DESC"
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(
		"SELECT %s FROM articles a WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		prefixColumns("a", articleColumns), whereClause, order, len(args)-1, len(args),
	)

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, article)
	}
	return articles, total, rows.Err()
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// ErrNoRows is returned by mutations that matched nothing
var ErrNoRows = errors.New("no rows affected")

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRows
	}
	return nil
}
