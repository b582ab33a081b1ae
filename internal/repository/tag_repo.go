package repository

import (
	"context"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/tags"
)

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db *database.DB
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db *database.DB) TagRepository {
	return &tagRepo{db: db}
}

// Upsert inserts each tag or, when the slug exists, renames the existing row
// to the incoming spelling. IDs are returned in input order.
func (r *tagRepo) Upsert(ctx context.Context, input []tags.Tag) ([]int64, error) {
	query := `
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	exec := r.db.Executor(ctx)
	ids := make([]int64, 0, len(input))
	for _, t := range input {
		var id int64
		if err := exec.QueryRowContext(ctx, query, t.Name, t.Slug).Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReplaceArticleTags deletes every link of the article and inserts tagIDs
func (r *tagRepo) ReplaceArticleTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	if err := r.DeleteArticleTags(ctx, articleID); err != nil {
		return err
	}
	exec := r.db.Executor(ctx)
	for _, tagID := range tagIDs {
		_, err := exec.ExecContext(ctx,
			"INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			articleID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteArticleTags removes every tag link of the article
func (r *tagRepo) DeleteArticleTags(ctx context.Context, articleID int64) error {
	_, err := r.db.Executor(ctx).ExecContext(ctx, "DELETE FROM article_tags WHERE article_id = $1", articleID)
	return err
}

// ListForArticle returns the tags linked to an article, by name
func (r *tagRepo) ListForArticle(ctx context.Context, articleID int64) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug
		FROM tags t JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
