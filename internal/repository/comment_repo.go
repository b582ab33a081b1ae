package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
)

const commentColumns = "id, article_id, user_id, parent_id, content, status, created_at, updated_at"

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		c        models.Comment
		parentID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.ArticleID, &c.AuthorID, &parentID, &c.Content, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	return &c, nil
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (article_id, user_id, parent_id, content, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.Executor(ctx).QueryRowContext(ctx, query,
		comment.ArticleID, comment.AuthorID, comment.ParentID, comment.Content,
		comment.Status, comment.CreatedAt, comment.UpdatedAt,
	).Scan(&comment.ID)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := "SELECT " + commentColumns + " FROM comments WHERE id = $1"
	c, err := scanComment(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// UpdateContent replaces the body and returns the updated row
func (r *commentRepo) UpdateContent(ctx context.Context, id int64, content string) (*models.Comment, error) {
	query := `
		UPDATE comments SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + commentColumns
	c, err := scanComment(r.db.Executor(ctx).QueryRowContext(ctx, query, content, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// Delete removes a comment; its replies cascade
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Executor(ctx).ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// ListApprovedByArticle returns every approved comment of an article, newest first
func (r *commentRepo) ListApprovedByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	query := "SELECT " + commentColumns + ` FROM comments
		WHERE article_id = $1 AND status = 'approved'
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
