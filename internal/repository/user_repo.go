package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var (
		user  models.User
		image sql.NullString
	)
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT id, username, role, profile_image, created_at, updated_at FROM users WHERE id = $1", id,
	).Scan(&user.ID, &user.Username, &user.Role, &image, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if image.Valid {
		user.ProfileImage = &image.String
	}
	return &user, nil
}

// SetProfileImage stores url, or clears the column when url is nil
func (r *userRepo) SetProfileImage(ctx context.Context, id int64, url *string) error {
	res, err := r.db.Executor(ctx).ExecContext(ctx,
		"UPDATE users SET profile_image = $1, updated_at = NOW() WHERE id = $2", url, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
