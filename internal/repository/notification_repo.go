package repository

import (
	"context"
	"fmt"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
)

// notificationRepo is the concrete implementation of NotificationRepository
type notificationRepo struct {
	db *database.DB
}

// NewNotificationRepo creates a new notification repository
func NewNotificationRepo(db *database.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	payload := n.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	query := `
		INSERT INTO notifications (user_id, type, title, message, payload, is_read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.Executor(ctx).QueryRowContext(ctx, query,
		n.RecipientID, n.Type, n.Title, n.Message, []byte(payload), n.IsRead, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
}

func (r *notificationRepo) List(ctx context.Context, recipientID int64, filter models.NotificationFilter, page models.Pagination) ([]*models.Notification, error) {
	readClause := ""
	switch filter {
	case models.FilterUnread:
		readClause = " AND is_read = FALSE"
	case models.FilterRead:
		readClause = " AND is_read = TRUE"
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, type, title, message, payload, is_read, created_at, updated_at
		FROM notifications
		WHERE user_id = $1%s
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, readClause)

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, recipientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var (
			n       models.Notification
			payload []byte
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &payload, &n.IsRead, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		n.Payload = payload
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var count int
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE", recipientID).Scan(&count)
	return count, err
}

// MarkRead reports false when no notification with id belongs to recipientID
func (r *notificationRepo) MarkRead(ctx context.Context, id, recipientID int64) (bool, error) {
	res, err := r.db.Executor(ctx).ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2",
		id, recipientID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkAllRead returns the number of notifications that flipped to read
func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	res, err := r.db.Executor(ctx).ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE user_id = $1 AND is_read = FALSE",
		recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepo) Delete(ctx context.Context, id, recipientID int64) (bool, error) {
	res, err := r.db.Executor(ctx).ExecContext(ctx,
		"DELETE FROM notifications WHERE id = $1 AND user_id = $2", id, recipientID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
