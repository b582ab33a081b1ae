package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/publishing-api/internal/validation"
	"github.com/rs/zerolog"
)

const notificationPageSize = 50

// notificationService is the concrete implementation of NotificationService
type notificationService struct {
	repos *repository.Repositories
	log   zerolog.Logger
	now   func() time.Time
}

func newNotificationService(repos *repository.Repositories, log zerolog.Logger) *notificationService {
	return &notificationService{
		repos: repos,
		log:   log.With().Str("service", "notification").Logger(),
		now:   time.Now,
	}
}

// Notify stores a notification for recipientID. payload is encoded as JSON;
// nil becomes an empty object.
func (s *notificationService) Notify(ctx context.Context, recipientID int64, typ models.NotificationType, title, message string, payload any) (*models.Notification, error) {
	v := validation.New()
	v.Check(recipientID > 0, "recipient_id", "is required")
	v.OneOf("type", string(typ), models.ValidNotificationTypes)
	v.Required("title", title)
	v.MaxLength("title", title, 255)
	if err := v.Err(); err != nil {
		return nil, err
	}

	raw := json.RawMessage("{}")
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, apperr.Validation("payload is not serializable")
		}
		raw = b
	}

	now := s.now().UTC()
	n := &models.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		Payload:     raw,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Notification.Create(ctx, n); err != nil {
		return nil, apperr.Persistence("insert notification", err)
	}

	s.log.Debug().
		Int64("notification_id", n.ID).
		Int64("recipient_id", recipientID).
		Str("type", string(typ)).
		Msg("Notification created")
	return n, nil
}

// Send lets an admin notify any user directly. The type defaults to system.
func (s *notificationService) Send(ctx context.Context, principal *auth.Principal, input models.NotificationInput) (*models.Notification, error) {
	if !auth.CanModify(principal, unowned) {
		return nil, apperr.Forbidden("only admins can send notifications")
	}
	if input.Type == "" {
		input.Type = models.NotificationSystem
	}

	v := validation.New()
	v.Check(input.RecipientID > 0, "user_id", "is required")
	v.Required("message", input.Message)
	if err := v.Err(); err != nil {
		return nil, err
	}

	recipient, err := s.repos.User.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, apperr.Persistence("get recipient", err)
	}
	if recipient == nil {
		return nil, apperr.NotFound("recipient not found")
	}

	var payload any
	if len(input.Payload) > 0 {
		payload = input.Payload
	}
	n, err := s.Notify(ctx, recipient.ID, input.Type, input.Title, input.Message, payload)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("notification_id", n.ID).
		Int64("recipient_id", recipient.ID).
		Int64("sender_id", principal.UserID).
		Msg("Notification sent by admin")
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID int64) error {
	ok, err := s.repos.Notification.MarkRead(ctx, id, recipientID)
	if err != nil {
		return apperr.Persistence("mark notification read", err)
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead returns how many notifications changed state
func (s *notificationService) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	n, err := s.repos.Notification.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, apperr.Persistence("mark all notifications read", err)
	}
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, id, recipientID int64) error {
	ok, err := s.repos.Notification.Delete(ctx, id, recipientID)
	if err != nil {
		return apperr.Persistence("delete notification", err)
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// List returns one page of the recipient's notifications, newest first, with
// the current unread count.
func (s *notificationService) List(ctx context.Context, recipientID int64, filter models.NotificationFilter, page models.Pagination) (*models.NotificationPage, error) {
	if filter == "" {
		filter = models.FilterAll
	}
	v := validation.New()
	v.OneOf("filter", string(filter), models.ValidNotificationFilters)
	if err := v.Err(); err != nil {
		return nil, err
	}

	items, err := s.repos.Notification.List(ctx, recipientID, filter, page.Normalize(notificationPageSize))
	if err != nil {
		return nil, apperr.Persistence("list notifications", err)
	}
	unread, err := s.UnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []*models.Notification{}
	}
	return &models.NotificationPage{Items: items, UnreadCount: unread}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	n, err := s.repos.Notification.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperr.Persistence("count unread notifications", err)
	}
	return n, nil
}
