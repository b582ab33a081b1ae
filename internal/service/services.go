package service

import (
	"context"
	"time"

	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/publishing-api/internal/viewcount"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for article operations
type ArticleService interface {
	Create(ctx context.Context, authorID int64, input models.ArticleInput, tagString *string, image *assets.Upload) (*models.Article, error)
	Update(ctx context.Context, id int64, principal *auth.Principal, input models.ArticleInput, tagString *string, image *assets.Upload, removeImage bool) (*models.Article, error)
	Delete(ctx context.Context, id int64, principal *auth.Principal) error
	Get(ctx context.Context, idOrSlug string, principal *auth.Principal) (*models.Article, error)
	IncrementView(ctx context.Context, id int64, viewerKey string) (bool, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error)
}

// CommentService defines the interface for comment operations
type CommentService interface {
	Post(ctx context.Context, articleID, authorID int64, content string, parentID *int64) (*models.Comment, error)
	Edit(ctx context.Context, commentID, authorID int64, content string) (*models.Comment, error)
	Delete(ctx context.Context, commentID, authorID int64) error
	ListForArticle(ctx context.Context, articleID int64, page models.Pagination) (*models.CommentThread, error)
}

// NotificationService defines the interface for notification operations
type NotificationService interface {
	Notify(ctx context.Context, recipientID int64, typ models.NotificationType, title, message string, payload any) (*models.Notification, error)
	Send(ctx context.Context, principal *auth.Principal, input models.NotificationInput) (*models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
	Delete(ctx context.Context, id, recipientID int64) error
	List(ctx context.Context, recipientID int64, filter models.NotificationFilter, page models.Pagination) (*models.NotificationPage, error)
	UnreadCount(ctx context.Context, recipientID int64) (int, error)
}

// ProfileService defines the interface for profile image operations
type ProfileService interface {
	UpdateImage(ctx context.Context, userID int64, upload *assets.Upload) (*models.User, error)
	RemoveImage(ctx context.Context, userID int64) (*models.User, error)
}

// CategoryService defines the interface for category operations. Mutations
// are admin-only.
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, principal *auth.Principal, input models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, principal *auth.Principal, id int64, input models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, principal *auth.Principal, id int64) error
}

// Services holds all service interfaces
type Services struct {
	Article      ArticleService
	Comment      CommentService
	Notification NotificationService
	Profile      ProfileService
	Category     CategoryService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, store assets.Store, views viewcount.Window, log zerolog.Logger) *Services {
	notificationSvc := newNotificationService(repos, log)

	return &Services{
		Article:      newArticleService(repos, store, views, notificationSvc, log),
		Comment:      newCommentService(repos, notificationSvc, log),
		Notification: notificationSvc,
		Profile:      newProfileService(repos, store, log),
		Category:     newCategoryService(repos, log),
	}
}

// discardAsset deletes a stored file after the operation that referenced it
// failed or replaced it. Failures are logged and never returned: the caller
// already has the error that matters.
func discardAsset(ctx context.Context, store assets.Store, log zerolog.Logger, url, reason string) {
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := store.Delete(ctx, url); err != nil {
		log.Error().Err(err).Str("url", url).Str("reason", reason).Msg("Failed to delete asset")
		return
	}
	log.Debug().Str("url", url).Str("reason", reason).Msg("Asset deleted")
}
