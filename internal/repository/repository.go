package repository

import (
	"context"

	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/tags"
)

// ArticleRepository defines the interface for article data operations.
// Lookups return (nil, nil) when the row does not exist.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	SlugTakenByOther(ctx context.Context, slug string, articleID int64) (bool, error)
	IncrementViewCount(ctx context.Context, id int64) error
	ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error)
}

// TagRepository defines the interface for tags and article_tags links
type TagRepository interface {
	Upsert(ctx context.Context, tags []tags.Tag) ([]int64, error)
	ReplaceArticleTags(ctx context.Context, articleID int64, tagIDs []int64) error
	DeleteArticleTags(ctx context.Context, articleID int64) error
	ListForArticle(ctx context.Context, articleID int64) ([]models.Tag, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
	ListApprovedByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error)
}

// NotificationRepository defines the interface for notification data
// operations. Every mutation is scoped to the recipient.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, recipientID int64, filter models.NotificationFilter, page models.Pagination) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)
	MarkRead(ctx context.Context, id, recipientID int64) (bool, error)
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
	Delete(ctx context.Context, id, recipientID int64) (bool, error)
}

// UserRepository defines the interface for the user fields this service owns
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetProfileImage(ctx context.Context, id int64, url *string) error
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	SlugTakenByOther(ctx context.Context, slug string, categoryID int64) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article      ArticleRepository
	Tag          TagRepository
	Comment      CommentRepository
	Notification NotificationRepository
	User         UserRepository
	Category     CategoryRepository
	Tx           database.Transactor
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:      NewArticleRepo(db),
		Tag:          NewTagRepo(db),
		Comment:      NewCommentRepo(db),
		Notification: NewNotificationRepo(db),
		User:         NewUserRepo(db),
		Category:     NewCategoryRepo(db),
		Tx:           db,
	}
}
