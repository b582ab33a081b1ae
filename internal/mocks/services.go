package mocks

import (
	"context"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	CreateFunc        func(ctx context.Context, authorID int64, input models.ArticleInput, tagString *string, image *assets.Upload) (*models.Article, error)
	UpdateFunc        func(ctx context.Context, id int64, principal *auth.Principal, input models.ArticleInput, tagString *string, image *assets.Upload, removeImage bool) (*models.Article, error)
	DeleteFunc        func(ctx context.Context, id int64, principal *auth.Principal) error
	GetFunc           func(ctx context.Context, idOrSlug string, principal *auth.Principal) (*models.Article, error)
	IncrementViewFunc func(ctx context.Context, id int64, viewerKey string) (bool, error)
	ListFunc          func(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error)

	LastImage     *assets.Upload
	LastTags      *string
	LastViewerKey string
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) Create(ctx context.Context, authorID int64, input models.ArticleInput, tagString *string, image *assets.Upload) (*models.Article, error) {
	m.LastImage, m.LastTags = image, tagString
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, authorID, input, tagString, image)
	}
	article := &models.Article{ID: 1, AuthorID: authorID, Status: models.ArticleStatusDraft, Tags: []models.Tag{}}
	if input.Title != nil {
		article.Title = *input.Title
	}
	return article, nil
}

func (m *MockArticleService) Update(ctx context.Context, id int64, principal *auth.Principal, input models.ArticleInput, tagString *string, image *assets.Upload, removeImage bool) (*models.Article, error) {
	m.LastImage, m.LastTags = image, tagString
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, principal, input, tagString, image, removeImage)
	}
	return &models.Article{ID: id, AuthorID: principal.UserID, Tags: []models.Tag{}}, nil
}

func (m *MockArticleService) Delete(ctx context.Context, id int64, principal *auth.Principal) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, principal)
	}
	return nil
}

func (m *MockArticleService) Get(ctx context.Context, idOrSlug string, principal *auth.Principal) (*models.Article, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, idOrSlug, principal)
	}
	return nil, apperr.NotFound("article not found")
}

func (m *MockArticleService) IncrementView(ctx context.Context, id int64, viewerKey string) (bool, error) {
	m.LastViewerKey = viewerKey
	if m.IncrementViewFunc != nil {
		return m.IncrementViewFunc(ctx, id, viewerKey)
	}
	return true, nil
}

func (m *MockArticleService) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Article{}, 0, nil
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	PostFunc   func(ctx context.Context, articleID, authorID int64, content string, parentID *int64) (*models.Comment, error)
	EditFunc   func(ctx context.Context, commentID, authorID int64, content string) (*models.Comment, error)
	DeleteFunc func(ctx context.Context, commentID, authorID int64) error
	ListFunc   func(ctx context.Context, articleID int64, page models.Pagination) (*models.CommentThread, error)
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) Post(ctx context.Context, articleID, authorID int64, content string, parentID *int64) (*models.Comment, error) {
	if m.PostFunc != nil {
		return m.PostFunc(ctx, articleID, authorID, content, parentID)
	}
	return &models.Comment{ID: 1, ArticleID: articleID, AuthorID: authorID, ParentID: parentID, Content: content, Status: models.CommentStatusApproved}, nil
}

func (m *MockCommentService) Edit(ctx context.Context, commentID, authorID int64, content string) (*models.Comment, error) {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, commentID, authorID, content)
	}
	return &models.Comment{ID: commentID, AuthorID: authorID, Content: content}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, commentID, authorID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, commentID, authorID)
	}
	return nil
}

func (m *MockCommentService) ListForArticle(ctx context.Context, articleID int64, page models.Pagination) (*models.CommentThread, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, articleID, page)
	}
	return &models.CommentThread{TopLevel: []*models.Comment{}, Limit: page.Limit, Offset: page.Offset}, nil
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	NotifyFunc      func(ctx context.Context, recipientID int64, typ models.NotificationType, title, message string, payload any) (*models.Notification, error)
	MarkReadFunc    func(ctx context.Context, id, recipientID int64) error
	MarkAllReadFunc func(ctx context.Context, recipientID int64) (int64, error)
	DeleteFunc      func(ctx context.Context, id, recipientID int64) error
	ListFunc        func(ctx context.Context, recipientID int64, filter models.NotificationFilter, page models.Pagination) (*models.NotificationPage, error)
	UnreadCountFunc func(ctx context.Context, recipientID int64) (int, error)
	SendFunc        func(ctx context.Context, principal *auth.Principal, input models.NotificationInput) (*models.Notification, error)
}

// Verify interface compliance
var _ service.NotificationService = (*MockNotificationService)(nil)

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) Notify(ctx context.Context, recipientID int64, typ models.NotificationType, title, message string, payload any) (*models.Notification, error) {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, recipientID, typ, title, message, payload)
	}
	return &models.Notification{ID: 1, RecipientID: recipientID, Type: typ, Title: title, Message: message}, nil
}

func (m *MockNotificationService) Send(ctx context.Context, principal *auth.Principal, input models.NotificationInput) (*models.Notification, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, principal, input)
	}
	if !auth.CanModify(principal, 0) {
		return nil, apperr.Forbidden("only admins can send notifications")
	}
	return &models.Notification{ID: 1, RecipientID: input.RecipientID, Type: input.Type, Title: input.Title, Message: input.Message}, nil
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, recipientID int64) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, recipientID)
	}
	return nil
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, recipientID)
	}
	return 0, nil
}

func (m *MockNotificationService) Delete(ctx context.Context, id, recipientID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, recipientID)
	}
	return nil
}

func (m *MockNotificationService) List(ctx context.Context, recipientID int64, filter models.NotificationFilter, page models.Pagination) (*models.NotificationPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, recipientID, filter, page)
	}
	return &models.NotificationPage{Items: []*models.Notification{}}, nil
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, recipientID)
	}
	return 0, nil
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	UpdateImageFunc func(ctx context.Context, userID int64, upload *assets.Upload) (*models.User, error)
	RemoveImageFunc func(ctx context.Context, userID int64) (*models.User, error)
}

// Verify interface compliance
var _ service.ProfileService = (*MockProfileService)(nil)

func NewMockProfileService() *MockProfileService {
	return &MockProfileService{}
}

func (m *MockProfileService) UpdateImage(ctx context.Context, userID int64, upload *assets.Upload) (*models.User, error) {
	if m.UpdateImageFunc != nil {
		return m.UpdateImageFunc(ctx, userID, upload)
	}
	url := assets.URL(assets.BucketProfiles, "mock.png")
	return &models.User{ID: userID, ProfileImage: &url}, nil
}

func (m *MockProfileService) RemoveImage(ctx context.Context, userID int64) (*models.User, error) {
	if m.RemoveImageFunc != nil {
		return m.RemoveImageFunc(ctx, userID)
	}
	return &models.User{ID: userID}, nil
}

// MockCategoryService is a mock implementation of CategoryService
type MockCategoryService struct {
	ListFunc   func(ctx context.Context) ([]*models.Category, error)
	GetFunc    func(ctx context.Context, id int64) (*models.Category, error)
	CreateFunc func(ctx context.Context, principal *auth.Principal, input models.CategoryInput) (*models.Category, error)
	UpdateFunc func(ctx context.Context, principal *auth.Principal, id int64, input models.CategoryInput) (*models.Category, error)
	DeleteFunc func(ctx context.Context, principal *auth.Principal, id int64) error
}

// Verify interface compliance
var _ service.CategoryService = (*MockCategoryService)(nil)

func NewMockCategoryService() *MockCategoryService {
	return &MockCategoryService{}
}

func (m *MockCategoryService) List(ctx context.Context) ([]*models.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Category{}, nil
}

func (m *MockCategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, apperr.NotFound("category not found")
}

func (m *MockCategoryService) Create(ctx context.Context, principal *auth.Principal, input models.CategoryInput) (*models.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, principal, input)
	}
	if !auth.CanModify(principal, 0) {
		return nil, apperr.Forbidden("only admins can create categories")
	}
	c := &models.Category{ID: 1}
	if input.Name != nil {
		c.Name = *input.Name
	}
	return c, nil
}

func (m *MockCategoryService) Update(ctx context.Context, principal *auth.Principal, id int64, input models.CategoryInput) (*models.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, principal, id, input)
	}
	return &models.Category{ID: id}, nil
}

func (m *MockCategoryService) Delete(ctx context.Context, principal *auth.Principal, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, principal, id)
	}
	return nil
}
