package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos    *repository.Repositories
	notifier NotificationService
	log      zerolog.Logger
	now      func() time.Time
}

func newCommentService(repos *repository.Repositories, notifier NotificationService, log zerolog.Logger) *commentService {
	return &commentService{
		repos:    repos,
		notifier: notifier,
		log:      log.With().Str("service", "comment").Logger(),
		now:      time.Now,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperr.ValidationFields("comment content is required", map[string]string{"content": "is required"})
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return "", apperr.ValidationFields(
			fmt.Sprintf("comment is too long (max %d characters)", models.MaxCommentLength),
			map[string]string{"content": fmt.Sprintf("must be at most %d characters", models.MaxCommentLength)},
		)
	}
	return content, nil
}

// Post adds a comment to a published article. A parent must be a top-level
// comment of the same article.
func (s *commentService) Post(ctx context.Context, articleID, authorID int64, content string, parentID *int64) (*models.Comment, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	article, err := s.repos.Article.GetByID(ctx, articleID)
	if err != nil {
		return nil, apperr.Persistence("get article", err)
	}
	if article == nil || !article.IsPublished() {
		return nil, apperr.NotFound("article not found")
	}

	var parent *models.Comment
	if parentID != nil {
		parent, err = s.repos.Comment.GetByID(ctx, *parentID)
		if err != nil {
			return nil, apperr.Persistence("get parent comment", err)
		}
		if parent == nil || parent.ArticleID != articleID {
			return nil, apperr.NotFound("parent comment not found")
		}
		if parent.IsReply() {
			return nil, apperr.Validation("cannot reply to a reply")
		}
	}

	now := s.now().UTC()
	comment := &models.Comment{
		ArticleID: articleID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Content:   content,
		Status:    models.CommentStatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, apperr.Persistence("insert comment", err)
	}

	s.log.Info().
		Int64("comment_id", comment.ID).
		Int64("article_id", articleID).
		Bool("reply", comment.IsReply()).
		Msg("Comment posted")

	s.notifyPosted(ctx, article, parent, comment)
	return comment, nil
}

// notifyPosted tells the article author about a new comment, and the parent
// comment's author about a reply. Nobody is notified of their own comment.
func (s *commentService) notifyPosted(ctx context.Context, article *models.Article, parent, comment *models.Comment) {
	link := fmt.Sprintf("/articles/%s#comment-%d", article.Slug, comment.ID)
	payload := map[string]any{
		"article_id": article.ID,
		"comment_id": comment.ID,
		"link":       link,
	}

	if article.AuthorID != comment.AuthorID {
		_, err := s.notifier.Notify(ctx, article.AuthorID, models.NotificationComment,
			"New comment on your article", fmt.Sprintf("Someone commented on %q", article.Title), payload)
		if err != nil {
			s.log.Warn().Err(err).Int64("comment_id", comment.ID).Msg("Failed to notify article author")
		}
	}

	if parent != nil && parent.AuthorID != comment.AuthorID && parent.AuthorID != article.AuthorID {
		_, err := s.notifier.Notify(ctx, parent.AuthorID, models.NotificationComment,
			"New reply to your comment", fmt.Sprintf("Someone replied to your comment on %q", article.Title), payload)
		if err != nil {
			s.log.Warn().Err(err).Int64("comment_id", comment.ID).Msg("Failed to notify parent comment author")
		}
	}
}

// ownComment loads a comment and checks authorID wrote it. Comments carry no
// admin override.
func (s *commentService) ownComment(ctx context.Context, commentID, authorID int64, action string) (*models.Comment, error) {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return nil, apperr.Persistence("get comment", err)
	}
	if comment == nil {
		return nil, apperr.NotFound("comment not found")
	}
	if !auth.CanModify(&auth.Principal{UserID: authorID}, comment.AuthorID) {
		return nil, apperr.Forbidden("you can only " + action + " your own comments")
	}
	return comment, nil
}

func (s *commentService) Edit(ctx context.Context, commentID, authorID int64, content string) (*models.Comment, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownComment(ctx, commentID, authorID, "edit"); err != nil {
		return nil, err
	}

	updated, err := s.repos.Comment.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, apperr.Persistence("update comment", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("comment not found")
	}
	return updated, nil
}

// Delete removes a comment together with its replies
func (s *commentService) Delete(ctx context.Context, commentID, authorID int64) error {
	if _, err := s.ownComment(ctx, commentID, authorID, "delete"); err != nil {
		return err
	}
	if err := s.repos.Comment.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.NotFound("comment not found")
		}
		return apperr.Persistence("delete comment", err)
	}
	s.log.Info().Int64("comment_id", commentID).Msg("Comment deleted")
	return nil
}

// ListForArticle returns one page of approved top-level comments, newest
// first, each with its approved replies. An unknown article has no comments.
func (s *commentService) ListForArticle(ctx context.Context, articleID int64, page models.Pagination) (*models.CommentThread, error) {
	page = page.Normalize(models.DefaultPageSize)

	comments, err := s.repos.Comment.ListApprovedByArticle(ctx, articleID)
	if err != nil {
		return nil, apperr.Persistence("list comments", err)
	}

	topLevel := AssembleThread(comments)

	thread := &models.CommentThread{
		TopLevel: []*models.Comment{},
		Total:    len(topLevel),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if page.Offset < len(topLevel) {
		end := min(page.Offset+page.Limit, len(topLevel))
		thread.TopLevel = topLevel[page.Offset:end]
	}
	return thread, nil
}

// AssembleThread attaches replies to their parents and returns the top-level
// comments. Input order is preserved at both levels. Replies whose parent is
// not in comments are dropped.
func AssembleThread(comments []*models.Comment) []*models.Comment {
	byID := make(map[int64]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}

	topLevel := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			topLevel = append(topLevel, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok && parent.ParentID == nil {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return topLevel
}
