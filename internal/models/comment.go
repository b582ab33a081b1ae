package models

import (
	"time"
)

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// MaxCommentLength is the maximum allowed characters in a comment body
const MaxCommentLength = 1000

// Comment represents a comment on an article
type Comment struct {
	ID        int64         `json:"id" db:"id"`
	ArticleID int64         `json:"article_id" db:"article_id"`
	AuthorID  int64         `json:"author_id" db:"user_id"`
	ParentID  *int64        `json:"parent_id,omitempty" db:"parent_id"`
	Content   string        `json:"content" db:"content"`
	Status    CommentStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
	Replies   []*Comment    `json:"replies,omitempty" db:"-"`
}

// IsReply reports whether the comment has a parent
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentThread is one page of top-level comments with their replies
type CommentThread struct {
	TopLevel []*Comment `json:"comments"`
	Total    int        `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
