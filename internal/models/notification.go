package models

import (
	"encoding/json"
	"time"
)

// NotificationType identifies the event that produced a notification
type NotificationType string

const (
	NotificationComment          NotificationType = "comment"
	NotificationLike             NotificationType = "like"
	NotificationArticlePublished NotificationType = "article_published"
	NotificationMention          NotificationType = "mention"
	NotificationSystem           NotificationType = "system"
)

// ValidNotificationTypes defines allowed notification types
var ValidNotificationTypes = map[string]bool{
	string(NotificationComment):          true,
	string(NotificationLike):             true,
	string(NotificationArticlePublished): true,
	string(NotificationMention):          true,
	string(NotificationSystem):           true,
}

// Notification is a message addressed to a single recipient
type Notification struct {
	ID          int64            `json:"id" db:"id"`
	RecipientID int64            `json:"recipient_id" db:"user_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	Payload     json.RawMessage  `json:"payload" db:"payload"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// NotificationInput is an admin-composed notification for one user
type NotificationInput struct {
	RecipientID int64            `json:"user_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Payload     json.RawMessage  `json:"data"`
}

// NotificationFilter restricts a listing by read state
type NotificationFilter string

const (
	FilterAll    NotificationFilter = "all"
	FilterUnread NotificationFilter = "unread"
	FilterRead   NotificationFilter = "read"
)

// ValidNotificationFilters defines allowed list filters
var ValidNotificationFilters = map[string]bool{
	string(FilterAll):    true,
	string(FilterUnread): true,
	string(FilterRead):   true,
}

// NotificationPage is the list response for a recipient
type NotificationPage struct {
	Items       []*Notification `json:"notifications"`
	UnreadCount int             `json:"unread_count"`
}
