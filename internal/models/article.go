package models

import (
	"time"
)

// ArticleStatus is the publication state of an article
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[string]bool{
	string(ArticleStatusDraft):     true,
	string(ArticleStatusPublished): true,
	string(ArticleStatusArchived):  true,
}

// Article represents an article in the system
type Article struct {
	ID               int64         `json:"id" db:"id"`
	Title            string        `json:"title" db:"title"`
	Slug             string        `json:"slug" db:"slug"`
	Excerpt          string        `json:"excerpt" db:"excerpt"`
	Content          string        `json:"content" db:"content"`
	Status           ArticleStatus `json:"status" db:"status"`
	CategoryID       int64         `json:"category_id" db:"category_id"`
	AuthorID         int64         `json:"author_id" db:"author_id"`
	FeaturedImageURL *string       `json:"featured_image_url,omitempty" db:"featured_image_url"`
	FeaturedImageAlt *string       `json:"featured_image_alt,omitempty" db:"featured_image_alt"`
	MetaTitle        string        `json:"meta_title" db:"meta_title"`
	MetaDescription  string        `json:"meta_description" db:"meta_description"`
	ViewCount        int64         `json:"view_count" db:"view_count"`
	PublishedAt      *time.Time    `json:"published_at,omitempty" db:"published_at"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
	Tags             []Tag         `json:"tags" db:"-"`
}

// IsPublished reports whether the article is visible to everyone
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// Tag is a shared label linked to articles through article_tags
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Category groups articles. ArticleCount counts published articles and is
// filled on reads.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description" db:"description"`
	ArticleCount int       `json:"article_count" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryInput carries the fields of a category create or update request
type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Article list orderings
const (
	SortLatest  = "latest"
	SortPopular = "popular"
)

// ArticleFilter selects published articles for listing
type ArticleFilter struct {
	CategoryID *int64
	AuthorID   *int64
	TagSlug    string
	Sort       string
	Pagination
}

// ArticleInput carries the fields of a create or update request. A nil field
// is left untouched on update.
type ArticleInput struct {
	Title            *string `json:"title"`
	Slug             *string `json:"slug"`
	Excerpt          *string `json:"excerpt"`
	Content          *string `json:"content"`
	Status           *string `json:"status"`
	CategoryID       *int64  `json:"category_id"`
	FeaturedImageAlt *string `json:"featured_image_alt"`
	MetaTitle        *string `json:"meta_title"`
	MetaDescription  *string `json:"meta_description"`
}
