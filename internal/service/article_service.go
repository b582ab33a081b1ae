package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/database"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/publishing-api/internal/slug"
	"github.com/publishing-api/internal/tags"
	"github.com/publishing-api/internal/validation"
	"github.com/publishing-api/internal/viewcount"
	"github.com/rs/zerolog"
)

const (
	maxTitleLength = 255
	maxSlugLength  = 255
)

var maxBaseSlugLength = maxSlugLength - slug.SuffixReserve

// createAttempts bounds how often Create retries after losing a slug race
const createAttempts = 3

var errSlugTaken = errors.New("slug taken by a concurrent insert")

var validSorts = map[string]bool{
	models.SortLatest:  true,
	models.SortPopular: true,
}

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos    *repository.Repositories
	assets   assets.Store
	views    viewcount.Window
	notifier NotificationService
	log      zerolog.Logger
	now      func() time.Time
}

func newArticleService(repos *repository.Repositories, store assets.Store, views viewcount.Window, notifier NotificationService, log zerolog.Logger) *articleService {
	return &articleService{
		repos:    repos,
		assets:   store,
		views:    views,
		notifier: notifier,
		log:      log.With().Str("service", "article").Logger(),
		now:      time.Now,
	}
}

// Create validates input, stores the featured image, then inserts the article
// and its tags in one transaction. The image is removed again if the
// transaction fails.
func (s *articleService) Create(ctx context.Context, authorID int64, input models.ArticleInput, tagString *string, image *assets.Upload) (*models.Article, error) {
	article, base, err := s.newArticle(authorID, input)
	if err != nil {
		return nil, err
	}

	var normalized []tags.Tag
	if tagString != nil {
		normalized = tags.Normalize(*tagString)
		if err := checkTags(normalized); err != nil {
			return nil, err
		}
	}

	var imageURL string
	if image != nil {
		imageURL, err = s.assets.Save(ctx, assets.BucketArticles, image)
		if err != nil {
			return nil, err
		}
		article.FeaturedImageURL = &imageURL
	}

	// A concurrent create can claim the resolved slug between the lookup and
	// the insert. The whole transaction is retried so Resolve sees it.
	for attempt := 1; ; attempt++ {
		err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
			return s.insertArticle(ctx, article, base, normalized, tagString != nil)
		})
		if !errors.Is(err, errSlugTaken) || attempt == createAttempts {
			break
		}
		s.log.Debug().Str("slug", article.Slug).Int("attempt", attempt).Msg("Slug claimed concurrently, retrying")
	}
	if errors.Is(err, errSlugTaken) {
		err = apperr.DuplicateSlug(article.Slug)
	}
	if err != nil {
		discardAsset(ctx, s.assets, s.log, imageURL, "article create failed")
		return nil, apperr.Wrap("create article", err)
	}

	s.log.Info().
		Int64("article_id", article.ID).
		Str("slug", article.Slug).
		Str("status", string(article.Status)).
		Strs("tags", tags.Names(normalized)).
		Msg("Article created")

	if article.PublishedAt != nil {
		s.notifyPublished(ctx, article)
	}
	return article, nil
}

// insertArticle runs inside the create transaction
func (s *articleService) insertArticle(ctx context.Context, article *models.Article, base string, normalized []tags.Tag, replaceTags bool) error {
	exists, err := s.repos.Category.Exists(ctx, article.CategoryID)
	if err != nil {
		return apperr.Persistence("check category", err)
	}
	if !exists {
		return apperr.ValidationFields("category does not exist", map[string]string{"category_id": "does not exist"})
	}

	article.Slug, err = slug.Resolve(ctx, base, s.repos.Article.SlugExists)
	if err != nil {
		if errors.Is(err, slug.ErrExhausted) {
			return apperr.DuplicateSlug(base)
		}
		return apperr.Persistence("resolve slug", err)
	}

	if err := s.repos.Article.Create(ctx, article); err != nil {
		if database.IsUniqueViolation(err) {
			return errSlugTaken
		}
		return apperr.Persistence("insert article", err)
	}

	article.Tags, err = s.writeTags(ctx, article.ID, normalized, replaceTags)
	return err
}

// newArticle validates a create request and builds the unsaved article along
// with the base slug to resolve.
func (s *articleService) newArticle(authorID int64, input models.ArticleInput) (*models.Article, string, error) {
	v := validation.New()

	title := trimmed(input.Title)
	content := deref(input.Content)
	status := trimmed(input.Status)
	if status == "" {
		status = string(models.ArticleStatusDraft)
	}

	v.Required("title", title)
	v.MaxLength("title", title, maxTitleLength)
	v.Required("content", content)
	v.Check(input.CategoryID != nil && *input.CategoryID > 0, "category_id", "is required")
	v.OneOf("status", status, models.ValidStatuses)

	// Room is kept for the suffix Resolve may add. An explicit slug that is
	// too long is rejected, a derived one is cut.
	base := slug.Truncate(slug.Make(title), maxBaseSlugLength)
	if explicit := trimmed(input.Slug); explicit != "" {
		base = slug.Make(explicit)
		v.MaxLength("slug", base, maxBaseSlugLength)
	}
	if title != "" {
		v.Check(base != "", "slug", "must contain at least one letter or digit")
	}

	if err := v.Err(); err != nil {
		return nil, "", err
	}

	now := s.now().UTC()
	article := &models.Article{
		Title:            title,
		Excerpt:          deref(input.Excerpt),
		Content:          content,
		Status:           models.ArticleStatus(status),
		CategoryID:       *input.CategoryID,
		AuthorID:         authorID,
		FeaturedImageAlt: input.FeaturedImageAlt,
		MetaTitle:        trimmed(input.MetaTitle),
		MetaDescription:  trimmed(input.MetaDescription),
		CreatedAt:        now,
		UpdatedAt:        now,
		Tags:             []models.Tag{},
	}
	if article.MetaTitle == "" {
		article.MetaTitle = article.Title
	}
	if article.MetaDescription == "" {
		article.MetaDescription = article.Excerpt
	}
	if article.IsPublished() {
		article.PublishedAt = &now
	}
	return article, base, nil
}

// Update applies the non-nil fields of input. A new image replaces the old
// one, which is deleted only after the transaction commits.
func (s *articleService) Update(ctx context.Context, id int64, principal *auth.Principal, input models.ArticleInput, tagString *string, image *assets.Upload, removeImage bool) (*models.Article, error) {
	existing, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get article", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("article not found")
	}
	if !auth.CanModify(principal, existing.AuthorID) {
		return nil, apperr.Forbidden("you can only edit your own articles")
	}

	newSlug, err := validateUpdate(input)
	if err != nil {
		return nil, err
	}

	var normalized []tags.Tag
	if tagString != nil {
		normalized = tags.Normalize(*tagString)
		if err := checkTags(normalized); err != nil {
			return nil, err
		}
	}

	var imageURL string
	if image != nil {
		imageURL, err = s.assets.Save(ctx, assets.BucketArticles, image)
		if err != nil {
			return nil, err
		}
	}

	var (
		article      *models.Article
		oldImage     string
		publishedNow bool
	)
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.repos.Article.GetByID(ctx, id)
		if err != nil {
			return apperr.Persistence("get article", err)
		}
		if article == nil {
			return apperr.NotFound("article not found")
		}

		if input.CategoryID != nil && *input.CategoryID != article.CategoryID {
			exists, err := s.repos.Category.Exists(ctx, *input.CategoryID)
			if err != nil {
				return apperr.Persistence("check category", err)
			}
			if !exists {
				return apperr.ValidationFields("category does not exist", map[string]string{"category_id": "does not exist"})
			}
		}

		if newSlug != "" && newSlug != article.Slug {
			taken, err := s.repos.Article.SlugTakenByOther(ctx, newSlug, article.ID)
			if err != nil {
				return apperr.Persistence("check slug", err)
			}
			if taken {
				return apperr.DuplicateSlug(newSlug)
			}
			article.Slug = newSlug
		}

		publishedNow = s.applyUpdate(article, input)

		switch {
		case imageURL != "":
			oldImage = deref(article.FeaturedImageURL)
			article.FeaturedImageURL = &imageURL
		case removeImage:
			oldImage = deref(article.FeaturedImageURL)
			article.FeaturedImageURL = nil
		}

		if err := s.repos.Article.Update(ctx, article); err != nil {
			if database.IsUniqueViolation(err) {
				return apperr.DuplicateSlug(article.Slug)
			}
			if errors.Is(err, repository.ErrNoRows) {
				return apperr.NotFound("article not found")
			}
			return apperr.Persistence("update article", err)
		}

		if tagString != nil {
			article.Tags, err = s.writeTags(ctx, article.ID, normalized, true)
			return err
		}
		article.Tags, err = s.repos.Tag.ListForArticle(ctx, article.ID)
		if err != nil {
			return apperr.Persistence("list article tags", err)
		}
		return nil
	})
	if err != nil {
		discardAsset(ctx, s.assets, s.log, imageURL, "article update failed")
		return nil, apperr.Wrap("update article", err)
	}

	discardAsset(ctx, s.assets, s.log, oldImage, "featured image replaced")

	s.log.Info().Int64("article_id", article.ID).Str("slug", article.Slug).Msg("Article updated")

	if publishedNow {
		s.notifyPublished(ctx, article)
	}
	if article.Tags == nil {
		article.Tags = []models.Tag{}
	}
	return article, nil
}

// validateUpdate checks the provided fields and returns the requested slug,
// if any. A new title with no explicit slug re-derives it.
func validateUpdate(input models.ArticleInput) (string, error) {
	v := validation.New()

	if input.Title != nil {
		v.Required("title", *input.Title)
		v.MaxLength("title", strings.TrimSpace(*input.Title), maxTitleLength)
	}
	if input.Content != nil {
		v.Required("content", *input.Content)
	}
	if input.Status != nil {
		v.OneOf("status", strings.TrimSpace(*input.Status), models.ValidStatuses)
	}
	if input.CategoryID != nil {
		v.Check(*input.CategoryID > 0, "category_id", "must be a positive id")
	}

	var newSlug string
	switch {
	case input.Slug != nil:
		v.Required("slug", *input.Slug)
		newSlug = slug.Make(*input.Slug)
		if strings.TrimSpace(*input.Slug) != "" {
			v.Check(newSlug != "", "slug", "must contain at least one letter or digit")
		}
	case input.Title != nil:
		newSlug = slug.Make(*input.Title)
		if strings.TrimSpace(*input.Title) != "" {
			v.Check(newSlug != "", "title", "must contain at least one letter or digit")
		}
	}
	v.MaxLength("slug", newSlug, maxSlugLength)

	return newSlug, v.Err()
}

// applyUpdate copies the provided fields onto article and reports whether the
// article became published for the first time.
func (s *articleService) applyUpdate(article *models.Article, input models.ArticleInput) bool {
	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Excerpt != nil {
		article.Excerpt = *input.Excerpt
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.CategoryID != nil {
		article.CategoryID = *input.CategoryID
	}
	if input.FeaturedImageAlt != nil {
		article.FeaturedImageAlt = input.FeaturedImageAlt
	}
	if input.MetaTitle != nil {
		article.MetaTitle = strings.TrimSpace(*input.MetaTitle)
	}
	if input.MetaDescription != nil {
		article.MetaDescription = strings.TrimSpace(*input.MetaDescription)
	}

	now := s.now().UTC()
	article.UpdatedAt = now

	if input.Status != nil {
		article.Status = models.ArticleStatus(strings.TrimSpace(*input.Status))
	}
	if article.IsPublished() && article.PublishedAt == nil {
		article.PublishedAt = &now
		return true
	}
	return false
}

// Delete removes the article with its tag links and comments. The featured
// image is deleted after commit.
func (s *articleService) Delete(ctx context.Context, id int64, principal *auth.Principal) error {
	var imageURL string
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		article, err := s.repos.Article.GetByID(ctx, id)
		if err != nil {
			return apperr.Persistence("get article", err)
		}
		if article == nil {
			return apperr.NotFound("article not found")
		}
		if !auth.CanModify(principal, article.AuthorID) {
			return apperr.Forbidden("you can only delete your own articles")
		}

		if err := s.repos.Tag.DeleteArticleTags(ctx, id); err != nil {
			return apperr.Persistence("delete article tags", err)
		}
		if err := s.repos.Article.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return apperr.NotFound("article not found")
			}
			return apperr.Persistence("delete article", err)
		}
		imageURL = deref(article.FeaturedImageURL)
		return nil
	})
	if err != nil {
		return apperr.Wrap("delete article", err)
	}

	discardAsset(ctx, s.assets, s.log, imageURL, "article deleted")
	s.log.Info().Int64("article_id", id).Msg("Article deleted")
	return nil
}

// Get looks the article up by numeric id first and by slug otherwise.
// Unpublished articles are reported as missing to everyone but their author
// and admins.
func (s *articleService) Get(ctx context.Context, idOrSlug string, principal *auth.Principal) (*models.Article, error) {
	var (
		article *models.Article
		err     error
	)
	if id, convErr := strconv.ParseInt(idOrSlug, 10, 64); convErr == nil {
		article, err = s.repos.Article.GetByID(ctx, id)
		if err != nil {
			return nil, apperr.Persistence("get article", err)
		}
	}
	if article == nil {
		article, err = s.repos.Article.GetBySlug(ctx, idOrSlug)
		if err != nil {
			return nil, apperr.Persistence("get article by slug", err)
		}
	}
	if article == nil || (!article.IsPublished() && !auth.CanModify(principal, article.AuthorID)) {
		return nil, apperr.NotFound("article not found")
	}

	article.Tags, err = s.repos.Tag.ListForArticle(ctx, article.ID)
	if err != nil {
		return nil, apperr.Persistence("list article tags", err)
	}
	if article.Tags == nil {
		article.Tags = []models.Tag{}
	}
	return article, nil
}

// IncrementView counts one view per viewer per window. If the window is
// unavailable the view is counted.
func (s *articleService) IncrementView(ctx context.Context, id int64, viewerKey string) (bool, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return false, apperr.Persistence("get article", err)
	}
	if article == nil || !article.IsPublished() {
		return false, apperr.NotFound("article not found")
	}

	first, err := s.views.FirstSeen(ctx, viewcount.Key(id, viewerKey))
	if err != nil {
		s.log.Warn().Err(err).Int64("article_id", id).Msg("View window unavailable, counting view")
		first = true
	}
	if !first {
		return false, nil
	}

	if err := s.repos.Article.IncrementViewCount(ctx, id); err != nil {
		return false, apperr.Persistence("increment view count", err)
	}
	return true, nil
}

// List returns published articles matching filter and the total match count
func (s *articleService) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	if filter.Sort == "" {
		filter.Sort = models.SortLatest
	}
	v := validation.New()
	v.OneOf("sort", filter.Sort, validSorts)
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	filter.TagSlug = slug.Make(filter.TagSlug)
	filter.Pagination = filter.Pagination.Normalize(models.DefaultPageSize)

	articles, total, err := s.repos.Article.ListPublished(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Persistence("list articles", err)
	}

	for _, a := range articles {
		a.Tags, err = s.repos.Tag.ListForArticle(ctx, a.ID)
		if err != nil {
			return nil, 0, apperr.Persistence("list article tags", err)
		}
		if a.Tags == nil {
			a.Tags = []models.Tag{}
		}
	}
	if articles == nil {
		articles = []*models.Article{}
	}
	return articles, total, nil
}

// writeTags upserts normalized and, when replace is set, makes them the
// article's complete tag set.
func (s *articleService) writeTags(ctx context.Context, articleID int64, normalized []tags.Tag, replace bool) ([]models.Tag, error) {
	if !replace {
		return []models.Tag{}, nil
	}

	ids, err := s.repos.Tag.Upsert(ctx, normalized)
	if err != nil {
		return nil, apperr.Persistence("upsert tags", err)
	}
	if err := s.repos.Tag.ReplaceArticleTags(ctx, articleID, ids); err != nil {
		return nil, apperr.Persistence("link article tags", err)
	}

	out := make([]models.Tag, len(normalized))
	for i, t := range normalized {
		out[i] = models.Tag{ID: ids[i], Name: t.Name, Slug: t.Slug}
	}
	return out, nil
}

// checkTags rejects tags that would not fit the tags table
func checkTags(list []tags.Tag) error {
	if _, ok := tags.Oversized(list); ok {
		return apperr.ValidationFields("tag name too long", map[string]string{
			"tags": fmt.Sprintf("each tag must be at most %d characters", tags.MaxNameLength),
		})
	}
	return nil
}

// notifyPublished tells the author their article went live. Failures are
// logged only.
func (s *articleService) notifyPublished(ctx context.Context, article *models.Article) {
	payload := map[string]any{
		"article_id": article.ID,
		"slug":       article.Slug,
		"link":       "/articles/" + article.Slug,
	}
	_, err := s.notifier.Notify(ctx, article.AuthorID, models.NotificationArticlePublished,
		"Your article is live", fmt.Sprintf("%q has been published", article.Title), payload)
	if err != nil {
		s.log.Warn().Err(err).Int64("article_id", article.ID).Msg("Failed to send publish notification")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmed(s *string) string {
	return strings.TrimSpace(deref(s))
}
