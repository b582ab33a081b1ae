package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/repository"
	"github.com/publishing-api/internal/tags"
)

// Operation names accepted by Store.Fail
const (
	OpArticleCreate      = "article.create"
	OpArticleUpdate      = "article.update"
	OpArticleDelete      = "article.delete"
	OpArticleGet         = "article.get"
	OpTagUpsert          = "tag.upsert"
	OpTagReplace         = "tag.replace"
	OpCommentCreate      = "comment.create"
	OpNotificationCreate = "notification.create"
	OpUserSetImage       = "user.set_profile_image"
	OpCategoryCreate     = "category.create"
)

// ErrUniqueViolation is what the store returns for a duplicate slug, shaped
// like the driver error so database.IsUniqueViolation recognises it.
var ErrUniqueViolation = &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}

// ErrForeignKeyViolation is returned when deleting a category still in use
var ErrForeignKeyViolation = &pq.Error{Code: "23503", Message: "update or delete violates foreign key constraint"}

type txKey struct{}

// Store is an in-memory backend for every repository. Transactions are
// modelled by snapshotting all tables and restoring them on error.
type Store struct {
	mu sync.Mutex

	Articles      map[int64]*models.Article
	Tags          map[int64]*models.Tag
	ArticleTags   map[int64][]int64
	Comments      map[int64]*models.Comment
	Notifications map[int64]*models.Notification
	Users         map[int64]*models.User
	Categories    map[int64]*models.Category

	nextID    int64
	failures  map[string]error
	once      map[string]bool
	Commits   int
	Rollbacks int
}

func NewStore() *Store {
	return &Store{
		Articles:      make(map[int64]*models.Article),
		Tags:          make(map[int64]*models.Tag),
		ArticleTags:   make(map[int64][]int64),
		Comments:      make(map[int64]*models.Comment),
		Notifications: make(map[int64]*models.Notification),
		Users:         make(map[int64]*models.User),
		Categories:    make(map[int64]*models.Category),
		nextID:        1000,
		failures:      make(map[string]error),
		once:          make(map[string]bool),
	}
}

// Repositories returns repository implementations backed by s
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Article:      &ArticleRepo{s: s},
		Tag:          &TagRepo{s: s},
		Comment:      &CommentRepo{s: s},
		Notification: &NotificationRepo{s: s},
		User:         &UserRepo{s: s},
		Category:     &CategoryRepo{s: s},
		Tx:           s,
	}
}

// Fail makes every later call of op return err. A nil err clears it.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.once, op)
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// FailOnce makes only the next call of op return err
func (s *Store) FailOnce(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
	s.once[op] = true
}

func (s *Store) failure(op string) error {
	err := s.failures[op]
	if s.once[op] {
		delete(s.failures, op)
		delete(s.once, op)
	}
	return err
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser seeds a user
func (s *Store) AddUser(id int64, username, role string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: id, Username: username, Role: role, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Users[id] = u
	return u
}

// AddCategory seeds a category
func (s *Store) AddCategory(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.Categories[id] = &models.Category{ID: id, Name: name, Slug: name, CreatedAt: now, UpdatedAt: now}
}

// CommentCount returns the number of stored comments of an article
func (s *Store) CommentCount(articleID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Comments {
		if c.ArticleID == articleID {
			n++
		}
	}
	return n
}

// NotificationsFor returns the stored notifications of a recipient
func (s *Store) NotificationsFor(recipientID int64) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.Notifications {
		if n.RecipientID == recipientID {
			c := *n
			out = append(out, &c)
		}
	}
	return out
}

// WithinTx runs fn and restores every table if it fails or panics. Nested
// calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	defer func() {
		p := recover()
		if err != nil || p != nil {
			s.mu.Lock()
			s.restore(snap)
			s.Rollbacks++
			s.mu.Unlock()
		}
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}

	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

type snapshot struct {
	articles      map[int64]*models.Article
	tags          map[int64]*models.Tag
	articleTags   map[int64][]int64
	comments      map[int64]*models.Comment
	notifications map[int64]*models.Notification
	users         map[int64]*models.User
	categories    map[int64]*models.Category
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		articles:      make(map[int64]*models.Article, len(s.Articles)),
		tags:          make(map[int64]*models.Tag, len(s.Tags)),
		articleTags:   make(map[int64][]int64, len(s.ArticleTags)),
		comments:      make(map[int64]*models.Comment, len(s.Comments)),
		notifications: make(map[int64]*models.Notification, len(s.Notifications)),
		users:         make(map[int64]*models.User, len(s.Users)),
		categories:    make(map[int64]*models.Category, len(s.Categories)),
	}
	for k, v := range s.Articles {
		snap.articles[k] = cloneArticle(v)
	}
	for k, v := range s.Tags {
		t := *v
		snap.tags[k] = &t
	}
	for k, v := range s.ArticleTags {
		snap.articleTags[k] = append([]int64(nil), v...)
	}
	for k, v := range s.Comments {
		snap.comments[k] = cloneComment(v)
	}
	for k, v := range s.Notifications {
		n := *v
		snap.notifications[k] = &n
	}
	for k, v := range s.Users {
		snap.users[k] = cloneUser(v)
	}
	for k, v := range s.Categories {
		c := *v
		snap.categories[k] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.Articles = snap.articles
	s.Tags = snap.tags
	s.ArticleTags = snap.articleTags
	s.Comments = snap.comments
	s.Notifications = snap.notifications
	s.Users = snap.users
	s.Categories = snap.categories
}

func cloneArticle(a *models.Article) *models.Article {
	c := *a
	if a.FeaturedImageURL != nil {
		v := *a.FeaturedImageURL
		c.FeaturedImageURL = &v
	}
	if a.FeaturedImageAlt != nil {
		v := *a.FeaturedImageAlt
		c.FeaturedImageAlt = &v
	}
	if a.PublishedAt != nil {
		v := *a.PublishedAt
		c.PublishedAt = &v
	}
	c.Tags = nil
	return &c
}

func cloneComment(cm *models.Comment) *models.Comment {
	c := *cm
	if cm.ParentID != nil {
		v := *cm.ParentID
		c.ParentID = &v
	}
	c.Replies = nil
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.ProfileImage != nil {
		v := *u.ProfileImage
		c.ProfileImage = &v
	}
	return &c
}

// ArticleRepo implements repository.ArticleRepository on a Store
type ArticleRepo struct {
	s *Store
}

func (r *ArticleRepo) slugInUse(slug string, exceptID int64) bool {
	for _, a := range r.s.Articles {
		if a.Slug == slug && a.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *ArticleRepo) Create(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpArticleCreate); err != nil {
		return err
	}
	if r.slugInUse(article.Slug, 0) {
		return ErrUniqueViolation
	}
	article.ID = r.s.id()
	r.s.Articles[article.ID] = cloneArticle(article)
	return nil
}

func (r *ArticleRepo) Update(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpArticleUpdate); err != nil {
		return err
	}
	existing, ok := r.s.Articles[article.ID]
	if !ok {
		return repository.ErrNoRows
	}
	if r.slugInUse(article.Slug, article.ID) {
		return ErrUniqueViolation
	}
	stored := cloneArticle(article)
	stored.ViewCount = existing.ViewCount
	stored.CreatedAt = existing.CreatedAt
	if existing.PublishedAt != nil {
		v := *existing.PublishedAt
		stored.PublishedAt = &v
	}
	r.s.Articles[article.ID] = stored
	return nil
}

func (r *ArticleRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpArticleDelete); err != nil {
		return err
	}
	if _, ok := r.s.Articles[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.s.Articles, id)
	delete(r.s.ArticleTags, id)
	for cid, c := range r.s.Comments {
		if c.ArticleID == id {
			delete(r.s.Comments, cid)
		}
	}
	return nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpArticleGet); err != nil {
		return nil, err
	}
	a, ok := r.s.Articles[id]
	if !ok {
		return nil, nil
	}
	return cloneArticle(a), nil
}

func (r *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpArticleGet); err != nil {
		return nil, err
	}
	for _, a := range r.s.Articles {
		if a.Slug == slug {
			return cloneArticle(a), nil
		}
	}
	return nil, nil
}

func (r *ArticleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.slugInUse(slug, 0), nil
}

func (r *ArticleRepo) SlugTakenByOther(ctx context.Context, slug string, articleID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.slugInUse(slug, articleID), nil
}

func (r *ArticleRepo) IncrementViewCount(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.Articles[id]; ok {
		a.ViewCount++
	}
	return nil
}

func (r *ArticleRepo) ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*models.Article
	for _, a := range r.s.Articles {
		if !a.IsPublished() {
			continue
		}
		if filter.CategoryID != nil && a.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.AuthorID != nil && a.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.TagSlug != "" && !r.hasTag(a.ID, filter.TagSlug) {
			continue
		}
		matched = append(matched, cloneArticle(a))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.Sort == models.SortPopular && a.ViewCount != b.ViewCount {
			return a.ViewCount > b.ViewCount
		}
		if !a.PublishedAt.Equal(*b.PublishedAt) {
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return a.ID > b.ID
	})

	return page(matched, filter.Pagination), len(matched), nil
}

func (r *ArticleRepo) hasTag(articleID int64, slug string) bool {
	for _, tid := range r.s.ArticleTags[articleID] {
		if t, ok := r.s.Tags[tid]; ok && t.Slug == slug {
			return true
		}
	}
	return false
}

func page[T any](items []T, p models.Pagination) []T {
	if p.Offset >= len(items) {
		return nil
	}
	end := len(items)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return items[p.Offset:end]
}

// TagRepo implements repository.TagRepository on a Store
type TagRepo struct {
	s *Store
}

func (r *TagRepo) Upsert(ctx context.Context, input []tags.Tag) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpTagUpsert); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(input))
	for _, in := range input {
		var found *models.Tag
		for _, t := range r.s.Tags {
			if t.Slug == in.Slug {
				found = t
				break
			}
		}
		if found == nil {
			found = &models.Tag{ID: r.s.id(), Slug: in.Slug}
			r.s.Tags[found.ID] = found
		}
		found.Name = in.Name
		ids = append(ids, found.ID)
	}
	return ids, nil
}

func (r *TagRepo) ReplaceArticleTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpTagReplace); err != nil {
		return err
	}
	seen := make(map[int64]bool)
	var links []int64
	for _, id := range tagIDs {
		if !seen[id] {
			seen[id] = true
			links = append(links, id)
		}
	}
	r.s.ArticleTags[articleID] = links
	return nil
}

func (r *TagRepo) DeleteArticleTags(ctx context.Context, articleID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.ArticleTags, articleID)
	return nil
}

func (r *TagRepo) ListForArticle(ctx context.Context, articleID int64) ([]models.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Tag
	for _, id := range r.s.ArticleTags[articleID] {
		if t, ok := r.s.Tags[id]; ok {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CommentRepo implements repository.CommentRepository on a Store
type CommentRepo struct {
	s *Store
}

func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpCommentCreate); err != nil {
		return err
	}
	if _, ok := r.s.Articles[comment.ArticleID]; !ok {
		return errors.New("foreign key violation: article")
	}
	comment.ID = r.s.id()
	r.s.Comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Comments[id]
	if !ok {
		return nil, nil
	}
	return cloneComment(c), nil
}

func (r *CommentRepo) UpdateContent(ctx context.Context, id int64, content string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Comments[id]
	if !ok {
		return nil, nil
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	return cloneComment(c), nil
}

func (r *CommentRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Comments[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.s.Comments, id)
	for cid, c := range r.s.Comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(r.s.Comments, cid)
		}
	}
	return nil
}

func (r *CommentRepo) ListApprovedByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Comment
	for _, c := range r.s.Comments {
		if c.ArticleID == articleID && c.Status == models.CommentStatusApproved {
			out = append(out, cloneComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// NotificationRepo implements repository.NotificationRepository on a Store
type NotificationRepo struct {
	s *Store
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpNotificationCreate); err != nil {
		return err
	}
	n.ID = r.s.id()
	c := *n
	r.s.Notifications[n.ID] = &c
	return nil
}

func (r *NotificationRepo) List(ctx context.Context, recipientID int64, filter models.NotificationFilter, p models.Pagination) ([]*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.s.Notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if (filter == models.FilterUnread && n.IsRead) || (filter == models.FilterRead && !n.IsRead) {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, p), nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, n := range r.s.Notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.Notifications[id]
	if !ok || n.RecipientID != recipientID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changed int64
	for _, n := range r.s.Notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id, recipientID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.Notifications[id]
	if !ok || n.RecipientID != recipientID {
		return false, nil
	}
	delete(r.s.Notifications, id)
	return true, nil
}

// UserRepo implements repository.UserRepository on a Store
type UserRepo struct {
	s *Store
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) SetProfileImage(ctx context.Context, id int64, url *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpUserSetImage); err != nil {
		return err
	}
	u, ok := r.s.Users[id]
	if !ok {
		return repository.ErrNoRows
	}
	if url == nil {
		u.ProfileImage = nil
		return nil
	}
	v := *url
	u.ProfileImage = &v
	return nil
}

// CategoryRepo implements repository.CategoryRepository on a Store
type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.Categories[id]
	return ok, nil
}

func (r *CategoryRepo) withCount(c *models.Category) *models.Category {
	out := *c
	out.ArticleCount = 0
	for _, a := range r.s.Articles {
		if a.CategoryID == c.ID && a.Status == models.ArticleStatusPublished {
			out.ArticleCount++
		}
	}
	return &out
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Categories[id]
	if !ok {
		return nil, nil
	}
	return r.withCount(c), nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Category, 0, len(r.s.Categories))
	for _, c := range r.s.Categories {
		out = append(out, r.withCount(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CategoryRepo) SlugTakenByOther(ctx context.Context, slug string, categoryID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.Categories {
		if c.Slug == slug && c.ID != categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *CategoryRepo) Create(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpCategoryCreate); err != nil {
		return err
	}
	for _, c := range r.s.Categories {
		if c.Slug == category.Slug {
			return ErrUniqueViolation
		}
	}
	now := time.Now()
	category.ID = r.s.id()
	category.CreatedAt, category.UpdatedAt = now, now
	stored := *category
	r.s.Categories[category.ID] = &stored
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.Categories[category.ID]
	if !ok {
		return repository.ErrNoRows
	}
	for _, c := range r.s.Categories {
		if c.Slug == category.Slug && c.ID != category.ID {
			return ErrUniqueViolation
		}
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	stored := *category
	stored.ArticleCount = 0
	r.s.Categories[category.ID] = &stored
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Categories[id]; !ok {
		return repository.ErrNoRows
	}
	for _, a := range r.s.Articles {
		if a.CategoryID == id {
			return ErrForeignKeyViolation
		}
	}
	delete(r.s.Categories, id)
	return nil
}

var (
	_ repository.ArticleRepository      = (*ArticleRepo)(nil)
	_ repository.TagRepository          = (*TagRepo)(nil)
	_ repository.CommentRepository      = (*CommentRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.CategoryRepository     = (*CategoryRepo)(nil)
)
