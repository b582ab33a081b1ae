package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/service"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// articleRequest is the JSON form of a create or update request
type articleRequest struct {
	models.ArticleInput
	Tags        *string `json:"tags"`
	RemoveImage bool    `json:"remove_image"`
}

// readArticleRequest accepts either multipart/form-data (with an optional
// featured_image part) or a JSON body.
func (h *ArticleHandler) readArticleRequest(c *gin.Context) (*articleRequest, *assets.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		var req articleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, noop, apperr.Validation("invalid request body")
		}
		return &req, nil, noop, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	req := &articleRequest{
		ArticleInput: models.ArticleInput{
			Title:            formString(c, "title"),
			Slug:             formString(c, "slug"),
			Excerpt:          formString(c, "excerpt"),
			Content:          formString(c, "content"),
			Status:           formString(c, "status"),
			FeaturedImageAlt: formString(c, "featured_image_alt"),
			MetaTitle:        formString(c, "meta_title"),
			MetaDescription:  formString(c, "meta_description"),
		},
		Tags: formString(c, "tags"),
	}
	if raw := formString(c, "category_id"); raw != nil && *raw != "" {
		id, err := strconv.ParseInt(*raw, 10, 64)
		if err != nil {
			return nil, nil, noop, apperr.ValidationFields("invalid form field", map[string]string{"category_id": "must be an integer"})
		}
		req.CategoryID = &id
	}
	remove, err := formBool(c, "remove_image")
	if err != nil {
		return nil, nil, noop, err
	}
	req.RemoveImage = remove

	upload, closeUpload, err := formUpload(c, "featured_image")
	if err != nil {
		return nil, nil, noop, err
	}
	return req, upload, closeUpload, nil
}

// List handles GET /v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	page, err := pagination(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	categoryID, err := queryInt64(c, "category_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	authorID, err := queryInt64(c, "author_id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	filter := models.ArticleFilter{
		CategoryID: categoryID,
		AuthorID:   authorID,
		TagSlug:    c.Query("tag"),
		Sort:       c.Query("sort"),
		Pagination: page,
	}

	articles, total, err := h.services.Article.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	page = page.Normalize(models.DefaultPageSize)
	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

// Get handles GET /v1/articles/:id, where :id is a numeric id or a slug
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), c.Param("id"), principalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	principal := principalFrom(c)

	req, upload, closeUpload, err := h.readArticleRequest(c)
	defer closeUpload()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), principal.UserID, req.ArticleInput, req.Tags, upload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	req, upload, closeUpload, err := h.readArticleRequest(c)
	defer closeUpload()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, principalFrom(c), req.ArticleInput, req.Tags, upload, req.RemoveImage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.services.Article.Delete(c.Request.Context(), id, principalFrom(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordView handles POST /v1/articles/:id/view. Signed-in viewers are keyed
// by user id, everyone else by client address.
func (h *ArticleHandler) RecordView(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	viewerKey := "ip:" + c.ClientIP()
	if p := principalFrom(c); p != nil {
		viewerKey = "user:" + strconv.FormatInt(p.UserID, 10)
	}

	counted, err := h.services.Article.IncrementView(c.Request.Context(), id, viewerKey)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counted": counted})
}
