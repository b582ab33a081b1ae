package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/service"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

// List handles GET /v1/articles/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	articleID, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	page, err := pagination(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	thread, err := h.services.Comment.ListForArticle(c.Request.Context(), articleID, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// Create handles POST /v1/articles/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperr.Validation("invalid request body"))
		return
	}

	comment, err := h.services.Comment.Post(c.Request.Context(), articleID, principalFrom(c).UserID, req.Content, req.ParentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update handles PUT /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperr.Validation("invalid request body"))
		return
	}

	comment, err := h.services.Comment.Edit(c.Request.Context(), id, principalFrom(c).UserID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.services.Comment.Delete(c.Request.Context(), id, principalFrom(c).UserID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
