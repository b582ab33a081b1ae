package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/service"
	"github.com/rs/zerolog"
)

// ProfileHandler handles profile image endpoints
type ProfileHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(services *service.Services, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		services: services,
		log:      log.With().Str("handler", "profile").Logger(),
	}
}

// UpdateImage handles PUT /v1/profile/image with a multipart "image" part
func (h *ProfileHandler) UpdateImage(c *gin.Context) {
	if !isMultipart(c) {
		respondError(c, h.log, apperr.Validation("expected multipart/form-data"))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	upload, closeUpload, err := formUpload(c, "image")
	defer closeUpload()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if upload == nil {
		respondError(c, h.log, apperr.ValidationFields("image is required", map[string]string{"image": "required"}))
		return
	}

	user, err := h.services.Profile.UpdateImage(c.Request.Context(), principalFrom(c).UserID, upload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RemoveImage handles DELETE /v1/profile/image
func (h *ProfileHandler) RemoveImage(c *gin.Context) {
	user, err := h.services.Profile.RemoveImage(c.Request.Context(), principalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
