package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
	"github.com/rs/zerolog"
)

// AssetHandler serves stored uploads from whichever backend holds them
type AssetHandler struct {
	store assets.Store
	log   zerolog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(store assets.Store, log zerolog.Logger) *AssetHandler {
	return &AssetHandler{
		store: store,
		log:   log.With().Str("handler", "asset").Logger(),
	}
}

// Serve handles GET /uploads/:bucket/:filename
func (h *AssetHandler) Serve(c *gin.Context) {
	url := assets.URL(assets.Bucket(c.Param("bucket")), c.Param("filename"))
	obj, err := h.store.Open(c.Request.Context(), url)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			err = apperr.NotFound("asset not found")
		}
		respondError(c, h.log, err)
		return
	}
	defer obj.Reader.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Reader, map[string]string{
		"Cache-Control":          "public, max-age=86400",
		"X-Content-Type-Options": "nosniff",
	})
}
