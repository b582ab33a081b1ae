package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/models"
)

// maxUploadBody bounds a multipart request: the largest image plus form fields
var maxUploadBody = assets.BucketArticles.MaxSize() + 1<<20

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationFields("invalid id", map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.ValidationFields("invalid query parameter", map[string]string{name: "must be an integer"})
	}
	return &v, nil
}

func pagination(c *gin.Context) (models.Pagination, error) {
	var page models.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, apperr.Validation("limit and offset must be integers")
	}
	return page, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formUpload opens the named file part. A missing part yields a nil upload.
// The returned close func is always safe to call.
func formUpload(c *gin.Context, field string) (*assets.Upload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperr.Validation("invalid multipart body")
	}
	f, err := header.Open()
	if err != nil {
		return nil, noop, apperr.Storage("open upload", err)
	}
	upload := &assets.Upload{Filename: header.Filename, Size: header.Size, Reader: f}
	return upload, func() { _ = f.Close() }, nil
}

func formString(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok {
		return &v
	}
	return nil
}

func formBool(c *gin.Context, field string) (bool, error) {
	v, ok := c.GetPostForm(field)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperr.ValidationFields("invalid form field", map[string]string{field: "must be a boolean"})
	}
	return b, nil
}
