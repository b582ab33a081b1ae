package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdobak/go-xerrors"
	"github.com/publishing-api/internal/apperr"
	"github.com/rs/zerolog"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:      http.StatusBadRequest,
	apperr.KindDuplicateSlug:   http.StatusConflict,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindForbidden:       http.StatusForbidden,
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindStorage:         http.StatusInternalServerError,
	apperr.KindPersistence:     http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind apperr.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError sends the stable part of err. Causes never reach the client.
func writeError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Persistence("unclassified", err)
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Kind,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.JSON(StatusFor(appErr.Kind), body)
}

// respondError logs server-side failures with their stack, then writes err
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	kind := apperr.KindOf(err)
	if StatusFor(kind) >= http.StatusInternalServerError {
		event := log.Error().Err(err).
			Str("kind", string(kind)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path)
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Err != nil {
			event = event.Str("stack", xerrors.Sprint(appErr.Err))
		}
		event.Msg("Request failed")
	}
	writeError(c, err)
}
