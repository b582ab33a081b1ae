package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/auth"
)

const principalKey = "principal"

// authMiddleware reads a bearer token. When required is false a missing token
// lets the request through anonymously, but an invalid one is still rejected.
func authMiddleware(authn auth.Authenticator, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			if required {
				writeError(c, apperr.Unauthenticated("authentication required"))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		p, err := authn.Authenticate(token)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(principalKey, &p)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// principalFrom returns the authenticated caller, or nil
func principalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}
