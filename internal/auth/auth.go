// Package auth identifies callers and decides what they may modify.
package auth

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/models"
)

// Principal is the authenticated caller
type Principal struct {
	UserID int64
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanModify reports whether p may change a resource owned by ownerID.
// Admins may change anything.
func CanModify(p *Principal, ownerID int64) bool {
	if p == nil {
		return false
	}
	return p.UserID == ownerID || p.IsAdmin()
}

// Authenticator turns a bearer token into a Principal
type Authenticator interface {
	Authenticate(token string) (Principal, error)
}

// Claims is the JWT payload. Subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator verifies HS256 tokens signed with a shared secret
type JWTAuthenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Authenticate returns an Unauthenticated error for any token that is
// malformed, expired, wrongly signed or lacks a numeric subject.
func (a *JWTAuthenticator) Authenticate(token string) (Principal, error) {
	if token == "" {
		return Principal{}, apperr.Unauthenticated("missing token")
	}

	claims := &Claims{}
	parsed, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperr.Unauthenticated("token expired")
		}
		return Principal{}, apperr.Unauthenticated("invalid token")
	}
	if !parsed.Valid {
		return Principal{}, apperr.Unauthenticated("invalid token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Principal{}, apperr.Unauthenticated("invalid token subject")
	}

	return Principal{UserID: userID, Role: claims.Role}, nil
}
