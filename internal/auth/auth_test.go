package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/publishing-api/internal/apperr"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, subject, role string, expires time.Time) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		owner     int64
		want      bool
	}{
		{"owner", &Principal{UserID: 7, Role: "user"}, 7, true},
		{"other user", &Principal{UserID: 8, Role: "user"}, 7, false},
		{"admin", &Principal{UserID: 1, Role: "admin"}, 7, true},
		{"anonymous", nil, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModify(tt.principal, tt.owner); got != tt.want {
				t.Errorf("CanModify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJWTAuthenticator_Valid(t *testing.T) {
	a := NewJWTAuthenticator(testSecret)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), strconv.Itoa(42), "admin", time.Now().Add(time.Hour))

	p, err := a.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if p.UserID != 42 || p.Role != "admin" {
		t.Errorf("Unexpected principal %+v", p)
	}
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	a := NewJWTAuthenticator(testSecret)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), "42", "user", future)},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, []byte(testSecret), "42", "user", future)},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "42", "user", time.Now().Add(-time.Minute))},
		{"non numeric subject", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "alice", "user", future)},
		{"zero subject", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "0", "user", future)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(tt.token)
			if !apperr.Is(err, apperr.KindUnauthenticated) {
				t.Errorf("Expected unauthenticated error, got %v", err)
			}
		})
	}
}
