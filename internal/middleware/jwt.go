package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

var (
	errNoToken  = errors.New("no bearer token")
	errNoSecret = errors.New("jwt secret not configured")
)

// OptionalAuth identifies the caller when a bearer token is present. Requests
// without one pass through anonymously; a token that fails verification is
// rejected. The hosted auth service's anon key verifies but carries no
// subject, so it also maps to an anonymous caller. With no secret configured
// tokens cannot be checked and every caller is anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := verify(c.GetHeader("Authorization"), secret)
		switch {
		case errors.Is(err, errNoToken), errors.Is(err, errNoSecret):
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		case uid != "":
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}

// RequireAuth rejects any request that does not carry a verified user token.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := verify(c.GetHeader("Authorization"), secret)
		if errors.Is(err, errNoToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if err != nil || uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserID returns the verified caller, or "" for anonymous requests.
func UserID(c *gin.Context) string { return c.GetString(userIDKey) }

func verify(header, secret string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", errNoToken
	}
	if secret == "" {
		return "", errNoSecret
	}
	token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, _ := token.Claims.GetSubject()
	return sub, nil
}
