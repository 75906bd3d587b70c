// Package middleware provides gin middleware for authentication and
// role-based authorization. Token issuance is out of scope; tokens are
// only verified here.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/LionStoreTeam/ecometrics/internal/models"
)

// ContextUserKey is the gin context key holding the authenticated *models.User.
const ContextUserKey = "currentUser"

// UserLoader resolves the authenticated user record.
type UserLoader interface {
	GetByID(id uint) (*models.User, error)
}

// Claims are the verified token claims.
type Claims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and loads the user into the context.
// Requests without a valid token are rejected with 401 before any handler runs.
func Auth(secret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin rejects non-admin users with 403. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func parseToken(header, secret string) (*Claims, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, errors.New("missing bearer token")
	}
	raw := strings.TrimPrefix(header, prefix)

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
