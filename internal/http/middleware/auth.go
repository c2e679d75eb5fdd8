package middleware

import (
	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
)

// Context keys set by the JWT middleware
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// AuthMW wraps the token service for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService) *AuthMW {
	return &AuthMW{tokenSvc: tokenSvc}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc)
}

// GetUserID returns the authenticated user id
func GetUserID(c *gin.Context) (string, bool) {
	return getString(c, ContextUserID)
}

// GetUserRole returns the role claim of the authenticated user
func GetUserRole(c *gin.Context) (string, bool) {
	return getString(c, ContextUserRole)
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
