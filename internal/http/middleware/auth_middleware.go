package middleware

import (
	"strings"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(tokenSvc domain.TokenService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, domain.ErrInvalidToken)
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
			abortWith(c, domain.ErrTokenMalformed)
			return
		}
		token := strings.TrimSpace(tokenParts[1])

		// signature, issuer, audience and lifetime
		if !tokenSvc.ValidateToken(token) {
			abortWith(c, domain.ErrInvalidToken)
			return
		}

		claims, err := tokenSvc.GetPrincipalFromExpiredToken(token)
		if err != nil || claims.UserID == "" {
			abortWith(c, domain.ErrInvalidToken)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	})
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
