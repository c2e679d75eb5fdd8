package middleware

import (
	"fmt"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CasbinMW checks the caller's role against the stored policies
type CasbinMW struct {
	policies domain.PolicyService
	audit    domain.AuditLogger
	logger   *logrus.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policies domain.PolicyService, audit domain.AuditLogger, logger *logrus.Logger) *CasbinMW {
	return &CasbinMW{policies: policies, audit: audit, logger: logger}
}

// Enforce returns the casbin authorization middleware. It must run after WithJWT.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		userID, userExists := GetUserID(c)
		role, roleExists := GetUserRole(c)
		if !userExists || !roleExists {
			abortWith(c, domain.ErrInvalidToken)
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		allowed, err := mw.policies.CheckPermission(role, path, method)
		if err != nil {
			abortWith(c, fmt.Errorf("authorization check failed: %w", err))
			return
		}

		if !allowed {
			mw.logger.WithFields(logrus.Fields{
				"user_id": userID,
				"role":    role,
				"path":    path,
				"method":  method,
			}).Warn("access denied")

			if mw.audit != nil {
				ctx := c.Request.Context()
				mw.audit.LogEvent(ctx, domain.NewAuditEvent(domain.AccessDeniedEvent, userID).
					WithClientContext(domain.ClientContextFrom(ctx)).
					WithMetadata("role", role).
					WithMetadata("path", path).
					WithMetadata("method", method).
					WithError("access denied"))
			}

			abortWith(c, domain.ErrUnauthorized)
			return
		}

		c.Next()
	})
}
