package middleware

import (
	"github.com/gin-gonic/gin"

	"srdashboard/internal/domain/permission"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/utils"
)

type PermissionMiddleware struct {
	enforcer permission.Enforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer permission.Enforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission must run after RequireAuth.
func (m *PermissionMiddleware) RequirePermission(resource permission.Resource, action permission.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
			c.Abort()
			return
		}

		allowed, err := m.enforcer.Enforce(actor.Role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", actor.ID, "resource", resource, "action", action)
			utils.ErrorResponseWithError(c, errors.NewInternalError("permission check failed"))
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", actor.ID, "role", actor.Role, "resource", resource, "action", action)
			utils.ErrorResponseWithError(c, errors.NewForbiddenError("insufficient permissions"))
			c.Abort()
			return
		}

		c.Next()
	}
}
