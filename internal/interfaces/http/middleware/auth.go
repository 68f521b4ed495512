package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"srdashboard/internal/domain/user"
	"srdashboard/internal/infrastructure/auth"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/utils"
)

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try to get token from cookie first
		token, _ := c.Cookie(constants.AccessTokenCookie)

		// Fallback to Authorization header
		if token == "" {
			authHeader := c.GetHeader(constants.HeaderAuthorization)
			if authHeader == "" {
				utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("missing authorization token"))
				c.Abort()
				return
			}

			scheme, value, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
				utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid authorization header format"))
				c.Abort()
				return
			}

			token = strings.TrimSpace(value)
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			if err == auth.ErrTokenExpired {
				utils.ErrorResponseWithError(c, errors.NewTokenExpiredError("access token"))
			} else {
				m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
				utils.ErrorResponseWithError(c, errors.NewTokenInvalidError("access token"))
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUsername, claims.Username)
		c.Set(constants.ContextKeyUserRole, claims.Role)

		c.Next()
	}
}

// ActorFromContext returns the user authenticated by RequireAuth.
func ActorFromContext(c *gin.Context) (user.Actor, bool) {
	userID, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return user.Actor{}, false
	}
	id, ok := userID.(uint)
	if !ok || id == 0 {
		return user.Actor{}, false
	}

	actor := user.Actor{ID: id, Username: c.GetString(constants.ContextKeyUsername)}
	if role, ok := c.Get(constants.ContextKeyUserRole); ok {
		actor.Role, _ = role.(user.Role)
	}
	return actor, true
}
