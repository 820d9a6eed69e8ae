package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expensetracker/internal/apperr"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/service"
)

const principalKey = "principal"

// Auth creates a Gin middleware that authenticates each request from its
// bearer token and binds the resolved user as the request's principal.
//
// A missing or malformed Authorization header rejects the request before
// any token work. An invalid or expired token rejects with the same
// external response, and so does a valid token whose subject no longer has
// a user row. Nothing is mutated in the stores on any path.
func Auth(tokens *service.TokenService, users repository.AuthRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperr.Respond(c, logger, apperr.ErrMissingCredentials)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			apperr.Respond(c, logger, apperr.ErrMissingCredentials)
			return
		}

		subject, err := tokens.Verify(parts[1])
		if err != nil {
			apperr.Respond(c, logger, err)
			return
		}

		user, err := users.GetUserByEmail(subject)
		if err != nil {
			apperr.Respond(c, logger, err)
			return
		}
		if user == nil {
			// Token is valid but its referent is gone; treat as invalid.
			logger.Warn("Valid token for unknown subject", zap.String("subject", subject))
			apperr.Respond(c, logger, apperr.ErrInvalidToken)
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// Principal returns the authenticated user bound to the request, or nil if
// the request did not pass the Auth middleware.
func Principal(c *gin.Context) *models.User {
	if v, ok := c.Get(principalKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
