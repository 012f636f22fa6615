// Package middleware holds the gin middlewares shared by the API routes.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/service/auth"
	"github.com/mamadbah2/dairyflow/internal/session"
)

// Verifier resolves a bearer token to its user.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.User, error)
}

// RequireSession rejects requests without a verified bearer token and stores the user in
// the request context.
func RequireSession(verifier Verifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		user, err := verifier.Verify(c.Request.Context(), token)
		switch {
		case errors.Is(err, auth.ErrInvalidSession):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		case err != nil:
			logger.Error("session verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "identity provider unavailable"})
			return
		}

		c.Request = c.Request.WithContext(session.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
