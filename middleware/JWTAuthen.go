package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bdcserver/logger"
	"bdcserver/services"
	"bdcserver/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// EmailKey holds the verified caller email set by IdentityMiddleware.
	EmailKey = "tokenUserEmail"
	// TokenCookie is read when no Authorization header is present.
	TokenCookie = "token"
)

// IdentityMiddleware resolves the caller through verifier and stores the
// email under EmailKey. Requests without a valid credential get 401.
func IdentityMiddleware(verifier services.IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			return
		}

		email, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.From(c).Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			return
		}

		c.Set(EmailKey, email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// AdminMiddleware admits only callers whose stored user has the admin role.
// It runs after IdentityMiddleware; a store failure is a 500, not a denial.
func AdminMiddleware(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(EmailKey)
		err := services.AuthorizeAdmin(c.Request.Context(), st, email)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, services.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden access"})
		default:
			logger.From(c).Error("admin lookup failed", zap.String("email", email), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
	}
}
