package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyvault/noteguard/internal/common"
)

const (
	ctxUserIDKey  = "userID"
	ctxSessionKey = "viewSession"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// requireUser reads the user id resolved by the outer auth layer. Login and
// registration flows live outside this core.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(common.UserIDHeaderName)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
			return
		}
		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

// requireSession validates the bearer view token and stashes the session.
// Downstream handlers trust the session without re-checking entitlement.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(common.ViewTokenHeaderName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
			return
		}

		session, err := s.sessions.Validate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "SESSION_EXPIRED"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
			return
		}

		c.Set(ctxSessionKey, session)
		c.Next()
	}
}
