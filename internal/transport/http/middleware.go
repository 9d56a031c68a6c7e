package httpt

import (
	"net/http"
	"strings"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
)

const _userContextKey = "auth_user"

func (h *OrderHandler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := h.log.GenerateRequestID()
		ctx := h.log.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (h *OrderHandler) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method
		path := c.Request.URL.Path

		h.log.LogAttrs(c.Request.Context(), logger.InfoLevel, "HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", statusCode),
			logger.String("duration", latency.String()),
			logger.String("client_ip", c.ClientIP()),
			logger.String("user_agent", c.Request.UserAgent()),
		)

		h.metrics.Request(method, path, statusCode, latency)

		if latency > 200*time.Millisecond {
			h.metrics.SlowRequest(method, path, statusCode, latency)
		}
	}
}

// authOptionalMiddleware resolves a bearer token into a user when one is
// present, and lets the request through anonymously otherwise. A token that
// is present but invalid is still rejected.
func (h *OrderHandler) authOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		user, err := h.resolveUser(c, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		c.Set(_userContextKey, user)
		c.Next()
	}
}

func (h *OrderHandler) authRequiredMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}

		user, err := h.resolveUser(c, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		c.Set(_userContextKey, user)
		c.Next()
	}
}

func (h *OrderHandler) resolveUser(c *gin.Context, token string) (*entity.User, error) {
	userID, err := h.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	return h.auth.UserByID(c.Request.Context(), userID)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// currentUser returns the authenticated account set by the auth middleware,
// or nil on anonymous requests.
func currentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(_userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*entity.User)
	if !ok {
		return nil
	}
	return user
}
