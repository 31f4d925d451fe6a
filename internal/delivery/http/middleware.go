package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// tokenKey holds the raw session token of an authenticated request.
const tokenKey = "token"

// AuthMiddleware for the API (Authorization: Bearer header, cookie as fallback)
func AuthMiddleware(auth domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth header format"})
				return
			}
			tokenString = parts[1]
		} else if cookie, err := c.Cookie("token"); err == nil {
			tokenString = cookie
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		if err := auth.Authenticate(c.Request.Context(), tokenString); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(tokenKey, tokenString)
		c.Next()
	}
}

// WebAuthMiddleware for the pages (cookie), redirecting to the login page
func WebAuthMiddleware(auth domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("token")
		if err != nil || tokenString == "" {
			c.Redirect(http.StatusFound, "/?error=Please+log+in")
			c.Abort()
			return
		}

		if err := auth.Authenticate(c.Request.Context(), tokenString); err != nil {
			clearSessionCookie(c)
			c.Redirect(http.StatusFound, "/?error=Session+expired")
			c.Abort()
			return
		}
		c.Set(tokenKey, tokenString)
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns panics into 500 responses and reports them.
func Recovery(reporter logger.Reporter) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		reporter.Report(fmt.Errorf("panic: %v", recovered), map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
