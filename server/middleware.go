package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/example/byteristo/pkg/auth"
	"github.com/example/byteristo/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsKey = "claims"

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// requireAuth verifies the bearer token and stores its claims in the
// request context. Refresh tokens are not accepted here.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authorization token required",
			"error":   "authorization_required",
		})
		return
	}

	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid token",
			"error":   "invalid_token",
		})
		return
	}

	claims, err := auth.ParseToken(&s.config.JWT, tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token has expired",
				"error":   "token_expired",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid token",
			"error":   "invalid_token",
		})
		return
	}

	if claims.IsRefresh() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid token",
			"error":   "invalid_token",
		})
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

// requireRole gates a route on an explicit role allow-list. Manager always
// passes.
func (s *Server) requireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || claims.Role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "No role found in token",
			})
			return
		}
		if claims.Role == models.RoleManager {
			c.Next()
			return
		}
		for _, role := range allowed {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied. Required roles: " + strings.Join(allowed, ", "),
		})
	}
}

// requirePermission gates a route on a named permission from the static
// role table.
func (s *Server) requirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || claims.Role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "No role found in token",
			})
			return
		}
		if !auth.HasPermission(claims.Role, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Insufficient permissions. Required: " + permission,
			})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
