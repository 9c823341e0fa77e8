package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
	"github.com/adpilot/ad-campaign-services-backend/internal/services/auth"
)

type BearerTokenMiddleware struct {
	authService *auth.AuthService
	userStore   userResolver
}

type userResolver interface {
	GetByID(id string) (*models.User, error)
}

func NewBearerTokenMiddleware(authService *auth.AuthService, userStore userResolver) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{
		authService: authService,
		userStore:   userStore,
	}
}

// BearerTokenAuthMiddleware validates the JWT token and sets user info in context
func (m *BearerTokenMiddleware) BearerTokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		tokenInfo, err := m.authService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := m.userStore.GetByID(tokenInfo.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("is_admin", user.IsAdmin)
		c.Set("is_reviewer", user.CanReview())

		c.Next()
	}
}

// RequireReviewer rejects callers without review authority. Must run after
// BearerTokenAuthMiddleware.
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		isReviewer, exists := c.Get("is_reviewer")
		if !exists || !isReviewer.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Reviewer privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after
// BearerTokenAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists || !isAdmin.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
