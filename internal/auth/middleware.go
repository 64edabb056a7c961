package auth

import (
	"net/http"
	"strings"

	"github.com/Amansingh80/task-management-backend-complete/internal/respond"
	"github.com/Amansingh80/task-management-backend-complete/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "user_email"
)

// Middleware gates a route group behind a bearer access token. Access
// tokens are verified purely by signature and expiry; no storage lookup.
func Middleware(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := ExtractBearer(c.GetHeader("Authorization"))
		if bearer == "" {
			abort(c, "Access token required")
			return
		}

		claims, err := codec.VerifyAccessToken(bearer)
		if err != nil {
			abort(c, "Invalid or expired access token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abort(c, "Invalid or expired access token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

func abort(c *gin.Context, message string) {
	respond.Error(c, http.StatusUnauthorized, message)
	c.Abort()
}

func ExtractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated user set by Middleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}
