package middleware

import (
	"errors"
	"net/http"
	"strings"

	"glowbook/database/repository"
	userRepo "glowbook/database/repository/user"
	"glowbook/models"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"

	// AccessTokenCookie carries the JWT for browser clients.
	AccessTokenCookie = "access_token"
)

// JWTAuthMiddleware accepts a bearer token or the access_token cookie and
// loads the user it names. The role is read from the stored user rather than
// the token, so a demoted admin loses access immediately.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Authorization token required")
			return
		}
		userID, _, err := utils.ExtractClaims(token)
		if err != nil || userID == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		usr, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.JSONError(c, http.StatusUnauthorized, "User no longer exists")
				return
			}
			utils.GetLogger().Error("auth user lookup failed", zap.String("user", userID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		c.Set(ctxUserID, usr.ID)
		c.Set(ctxRole, usr.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// UserID returns the authenticated user's id, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// IsAdmin reports whether the authenticated user is staff.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ctxRole) == models.RoleAdmin
}

// SelfOrAdmin reports whether the caller may act on ownerID's resources.
func SelfOrAdmin(c *gin.Context, ownerID string) bool {
	return IsAdmin(c) || (ownerID != "" && UserID(c) == ownerID)
}
