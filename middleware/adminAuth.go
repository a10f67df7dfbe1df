package middleware

import (
	"net/http"

	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

// AdminOnly must run after JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			utils.JSONError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
