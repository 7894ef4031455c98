package middlewares

import (
	"net/http"

	"github.com/DenisSivko/hw05-final/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware restricts group management to admin accounts.
// It runs after LoginRequiredMiddleware, which puts the flag on the
// context.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpctx.IsAdminRequest(c) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
