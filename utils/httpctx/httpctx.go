package httpctx

import "github.com/gin-gonic/gin"

// CurrentUserID returns the authenticated principal's id, if the login
// middleware put one on the context. Handlers that allow anonymous
// reads treat a false here as "anonymous", not as an error.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// IsAdminRequest reports whether the request carries the admin flag.
func IsAdminRequest(c *gin.Context) bool {
	val, exists := c.Get("isAdmin")
	if !exists {
		return false
	}
	isAdmin, ok := val.(bool)
	return ok && isAdmin
}
