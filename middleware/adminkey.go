package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the admin key on API requests.
const AdminKeyHeader = "X-Admin-Key"

// AdminKey rejects requests that do not present key in the X-Admin-Key
// header or, for EventSource clients that cannot set headers, the "key"
// query parameter. An empty key locks the routes entirely.
func AdminKey(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		if len(want) == 0 {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin access disabled"})
			return
		}
		got := c.GetHeader(AdminKeyHeader)
		if got == "" {
			got = c.Query("key")
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
			return
		}
		c.Next()
	}
}
