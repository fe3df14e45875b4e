package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAdminRouter(key string) *gin.Engine {
	r := gin.New()
	r.Use(AdminKey(key))
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAdminKey_Header(t *testing.T) {
	r := newAdminRouter("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminKey_Query(t *testing.T) {
	r := newAdminRouter("s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?key=s3cret", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminKey_Wrong(t *testing.T) {
	r := newAdminRouter("s3cret")
	for _, key := range []string{"", "s3cre", "s3cret!"} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AdminKeyHeader, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "key %q", key)
	}
}

func TestAdminKey_Disabled(t *testing.T) {
	r := newAdminRouter("")
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
