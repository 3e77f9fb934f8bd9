package ping

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", Ping())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\r\nSuccess", w.Body.String())
}

func TestLocalOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", LocalOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		remote string
		want   int
	}{
		{remote: "127.0.0.1:5000", want: http.StatusOK},
		{remote: "127.0.0.9:5000", want: http.StatusOK},
		{remote: "[::1]:5000", want: http.StatusOK},
		{remote: "10.1.2.3:5000", want: http.StatusForbidden},
		{remote: "bad", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.RemoteAddr = tt.remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, tt.remote)
	}
}
