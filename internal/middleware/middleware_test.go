package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inviteflow/conf"
	"inviteflow/internal/consts"
	"inviteflow/pkg/cache"
	"inviteflow/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	cache.SetRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.CloseRedis() })
	conf.AppConfig.Jwt.Secret = "test-secret"
	conf.AppConfig.Jwt.JwtBlacklistGracePeriod = 0

	r := gin.New()
	r.Use(RequestId(), Logger)
	r.GET("/me", AuthToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, SessionIdentity(c))
	})
	return r
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	tk, err := jwt.GenToken(jwt.BuildClaims(exp, 7, "+10000000007"), "test-secret")
	require.NoError(t, err)
	return tk
}

func TestAuthToken(t *testing.T) {
	r := setup(t)
	valid := token(t, time.Now().Add(time.Hour))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + valid, wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + token(t, time.Now().Add(-time.Minute)), wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		})
	}
}

func TestAuthToken_Identity(t *testing.T) {
	r := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"account_id":7,"phone_number":"+10000000007"}`, w.Body.String())
}

func TestAuthToken_Revoked(t *testing.T) {
	r := setup(t)
	tk := token(t, time.Now().Add(time.Hour))
	require.NoError(t, jwt.JoinBlackList(t.Context(), tk, "test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tk)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestId_Passthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestId())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(consts.RequestId))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestAntiDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/send", AntiDuplicate(time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/free", AntiDuplicate(0), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("/send", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("/send", "10.0.0.1"))
	// 不同ip互不影响
	assert.Equal(t, http.StatusOK, send("/send", "10.0.0.2"))

	assert.Equal(t, http.StatusOK, send("/free", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("/free", "10.0.0.1"))
}

func TestAntiDuplicate_ForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newEngine := func(trusted []string) *gin.Engine {
		g := gin.New()
		NewMiddleware(trusted).Load(g)
		g.POST("/send", AntiDuplicate(time.Minute), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(consts.ClientIP))
		})
		return g
	}
	send := func(g *gin.Engine, forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/send", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		g.ServeHTTP(w, req)
		return w
	}

	// 默认不信任代理，伪造的X-Forwarded-For不能绕过限流
	g := newEngine(nil)
	w := send(g, "1.1.1.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10.0.0.9", w.Body.String())
	assert.Equal(t, http.StatusTooManyRequests, send(g, "2.2.2.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(g, "3.3.3.3").Code)

	// 来自受信代理时使用转发的客户端ip
	g = newEngine([]string{"10.0.0.9"})
	w = send(g, "1.1.1.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.1.1.1", w.Body.String())
	assert.Equal(t, http.StatusOK, send(g, "2.2.2.2").Code)
}
