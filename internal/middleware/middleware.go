package middleware

import (
	"inviteflow/pkg/logger"
	"inviteflow/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Middleware 注册全局中间件，需要在加载业务路由之前Load
type Middleware struct {
	// 只有来自这些代理的X-Forwarded-For才会被采信
	trustedProxies []string
}

func NewMiddleware(trustedProxies []string) *Middleware {
	return &Middleware{trustedProxies: trustedProxies}
}

func (m *Middleware) Load(g *gin.Engine) {
	// 请求的context取消时，传给业务层的gin.Context同样取消
	g.ContextWithFallback = true
	// 限流和账户日志都依赖ClientIP，默认不信任任何代理
	if err := g.SetTrustedProxies(m.trustedProxies); err != nil {
		logger.Errorf("trusted-proxies 配置无效，忽略代理头: %v", err)
		_ = g.SetTrustedProxies(nil)
	}
	g.Use(gin.Recovery(), RequestId(), Logger, metrics.Middleware(), Secure(), Options(), NoCache())
}
