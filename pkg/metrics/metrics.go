package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inviteflow"

// 结果标签取值
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

var (
	registry = prometheus.NewRegistry()

	// CodesIssued 下发验证码次数
	CodesIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_codes_issued_total",
		Help:      "Number of verification code requests.",
	}, []string{"result"})

	// Verifications 验证码校验次数
	Verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_verifications_total",
		Help:      "Number of verification attempts.",
	}, []string{"result"})

	// InviteRedemptions 兑换邀请码的结果，result为成功或错误原因
	InviteRedemptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invite_redemptions_total",
		Help:      "Number of invite code redemptions by outcome.",
	}, []string{"result"})

	HttpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		CodesIssued,
		Verifications,
		InviteRedemptions,
		HttpRequests,
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Middleware 记录每个路由的耗时
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HttpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
