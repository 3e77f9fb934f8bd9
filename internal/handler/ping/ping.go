package ping

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Ping() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "\r\nSuccess")
	}
}

// LocalOnly 只允许本机访问，用于保护 /metrics
func LocalOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !isLocalIP(ctx.Request.RemoteAddr) {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}
		ctx.Next()
	}
}

// 检测请求的ip是否是回环地址，127.0.0.0/8 和 ::1 都算
func isLocalIP(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
