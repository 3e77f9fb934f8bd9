package middleware

import (
	"net/http"
	"time"

	"inviteflow/internal/consts"
	"inviteflow/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 探活和采集接口调用频繁，不记录
var quietPaths = map[string]struct{}{
	"/ping":    {},
	"/metrics": {},
}

// Logger 每个请求结束后记录一条日志
// 请求体里有手机号和验证码，不记录body
func Logger(c *gin.Context) {
	start := time.Now()
	reqPath := c.Request.URL.Path

	c.Next()

	if _, ok := quietPaths[reqPath]; ok {
		return
	}
	status := c.Writer.Status()
	fields := []zap.Field{
		logger.Pair(consts.RequestId, c.GetString(consts.RequestId)),
		logger.Pair("host", c.ClientIP()),
		logger.Pair("method", c.Request.Method),
		logger.Pair("path", reqPath),
		logger.Pair("status", status),
		logger.Pair("cost", time.Since(start)),
	}
	// AuthToken 通过后才有账户id
	if accountId := c.GetInt64(consts.AccountID); accountId != 0 {
		fields = append(fields, logger.Pair(consts.AccountID, accountId))
	}
	if status >= http.StatusInternalServerError {
		logger.Warn("[Request]", fields...)
		return
	}
	logger.Info("[Request]", fields...)
}
