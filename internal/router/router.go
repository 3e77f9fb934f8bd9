package router

import (
	"time"

	"inviteflow/internal/handler/account"
	"inviteflow/internal/handler/invite"
	"inviteflow/internal/handler/ping"
	"inviteflow/internal/middleware"
	"inviteflow/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	accountHandler *account.AccountHandler
	inviteHandler  *invite.InviteHandler
	// 只允许本机访问 /metrics
	metricsLocalOnly bool
	// 同一ip两次发送验证码的最小间隔，0表示不限制
	sendCodeInterval time.Duration
}

func NewApiRouter(accountHandler *account.AccountHandler, inviteHandler *invite.InviteHandler, metricsLocalOnly bool, sendCodeInterval time.Duration) *ApiRouter {
	return &ApiRouter{
		accountHandler:   accountHandler,
		inviteHandler:    inviteHandler,
		metricsLocalOnly: metricsLocalOnly,
		sendCodeInterval: sendCodeInterval,
	}
}

func (api *ApiRouter) Load(g *gin.Engine) {
	g.GET("/ping", ping.Ping())
	if api.metricsLocalOnly {
		g.GET("/metrics", ping.LocalOnly(), gin.WrapH(metrics.Handler()))
	} else {
		g.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	base := g.Group("/api/v1")

	// 验证码登陆
	base.POST("/send-code", middleware.AntiDuplicate(api.sendCodeInterval), api.accountHandler.SendCode())
	base.POST("/verify-code", api.accountHandler.VerifyCode())

	u := base.Group("", middleware.AuthToken())
	{
		u.GET("/profile", api.accountHandler.AccountGetInfo())
		u.GET("/logout", api.accountHandler.AccountLogout())
		// 激活邀请码
		u.POST("/profile", api.inviteHandler.RedeemInvite())
		u.GET("/phone-invited", api.inviteHandler.GetInviter())
	}
}
