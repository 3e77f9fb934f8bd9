package api

import (
	"inviteflow/conf"
	"inviteflow/internal/dao/query"
	"inviteflow/internal/handler/account"
	"inviteflow/internal/handler/invite"
	"inviteflow/internal/router"
	"inviteflow/internal/service"
	"inviteflow/pkg/kafka"

	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB, producer kafka.ProducerService) Router {
	appCfg := conf.AppConfig

	ad := query.NewAccountDao(db)
	accountSrv := service.NewAccountService(ad, appCfg)
	inviteSrv := service.NewInviteService(ad, producer, appCfg.Kafka.Topic)

	accountH := account.NewAccountHandler(accountSrv, appCfg.Auth.ExposeCode)
	inviteH := invite.NewInviteHandler(inviteSrv)

	return router.NewApiRouter(accountH, inviteH, appCfg.MetricsLocalOnly, appCfg.Auth.ResendInterval())
}
