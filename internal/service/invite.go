package service

import (
	"context"
	"strconv"
	"time"

	"inviteflow/internal/consts"
	"inviteflow/internal/dao"
	"inviteflow/internal/model"
	"inviteflow/pkg/errors"
	"inviteflow/pkg/kafka"
	"inviteflow/pkg/logger"
	"inviteflow/pkg/metrics"
	"inviteflow/utils/uuid"

	"gorm.io/gorm"
)

type InviteService interface {
	// 使用邀请码关联邀请人，每个账户只能关联一次
	RedeemInvite(ctx context.Context, identity model.SessionIdentity, code string) (res model.LinkOutcome, err error)
	// 查询当前账户的邀请人
	GetInviter(ctx context.Context, identity model.SessionIdentity) (res model.InviterRes, err error)
}

type inviteService struct {
	ad       dao.AccountDao
	producer kafka.ProducerService
	topic    string
	iSrv     *uuid.SnowNode
}

func NewInviteService(ad dao.AccountDao, producer kafka.ProducerService, topic string) *inviteService {
	if producer == nil {
		producer = kafka.NopProducer{}
	}
	return &inviteService{
		ad:       ad,
		producer: producer,
		topic:    topic,
		iSrv:     uuid.NewNode(consts.InviteSnowNode),
	}
}

func (s *inviteService) RedeemInvite(ctx context.Context, identity model.SessionIdentity, code string) (res model.LinkOutcome, err error) {
	defer func() {
		metrics.InviteRedemptions.WithLabelValues(redeemResult(err)).Inc()
	}()
	if code == "" {
		return res, ErrBadRequest
	}

	account, err := loadSessionAccount(ctx, s.ad, identity)
	if err != nil {
		return res, err
	}
	// 已经关联过的账户不再查询邀请码，任何邀请码都返回已激活
	if account.IsLinked() {
		return res, ErrAlreadyLinked
	}

	inviter, err := s.ad.AccountGetByInviteCode(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return res, ErrInviteCodeNotFound
		case errors.Is(err, dao.ErrMultipleRecords):
			logger.Errorf("邀请码对应多个账户: %s", code)
			return res, ErrMultipleProfiles
		}
		return res, err
	}
	// 数据库排序规则可能不区分大小写，这里再精确比较一次
	if inviter.InviteCodeValue() != code {
		return res, ErrInviteCodeNotFound
	}
	if inviter.Id == account.Id {
		return res, ErrSelfInvite
	}

	// 条件更新，并发请求只有一个能成功
	linked, err := s.ad.AccountSetInviter(ctx, account.Id, inviter.Id)
	if err != nil {
		return res, err
	}
	if !linked {
		return res, ErrAlreadyLinked
	}

	res.InviterId = inviter.Id
	res.LinkedAt = time.Now()
	logger.Info("邀请关系已建立", logger.Pair("account_id", account.Id), logger.Pair("inviter_id", inviter.Id))
	saveAccountLog(ctx, s.ad, s.iSrv, account.Id, consts.BusinessRedeemInvite, consts.OperationSuccess,
		map[string]string{"inviter_id": strconv.FormatInt(inviter.Id, 10)})
	s.publish(ctx, model.InviteLinkedEvent{
		EventId:    s.iSrv.GenSnowStr(),
		InviteeId:  account.Id,
		InviterId:  inviter.Id,
		InviteCode: code,
		LinkedAt:   res.LinkedAt,
	})
	return res, nil
}

// publish 事件投递失败不影响已经建立的邀请关系
func (s *inviteService) publish(ctx context.Context, event model.InviteLinkedEvent) {
	// 请求结束后仍然完成投递
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	key := []byte(strconv.FormatInt(event.InviterId, 10))
	if err := s.producer.Produce(pctx, s.topic, key, event); err != nil {
		logger.Errorf("邀请事件投递失败 event=%s: %v", event.EventId, err)
	}
}

func (s *inviteService) GetInviter(ctx context.Context, identity model.SessionIdentity) (res model.InviterRes, err error) {
	account, err := loadSessionAccount(ctx, s.ad, identity)
	if err != nil {
		return res, err
	}
	if !account.IsLinked() {
		return res, nil
	}

	inviter, err := s.ad.AccountGetById(ctx, *account.InvitedBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("邀请人不存在 account=%d inviter=%d", account.Id, *account.InvitedBy)
			return res, ErrDanglingReference
		}
		return res, err
	}
	res.Invited = true
	res.InvitedNumber = inviter.PhoneNumber
	return res, nil
}

// redeemResult 按错误类型统计兑换结果
func redeemResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrInviteCodeNotFound):
		return "code_not_found"
	case errors.Is(err, ErrAlreadyLinked):
		return "already_linked"
	case errors.Is(err, ErrSelfInvite):
		return "self_invite"
	}
	return metrics.ResultFailed
}
