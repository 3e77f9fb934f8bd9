package service

import (
	"context"
	"time"

	"inviteflow/conf"
	"inviteflow/internal/consts"
	"inviteflow/internal/dao"
	"inviteflow/internal/model"
	"inviteflow/internal/model/entity"
	"inviteflow/pkg/errors"
	"inviteflow/pkg/jwt"
	"inviteflow/pkg/logger"
	"inviteflow/pkg/metrics"
	"inviteflow/utils"
	"inviteflow/utils/security"
	"inviteflow/utils/uuid"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type AccountService interface {
	// 下发验证码，账户不存在时创建
	IssueCode(ctx context.Context, phone string) (code string, err error)
	// 校验验证码，成功后刷新邀请码并签发token
	VerifyCode(ctx context.Context, phone, code string) (res model.VerifyCodeRes, err error)
	AccountLogout(ctx context.Context, token string) error
	AccountGetInfo(ctx context.Context, identity model.SessionIdentity) (res model.AccountInfoRes, err error)
	// 软删除账户，被邀请人保留对它的引用
	AccountDelete(ctx context.Context, phone string) error
}

// accountService 实现AccountService接口
type accountService struct {
	ad   dao.AccountDao
	iSrv *uuid.SnowNode
	cfg  conf.Config
}

func NewAccountService(ad dao.AccountDao, cfg conf.Config) *accountService {
	cfg.SetDefaults()
	return &accountService{
		ad:   ad,
		iSrv: uuid.NewNode(consts.AccountSnowNode),
		cfg:  cfg,
	}
}

func (a *accountService) IssueCode(ctx context.Context, phone string) (code string, err error) {
	if phone == "" {
		return "", ErrBadRequest
	}
	defer func() {
		metrics.CodesIssued.WithLabelValues(result(err)).Inc()
	}()

	account, err := a.ad.AccountGetOrCreate(ctx, a.iSrv.GenSnowID(), phone)
	if err != nil {
		return "", a.lookupErr(err)
	}

	// 模拟短信网关的发送耗时，不持有任何锁或事务
	minDelay, maxDelay := a.cfg.Auth.SendDelay()
	if err = utils.SleepContext(ctx, utils.RandDuration(minDelay, maxDelay)); err != nil {
		return "", err
	}

	code = utils.RandCode(consts.AuthCodeAlphabet, a.cfg.Auth.CodeLength)
	stored := code
	if a.cfg.Auth.CodeStorage == conf.CodeStorageBcrypt {
		if stored, err = security.HashCode(code); err != nil {
			return "", err
		}
	}
	if err = a.ad.AccountUpdateAuthCode(ctx, account.Id, stored); err != nil {
		return "", err
	}
	logger.Debugf("验证码已生成 account=%d", account.Id)
	saveAccountLog(ctx, a.ad, a.iSrv, account.Id, consts.BusinessSendCode, consts.OperationSuccess, nil)
	return code, nil
}

func (a *accountService) VerifyCode(ctx context.Context, phone, code string) (res model.VerifyCodeRes, err error) {
	if phone == "" || code == "" {
		return res, ErrBadRequest
	}
	defer func() {
		metrics.Verifications.WithLabelValues(result(err)).Inc()
	}()

	account, err := a.matchCode(ctx, phone, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			saveAccountLog(ctx, a.ad, a.iSrv, 0, consts.BusinessVerifyCode, consts.OperationFailed, map[string]string{"phone_number": phone})
		}
		return res, err
	}

	inviteCode, err := a.refreshInviteCode(ctx, account.Id)
	if err != nil {
		return res, err
	}

	ttl := time.Duration(a.cfg.Jwt.JwtTtl) * time.Second
	expireAt := time.Now().Add(ttl)
	claims := jwt.BuildClaims(expireAt, account.Id, account.PhoneNumber)
	token, err := jwt.GenToken(claims, a.cfg.Jwt.Secret)
	if err != nil {
		logger.Errorf("Jwt Token 生成错误: %v", err)
		return res, err
	}

	res.Identity = model.SessionIdentity{AccountId: account.Id, PhoneNumber: account.PhoneNumber}
	res.Token = token
	res.Timeout = int(a.cfg.Jwt.JwtTtl) * 1000
	res.ExpiresAt = expireAt
	res.InviteCode = inviteCode
	saveAccountLog(ctx, a.ad, a.iSrv, account.Id, consts.BusinessVerifyCode, consts.OperationSuccess, nil)
	return res, nil
}

// matchCode 手机号和验证码必须同时匹配，不区分是哪一个错误
func (a *accountService) matchCode(ctx context.Context, phone, code string) (entity.Account, error) {
	if a.cfg.Auth.CodeStorage == conf.CodeStorageBcrypt {
		account, err := a.ad.AccountGetByPhone(ctx, phone)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return account, ErrInvalidCredentials
			}
			return account, a.lookupErr(err)
		}
		if !security.CompareCode(account.AuthCode, code) {
			return account, ErrInvalidCredentials
		}
		return account, nil
	}

	account, err := a.ad.AccountGetByPhoneAndCode(ctx, phone, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, ErrInvalidCredentials
		}
		return account, a.lookupErr(err)
	}
	return account, nil
}

// refreshInviteCode 生成新的邀请码，与其他账户冲突时重新生成
func (a *accountService) refreshInviteCode(ctx context.Context, accountId int64) (string, error) {
	var err error
	for i := 0; i < consts.InviteCodeGenAttempts; i++ {
		code := utils.RandCode(consts.InviteCodeAlphabet, a.cfg.Invite.CodeLength)
		err = a.ad.AccountUpdateInviteCode(ctx, accountId, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", err
		}
		logger.Warnf("邀请码冲突，重新生成 account=%d attempt=%d", accountId, i+1)
	}
	return "", err
}

func (a *accountService) AccountLogout(ctx context.Context, token string) error {
	claims, err := jwt.ParseToken(token, a.cfg.Jwt.Secret)
	if err != nil {
		return err
	}
	if err = jwt.JoinBlackList(ctx, token, a.cfg.Jwt.Secret); err != nil {
		return err
	}
	saveAccountLog(ctx, a.ad, a.iSrv, claims.AccountId, consts.BusinessLogout, consts.OperationSuccess, nil)
	return nil
}

func (a *accountService) AccountGetInfo(ctx context.Context, identity model.SessionIdentity) (res model.AccountInfoRes, err error) {
	account, err := loadSessionAccount(ctx, a.ad, identity)
	if err != nil {
		return res, err
	}
	res.AccountId = account.Id
	res.PhoneNumber = account.PhoneNumber
	res.InviteCode = account.InviteCodeValue()
	res.Invited = account.IsLinked()
	res.Invitees, err = a.ad.AccountCountInvitees(ctx, account.Id)
	if err != nil {
		return res, err
	}
	return res, nil
}

func (a *accountService) AccountDelete(ctx context.Context, phone string) error {
	account, err := a.ad.AccountGetByPhone(ctx, phone)
	if err != nil {
		return a.lookupErr(err)
	}
	if err = a.ad.AccountDelete(ctx, account.Id); err != nil {
		return a.lookupErr(err)
	}
	logger.Info("账户已删除", logger.Pair("account_id", account.Id))
	return nil
}

func (a *accountService) lookupErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrProfileNotFound
	case errors.Is(err, dao.ErrMultipleRecords):
		return ErrMultipleProfiles
	}
	return err
}

// loadSessionAccount 通过手机号加载当前会话的账户，账户被删除后重新注册的同号账户不算
func loadSessionAccount(ctx context.Context, ad dao.AccountDao, identity model.SessionIdentity) (entity.Account, error) {
	account, err := ad.AccountGetByPhone(ctx, identity.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return account, ErrProfileNotFound
		case errors.Is(err, dao.ErrMultipleRecords):
			logger.Errorf("手机号对应多个账户: %s", identity.PhoneNumber)
			return account, ErrMultipleProfiles
		}
		return account, err
	}
	if account.Id != identity.AccountId {
		return entity.Account{}, ErrProfileNotFound
	}
	return account, nil
}

// saveAccountLog 记录账户操作日志，失败只打印日志
func saveAccountLog(ctx context.Context, ad dao.AccountDao, node *uuid.SnowNode, accountId int64, business, operation string, extras map[string]string) {
	if extras == nil {
		extras = make(map[string]string)
	}
	if requestId, ok := ctx.Value(consts.RequestId).(string); ok && requestId != "" {
		extras[consts.RequestId] = requestId
	}
	uLog := entity.AccountLog{
		Id:        node.GenSnowID(),
		AccountId: accountId,
		Business:  business,
		Operation: operation,
	}
	if clientIP, ok := ctx.Value(consts.ClientIP).(string); ok {
		uLog.ClientIP = clientIP
	}
	if data, err := json.Marshal(extras); err == nil {
		uLog.Extras = data
	}
	if err := ad.AccountAddLog(ctx, &uLog); err != nil {
		logger.Errorf("账户日志保存失败: %v", err)
	}
}

func result(err error) string {
	if err != nil {
		return metrics.ResultFailed
	}
	return metrics.ResultSuccess
}
