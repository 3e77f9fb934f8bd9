package dao

import (
	"context"
	"errors"

	"inviteflow/internal/model/entity"
)

// ErrMultipleRecords 唯一查询命中了多条记录，说明数据完整性被破坏
var ErrMultipleRecords = errors.New("multiple records found")

// AccountDao 账户存储，所有写操作都是单行语句，不跨账户开启事务
// 查询不到记录时返回 gorm.ErrRecordNotFound
type AccountDao interface {
	// 根据手机号获取账户，不存在时用给定的id创建
	AccountGetOrCreate(ctx context.Context, id int64, phone string) (entity.Account, error)
	AccountGetById(ctx context.Context, id int64) (entity.Account, error)
	AccountGetByPhone(ctx context.Context, phone string) (entity.Account, error)
	// 手机号和验证码同时匹配
	AccountGetByPhoneAndCode(ctx context.Context, phone, code string) (entity.Account, error)
	AccountGetByInviteCode(ctx context.Context, code string) (entity.Account, error)
	// 邀请人下面的账户数量
	AccountCountInvitees(ctx context.Context, inviterId int64) (int64, error)

	AccountUpdateAuthCode(ctx context.Context, id int64, code string) error
	// 邀请码与其他账户冲突时返回 gorm.ErrDuplicatedKey
	AccountUpdateInviteCode(ctx context.Context, id int64, code string) error
	// 仅在invited_by为空时设置，返回是否设置成功
	AccountSetInviter(ctx context.Context, id, inviterId int64) (bool, error)
	// 软删除
	AccountDelete(ctx context.Context, id int64) error

	// 添加日志
	AccountAddLog(ctx context.Context, log *entity.AccountLog) error
}
