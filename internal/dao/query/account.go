package query

import (
	"context"
	"errors"
	"strings"

	"inviteflow/internal/dao"
	"inviteflow/internal/model/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ dao.AccountDao = (*accountDao)(nil)

type accountDao struct {
	ds *gorm.DB
}

func NewAccountDao(ds *gorm.DB) *accountDao {
	return &accountDao{
		ds: ds,
	}
}

func (a *accountDao) AccountGetOrCreate(ctx context.Context, id int64, phone string) (entity.Account, error) {
	// 唯一索引保证并发请求同一个手机号时只会插入一条，冲突时什么都不做再查询
	account := entity.Account{Id: id, PhoneNumber: phone}
	err := a.ds.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return entity.Account{}, err
	}
	return a.AccountGetByPhone(ctx, phone)
}

func (a *accountDao) AccountGetById(ctx context.Context, id int64) (entity.Account, error) {
	var account entity.Account
	err := a.ds.WithContext(ctx).Where("id = ?", id).First(&account).Error
	return account, err
}

func (a *accountDao) AccountGetByPhone(ctx context.Context, phone string) (entity.Account, error) {
	return a.findOne(ctx, a.ds.Where("phone_number = ?", phone))
}

func (a *accountDao) AccountGetByPhoneAndCode(ctx context.Context, phone, code string) (entity.Account, error) {
	return a.findOne(ctx, a.ds.Where("phone_number = ? AND auth_code = ?", phone, code))
}

func (a *accountDao) AccountGetByInviteCode(ctx context.Context, code string) (entity.Account, error) {
	return a.findOne(ctx, a.ds.Where("invite_code = ?", code))
}

func (a *accountDao) AccountCountInvitees(ctx context.Context, inviterId int64) (count int64, err error) {
	err = a.ds.WithContext(ctx).Model(&entity.Account{}).Where("invited_by = ?", inviterId).Count(&count).Error
	return
}

func (a *accountDao) AccountUpdateAuthCode(ctx context.Context, id int64, code string) error {
	return a.ds.WithContext(ctx).Model(&entity.Account{}).Where("id = ?", id).Update("auth_code", code).Error
}

func (a *accountDao) AccountUpdateInviteCode(ctx context.Context, id int64, code string) error {
	err := a.ds.WithContext(ctx).Model(&entity.Account{}).Where("id = ?", id).Update("invite_code", code).Error
	if err != nil && isDuplicateErr(err) {
		return gorm.ErrDuplicatedKey
	}
	return err
}

func (a *accountDao) AccountSetInviter(ctx context.Context, id, inviterId int64) (bool, error) {
	// 条件更新代替先查询再写入，同一账户并发提交时只有一个请求能成功
	result := a.ds.WithContext(ctx).Model(&entity.Account{}).
		Where("id = ? AND invited_by IS NULL", id).
		Update("invited_by", inviterId)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (a *accountDao) AccountDelete(ctx context.Context, id int64) error {
	result := a.ds.WithContext(ctx).Delete(&entity.Account{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *accountDao) AccountAddLog(ctx context.Context, log *entity.AccountLog) error {
	return a.ds.WithContext(ctx).Create(log).Error
}

// findOne 最多查询两条，用来发现唯一性被破坏的情况
func (a *accountDao) findOne(ctx context.Context, tx *gorm.DB) (entity.Account, error) {
	var accounts []entity.Account
	err := tx.WithContext(ctx).Limit(2).Find(&accounts).Error
	if err != nil {
		return entity.Account{}, err
	}
	switch len(accounts) {
	case 0:
		return entity.Account{}, gorm.ErrRecordNotFound
	case 1:
		return accounts[0], nil
	default:
		return entity.Account{}, dao.ErrMultipleRecords
	}
}

// 没有开启TranslateError的连接也能识别唯一索引冲突
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
