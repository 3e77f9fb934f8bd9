package entity

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// Account 以手机号为登陆标识的账户
// 手机号在未删除的账户中唯一；InvitedBy只是一个id引用，被引用的账户删除后不会级联处理
type Account struct {
	Id          int64  `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	PhoneNumber string `gorm:"column:phone_number;size:15;not null;uniqueIndex:udx_account_phone" json:"phone_number"`
	// 最近一次下发的验证码，默认明文存储，code-storage=bcrypt时存储哈希
	AuthCode string `gorm:"column:auth_code;size:60" json:"-"`
	// 当前有效的邀请码，首次验证成功前为NULL
	InviteCode *string `gorm:"column:invite_code;size:16;uniqueIndex:udx_account_invite_code" json:"invite_code"`
	// 邀请人的账户id，只能设置一次
	InvitedBy *int64                `gorm:"column:invited_by;index" json:"invited_by"`
	CreatedAt time.Time             `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time             `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt soft_delete.DeletedAt `gorm:"column:deleted_at;not null;default:0;uniqueIndex:udx_account_phone" json:"-"`
}

func (Account) TableName() string {
	return "account"
}

// IsLinked 是否已经关联了邀请人
func (a Account) IsLinked() bool {
	return a.InvitedBy != nil
}

// InviteCodeValue 当前邀请码，没有时返回空串
func (a Account) InviteCodeValue() string {
	if a.InviteCode == nil {
		return ""
	}
	return *a.InviteCode
}
