package model

import "time"

// 发送验证码的请求参数
type SendCodeReq struct {
	PhoneNumber string `json:"phone_number" form:"phone_number" binding:"required,phone" label:"手机号"`
}

type SendCodeRes struct {
	// 只有开启expose-code时才返回
	VerificationCode string `json:"verification_code,omitempty"`
}

// 校验验证码的请求参数
type VerifyCodeReq struct {
	PhoneNumber string `json:"phone_number" form:"phone_number" binding:"required,phone" label:"手机号"`
	CodeAuth    string `json:"code_auth" form:"code_auth" binding:"required" label:"验证码"`
}

// 验证成功后的响应
type VerifyCodeRes struct {
	Identity   SessionIdentity `json:"-"`
	Token      string          `json:"token"`
	Timeout    int             `json:"timeout"` // 毫秒
	ExpiresAt  time.Time       `json:"expires_at"`
	InviteCode string          `json:"invite_code"`
}

// SessionIdentity 验证码登陆后确定的身份，由鉴权中间件从token中解析后显式传递给业务层
type SessionIdentity struct {
	AccountId   int64  `json:"account_id"`
	PhoneNumber string `json:"phone_number"`
}

type AccountInfoRes struct {
	AccountId   int64  `json:"account_id"`
	PhoneNumber string `json:"phone_number"`
	InviteCode  string `json:"invite_code"`
	Invited     bool   `json:"invited"`
	// 通过自己的邀请码关联的账户数
	Invitees int64 `json:"invitees"`
}

type AccountLogoutRes struct {
	IsLogout bool `json:"is_logout"`
}
