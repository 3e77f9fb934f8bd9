package ecode

// 错误码，0表示成功
const (
	Success        = 0
	Unknown        = 10000
	ValidateErr    = 10001
	NotFoundErr    = 10004
	RequireAuthErr = 10401
	TooManyReqErr  = 10429

	// 验证码登陆
	AuthCodeErr = 20001

	// 邀请关系
	InviteCodeNotFoundErr  = 30001
	InviteAlreadyLinkedErr = 30002
	InviteSelfErr          = 30003
	DanglingInviterErr     = 30004
	MultipleProfilesErr    = 30005
)

var messages = map[int]string{
	Success:                "success",
	Unknown:                "unknown error",
	ValidateErr:            "invalid request",
	NotFoundErr:            "not found",
	RequireAuthErr:         "authorization required",
	TooManyReqErr:          "too many requests",
	AuthCodeErr:            "authentication failed",
	InviteCodeNotFoundErr:  "invite code not found",
	InviteAlreadyLinkedErr: "invite code already activated",
	InviteSelfErr:          "cannot redeem own invite code",
	DanglingInviterErr:     "inviter profile not found",
	MultipleProfilesErr:    "an error occurred, please contact the administrator",
}

// Text 返回错误码的默认描述
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[Unknown]
}
