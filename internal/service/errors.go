package service

import (
	"inviteflow/pkg/errors"
	"inviteflow/pkg/errors/ecode"
)

// 业务错误，携带错误码，handler直接渲染
var (
	ErrBadRequest         = errors.WithCode(ecode.ValidateErr, "invalid request parameters")
	ErrInvalidCredentials = errors.WithCode(ecode.AuthCodeErr, "authentication failed, please check the phone number and code")
	ErrProfileNotFound    = errors.WithCode(ecode.NotFoundErr, "profile not found")
	ErrMultipleProfiles   = errors.WithCode(ecode.MultipleProfilesErr, "an error occurred, please contact the administrator")
	ErrInviteCodeNotFound = errors.WithCode(ecode.InviteCodeNotFoundErr, "invite code not found")
	ErrAlreadyLinked      = errors.WithCode(ecode.InviteAlreadyLinkedErr, "invite code already activated")
	ErrSelfInvite         = errors.WithCode(ecode.InviteSelfErr, "cannot redeem your own invite code")
	ErrDanglingReference  = errors.WithCode(ecode.DanglingInviterErr, "inviter profile not found")
)
