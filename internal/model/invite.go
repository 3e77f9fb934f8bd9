package model

import "time"

// 激活邀请码的请求参数
type RedeemInviteReq struct {
	InviteCode string `json:"invite_code" form:"invite_code" binding:"required" label:"邀请码"`
}

// LinkOutcome 邀请关系建立的结果
type LinkOutcome struct {
	InviterId int64     `json:"inviter_id"`
	LinkedAt  time.Time `json:"linked_at"`
}

// InviterRes 查询邀请人的结果，Invited为false表示没有被任何人邀请
type InviterRes struct {
	Invited       bool   `json:"invited"`
	InvitedNumber string `json:"invited_number,omitempty"`
}

// InviteLinkedEvent 邀请关系建立后投递到kafka的事件
type InviteLinkedEvent struct {
	EventId    string    `json:"event_id"`
	InviteeId  int64     `json:"invitee_id"`
	InviterId  int64     `json:"inviter_id"`
	InviteCode string    `json:"invite_code"`
	LinkedAt   time.Time `json:"linked_at"`
}
