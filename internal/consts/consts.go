package consts

const (
	// RequestId 请求id名称
	RequestId   = "request_id"
	AccountID   = "account_id"
	PhoneNumber = "phone_number"
	JWTTokenCtx = "token_ctx"
	ClientIP    = "client_ip"

	// 验证码只包含数字
	AuthCodeAlphabet = "0123456789"
	// 邀请码包含大小写字母和数字
	InviteCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultAuthCodeLength   = 4
	DefaultInviteCodeLength = 6

	// 邀请码与唯一索引冲突时最多重新生成的次数
	InviteCodeGenAttempts = 3

	JwtBlackListPrefix = "jwt_black_list:"
)

// 账户日志的业务类型
const (
	BusinessSendCode     = "send_code"
	BusinessVerifyCode   = "verify_code"
	BusinessRedeemInvite = "redeem_invite"
	BusinessLogout       = "logout"

	OperationSuccess = "success"
	OperationFailed  = "failed"
)

const (
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

// 雪花算法节点，每个服务使用不同的节点避免id冲突
const (
	AccountSnowNode = 1
	InviteSnowNode  = 2
)
