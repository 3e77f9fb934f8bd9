package account

import (
	"inviteflow/internal/consts"
	"inviteflow/internal/middleware"
	"inviteflow/internal/model"
	"inviteflow/internal/service"
	"inviteflow/pkg/errors"
	"inviteflow/pkg/errors/ecode"
	"inviteflow/pkg/response"
	"inviteflow/pkg/validator"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service service.AccountService
	// 是否在响应中返回验证码，没有短信网关时使用
	exposeCode bool
}

func NewAccountHandler(service service.AccountService, exposeCode bool) *AccountHandler {
	return &AccountHandler{service: service, exposeCode: exposeCode}
}

// @Summary		发送验证码
// @Accept			application/json
// @Produce		json
// @Param			object	body		model.SendCodeReq	true	"手机号"
// @Success		200		{object}	response.ApiResponse{data=model.SendCodeRes}
// @Router			/api/v1/send-code [post]
func (handler *AccountHandler) SendCode() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.SendCodeReq
		if err := ctx.ShouldBind(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, validator.Translate(err)), nil)
			return
		}
		code, err := handler.service.IssueCode(ctx, req.PhoneNumber)
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		var res model.SendCodeRes
		if handler.exposeCode {
			res.VerificationCode = code
		}
		response.JSON(ctx, errors.Wrap(nil, ecode.Success, "verification code sent"), res)
	}
}

// @Summary		校验验证码
// @Accept			application/json
// @Produce		json
// @Param			object	body		model.VerifyCodeReq	true	"手机号和验证码"
// @Success		200		{object}	response.ApiResponse{data=model.VerifyCodeRes}
// @Router			/api/v1/verify-code [post]
func (handler *AccountHandler) VerifyCode() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.VerifyCodeReq
		if err := ctx.ShouldBind(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, validator.Translate(err)), nil)
			return
		}
		res, err := handler.service.VerifyCode(ctx, req.PhoneNumber, req.CodeAuth)
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.JSON(ctx, errors.Wrap(nil, ecode.Success, "authentication succeeded"), res)
	}
}

// @Summary		获取当前账户信息
// @Produce		json
// @Param			Authorization	header		string	true	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.AccountInfoRes}
// @Router			/api/v1/profile [get]
func (handler *AccountHandler) AccountGetInfo() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res, err := handler.service.AccountGetInfo(ctx, middleware.SessionIdentity(ctx))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		退出登陆
// @Produce		json
// @Param			Authorization	header		string	true	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.AccountLogoutRes}
// @Router			/api/v1/logout [get]
func (handler *AccountHandler) AccountLogout() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		err := handler.service.AccountLogout(ctx, ctx.GetString(consts.JWTTokenCtx))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.JSON(ctx, nil, model.AccountLogoutRes{IsLogout: true})
	}
}
