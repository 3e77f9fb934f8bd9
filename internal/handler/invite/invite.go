package invite

import (
	"inviteflow/internal/middleware"
	"inviteflow/internal/model"
	"inviteflow/internal/service"
	"inviteflow/pkg/errors"
	"inviteflow/pkg/errors/ecode"
	"inviteflow/pkg/response"
	"inviteflow/pkg/validator"

	"github.com/gin-gonic/gin"
)

type InviteHandler struct {
	service service.InviteService
}

func NewInviteHandler(service service.InviteService) *InviteHandler {
	return &InviteHandler{service: service}
}

// @Summary		激活邀请码
// @Accept			application/json
// @Produce		json
// @Param			Authorization	header		string					true	"Bearer 用户令牌"
// @Param			object			body		model.RedeemInviteReq	true	"邀请码"
// @Success		200				{object}	response.ApiResponse{data=model.LinkOutcome}
// @Router			/api/v1/profile [post]
func (handler *InviteHandler) RedeemInvite() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.RedeemInviteReq
		if err := ctx.ShouldBind(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, validator.Translate(err)), nil)
			return
		}
		res, err := handler.service.RedeemInvite(ctx, middleware.SessionIdentity(ctx), req.InviteCode)
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		response.JSON(ctx, errors.Wrap(nil, ecode.Success, "invite code activated"), res)
	}
}

// @Summary		查询邀请人的手机号
// @Produce		json
// @Param			Authorization	header		string	true	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.InviterRes}
// @Router			/api/v1/phone-invited [get]
func (handler *InviteHandler) GetInviter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res, err := handler.service.GetInviter(ctx, middleware.SessionIdentity(ctx))
		if err != nil {
			response.Fail(ctx, err)
			return
		}
		if !res.Invited {
			response.JSON(ctx, errors.Wrap(nil, ecode.Success, "you were not invited by anyone"), res)
			return
		}
		response.JSON(ctx, nil, res)
	}
}
