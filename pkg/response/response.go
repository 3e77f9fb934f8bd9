package response

import (
	"net/http"

	"inviteflow/internal/consts"
	"inviteflow/pkg/errors"
	"inviteflow/pkg/errors/ecode"
	"inviteflow/pkg/logger"

	"github.com/gin-gonic/gin"
)

// 代表响应给客户端的的一个消息结构，包括错误码，错误信息，响应数据
type ApiResponse struct {
	RequestId string      `json:"request_id"` // 请求的唯一ID
	Code      int         `json:"code"`       // 错误码 0表示无错误
	Message   string      `json:"message"`    // 提示信息
	Data      interface{} `json:"data"`       // 响应数据
}

// 发送json格式数据
func JSON(c *gin.Context, err error, data interface{}) {
	code, message := errors.DecodeErr(err)
	// 如果code != 0, 失败的话 返回http状态码400，未知错误返回500
	var httpStatus int
	switch code {
	case ecode.Success:
		httpStatus = http.StatusOK
	case ecode.Unknown:
		httpStatus = http.StatusInternalServerError
	default:
		httpStatus = http.StatusBadRequest
	}
	c.JSON(httpStatus, ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      code,
		Message:   message,
		Data:      data,
	})
}

// Result 业务失败也返回200，由code区分结果，未知错误仍然返回500
func Result(c *gin.Context, err error, data interface{}) {
	code, message := errors.DecodeErr(err)
	httpStatus := http.StatusOK
	if code == ecode.Unknown {
		httpStatus = http.StatusInternalServerError
	}
	c.JSON(httpStatus, ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      code,
		Message:   message,
		Data:      data,
	})
}

// Fail 渲染业务错误：参数错误返回400，业务失败返回200，未知错误只记录日志不暴露细节
func Fail(c *gin.Context, err error) {
	code, _ := errors.DecodeErr(err)
	switch code {
	case ecode.ValidateErr:
		JSON(c, err, nil)
	case ecode.Unknown:
		logger.Error("request failed",
			logger.Pair(consts.RequestId, c.GetString(consts.RequestId)),
			logger.Pair("path", c.Request.URL.Path),
			logger.Pair("error", err.Error()))
		Result(c, errors.Wrap(err, ecode.Unknown, ecode.Text(ecode.Unknown)), nil)
	default:
		Result(c, err, nil)
	}
}

// token鉴权失败，返回401
func RequireAuthErr(c *gin.Context, err error) {
	var message string
	if err != nil {
		message = err.Error()
	} else {
		message = "unknow error."
	}
	c.JSON(http.StatusUnauthorized, ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      ecode.RequireAuthErr,
		Message:   "invalid token:" + message,
		Data:      nil,
	})
}

// 同一客户端请求过于频繁，返回429
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      ecode.TooManyReqErr,
		Message:   ecode.Text(ecode.TooManyReqErr),
	})
}
