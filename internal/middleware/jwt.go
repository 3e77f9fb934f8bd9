package middleware

import (
	"fmt"
	"strings"

	"inviteflow/conf"
	"inviteflow/internal/consts"
	"inviteflow/internal/model"
	"inviteflow/pkg/jwt"
	"inviteflow/pkg/response"

	"github.com/gin-gonic/gin"
)

// 请求头的形式为 Authorization: Bearer token
const authorizationHeader = "Authorization"

// AuthToken 鉴权，验证token是否有效，并把账户身份写入context
func AuthToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := getJwtFromHeader(c)
		if err != nil {
			response.RequireAuthErr(c, err)
			c.Abort()
			return
		}
		// 验证token是否正确
		claims, err := jwt.ParseToken(tokenStr, conf.AppConfig.Jwt.Secret)
		if err != nil {
			response.RequireAuthErr(c, err)
			c.Abort()
			return
		}
		if jwt.IsInBlackList(c, tokenStr) {
			response.RequireAuthErr(c, fmt.Errorf("token has been revoked"))
			c.Abort()
			return
		}

		c.Set(consts.AccountID, claims.AccountId)
		c.Set(consts.PhoneNumber, claims.PhoneNumber)
		c.Set(consts.JWTTokenCtx, tokenStr)
		c.Next()
	}
}

// SessionIdentity 取出AuthToken写入的账户身份
func SessionIdentity(c *gin.Context) model.SessionIdentity {
	return model.SessionIdentity{
		AccountId:   c.GetInt64(consts.AccountID),
		PhoneNumber: c.GetString(consts.PhoneNumber),
	}
}

func getJwtFromHeader(c *gin.Context) (string, error) {
	aHeader := c.Request.Header.Get(authorizationHeader)
	if len(aHeader) == 0 {
		return "", fmt.Errorf("token is empty")
	}
	strs := strings.SplitN(aHeader, " ", 2)
	if len(strs) != 2 || strs[0] != "Bearer" {
		return "", fmt.Errorf("token 不符合规则")
	}
	return strs[1], nil
}
