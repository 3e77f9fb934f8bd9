package jwt

import (
	"context"
	"errors"
	"strconv"
	"time"

	"inviteflow/conf"
	"inviteflow/internal/consts"
	"inviteflow/pkg/cache"
	"inviteflow/pkg/logger"
	"inviteflow/utils/security"

	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
)

// CustomClaims 会话令牌中携带的账户身份
type CustomClaims struct {
	AccountId   int64  `json:"account_id"`
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

func BuildClaims(exp time.Time, accountId int64, phone string) *CustomClaims {
	return &CustomClaims{
		AccountId:   accountId,
		PhoneNumber: phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountId, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    conf.AppConfig.AppName,
		},
	}
}

func GenToken(c *CustomClaims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	ss, err := token.SignedString([]byte(secretKey))
	return ss, err
}

// 解析jwt token
func ParseToken(jwtStr, secretKey string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(jwtStr, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func getBlackListKey(token string) string {
	return consts.JwtBlackListPrefix + security.Sha256(token)
}

// JoinBlackList 注销令牌，黑名单保留到令牌过期为止
func JoinBlackList(ctx context.Context, tokenStr string, secretKey string) (err error) {
	claims, err := ParseToken(tokenStr, secretKey)
	if err != nil {
		return err
	}
	nowUnix := time.Now().Unix()
	timer := time.Duration(claims.ExpiresAt.Unix()-nowUnix) * time.Second
	if timer <= 0 {
		return nil
	}
	rc := cache.GetRedisClient()
	err = rc.SetNX(ctx, getBlackListKey(tokenStr), nowUnix, timer).Err()
	return
}

// IsInBlackList 令牌是否已注销，加入黑名单后的宽限期内仍然有效
func IsInBlackList(ctx context.Context, token string) bool {
	rc := cache.GetRedisClient()
	joinUnixStr, err := rc.Get(ctx, getBlackListKey(token)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Errorf("Redis连接异常:%v", err.Error())
		}
		return false
	}
	joinUnix, err := strconv.ParseInt(joinUnixStr, 10, 64)
	if err != nil {
		return true
	}
	if time.Now().Unix()-joinUnix < conf.AppConfig.Jwt.JwtBlacklistGracePeriod {
		return false
	}
	return true
}
