package cache

import (
	"context"
	"time"

	"inviteflow/conf"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedis 初始化redisClient
func InitRedis(redisCfg conf.RedisConfig) error {
	client := redis.NewClient(&redis.Options{
		DB:              redisCfg.Db,
		Addr:            redisCfg.Addr,
		Password:        redisCfg.Password,
		PoolSize:        redisCfg.PoolSize,
		MinIdleConns:    redisCfg.MinIdleConns,
		ConnMaxIdleTime: time.Duration(redisCfg.IdleTimeout) * time.Second,
	})
	if err := client.Ping(context.TODO()).Err(); err != nil {
		_ = client.Close()
		return err
	}
	redisClient = client
	return nil
}

// SetRedisClient 替换全局client，测试时指向miniredis
func SetRedisClient(client *redis.Client) {
	redisClient = client
}

func GetRedisClient() *redis.Client {
	if nil == redisClient {
		panic("Please initialize the Redis client first!")
	}
	return redisClient
}

// 关闭redis client
func CloseRedis() error {
	if nil != redisClient {
		err := redisClient.Close()
		redisClient = nil
		return err
	}
	return nil
}
