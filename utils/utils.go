package utils

import (
	"context"
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"time"
)

// RandCode 从alphabet中随机取length个字符，使用crypto/rand
func RandCode(alphabet string, length int) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	data := []byte(alphabet)
	size := big.NewInt(int64(len(data)))
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			// crypto/rand 在支持的平台上不会失败
			panic(err)
		}
		result[i] = data[n.Int64()]
	}
	return string(result)
}

// RandDuration 返回[lo, hi]之间的随机时长
func RandDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(mrand.Int64N(int64(hi-lo)+1))
}

// SleepContext 等待d，ctx取消时提前返回ctx.Err()
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
