package security

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Sha256 返回十六进制摘要，用于生成redis key
func Sha256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashCode 对验证码做bcrypt哈希
func HashCode(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareCode 校验验证码与哈希是否匹配
func CompareCode(hashed, code string) bool {
	if hashed == "" || code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(code)) == nil
}
