package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

// 私信对称加密。密文格式：gAAAAA + base64url(nonce|box)。
// 前缀沿用历史数据的格式标记，IsEncrypted 靠它区分密文和迁移前的明文。
// 注意 Decrypt 对任何解不开的输入都原样返回（按迁移前明文处理），
// 代价是损坏的密文也会被静默当成明文，这是为兼容性做的取舍。

const EncPrefix = "gAAAAA"

var (
	msgKey     [32]byte
	msgKeyOnce sync.Once
	msgKeyErr  error
	rawMsgKey  string
)

// SetMessageKey 注入 base64 编码的 32 字节密钥；启动时调用一次
// 缺失与否在首次加密时才致命，加载阶段不报错
func SetMessageKey(b64 string) {
	rawMsgKey = b64
}

func loadKey() error {
	msgKeyOnce.Do(func() {
		if rawMsgKey == "" {
			msgKeyErr = Internal("message encryption key not configured")
			return
		}
		raw, err := base64.StdEncoding.DecodeString(rawMsgKey)
		if err != nil || len(raw) != 32 {
			msgKeyErr = Internal("message encryption key malformed")
			return
		}
		copy(msgKey[:], raw)
	})
	return msgKeyErr
}

// Encrypt 加密私信正文；空串原样通过
func Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}
	if err := loadKey(); err != nil {
		return "", err
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", WrapError(CodeInternal, "nonce generation failed", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &msgKey)
	return EncPrefix + base64.URLEncoding.EncodeToString(box), nil
}

// Decrypt 解密私信正文；解不开一律原样返回，绝不报错
func Decrypt(ciphertext string) string {
	if ciphertext == "" || !strings.HasPrefix(ciphertext, EncPrefix) {
		return ciphertext
	}
	if err := loadKey(); err != nil {
		return ciphertext
	}
	raw, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(ciphertext, EncPrefix))
	if err != nil || len(raw) < 24 {
		return ciphertext
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &msgKey)
	if !ok {
		return ciphertext
	}
	return string(plain)
}

// IsEncrypted 判断是否已是密文，避免重复加密
func IsEncrypted(text string) bool {
	return strings.HasPrefix(text, EncPrefix)
}

// ResetMessageKeyForTest 测试用：重置密钥状态
func ResetMessageKeyForTest(b64 string) {
	msgKeyOnce = sync.Once{}
	msgKeyErr = nil
	rawMsgKey = b64
}
