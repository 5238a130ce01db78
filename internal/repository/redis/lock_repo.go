package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LockTTL         = 300 * time.Millisecond
	DMThreadLockFmt = "lock:dm:thread:%d:%d" // 参数是归一化后的 (小ID, 大ID)
)

// DistLock 分布式锁；会话创建用它串行化同一对用户的 find-or-create
// 锁只是收窄竞争窗口，正确性兜底仍是数据库唯一索引
type DistLock struct {
	RDB *redis.Client
}

// DMThreadKey 私信会话锁键，按排序后的用户对
func DMThreadKey(u1, u2 uint64) string {
	if u1 > u2 {
		u1, u2 = u2, u1
	}
	return fmt.Sprintf(DMThreadLockFmt, u1, u2)
}

// Acquire 请求加锁
func (l *DistLock) Acquire(ctx context.Context, key, token string) (bool, error) {
	return l.RDB.SetNX(ctx, key, token, LockTTL).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, key, token string) error {
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{key}, token).Result()
	return err
}
