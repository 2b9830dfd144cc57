package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss 表示key不存在，调用方应回源数据库
var ErrCacheMiss = errors.New("缓存未命中")

// 缓存通用接口
// 只缓存派生自数据库的数据，写操作后必须Del对应key
type Cache interface {
	// Set在缓存中设置一个值，并指定过期时间。
	// value应该是一个可以被JSON封送的结构体或指向结构体的指针。
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// Get从缓存中检索一个值，并将其解编组到target。
	// target应该是一个指针。key不存在时返回ErrCacheMiss。
	Get(ctx context.Context, key string, target any) error

	// 删除一个或多个key
	Del(ctx context.Context, keys ...string) error
}

// GenerateUserKey 生成用户资料缓存的key
func GenerateUserKey(userID string) string {
	return fmt.Sprintf("user:profile:%s", userID)
}
