package cache

import (
	"context"
	"fmt"
	"time"
)

func cartCountKey(userID uint) string {
	return fmt.Sprintf("cart:count:%d", userID)
}

// GetCartCount 获取购物车行数缓存
func GetCartCount(ctx context.Context, userID uint) (int64, bool, error) {
	if userID == 0 {
		return 0, false, nil
	}
	return GetInt64(ctx, cartCountKey(userID))
}

// SetCartCount 写入购物车行数缓存
func SetCartCount(ctx context.Context, userID uint, count int64, ttl time.Duration) error {
	if userID == 0 || ttl <= 0 {
		return nil
	}
	return SetInt64(ctx, cartCountKey(userID), count, ttl)
}

// DelCartCount 购物车变更后失效缓存
func DelCartCount(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, cartCountKey(userID))
}
