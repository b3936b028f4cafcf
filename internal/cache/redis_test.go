package cache

import (
	"context"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	if err := SetCartCount(ctx, 1, 3, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should not fail: %v", err)
	}
	if _, hit, err := GetCartCount(ctx, 1); err != nil || hit {
		t.Fatalf("disabled cache must miss, hit=%v err=%v", hit, err)
	}
	if state, hit, err := GetUserAuthState(ctx, 1); err != nil || hit || state != nil {
		t.Fatalf("disabled cache must miss auth state")
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "sf"
	if got := BuildKey(cartCountKey(9)); got != "sf:cart:count:9" {
		t.Fatalf("want sf:cart:count:9 got %s", got)
	}
	if got := BuildKey("  "); got != "sf" {
		t.Fatalf("blank key want prefix got %s", got)
	}
}
