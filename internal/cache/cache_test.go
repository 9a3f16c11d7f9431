// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestPageCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "docs"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := []byte("<html>docs</html>")
	pc.Set(ctx, "docs", want)

	got, ok := pc.Get(ctx, "docs")
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if string(got) != string(want) {
		t.Errorf("got %q, want %q", got, want)
	}

	pc.Invalidate(ctx, "docs")
	if _, ok := pc.Get(ctx, "docs"); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, time.Minute)
	ctx := context.Background()

	for _, key := range []string{"a", "b", IndexKey} {
		pc.Set(ctx, key, []byte("x"))
	}
	pc.InvalidateAll(ctx)

	for _, key := range []string{"a", "b", IndexKey} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("key %q survived InvalidateAll", key)
		}
	}
}

func TestNilPageCacheIsNoOp(t *testing.T) {
	var pc *PageCache
	ctx := context.Background()

	// None of these may panic.
	pc.Set(ctx, "a", []byte("x"))
	pc.Invalidate(ctx, "a")
	pc.InvalidateAll(ctx)
	if _, ok := pc.Get(ctx, "a"); ok {
		t.Error("nil cache reported a hit")
	}
}
