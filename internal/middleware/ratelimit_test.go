package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimitEnabled(t *testing.T) {
	for _, env := range []string{"", "test", "development", "stress"} {
		assert.False(t, RateLimitEnabled(env), env)
	}
	for _, env := range []string{"production", "staging"} {
		assert.True(t, RateLimitEnabled(env), env)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	limiter := NewRateLimiter(rdb, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "signin", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, "signin", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, time.Minute, mr.TTL("rl:signin:ip:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = limiter.Allow(ctx, "signin", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_AllowRepairsMissingTTL(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	limiter := NewRateLimiter(rdb, true)
	key := "rl:signup:ip:5.6.7.8"

	require.NoError(t, mr.Set(key, "9"))
	require.Zero(t, mr.TTL(key))

	allowed, err := limiter.Allow(context.Background(), "signup", "ip:5.6.7.8", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = limiter.Allow(context.Background(), "signup", "ip:5.6.7.8", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_DisabledAllowsEverything(t *testing.T) {
	limiter := NewRateLimiter(nil, false)
	for i := 0; i < 10; i++ {
		allowed, err := limiter.Allow(context.Background(), "signup", "ip:x", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	_, rdb := newMiniRedis(t)
	limiter := NewRateLimiter(rdb, true)

	app := fiber.New()
	app.Post("/signup", limiter.Limit(2, time.Minute, "signup"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/signup", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusCreated, fiber.StatusCreated, fiber.StatusTooManyRequests}, codes)
}

func TestRateLimiter_FailurePolicies(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	limiter := NewRateLimiter(rdb, true)
	mr.Close()

	app := fiber.New()
	app.Get("/open", limiter.Limit(1, time.Minute, "open"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/closed", limiter.LimitWithPolicy(1, time.Minute, FailClosed, "closed"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/closed", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
