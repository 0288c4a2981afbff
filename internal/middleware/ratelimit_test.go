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

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimit(t *testing.T) {
	t.Run("BypassedInTestAndDevelopment", func(t *testing.T) {
		for _, env := range []string{"test", "development"} {
			t.Setenv("APP_ENV", env)
			allowed, err := CheckRateLimit(context.Background(), nil, "res", "1", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed, "env %s", env)
		}
	})

	t.Run("NilRedisIsAnError", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		allowed, err := CheckRateLimit(context.Background(), nil, "res", "1", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, allowed)
	})

	t.Run("CountsPerResourceAndID", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		rdb := testRedis(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			allowed, err := CheckRateLimit(ctx, rdb, "signup", "ip:1.2.3.4", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := CheckRateLimit(ctx, rdb, "signup", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		// a different caller has its own window
		allowed, err = CheckRateLimit(ctx, rdb, "signup", "ip:5.6.7.8", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	newApp := func(rdb *redis.Client, policy FailPolicy) *fiber.App {
		app := fiber.New()
		app.Get("/limited", RateLimitWithPolicy(rdb, 2, time.Minute, policy, "limited"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}

	t.Run("AllowsUpToLimitThen429", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := newApp(testRedis(t), FailOpen)

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			_ = resp.Body.Close()
		}

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("FailOpenWithNilRedis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := newApp(nil, FailOpen)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("FailClosedWithNilRedis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := newApp(nil, FailClosed)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
