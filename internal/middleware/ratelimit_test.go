package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit/internal/config"
)

func rateCtx(method, target, route string, userID any) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "10.0.0.9:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKey(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "stackit:rl"}

	t.Run("ip strategy", func(t *testing.T) {
		cfg.KeyStrategy = "ip"
		key := buildRateKey(cfg, rateCtx(http.MethodGet, "/v1/questions", "/v1/questions", nil))
		require.Equal(t, "stackit:rl:ip:10.0.0.9", key)
	})

	t.Run("user strategy falls back to anon", func(t *testing.T) {
		cfg.KeyStrategy = "user"
		key := buildRateKey(cfg, rateCtx(http.MethodGet, "/v1/questions", "/v1/questions", nil))
		require.Equal(t, "stackit:rl:user:anon", key)
	})

	t.Run("user strategy with identity", func(t *testing.T) {
		cfg.KeyStrategy = "user"
		key := buildRateKey(cfg, rateCtx(http.MethodGet, "/v1/questions", "/v1/questions", float64(31)))
		require.Equal(t, "stackit:rl:user:31", key)
	})

	t.Run("route strategy includes method and path", func(t *testing.T) {
		cfg.KeyStrategy = "route"
		key := buildRateKey(cfg, rateCtx(http.MethodPost, "/v1/questions", "/v1/questions", nil))
		require.Equal(t, "stackit:rl:route:POST /v1/questions", key)
	})

	t.Run("default strategy combines all three", func(t *testing.T) {
		cfg.KeyStrategy = ""
		key := buildRateKey(cfg, rateCtx(http.MethodGet, "/v1/tags", "/v1/tags", "8"))
		require.Equal(t, "stackit:rl:ip:10.0.0.9:user:8:route:GET /v1/tags", key)
	})
}

func TestAsInt64(t *testing.T) {
	require.EqualValues(t, 5, asInt64(int64(5)))
	require.EqualValues(t, 5, asInt64(5))
	require.EqualValues(t, 5, asInt64(5.9))
	require.EqualValues(t, 5, asInt64("5"))
	require.EqualValues(t, 0, asInt64("not-a-number"))
	require.EqualValues(t, 0, asInt64(nil))
}

func TestTokenBucketPassThroughWhenDisabled(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	c := rateCtx(http.MethodGet, "/v1/questions", "/v1/questions", nil)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	require.True(t, called)
}

func TestTokenBucketPassThroughWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)
	c := rateCtx(http.MethodGet, "/v1/questions", "/v1/questions", nil)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	require.True(t, called)
}
