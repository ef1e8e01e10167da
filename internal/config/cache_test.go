package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	for _, k := range []string{"CACHE_ENABLED", "CACHE_METHODS", "CACHE_TTL", "CACHE_KEY_STRATEGY", "CACHE_PREFIX", "CACHE_MAX_BODY_BYTES"} {
		t.Setenv(k, "")
	}
	cfg := LoadCacheConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, map[string]bool{"GET": true}, cfg.Methods)
	require.Equal(t, 15*time.Second, cfg.TTL)
	require.Equal(t, "route_query", cfg.KeyStrategy)
	require.Equal(t, "stackit:cache", cfg.Prefix)
	require.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigFromEnv(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_KEY_STRATEGY", "route")
	t.Setenv("CACHE_PREFIX", "qa:cache")
	t.Setenv("CACHE_MAX_BODY_BYTES", "2048")

	cfg := LoadCacheConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	require.Equal(t, 2*time.Minute, cfg.TTL)
	require.Equal(t, "route", cfg.KeyStrategy)
	require.Equal(t, "qa:cache", cfg.Prefix)
	require.Equal(t, 2048, cfg.MaxBodyBytes)
}

func TestParseDurFallsBackOnGarbage(t *testing.T) {
	require.Equal(t, time.Second, parseDur("soon"))
	require.Equal(t, 30*time.Second, parseDur("30s"))
}

func TestParseMethods(t *testing.T) {
	require.Equal(t, map[string]bool{"GET": true, "HEAD": true}, parseMethods("get,,HEAD , "))
	require.Empty(t, parseMethods(""))
}
