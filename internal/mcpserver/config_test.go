package mcpserver

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
)

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	c, err := loadConfig()
	require.NoError(t, err)
	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.False(t, c.IncludeInfo)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ASYNCAPI_TOOLS_CACHE_ENABLED", "false")
	t.Setenv("ASYNCAPI_TOOLS_CACHE_MAX_SIZE", "3")
	t.Setenv("ASYNCAPI_TOOLS_CACHE_TTL", "2m")
	t.Setenv("ASYNCAPI_TOOLS_MAX_INLINE_SIZE", "2048")
	t.Setenv("ASYNCAPI_TOOLS_INCLUDE_INFO", "true")
	t.Setenv("ASYNCAPI_TOOLS_LOG_LEVEL", "debug")

	c, err := loadConfig()
	require.NoError(t, err)
	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 3, c.CacheMaxSize)
	assert.Equal(t, 2*time.Minute, c.CacheTTL)
	assert.Equal(t, int64(2048), c.MaxInlineSize)
	assert.True(t, c.IncludeInfo)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable bool", "ASYNCAPI_TOOLS_CACHE_ENABLED", "maybe"},
		{"unparsable duration", "ASYNCAPI_TOOLS_CACHE_TTL", "soon"},
		{"zero cache size", "ASYNCAPI_TOOLS_CACHE_MAX_SIZE", "0"},
		{"negative ttl", "ASYNCAPI_TOOLS_CACHE_TTL", "-1m"},
		{"zero inline size", "ASYNCAPI_TOOLS_MAX_INLINE_SIZE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := loadConfig()
			require.Error(t, err)
			assert.True(t, errors.Is(err, asyncerrors.ErrConfig))
		})
	}
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASYNCAPI_TOOLS_LOG_LEVEL")
}
