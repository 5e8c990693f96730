package mcpserver

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
)

// envPrefix scopes the configuration variables: ASYNCAPI_TOOLS_CACHE_TTL,
// ASYNCAPI_TOOLS_LOG_LEVEL and so on.
const envPrefix = "asyncapi_tools"

// serverConfig holds all configurable MCP server defaults.
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool          `envconfig:"CACHE_ENABLED" default:"true"`
	CacheMaxSize       int           `envconfig:"CACHE_MAX_SIZE" default:"10"`
	CacheTTL           time.Duration `envconfig:"CACHE_TTL" default:"15m"`
	CacheSweepInterval time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"60s"`

	// MaxInlineSize bounds inline document and service content, in bytes.
	MaxInlineSize int64 `envconfig:"MAX_INLINE_SIZE" default:"10485760"`

	// IncludeInfo keeps informational issues in tool results.
	IncludeInfo bool `envconfig:"INCLUDE_INFO" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// loadConfig reads configuration from ASYNCAPI_TOOLS_* environment variables.
func loadConfig() (*serverConfig, error) {
	var c serverConfig
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, &asyncerrors.ConfigError{Option: "environment", Message: err.Error()}
	}
	if c.CacheMaxSize <= 0 {
		return nil, &asyncerrors.ConfigError{Option: "ASYNCAPI_TOOLS_CACHE_MAX_SIZE", Value: c.CacheMaxSize, Message: "must be positive"}
	}
	if c.CacheTTL <= 0 {
		return nil, &asyncerrors.ConfigError{Option: "ASYNCAPI_TOOLS_CACHE_TTL", Value: c.CacheTTL, Message: "must be positive"}
	}
	if c.MaxInlineSize <= 0 {
		return nil, &asyncerrors.ConfigError{Option: "ASYNCAPI_TOOLS_MAX_INLINE_SIZE", Value: c.MaxInlineSize, Message: "must be positive"}
	}
	return &c, nil
}

// newLogger builds the stderr logger of the server. Stdout carries the
// protocol stream and is never written to.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, &asyncerrors.ConfigError{Option: "ASYNCAPI_TOOLS_LOG_LEVEL", Value: level, Message: fmt.Sprintf("invalid log level: %v", err)}
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
