package converter

import (
	"fmt"
	"strings"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/internal/options"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/service"
)

// Option is a function that configures a conversion operation
type Option func(*convertConfig) error

// convertConfig holds configuration for a conversion operation
type convertConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	module   *service.Module

	// Configuration options
	servicePath string
	includeInfo bool
	logger      parser.Logger
}

// ConvertWithOptions converts a host service into an AsyncAPI document
// using functional options.
//
// Example:
//
//	result, err := converter.ConvertWithOptions(
//	    converter.WithFilePath("chat_service.yaml"),
//	    converter.WithServicePath("/chat"),
//	)
func ConvertWithOptions(opts ...Option) (*ConversionResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("converter: invalid options: %w", err)
	}

	c := &Converter{
		IncludeInfo: cfg.includeInfo,
		ServicePath: cfg.servicePath,
		Logger:      cfg.logger,
	}

	if cfg.filePath != nil {
		return c.Convert(*cfg.filePath)
	}
	if cfg.module != nil {
		return c.ConvertModule(cfg.module)
	}

	// Should never reach here due to validation in applyOptions
	return nil, fmt.Errorf("converter: no input source specified")
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*convertConfig, error) {
	cfg := &convertConfig{
		includeInfo: true,
		logger:      parser.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.SingleInputSource("WithFilePath or WithModule", cfg.filePath != nil, cfg.module != nil); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a service tree file as the input source
func WithFilePath(path string) Option {
	return func(cfg *convertConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithModule specifies a decoded module as the input source
func WithModule(m *service.Module) Option {
	return func(cfg *convertConfig) error {
		if m == nil {
			return &asyncerrors.ConfigError{Option: "module", Message: "module is nil"}
		}
		cfg.module = m
		return nil
	}
}

// WithServicePath selects the service to convert by its base path
// Default: the first service of the module
func WithServicePath(basePath string) Option {
	return func(cfg *convertConfig) error {
		if basePath != "" && !strings.HasPrefix(basePath, "/") {
			return &asyncerrors.ConfigError{Option: "servicePath", Value: basePath, Message: "must be an absolute base path"}
		}
		cfg.servicePath = basePath
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *convertConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithLogger sets the logger for debug and progress messages
// Default: parser.NopLogger
func WithLogger(l parser.Logger) Option {
	return func(cfg *convertConfig) error {
		if l == nil {
			l = parser.NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}
