package parser

import (
	"fmt"
	"io"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	validateStructure bool
	logger            Logger
}

// ParseWithOptions parses an AsyncAPI document using functional options.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("chat.yaml"),
//	    parser.WithLogger(parser.NewSlogAdapter(slog.Default())),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		ValidateStructure: cfg.validateStructure,
		Logger:            cfg.logger,
	}

	switch {
	case cfg.filePath != nil:
		return p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		return p.ParseReader(cfg.reader)
	default:
		return p.ParseBytes(cfg.bytes)
	}
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		validateStructure: true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.SingleInputSource("WithFilePath, WithReader, or WithBytes", cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		if path == "" {
			return &asyncerrors.ConfigError{Option: "WithFilePath", Message: "path cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithValidateStructure enables or disables basic structure validation
// Default: true
func WithValidateStructure(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.validateStructure = enabled
		return nil
	}
}

// WithLogger sets the structured logger for debug output
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}
