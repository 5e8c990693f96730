package generator

import (
	"fmt"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/internal/options"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	parsed   *parser.ParseResult

	// Configuration options
	clientName  string
	schemaTypes bool
	includeInfo bool
	logger      parser.Logger
}

// GenerateWithOptions generates a client from an AsyncAPI document using functional options.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("chat.yaml"),
//	    generator.WithClientName("ChatClient"),
//	)
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := &Generator{
		ClientName:  cfg.clientName,
		SchemaTypes: cfg.schemaTypes,
		IncludeInfo: cfg.includeInfo,
		Logger:      cfg.logger,
	}

	if cfg.filePath != nil {
		return g.Generate(*cfg.filePath)
	}
	if cfg.parsed != nil {
		return g.GenerateParsed(*cfg.parsed)
	}

	// Should never reach here due to validation in applyOptions
	return nil, fmt.Errorf("generator: no input source specified")
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		clientName:  "Client",
		schemaTypes: true,
		includeInfo: true,
		logger:      parser.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.SingleInputSource("WithFilePath or WithParsed", cfg.filePath != nil, cfg.parsed != nil); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies a parsed ParseResult as the input source
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *generateConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithClientName specifies the name of the generated client class.
// The name must be a valid type name.
// Default: "Client"
func WithClientName(name string) Option {
	return func(cfg *generateConfig) error {
		if name == "" || naming.ValidName(name, true) != name {
			return &asyncerrors.ConfigError{Option: "clientName", Value: name, Message: "must be a valid type name"}
		}
		cfg.clientName = name
		return nil
	}
}

// WithSchemaTypes enables or disables type generation for components.schemas
// Default: true
func WithSchemaTypes(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.schemaTypes = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithLogger sets the logger for debug and progress messages
// Default: parser.NopLogger
func WithLogger(l parser.Logger) Option {
	return func(cfg *generateConfig) error {
		if l == nil {
			l = parser.NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}
