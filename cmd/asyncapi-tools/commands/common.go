// Package commands provides CLI command handlers for asyncapi-tools.
package commands

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v4"

	"github.com/thushalya/asyncapi-tools-1/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
func OutputStructured(data any, format string) error {
	var out []byte
	var err error
	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}
	fmt.Println(string(out))
	return nil
}

// FormatInputPath returns a display-friendly path for an input.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatInputPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// NewLogger returns the logger handed to the generator and converter.
// Verbose runs log at debug level to stderr through zap; otherwise nothing
// is logged. The returned function flushes buffered entries.
func NewLogger(verbose bool) (parser.Logger, func(), error) {
	if !verbose {
		return parser.NopLogger{}, func() {}, nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"stderr"}
	zl, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return parser.NewZapAdapter(zl), func() { _ = zl.Sync() }, nil
}
