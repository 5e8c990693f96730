// Package asyncerrors provides structured error types for asyncapi-tools.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to tell a document that uses an unsupported
// construct apart from one that is simply malformed.
//
// # Error Categories
//
//   - SchemeError: unsupported security schemes, or no usable auth at all
//   - BindingError: a channel without the websocket binding
//   - ParameterError: a channel parameter whose type cannot be expressed
//   - DispatchError: a service without a usable dispatcher key annotation
//   - ParseError: YAML/JSON decoding failures and structural issues
//   - ReferenceError: $ref resolution failures and circular references
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	result, err := generator.GenerateWithOptions(generator.WithFilePath("chat.yaml"))
//	if errors.Is(err, asyncerrors.ErrNoUsableAuth) {
//	    // the document declares security schemes, but none can be used
//	}
//
// # Usage with errors.As
//
//	var paramErr *asyncerrors.ParameterError
//	if errors.As(err, &paramErr) {
//	    fmt.Println("offending parameter:", paramErr.Parameter)
//	}
package asyncerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnsupportedScheme indicates a security scheme family that cannot be mapped.
	ErrUnsupportedScheme = errors.New("unsupported security scheme")

	// ErrNoUsableAuth indicates that no key-based or token-based auth was found.
	ErrNoUsableAuth = errors.New("no usable auth")

	// ErrUnsupportedBinding indicates a channel without the websocket binding.
	ErrUnsupportedBinding = errors.New("unsupported binding")

	// ErrUnsupportedParameterType indicates a parameter type that cannot be mapped.
	ErrUnsupportedParameterType = errors.New("unsupported parameter type")

	// ErrMissingDispatchAnnotation indicates a service without a dispatcher key.
	ErrMissingDispatchAnnotation = errors.New("missing dispatch annotation")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SchemeError represents a security scheme that cannot be turned into client
// auth configuration. When Scheme is empty the error reports that the whole
// scheme set yielded nothing usable.
type SchemeError struct {
	// Scheme is the name of the offending security scheme (empty for no-usable-auth)
	Scheme string
	// Type is the declared scheme type (e.g., "userPassword")
	Type string
	// Message describes the failure
	Message string
}

// Error returns a human-readable error message.
func (e *SchemeError) Error() string {
	if e.Scheme == "" {
		msg := "no usable auth"
		if e.Message != "" {
			msg += ": " + e.Message
		}
		return msg
	}
	msg := fmt.Sprintf("unsupported security scheme %q", e.Scheme)
	if e.Type != "" {
		msg += fmt.Sprintf(" of type %q", e.Type)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SchemeError) Is(target error) bool {
	if e.Scheme == "" {
		return target == ErrNoUsableAuth
	}
	return target == ErrUnsupportedScheme
}

// BindingError represents a channel whose transport binding is missing or
// not the websocket binding.
type BindingError struct {
	// Channel is the channel name (e.g., "/rooms/{roomId}")
	Channel string
	// Message describes the failure
	Message string
}

// Error returns a human-readable error message.
func (e *BindingError) Error() string {
	msg := "unsupported binding"
	if e.Channel != "" {
		msg += fmt.Sprintf(" on channel %q", e.Channel)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *BindingError) Is(target error) bool {
	return target == ErrUnsupportedBinding
}

// ParameterError represents a channel parameter whose schema cannot be
// expressed as a host function parameter.
type ParameterError struct {
	// Channel is the channel the parameter belongs to
	Channel string
	// Parameter is the offending parameter name
	Parameter string
	// Location is where the parameter was declared: "path", "query" or "header"
	Location string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParameterError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unsupported parameter type"
	}
	if e.Parameter != "" {
		msg += " : " + e.Parameter
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParameterError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParameterError) Is(target error) bool {
	return target == ErrUnsupportedParameterType
}

// DispatchError represents a service declaration that does not carry a usable
// dispatcher key in its websocket service configuration annotation.
type DispatchError struct {
	// Service is the base path of the service
	Service string
	// Message describes what was missing
	Message string
}

// Error returns a human-readable error message.
func (e *DispatchError) Error() string {
	msg := "missing dispatch annotation"
	if e.Service != "" {
		msg += fmt.Sprintf(" on service %q", e.Service)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DispatchError) Is(target error) bool {
	return target == ErrMissingDispatchAnnotation
}

// ParseError represents a failure to decode an AsyncAPI document or a
// service tree.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return e.IsCircular && target == ErrCircularReference
}

// ConfigError represents invalid configuration or input options.
type ConfigError struct {
	// Option is the name of the invalid option
	Option string
	// Value is the invalid value (optional)
	Value any
	// Message describes the configuration problem
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += fmt.Sprintf(" for %s", e.Option)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
