// Package parser decodes AsyncAPI 2.x documents describing websocket APIs.
//
// The parser accepts YAML or JSON input and produces a [Document] together
// with the source order of its channels, which the generator uses to pick the
// channel a client connects to.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("chat.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	name, channel, _ := result.FirstChannel()
//
// # References
//
// Schema and parameter references are resolved on demand through
// [ParseResult.ResolveSchema] and [ParseResult.ResolveParameter]. Local
// references ("#/components/schemas/Room") and relative file references
// ("common.yaml#/components/schemas/Room") are supported; remote URLs are not.
// Circular chains are reported as an asyncerrors.ReferenceError with
// IsCircular set.
//
// # Logging
//
// [Logger] is a small structured logging interface with adapters for
// log/slog ([NewSlogAdapter]) and zap ([NewZapAdapter]).
package parser
