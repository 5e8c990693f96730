package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/thushalya/asyncapi-tools-1/internal/mcpserver"

// traced wraps a tool handler in a server span named after the tool. Tool
// errors reported through an error result mark the span as failed too.
// Spans go to the globally registered provider, a no-op unless the
// embedding program installs one.
func traced[In, Out any](s *toolServer, tool string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		ctx, span := otel.Tracer(tracerName).Start(ctx, "tool "+tool,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool.name", tool)),
		)
		defer span.End()

		start := time.Now()
		res, out, err := h(ctx, req, in)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Error("tool failed", "tool", tool, "elapsed", elapsed, "error", err)
		case res != nil && res.IsError:
			span.SetStatus(codes.Error, "tool returned an error result")
			s.log.Warn("tool returned an error", "tool", tool, "elapsed", elapsed)
		default:
			s.log.Debug("tool completed", "tool", tool, "elapsed", elapsed)
		}
		return res, out, err
	}
}
