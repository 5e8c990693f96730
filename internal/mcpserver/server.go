// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the asyncapi-tools generator and converter as MCP tools
// over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	asyncapitools "github.com/thushalya/asyncapi-tools-1"
	"github.com/thushalya/asyncapi-tools-1/internal/issues"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

const serverInstructions = `asyncapi-tools MCP server: generates WebSocket clients from AsyncAPI 2.x documents and converts WebSocket service trees back into AsyncAPI documents.

Configuration is read from ASYNCAPI_TOOLS_* environment variables set in your MCP client config:
- ASYNCAPI_TOOLS_CACHE_ENABLED (default: true) - cache parsed documents per session
- ASYNCAPI_TOOLS_CACHE_TTL (default: 15m) - lifetime of a cached document
- ASYNCAPI_TOOLS_CACHE_MAX_SIZE (default: 10) - number of cached documents
- ASYNCAPI_TOOLS_MAX_INLINE_SIZE (default: 10MiB) - limit for inline content
- ASYNCAPI_TOOLS_INCLUDE_INFO (default: false) - report informational issues
- ASYNCAPI_TOOLS_LOG_LEVEL (default: warn) - stderr log level

File inputs are cached by path and modification time; inline content by its digest.`

// toolServer carries the state shared by the tool handlers of one session.
type toolServer struct {
	cfg   *serverConfig
	cache *documentCache
	log   parser.Logger
}

func newToolServer(cfg *serverConfig, log parser.Logger) *toolServer {
	if log == nil {
		log = parser.NopLogger{}
	}
	return &toolServer{
		cfg:   cfg,
		cache: newDocumentCache(cfg.CacheMaxSize, cfg.CacheTTL),
		log:   log,
	}
}

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	zl, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	s := newToolServer(cfg, parser.NewZapAdapter(zl))
	if cfg.CacheEnabled {
		s.cache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "asyncapi-tools", Version: asyncapitools.Version()},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	s.register(server)
	s.log.Info("mcp server started", "version", asyncapitools.Version())
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (s *toolServer) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_asyncapi",
		Description: "Parse an AsyncAPI 2.x document. Returns a summary: title, asyncapi version, channels in document order, the channel a generated client connects to, the default service URL, and message, schema and security scheme counts. Use full=true to also return the document.",
	}, traced(s, "parse_asyncapi", s.handleParse))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_client",
		Description: "Generate a WebSocket client (types.bal, client.bal and, when needed, utils.bal) from an AsyncAPI 2.x document. The client connects to the first channel. With output_dir the files are written to disk and a manifest is returned; without it the file contents are returned inline.",
	}, traced(s, "generate_client", s.handleGenerate))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_service",
		Description: "Convert a WebSocket service tree into an AsyncAPI 2.5.0 document. The service must carry @websocket:ServiceConfig with a dispatcherKey. Use service_path to choose among several services. With output the document is written to disk (.json selects JSON); without it the document is returned inline.",
	}, traced(s, "convert_service", s.handleConvert))
}

// issueInfo is the wire form of a generation or conversion issue.
type issueInfo struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

func issueInfos(list []issues.Issue) []issueInfo {
	if len(list) == 0 {
		return nil
	}
	out := make([]issueInfo, 0, len(list))
	for _, i := range list {
		out = append(out, issueInfo{Severity: i.Severity.String(), Path: i.Path, Message: i.Message})
	}
	return out
}

// pathPattern matches absolute filesystem paths in error messages so they
// are not leaked to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
