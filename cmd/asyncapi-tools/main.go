package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	asyncapitools "github.com/thushalya/asyncapi-tools-1"
	"github.com/thushalya/asyncapi-tools-1/cmd/asyncapi-tools/commands"
	"github.com/thushalya/asyncapi-tools-1/internal/mcpserver"
)

var commandNames = []string{"generate", "convert", "parse", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	var err error

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("asyncapi-tools %s\n", asyncapitools.Version())
		fmt.Println(asyncapitools.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "generate":
		err = commands.HandleGenerate(os.Args[2:])
	case "convert":
		err = commands.HandleConvert(os.Args[2:])
	case "parse":
		err = commands.HandleParse(os.Args[2:])
	case "mcp":
		err = runMCP()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

// suggestCommand returns the known command closest to input, or "" when
// none is within two edits.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`asyncapi-tools - AsyncAPI and WebSocket service tools

Usage:
  asyncapi-tools <command> [options]

Commands:
  generate    Generate a WebSocket client from an AsyncAPI document
  convert     Convert a WebSocket service tree into an AsyncAPI document
  parse       Parse and summarize an AsyncAPI document
  mcp         Serve the tools to MCP clients over stdio
  version     Show version information
  help        Show this help message

Examples:
  asyncapi-tools generate -o ./client chat.yaml
  asyncapi-tools convert -o chat_asyncapi.yaml chat_service.yaml
  asyncapi-tools parse --format json chat.yaml

Run 'asyncapi-tools <command> --help' for more information on a command.`)
}
