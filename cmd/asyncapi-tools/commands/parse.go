package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/thushalya/asyncapi-tools-1/converter"
	"github.com/thushalya/asyncapi-tools-1/generator"
	"github.com/thushalya/asyncapi-tools-1/internal/cliutil"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

// ParseFlags contains flags for the parse command
type ParseFlags struct {
	Format string
}

// DocumentSummary is the structured output of the parse command.
type DocumentSummary struct {
	Version         string   `json:"version" yaml:"version"`
	Title           string   `json:"title" yaml:"title"`
	Format          string   `json:"format" yaml:"format"`
	Channels        []string `json:"channels" yaml:"channels"`
	ClientChannel   string   `json:"clientChannel" yaml:"clientChannel"`
	ServiceURL      string   `json:"serviceUrl" yaml:"serviceUrl"`
	Messages        int      `json:"messages" yaml:"messages"`
	Schemas         int      `json:"schemas" yaml:"schemas"`
	SecuritySchemes []string `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
	DispatcherKey   string   `json:"dispatcherKey,omitempty" yaml:"dispatcherKey,omitempty"`
}

// SetupParseFlags creates and configures a FlagSet for the parse command.
func SetupParseFlags() (*flag.FlagSet, *ParseFlags) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags := &ParseFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: asyncapi-tools parse [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Parse an AsyncAPI 2.x document and summarize what a generated client would use.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools parse chat.yaml\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools parse --format json chat.yaml\n")
	}

	return fs, flags
}

// Summarize builds the summary of a parsed document.
func Summarize(result *parser.ParseResult) DocumentSummary {
	doc := result.Document
	s := DocumentSummary{
		Version:    result.Version,
		Format:     string(result.SourceFormat),
		Channels:   append([]string(nil), result.ChannelOrder...),
		ServiceURL: generator.ServiceURL(doc),
	}
	if name, _, ok := result.FirstChannel(); ok {
		s.ClientChannel = name
	}
	if doc.Info != nil {
		s.Title = doc.Info.Title
	}
	if c := doc.Components; c != nil {
		s.Messages = len(c.Messages)
		s.Schemas = len(c.Schemas)
		for name := range c.SecuritySchemes {
			s.SecuritySchemes = append(s.SecuritySchemes, name)
		}
		sort.Strings(s.SecuritySchemes)
	}
	if key, ok := doc.Extra[converter.DispatcherKeyExtension].(string); ok {
		s.DispatcherKey = key
	}
	return s
}

// HandleParse executes the parse command
func HandleParse(args []string) error {
	fs, flags := SetupParseFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("parse command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	specPath := fs.Arg(0)
	var opt parser.Option
	if specPath == StdinFilePath {
		opt = parser.WithReader(os.Stdin)
	} else {
		opt = parser.WithFilePath(specPath)
	}
	result, err := parser.ParseWithOptions(opt)
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	summary := Summarize(result)
	if flags.Format != FormatText {
		return OutputStructured(summary, flags.Format)
	}

	fmt.Printf("Document: %s\n", FormatInputPath(specPath))
	fmt.Printf("AsyncAPI Version: %s\n", summary.Version)
	fmt.Printf("Title: %s\n", summary.Title)
	fmt.Printf("Format: %s\n", summary.Format)
	fmt.Printf("Source Size: %d bytes\n", result.SourceSize)
	fmt.Printf("Load Time: %v\n", result.LoadTime)
	fmt.Printf("Channels (%d):\n", len(summary.Channels))
	for _, ch := range summary.Channels {
		marker := " "
		if ch == summary.ClientChannel {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, ch)
	}
	fmt.Printf("Service URL: %s\n", summary.ServiceURL)
	fmt.Printf("Messages: %d\n", summary.Messages)
	fmt.Printf("Schemas: %d\n", summary.Schemas)
	if len(summary.SecuritySchemes) > 0 {
		fmt.Printf("Security Schemes: %v\n", summary.SecuritySchemes)
	}
	if summary.DispatcherKey != "" {
		fmt.Printf("Dispatcher Key: %s\n", summary.DispatcherKey)
	}
	return nil
}
