package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	asyncapitools "github.com/thushalya/asyncapi-tools-1"
	"github.com/thushalya/asyncapi-tools-1/converter"
	"github.com/thushalya/asyncapi-tools-1/internal/cliutil"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/service"
)

// ConvertFlags contains flags for the convert command
type ConvertFlags struct {
	Output      string
	ServicePath string
	Format      string
	Strict      bool
	NoWarnings  bool
	Verbose     bool
}

// SetupConvertFlags creates and configures a FlagSet for the convert command.
// Returns the FlagSet and a ConvertFlags struct with bound flag variables.
func SetupConvertFlags() (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file; '-' writes the document to stdout (default: <title>_asyncapi.yaml)")
	fs.StringVar(&flags.Output, "output", "", "output file; '-' writes the document to stdout (default: <title>_asyncapi.yaml)")
	fs.StringVar(&flags.ServicePath, "s", "", "base path of the service to convert (default: first service)")
	fs.StringVar(&flags.ServicePath, "service", "", "base path of the service to convert (default: first service)")
	fs.StringVar(&flags.Format, "f", FormatYAML, "document format: yaml or json")
	fs.StringVar(&flags.Format, "format", FormatYAML, "document format: yaml or json")
	fs.BoolVar(&flags.Strict, "strict", false, "fail on any conversion issues (even warnings)")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress info messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log conversion progress to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: asyncapi-tools convert [flags] <service-tree|->\n\n")
		cliutil.Writef(fs.Output(), "Convert a WebSocket service tree into an AsyncAPI 2.5.0 document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools convert chat_service.yaml\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools convert -s /chat -o chat.json chat_service.yaml\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools convert -o - -f json chat_service.yaml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - The service must carry @websocket:ServiceConfig with a dispatcherKey\n")
		cliutil.Writef(fs.Output(), "  - A .json output extension selects JSON regardless of --format\n")
	}

	return fs, flags
}

// HandleConvert executes the convert command
func HandleConvert(args []string) error {
	fs, flags := SetupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert command requires exactly one service tree path or '-' for stdin")
	}
	inputPath := fs.Arg(0)

	format := parser.SourceFormat(strings.ToLower(flags.Format))
	if format != parser.SourceFormatYAML && format != parser.SourceFormatJSON {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", flags.Format, FormatYAML, FormatJSON)
	}

	logger, flush, err := NewLogger(flags.Verbose)
	if err != nil {
		return err
	}
	defer flush()

	var module *service.Module
	if inputPath == StdinFilePath {
		module, err = service.LoadReader(os.Stdin)
	} else {
		module, err = service.Load(inputPath)
	}
	if err != nil {
		return fmt.Errorf("loading service tree: %w", err)
	}

	opts := []converter.Option{
		converter.WithModule(module),
		converter.WithIncludeInfo(!flags.NoWarnings),
		converter.WithLogger(logger),
	}
	if flags.ServicePath != "" {
		opts = append(opts, converter.WithServicePath(flags.ServicePath))
	}
	result, err := converter.ConvertWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("converting service: %w", err)
	}

	// Pipeline mode keeps stdout for the document alone.
	if flags.Output == StdinFilePath {
		cliutil.WriteIssues(os.Stderr, "Conversion Issues", result.Issues)
		if err := checkConversion(result, flags.Strict); err != nil {
			return err
		}
		data, err := result.Marshal(format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	output := flags.Output
	if output == "" {
		output = result.FileName()
		if format == parser.SourceFormatJSON {
			output = strings.TrimSuffix(output, filepath.Ext(output)) + ".json"
		}
	}
	if err := cliutil.CheckOutputPath(output, inputPath); err != nil {
		return err
	}

	printConversionSummary(os.Stdout, inputPath, result)
	if err := checkConversion(result, flags.Strict); err != nil {
		return err
	}
	if err := result.WriteFile(output); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	fmt.Printf("Output: %s\n\n", output)
	if result.InfoCount > 0 || result.WarningCount > 0 {
		cliutil.Success(os.Stdout, "Conversion successful (%d info, %d warnings)", result.InfoCount, result.WarningCount)
	} else {
		cliutil.Success(os.Stdout, "Conversion successful")
	}
	return nil
}

func printConversionSummary(w io.Writer, inputPath string, result *converter.ConversionResult) {
	doc := result.Document
	channels := make([]string, 0, len(doc.Channels))
	for name := range doc.Channels {
		channels = append(channels, name)
	}
	sort.Strings(channels)

	cliutil.Writef(w, "Service to AsyncAPI Converter\n")
	cliutil.Writef(w, "=============================\n\n")
	cliutil.Writef(w, "asyncapi-tools version: %s\n", asyncapitools.Version())
	cliutil.Writef(w, "Service Tree: %s\n", FormatInputPath(inputPath))
	cliutil.Writef(w, "Service: %s\n", result.Service)
	cliutil.Writef(w, "Title: %s\n", doc.Info.Title)
	cliutil.Writef(w, "Dispatcher Key: %s\n", result.DispatcherKey)
	cliutil.Writef(w, "Channels: %s\n", strings.Join(channels, ", "))
	if doc.Components != nil {
		cliutil.Writef(w, "Messages: %d\n", len(doc.Components.Messages))
		cliutil.Writef(w, "Schemas: %d\n", len(doc.Components.Schemas))
	}
	cliutil.Writef(w, "Convert Time: %v\n\n", result.ConvertTime)
	cliutil.WriteIssues(w, "Conversion Issues", result.Issues)
}

func checkConversion(result *converter.ConversionResult, strict bool) error {
	if !result.Success {
		return fmt.Errorf("conversion failed with %d critical issue(s)", result.CriticalCount)
	}
	if strict && result.WarningCount > 0 {
		return fmt.Errorf("conversion produced %d warning(s) in strict mode", result.WarningCount)
	}
	return nil
}
