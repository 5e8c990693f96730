package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	asyncapitools "github.com/thushalya/asyncapi-tools-1"
	"github.com/thushalya/asyncapi-tools-1/generator"
	"github.com/thushalya/asyncapi-tools-1/internal/cliutil"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Output     string
	ClientName string
	NoTypes    bool
	Strict     bool
	NoWarnings bool
	Verbose    bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Output, "o", "", "output directory for generated files (required)")
	fs.StringVar(&flags.Output, "output", "", "output directory for generated files (required)")
	fs.StringVar(&flags.ClientName, "n", "Client", "name of the generated client class")
	fs.StringVar(&flags.ClientName, "client-name", "Client", "name of the generated client class")
	fs.BoolVar(&flags.NoTypes, "no-types", false, "don't generate types for components.schemas")
	fs.BoolVar(&flags.Strict, "strict", false, "fail on any generation issues (even warnings)")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress info messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log generation progress to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: asyncapi-tools generate [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Generate a WebSocket client from an AsyncAPI 2.x document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools generate -o ./client chat.yaml\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools generate -o ./client --client-name ChatClient chat.yaml\n")
		cliutil.Writef(fs.Output(), "  asyncapi-tools convert -o - chat_service.yaml | asyncapi-tools generate -o ./client -\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - The client connects to the first channel of the document\n")
		cliutil.Writef(fs.Output(), "  - utils.bal is only written when the channel needs URL helpers\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if flags.Output == "" {
		fs.Usage()
		return fmt.Errorf("output directory is required (use -o or --output)")
	}
	if err := cliutil.CheckOutputPath(flags.Output, specPath); err != nil {
		return err
	}

	logger, flush, err := NewLogger(flags.Verbose)
	if err != nil {
		return err
	}
	defer flush()

	startTime := time.Now()
	parseOpts := []parser.Option{parser.WithLogger(logger)}
	if specPath == StdinFilePath {
		parseOpts = append(parseOpts, parser.WithReader(os.Stdin))
	} else {
		parseOpts = append(parseOpts, parser.WithFilePath(specPath))
	}
	parsed, err := parser.ParseWithOptions(parseOpts...)
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	result, err := generator.GenerateWithOptions(
		generator.WithParsed(*parsed),
		generator.WithClientName(flags.ClientName),
		generator.WithSchemaTypes(!flags.NoTypes),
		generator.WithIncludeInfo(!flags.NoWarnings),
		generator.WithLogger(logger),
	)
	totalTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("generating client: %w", err)
	}

	fmt.Printf("AsyncAPI Client Generator\n")
	fmt.Printf("=========================\n\n")
	fmt.Printf("asyncapi-tools version: %s\n", asyncapitools.Version())
	fmt.Printf("Document: %s\n", FormatInputPath(specPath))
	fmt.Printf("AsyncAPI Version: %s\n", result.SourceVersion)
	fmt.Printf("Source Size: %d bytes\n", result.SourceSize)
	fmt.Printf("Channel: %s\n", result.Channel)
	fmt.Printf("Service URL: %s\n", result.ServiceURL)
	fmt.Printf("Auth: %s\n", result.AuthMode)
	fmt.Printf("Types: %d\n", result.GeneratedTypes)
	fmt.Printf("Total Time: %v\n\n", totalTime)

	cliutil.WriteIssues(os.Stdout, "Generation Issues", result.Issues)

	if !result.Success {
		cliutil.Failure(os.Stdout, "Generation failed with %d critical issue(s)", result.CriticalCount)
		return fmt.Errorf("generation failed with %d critical issue(s)", result.CriticalCount)
	}
	if flags.Strict && result.WarningCount > 0 {
		cliutil.Failure(os.Stdout, "Generation produced %d warning(s) in strict mode", result.WarningCount)
		return fmt.Errorf("generation produced %d warning(s) in strict mode", result.WarningCount)
	}

	if err := result.WriteFiles(flags.Output); err != nil {
		return fmt.Errorf("writing files: %w", err)
	}

	fmt.Printf("Generated Files (%d):\n", len(result.Files))
	for _, file := range result.Files {
		fmt.Printf("  - %s/%s (%d bytes)\n", flags.Output, file.Name, len(file.Content))
	}
	fmt.Println()

	if result.InfoCount > 0 || result.WarningCount > 0 {
		cliutil.Success(os.Stdout, "Generation successful (%d info, %d warnings)", result.InfoCount, result.WarningCount)
	} else {
		cliutil.Success(os.Stdout, "Generation successful")
	}
	return nil
}
