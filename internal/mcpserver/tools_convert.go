package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thushalya/asyncapi-tools-1/converter"
	"github.com/thushalya/asyncapi-tools-1/internal/cliutil"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

type convertInput struct {
	Service     serviceInput `json:"service"                jsonschema:"The service tree to convert"`
	ServicePath string       `json:"service_path,omitempty" jsonschema:"Base path of the service to convert when the tree declares several"`
	Format      string       `json:"format,omitempty"       jsonschema:"Inline output format: yaml (default) or json"`
	Output      string       `json:"output,omitempty"       jsonschema:"File to write the document to; the document is returned inline when empty"`
}

type convertOutput struct {
	Success       bool        `json:"success"`
	Title         string      `json:"title"`
	DispatcherKey string      `json:"dispatcher_key"`
	Channels      []string    `json:"channels"`
	MessageCount  int         `json:"message_count"`
	SchemaCount   int         `json:"schema_count"`
	Issues        []issueInfo `json:"issues,omitempty"`
	WarningCount  int         `json:"warning_count"`
	OutputFile    string      `json:"output_file,omitempty"`
	Document      string      `json:"document,omitempty"`
}

func (s *toolServer) handleConvert(_ context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	format := parser.SourceFormatYAML
	switch strings.ToLower(input.Format) {
	case "", "yaml":
	case "json":
		format = parser.SourceFormatJSON
	default:
		return errResult(fmt.Errorf("invalid format %q; valid formats: yaml, json", input.Format)), convertOutput{}, nil
	}

	module, err := input.Service.load(s)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}
	opts := []converter.Option{
		converter.WithModule(module),
		converter.WithIncludeInfo(s.cfg.IncludeInfo),
		converter.WithLogger(s.log),
	}
	if input.ServicePath != "" {
		opts = append(opts, converter.WithServicePath(input.ServicePath))
	}
	result, err := converter.ConvertWithOptions(opts...)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	doc := result.Document
	output := convertOutput{
		Success:       result.Success,
		Title:         doc.Info.Title,
		DispatcherKey: result.DispatcherKey,
		Issues:        issueInfos(result.Issues),
		WarningCount:  result.WarningCount,
	}
	output.Channels = make([]string, 0, len(doc.Channels))
	for name := range doc.Channels {
		output.Channels = append(output.Channels, name)
	}
	sort.Strings(output.Channels)
	if doc.Components != nil {
		output.MessageCount = len(doc.Components.Messages)
		output.SchemaCount = len(doc.Components.Schemas)
	}

	if input.Output != "" {
		if input.Service.File != "" {
			err = cliutil.CheckOutputPath(input.Output, input.Service.File)
		} else {
			err = cliutil.CheckOutputPath(input.Output)
		}
		if err != nil {
			return errResult(err), convertOutput{}, nil
		}
		if err := result.WriteFile(input.Output); err != nil {
			return errResult(err), convertOutput{}, nil
		}
		output.OutputFile = input.Output
		return nil, output, nil
	}

	data, err := result.Marshal(format)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}
	output.Document = string(data)
	return nil, output, nil
}
