package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thushalya/asyncapi-tools-1/generator"
	"github.com/thushalya/asyncapi-tools-1/internal/cliutil"
)

type generateInput struct {
	Document      documentInput `json:"document"                  jsonschema:"The AsyncAPI document to generate a client from"`
	ClientName    string        `json:"client_name,omitempty"     jsonschema:"Name of the generated client class (default: Client)"`
	NoSchemaTypes bool          `json:"no_schema_types,omitempty" jsonschema:"Skip type definitions for components.schemas"`
	OutputDir     string        `json:"output_dir,omitempty"      jsonschema:"Directory to write the generated files to; files are returned inline when empty"`
}

type generatedFileInfo struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

type generateOutput struct {
	Success        bool                `json:"success"`
	Channel        string              `json:"channel"`
	ServiceURL     string              `json:"service_url"`
	AuthMode       string              `json:"auth_mode"`
	OutputDir      string              `json:"output_dir,omitempty"`
	Files          []generatedFileInfo `json:"files"`
	GeneratedTypes int                 `json:"generated_types"`
	Issues         []issueInfo         `json:"issues,omitempty"`
	WarningCount   int                 `json:"warning_count"`
	CriticalCount  int                 `json:"critical_count"`
}

func (s *toolServer) handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	parsed, err := input.Document.resolve(s)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	opts := []generator.Option{
		generator.WithParsed(*parsed),
		generator.WithSchemaTypes(!input.NoSchemaTypes),
		generator.WithIncludeInfo(s.cfg.IncludeInfo),
		generator.WithLogger(s.log),
	}
	if input.ClientName != "" {
		opts = append(opts, generator.WithClientName(input.ClientName))
	}
	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	if input.OutputDir != "" {
		if err := cliutil.CheckOutputPath(input.OutputDir); err != nil {
			return errResult(err), generateOutput{}, nil
		}
		if err := result.WriteFiles(input.OutputDir); err != nil {
			return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
		}
	}

	output := generateOutput{
		Success:        result.Success,
		Channel:        result.Channel,
		ServiceURL:     result.ServiceURL,
		AuthMode:       result.AuthMode.String(),
		OutputDir:      input.OutputDir,
		GeneratedTypes: result.GeneratedTypes,
		Issues:         issueInfos(result.Issues),
		WarningCount:   result.WarningCount,
		CriticalCount:  result.CriticalCount,
	}
	output.Files = make([]generatedFileInfo, 0, len(result.Files))
	for _, f := range result.Files {
		info := generatedFileInfo{Name: f.Name, Size: len(f.Content)}
		if input.OutputDir == "" {
			info.Content = string(f.Content)
		}
		output.Files = append(output.Files, info)
	}
	return nil, output, nil
}
