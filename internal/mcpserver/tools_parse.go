package mcpserver

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.yaml.in/yaml/v4"

	"github.com/thushalya/asyncapi-tools-1/converter"
	"github.com/thushalya/asyncapi-tools-1/generator"
)

type parseInput struct {
	Document documentInput `json:"document"       jsonschema:"The AsyncAPI document to parse"`
	Full     bool          `json:"full,omitempty" jsonschema:"Return the decoded document as YAML in addition to the summary"`
}

type parseOutput struct {
	Version         string   `json:"version"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Format          string   `json:"format"`
	Channels        []string `json:"channels"`
	ClientChannel   string   `json:"client_channel"`
	ServiceURL      string   `json:"service_url"`
	MessageCount    int      `json:"message_count"`
	SchemaCount     int      `json:"schema_count"`
	SecuritySchemes []string `json:"security_schemes,omitempty"`
	DispatcherKey   string   `json:"dispatcher_key,omitempty"`
	FullDocument    string   `json:"full_document,omitempty"`
}

func (s *toolServer) handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	result, err := input.Document.resolve(s)
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}
	doc := result.Document

	output := parseOutput{
		Version:    result.Version,
		Format:     string(result.SourceFormat),
		Channels:   result.ChannelOrder,
		ServiceURL: generator.ServiceURL(doc),
	}
	if name, _, ok := result.FirstChannel(); ok {
		output.ClientChannel = name
	}
	if doc.Info != nil {
		output.Title = doc.Info.Title
		output.Description = doc.Info.Description
	}
	if c := doc.Components; c != nil {
		output.MessageCount = len(c.Messages)
		output.SchemaCount = len(c.Schemas)
		for name := range c.SecuritySchemes {
			output.SecuritySchemes = append(output.SecuritySchemes, name)
		}
		sort.Strings(output.SecuritySchemes)
	}
	if key, ok := doc.Extra[converter.DispatcherKeyExtension].(string); ok {
		output.DispatcherKey = key
	}

	if input.Full {
		data, err := yaml.Marshal(doc)
		if err != nil {
			return errResult(fmt.Errorf("failed to encode document: %w", err)), parseOutput{}, nil
		}
		output.FullDocument = string(data)
	}
	return nil, output, nil
}
