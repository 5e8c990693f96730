package converter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/thushalya/asyncapi-tools-1/internal/fileutil"
	"github.com/thushalya/asyncapi-tools-1/parser"
)

// Marshal encodes the converted document in the given format. Extensions
// such as x-dispatcherKey are kept in both formats.
func (r *ConversionResult) Marshal(format parser.SourceFormat) ([]byte, error) {
	if r.Document == nil {
		return nil, fmt.Errorf("converter: result has no document")
	}
	data, err := yaml.Marshal(r.Document)
	if err != nil {
		return nil, fmt.Errorf("converter: failed to encode document: %w", err)
	}
	if format != parser.SourceFormatJSON {
		return data, nil
	}

	// The JSON tags of the document model skip inline extensions, so the
	// YAML encoding is decoded into generic values and re-encoded.
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("converter: failed to re-read document: %w", err)
	}
	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("converter: failed to encode document as JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// WriteFile writes the converted document to path. A .json extension
// selects JSON output; anything else is written as YAML.
func (r *ConversionResult) WriteFile(path string) error {
	format := parser.SourceFormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = parser.SourceFormatJSON
	}
	data, err := r.Marshal(format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FileName returns the conventional output file name for the converted
// service: the title in lower case followed by _asyncapi.yaml.
func (r *ConversionResult) FileName() string {
	title := "service"
	if r.Document != nil && r.Document.Info != nil && r.Document.Info.Title != "" {
		title = strings.ToLower(r.Document.Info.Title)
	}
	return title + "_asyncapi.yaml"
}
