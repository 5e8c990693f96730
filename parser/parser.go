package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/thushalya/asyncapi-tools-1/asyncerrors"
)

// MaxFileSize is the maximum size (in bytes) accepted for a document.
const MaxFileSize = 10 * 1024 * 1024

// SourceFormat represents the format of the source document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Parser handles AsyncAPI document parsing.
type Parser struct {
	// ValidateStructure enables the basic structural checks performed after decoding
	ValidateStructure bool
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Parser instance with default settings.
func New() *Parser {
	return &Parser{ValidateStructure: true}
}

func (p *Parser) log() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

// ParseResult contains a parsed AsyncAPI document and its metadata.
type ParseResult struct {
	// SourcePath is the document's input source path
	SourcePath string
	// SourceFormat is the format of the source document
	SourceFormat SourceFormat
	// Version is the asyncapi version string declared by the document
	Version string
	// Document is the decoded document
	Document *Document
	// ChannelOrder lists the channel names in the order they appear in the source
	ChannelOrder []string
	// LoadTime is the time taken to load and decode the document
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64

	// baseDir anchors relative external references
	baseDir string
	refs    *refResolver
}

// FirstChannel returns the first channel in document order.
func (pr *ParseResult) FirstChannel() (string, *Channel, bool) {
	if pr.Document == nil {
		return "", nil, false
	}
	for _, name := range pr.ChannelOrder {
		if ch, ok := pr.Document.Channels[name]; ok {
			return name, ch, true
		}
	}
	return "", nil, false
}

// Parse parses an AsyncAPI document from a file path.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	info, err := os.Stat(specPath)
	if err != nil {
		return nil, &asyncerrors.ParseError{Path: specPath, Message: "failed to stat file", Cause: err}
	}
	if info.Size() > MaxFileSize {
		return nil, &asyncerrors.ParseError{
			Path:    specPath,
			Message: fmt.Sprintf("file size %d exceeds maximum of %d bytes", info.Size(), MaxFileSize),
		}
	}
	data, err := os.ReadFile(specPath) //nolint:gosec // user supplied document path
	if err != nil {
		return nil, &asyncerrors.ParseError{Path: specPath, Message: "failed to read file", Cause: err}
	}
	result, err := p.parseBytes(data, specPath, filepath.Dir(specPath))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ParseReader parses an AsyncAPI document from an io.Reader.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, &asyncerrors.ParseError{Path: "ParseReader.yaml", Message: "failed to read data", Cause: err}
	}
	if len(data) > MaxFileSize {
		return nil, &asyncerrors.ParseError{Path: "ParseReader.yaml", Message: "input exceeds maximum size"}
	}
	return p.parseBytes(data, "ParseReader.yaml", ".")
}

// ParseBytes parses an AsyncAPI document from a byte slice.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	return p.parseBytes(data, "ParseBytes.yaml", ".")
}

func (p *Parser) parseBytes(data []byte, sourcePath, baseDir string) (*ParseResult, error) {
	start := time.Now()
	log := p.log().With("source", sourcePath)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &asyncerrors.ParseError{Path: sourcePath, Message: "invalid YAML/JSON", Cause: err}
	}

	var doc Document
	if err := root.Decode(&doc); err != nil {
		return nil, &asyncerrors.ParseError{Path: sourcePath, Message: "failed to decode document", Cause: err}
	}

	result := &ParseResult{
		SourcePath:   sourcePath,
		SourceFormat: detectFormat(data),
		Version:      doc.AsyncAPI,
		Document:     &doc,
		ChannelOrder: mappingKeys(&root, "channels"),
		SourceSize:   int64(len(data)),
		baseDir:      baseDir,
	}
	result.refs = newRefResolver(result)

	if p.ValidateStructure {
		if err := validateStructure(&doc, sourcePath); err != nil {
			return nil, err
		}
	}

	result.LoadTime = time.Since(start)
	log.Debug("parsed asyncapi document",
		"version", result.Version,
		"channels", len(result.ChannelOrder),
		"format", result.SourceFormat)
	return result, nil
}

func validateStructure(doc *Document, sourcePath string) error {
	if doc.AsyncAPI == "" {
		return &asyncerrors.ParseError{Path: sourcePath, Message: "missing required field 'asyncapi'"}
	}
	if !strings.HasPrefix(doc.AsyncAPI, "2.") {
		return &asyncerrors.ParseError{
			Path:    sourcePath,
			Message: fmt.Sprintf("unsupported asyncapi version %q: only 2.x documents are supported", doc.AsyncAPI),
		}
	}
	if len(doc.Channels) == 0 {
		return &asyncerrors.ParseError{Path: sourcePath, Message: "document declares no channels"}
	}
	return nil
}

// mappingKeys returns the keys of the top-level mapping named key, in source order.
func mappingKeys(root *yaml.Node, key string) []string {
	n := root
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != key {
			continue
		}
		value := n.Content[i+1]
		if value.Kind != yaml.MappingNode {
			return nil
		}
		keys := make([]string, 0, len(value.Content)/2)
		for j := 0; j+1 < len(value.Content); j += 2 {
			keys = append(keys, value.Content[j].Value)
		}
		return keys
	}
	return nil
}

func detectFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
