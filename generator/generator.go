package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/thushalya/asyncapi-tools-1/internal/issues"
	"github.com/thushalya/asyncapi-tools-1/internal/severity"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/syntax"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates features that may not generate perfectly
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates validation errors
	SeverityError = severity.SeverityError
	// SeverityCritical indicates features that cannot be generated
	SeverityCritical = severity.SeverityCritical
)

// GenerateIssue represents a single generation issue or limitation
type GenerateIssue = issues.Issue

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "types.bal", "client.bal")
	Name string
	// Content is the generated source
	Content []byte
}

// GenerateResult contains the results of generating a client from an AsyncAPI document
type GenerateResult struct {
	// Files contains all generated files
	Files []GeneratedFile
	// SourceVersion is the asyncapi version declared by the source document
	SourceVersion string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// SourcePath is the path of the source document; WriteFiles never overwrites it
	SourcePath string
	// Channel is the channel the client connects to
	Channel string
	// ServiceURL is the default service URL baked into the initializer ("/" when none)
	ServiceURL string
	// AuthMode is the auth layout of the generated client
	AuthMode AuthMode
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if generation completed without critical issues
	Success bool
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// GenerateTime is the time taken to generate code
	GenerateTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// GeneratedTypes is the count of type definitions generated
	GeneratedTypes int
}

// HasCriticalIssues returns true if there are any critical issues
func (r *GenerateResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator generates WebSocket client sources from AsyncAPI documents
type Generator struct {
	// ClientName is the name of the generated client class.
	// Default: "Client"
	ClientName string

	// SchemaTypes enables type generation for components.schemas.
	// Default: true
	SchemaTypes bool

	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool

	// Logger receives debug and progress messages.
	// Default: parser.NopLogger
	Logger parser.Logger
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{
		ClientName:  "Client",
		SchemaTypes: true,
		IncludeInfo: true,
		Logger:      parser.NopLogger{},
	}
}

func (g *Generator) log() parser.Logger {
	if g.Logger == nil {
		return parser.NopLogger{}
	}
	return g.Logger
}

// Generate generates a client from an AsyncAPI document file
func (g *Generator) Generate(specPath string) (*GenerateResult, error) {
	p := parser.New()
	p.Logger = g.log()
	parsed, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to parse document: %w", err)
	}
	return g.GenerateParsed(*parsed)
}

// GenerateParsed generates a client from an already-parsed AsyncAPI document.
//
// Generation is fail-fast: an unsupported security scheme, a channel
// without the websocket binding or an unmappable channel parameter aborts
// the run and no files are returned.
func (g *Generator) GenerateParsed(parseResult parser.ParseResult) (*GenerateResult, error) {
	start := time.Now()
	doc := parseResult.Document
	if doc == nil {
		return nil, fmt.Errorf("generator: parse result has no document")
	}

	channel, ch, ok := parseResult.FirstChannel()
	if !ok {
		return nil, fmt.Errorf("generator: document declares no channels")
	}
	log := g.log().With("channel", channel)

	var schemes map[string]*parser.SecurityScheme
	if doc.Components != nil {
		schemes = doc.Components.SecuritySchemes
	}
	res, err := ResolveAuth(schemes)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	log.Debug("resolved auth", "mode", res.Mode().String(), "types", len(res.Types()))

	configs, err := SynthesizeConfigRecords(res)
	if err != nil {
		return nil, err
	}

	params, err := MapChannelParameters(channel, ch, &parseResult)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	serviceURL := ServiceURL(doc)
	seq, err := BuildInit(res, serviceURL, params, channel)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	result := &GenerateResult{
		SourceVersion: parseResult.Version,
		SourceFormat:  parseResult.SourceFormat,
		SourcePath:    parseResult.SourcePath,
		Channel:       channel,
		ServiceURL:    serviceURL,
		AuthMode:      res.Mode(),
		LoadTime:      parseResult.LoadTime,
		SourceSize:    parseResult.SourceSize,
	}

	var schemaTypes []*syntax.TypeDefinition
	if g.SchemaTypes {
		stg := &schemaTypeGenerator{}
		schemaTypes = stg.generateSchemaTypes(parseResult.Schemas())
		result.Issues = append(result.Issues, stg.issues...)
	}
	if len(doc.Channels) > 1 {
		result.Issues = append(result.Issues, GenerateIssue{
			Path:     "channels",
			Message:  fmt.Sprintf("document declares %d channels; client generated for %q only", len(doc.Channels), channel),
			Severity: SeverityWarning,
		})
	}
	if serviceURL == "/" {
		result.Issues = append(result.Issues, GenerateIssue{
			Path:     "servers",
			Message:  "no server URL declared; serviceUrl is a required initializer parameter",
			Severity: SeverityInfo,
		})
	}

	className := g.ClientName
	if className == "" {
		className = "Client"
	}
	result.Files = append(result.Files,
		GeneratedFile{Name: TypesFileName, Content: syntax.RenderFile(buildTypesFile(configs, schemaTypes))},
		GeneratedFile{Name: ClientFileName, Content: syntax.RenderFile(buildClientFile(className, doc.Info, seq))},
	)
	if seq.UsesPathHelper() || seq.UsesQueryHelper {
		utils, err := generateUtils(seq.UsesQueryHelper)
		if err != nil {
			return nil, fmt.Errorf("generator: failed to render %s: %w", UtilsFileName, err)
		}
		result.Files = append(result.Files, GeneratedFile{Name: UtilsFileName, Content: utils})
	}
	result.GeneratedTypes = len(configs) + len(schemaTypes)

	if !g.IncludeInfo {
		filtered := result.Issues[:0]
		for _, i := range result.Issues {
			if i.Severity != SeverityInfo {
				filtered = append(filtered, i)
			}
		}
		result.Issues = filtered
	}
	counts := issues.Count(result.Issues)
	result.InfoCount = counts.Info
	result.WarningCount = counts.Warning
	result.CriticalCount = counts.Critical
	result.Success = counts.Critical == 0
	result.GenerateTime = time.Since(start)

	log.Info("generated client",
		"files", len(result.Files),
		"types", result.GeneratedTypes,
		"params", len(params),
	)
	return result, nil
}

var serverVariablePattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ServiceURL returns the default service URL of a document: the URL of the
// first server by name with variables replaced by their defaults. URLs
// without a scheme get "ws://". "/" is returned when no server is declared.
func ServiceURL(doc *parser.Document) string {
	if doc == nil || len(doc.Servers) == 0 {
		return "/"
	}
	names := make([]string, 0, len(doc.Servers))
	for name := range doc.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	server := doc.Servers[names[0]]
	if server == nil || strings.TrimSpace(server.URL) == "" {
		return "/"
	}

	url := serverVariablePattern.ReplaceAllStringFunc(server.URL, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := server.Variables[name]; ok && v != nil && v.Default != "" {
			return v.Default
		}
		return m
	})
	if !strings.Contains(url, "://") {
		url = "ws://" + url
	}
	return url
}
