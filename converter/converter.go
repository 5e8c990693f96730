package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/thushalya/asyncapi-tools-1/internal/issues"
	"github.com/thushalya/asyncapi-tools-1/internal/naming"
	"github.com/thushalya/asyncapi-tools-1/internal/severity"
	"github.com/thushalya/asyncapi-tools-1/parser"
	"github.com/thushalya/asyncapi-tools-1/service"
)

// Severity indicates the severity level of a conversion issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about conversion choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates handlers or types that were skipped or degraded
	SeverityWarning = severity.SeverityWarning
	// SeverityCritical indicates constructs that cannot be converted (data loss)
	SeverityCritical = severity.SeverityCritical
)

// ConversionIssue represents a single conversion issue or limitation
type ConversionIssue = issues.Issue

// TargetVersion is the asyncapi version of converted documents.
const TargetVersion = "2.5.0"

// DispatcherKeyExtension is the document extension carrying the dispatcher key.
const DispatcherKeyExtension = "x-dispatcherKey"

// ConversionResult contains the results of converting a service declaration
// into an AsyncAPI document
type ConversionResult struct {
	// Document is the converted AsyncAPI document
	Document *parser.Document
	// Service is the base path of the converted service
	Service string
	// DispatcherKey is the dispatcher field name read from the service annotation
	DispatcherKey string
	// Issues contains all conversion issues
	Issues []ConversionIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if conversion completed without critical issues
	Success bool
	// ConvertTime is the time taken to walk the service
	ConvertTime time.Duration
}

// HasCriticalIssues returns true if there are any critical issues
func (r *ConversionResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *ConversionResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// Converter turns host service declarations into AsyncAPI documents
type Converter struct {
	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool
	// ServicePath selects the service to convert by base path.
	// Default: the first service of the module
	ServicePath string
	// Logger receives debug and progress messages.
	// Default: parser.NopLogger
	Logger parser.Logger
}

// New creates a new Converter instance with default settings
func New() *Converter {
	return &Converter{
		IncludeInfo: true,
		Logger:      parser.NopLogger{},
	}
}

func (c *Converter) log() parser.Logger {
	if c.Logger == nil {
		return parser.NopLogger{}
	}
	return c.Logger
}

// Convert converts the service tree stored at path.
func (c *Converter) Convert(path string) (*ConversionResult, error) {
	m, err := service.Load(path)
	if err != nil {
		return nil, fmt.Errorf("converter: failed to load service tree: %w", err)
	}
	return c.ConvertModule(m)
}

// ConvertModule converts one service of an already decoded module.
//
// A service without a usable dispatcher key fails the run. Failures of
// individual handlers are reported as issues and the walk continues with
// the next handler.
func (c *Converter) ConvertModule(m *service.Module) (*ConversionResult, error) {
	start := time.Now()
	if m == nil || len(m.Services) == 0 {
		return nil, fmt.Errorf("converter: module declares no services")
	}

	svc := m.Services[0]
	if c.ServicePath != "" {
		if svc = m.Service(c.ServicePath); svc == nil {
			return nil, fmt.Errorf("converter: no service mounted at %q", c.ServicePath)
		}
	}
	log := c.log().With("service", svc.BasePath)

	key, err := ExtractDispatcherKey(svc)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}

	w := newWalker(m, svc, key)
	if len(m.Services) > 1 && c.ServicePath == "" {
		w.addIssue("services", fmt.Sprintf("module declares %d services; converted %q only", len(m.Services), svc.BasePath), SeverityInfo)
	}
	w.walk()

	doc := &parser.Document{
		AsyncAPI: TargetVersion,
		Info:     &parser.Info{Title: Title(svc.BasePath), Version: "0.1.0", Description: strings.TrimSpace(svc.Doc)},
		Channels: w.channels,
		Extra:    map[string]any{DispatcherKeyExtension: key},
	}
	if len(w.schemas.schemas) > 0 || len(w.messages) > 0 {
		doc.Components = &parser.Components{}
		if len(w.schemas.schemas) > 0 {
			doc.Components.Schemas = w.schemas.schemas
		}
		if len(w.messages) > 0 {
			doc.Components.Messages = w.messages
		}
	}

	result := &ConversionResult{
		Document:      doc,
		Service:       svc.BasePath,
		DispatcherKey: key,
		Issues:        w.issues,
	}
	if !c.IncludeInfo {
		filtered := make([]ConversionIssue, 0, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Severity != SeverityInfo {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
	}
	counts := issues.Count(result.Issues)
	result.InfoCount = counts.Info
	result.WarningCount = counts.Warning
	result.CriticalCount = counts.Critical
	result.Success = counts.Critical == 0
	result.ConvertTime = time.Since(start)

	log.Info("converted service",
		"channels", len(doc.Channels),
		"messages", len(w.messages),
		"schemas", len(w.schemas.schemas),
		"issues", len(result.Issues),
	)
	return result, nil
}

// Title derives the document title from a service base path:
// "/chat-rooms" becomes "ChatRooms". The root path yields "Service".
func Title(basePath string) string {
	if t := naming.ToPascalCase(strings.Trim(basePath, "/")); t != "" {
		return t
	}
	return "Service"
}
