// Package issues provides the issue type shared by the generator and converter.
package issues

import (
	"fmt"

	"github.com/thushalya/asyncapi-tools-1/internal/severity"
)

// Issue represents a single non-fatal finding made while mapping a document
// or a service declaration.
type Issue struct {
	// Path locates the construct (e.g., "channels./chat.publish" or "service./chat.onSubscribe")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field is the specific field or member name that has the issue
	Field string
	// Context provides additional information about the issue (optional)
	Context string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	result := fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}
	return result
}

// Counts tallies issues per severity.
type Counts struct {
	Info     int
	Warning  int
	Error    int
	Critical int
}

// Count returns the per-severity totals of list.
func Count(list []Issue) Counts {
	var c Counts
	for _, i := range list {
		switch i.Severity {
		case severity.SeverityInfo:
			c.Info++
		case severity.SeverityWarning:
			c.Warning++
		case severity.SeverityError:
			c.Error++
		case severity.SeverityCritical:
			c.Critical++
		}
	}
	return c
}
