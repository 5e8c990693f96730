// Package severity provides severity level constants for issues reported by
// the generator and converter packages.
//
// The levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of an issue found while generating a
// client or converting a service.
type Severity int

const (
	// SeverityInfo indicates informational messages about mapping choices,
	// such as a lifecycle handler that was intentionally skipped.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a construct that was mapped with some loss,
	// for example a message record without the dispatcher field.
	SeverityWarning

	// SeverityError indicates a handler or type that could not be mapped.
	// The surrounding document is still produced.
	SeverityError

	// SeverityCritical indicates a failure that invalidates the whole result.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is as severe as, or more severe than, min.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}
