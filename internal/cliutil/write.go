// Package cliutil provides output helpers shared by the asyncapi-tools
// commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/thushalya/asyncapi-tools-1/internal/issues"
	"github.com/thushalya/asyncapi-tools-1/internal/severity"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Success writes a "✓ msg" status line.
func Success(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", okColor.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Failure writes a "✗ msg" status line.
func Failure(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", failColor.Sprint("✗"), fmt.Sprintf(format, args...))
}

// WriteIssues lists issues under a heading, colouring each line by
// severity. Nothing is written for an empty list.
func WriteIssues(w io.Writer, heading string, list []issues.Issue) {
	if len(list) == 0 {
		return
	}
	Writef(w, "%s (%d):\n", heading, len(list))
	for _, i := range list {
		Writef(w, "  %s\n", severityColor(i.Severity).Sprint(i.String()))
	}
	Writef(w, "\n")
}

func severityColor(s severity.Severity) *color.Color {
	switch s {
	case severity.SeverityError, severity.SeverityCritical:
		return failColor
	case severity.SeverityWarning:
		return warnColor
	default:
		return infoColor
	}
}

// CheckOutputPath rejects an output path that would overwrite one of the
// inputs or that is a symlink.
func CheckOutputPath(output string, inputs ...string) error {
	absOut, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	for _, in := range inputs {
		absIn, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", in, err)
		}
		if absOut == absIn {
			return fmt.Errorf("output %s would overwrite input %s", output, in)
		}
	}
	info, err := os.Lstat(output)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to write to symlink: %s", output)
	}
	return nil
}
