// Package ui styles CLI output.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/livefir/statichtml/internal/diag"
)

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	positionStyle = lipgloss.NewStyle().Faint(true)
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fixItStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).PaddingLeft(2)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Diagnostic renders one diagnostic on one or two lines.
func Diagnostic(d diag.Diagnostic) string {
	label := warningStyle.Render(d.Severity.String())
	if d.Severity >= diag.Error {
		label = errorStyle.Render(d.Severity.String())
	}
	s := fmt.Sprintf("%s %s %s %s",
		positionStyle.Render(d.Pos.String()+":"),
		label,
		d.Message,
		kindStyle.Render("["+string(d.Kind)+"]"))
	if d.FixIt != nil {
		s += "\n" + fixItStyle.Render(fmt.Sprintf("fix: %s: %s", d.FixIt.Message, d.FixIt.Replacement))
	}
	return s
}

// Sink writes styled diagnostics to w as they are reported.
func Sink(w io.Writer) diag.Sink {
	return diag.SinkFunc(func(d diag.Diagnostic) {
		fmt.Fprintln(w, Diagnostic(d))
	})
}

// Success formats a completion message.
func Success(format string, args ...any) string {
	return successStyle.Render(fmt.Sprintf(format, args...))
}

// Header formats a section title.
func Header(title string) string {
	return headerStyle.Render(title)
}
