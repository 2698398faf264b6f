package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/gate"
	"github.com/thomas-vilte/docdrift/internal/i18n"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Dim     = color.New(color.FgHiBlack)
)

func PrintSuccess(w io.Writer, msg string) {
	_, _ = Success.Fprintf(w, "✅ %s\n", msg)
}

func PrintError(w io.Writer, msg string) {
	_, _ = Error.Fprintf(w, "❌ %s\n", msg)
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = Warning.Fprintf(w, "⚠️  %s\n", msg)
}

// PrintOutcome prints msg styled after the gate outcome.
func PrintOutcome(w io.Writer, outcome gate.Outcome, msg string) {
	switch outcome {
	case gate.OutcomeFail:
		PrintError(w, msg)
	case gate.OutcomeWarn:
		PrintWarning(w, msg)
	default:
		PrintSuccess(w, msg)
	}
}

// HandleAppError prints err, with its details and suggestion when it is a
// domain error.
func HandleAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	_, _ = Error.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)

	if detail, ok := appErr.Context["detail"].(string); ok && detail != "" {
		_, _ = Dim.Fprintf(w, "   %s\n", detail)
	}
	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "   %s: %v\n", t.GetMessage("ui_error.details", 0, nil), appErr.Err)
	}

	if appErr.Suggestion != "" {
		_, _ = Info.Fprintf(w, "💡 %s ", t.GetMessage("ui_error.try_suggestion", 0, nil))
		for i, line := range strings.Split(appErr.Suggestion, "\n") {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
}
