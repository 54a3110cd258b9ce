package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitual/internal/logger"
)

// Format renders err with the "Error: " prefix used for all command failures.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Hint suggests a follow-up command for errors the user can act on.
func Hint(err error) string {
	switch {
	case IsPersistence(err):
		return "Run 'habitual doctor' to check the database."
	case IsNotFound(err):
		return "Run 'habitual habit list' to see your habits."
	}
	return ""
}

// Report writes the formatted error and its hint, if any, to w.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
}

// Fatal logs err, reports it on stderr and exits with status 1.
func Fatal(err error) {
	if err == nil {
		return
	}
	if IsValidation(err) {
		logger.Debug("Command rejected input", "error", err)
	} else {
		logger.Error("Command execution failed", "error", err)
	}
	Report(os.Stderr, err)
	os.Exit(1)
}
