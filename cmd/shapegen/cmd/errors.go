package cmd

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/domain/shape"
)

// Exit codes.
const (
	exitError  = 1
	exitSyntax = 2 // malformed shape string
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	var se *shape.SyntaxError
	if errors.As(err, &se) {
		return exitSyntax
	}
	return exitError
}

// formatError renders err plus any hints attached along the chain.
func formatError(err error) string {
	var sb strings.Builder
	sb.WriteString("error: ")
	sb.WriteString(err.Error())
	for _, h := range errors.GetAllHints(err) {
		sb.WriteString("\n")
		for _, line := range strings.Split(h, "\n") {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock explains a lock timeout on the run store.
func diagnoseDBLock() string {
	return "the run store is locked by another shapegen process\n" +
		"  → a running `shapegen watch` holds it; stop it first\n" +
		"  → or point this command elsewhere: SHAPEGEN_DB_PATH=/tmp/other.db"
}
