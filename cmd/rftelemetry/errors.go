package main

import (
	"context"
	"errors"
)

// FormatUserError renders an error for the top-level CLI error line. Most
// errors surfaced here are already user-facing (invalid flags, input
// stream failures); an expired context deadline is reported as a timeout.
// Plain context cancellation does not get here, since main() treats a
// clean Ctrl+C as a silent exit.
func FormatUserError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "operation timed out: " + err.Error()
	}
	return err.Error()
}
