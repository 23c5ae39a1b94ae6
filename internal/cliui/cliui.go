// Package cliui holds a small cosmetic helper for the diagnostic stream
// (stderr start/stop banners). Nothing here ever touches the NDJSON
// observation stream — color only decorates the text a human watches in
// a terminal, the same narrow role github.com/fatih/color plays in the
// teacher's own text-diff assertions.
package cliui

import "github.com/fatih/color"

var bannerColor = color.New(color.FgCyan, color.Bold)

// Banner formats a startup/shutdown banner line for stderr logging.
func Banner(format string, args ...any) string {
	return bannerColor.Sprintf(format, args...)
}
