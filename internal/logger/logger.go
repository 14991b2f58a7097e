// Package logger provides verbose logging for the Inkstone CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow annotation tracking and
// workspace scans.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var verbose atomic.Bool

var (
	outMu  sync.Mutex
	output io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	return verbose.Load()
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	output = w
}

// logf writes one prefixed line if verbose mode is enabled. The writer
// lock keeps concurrent lines from interleaving.
func logf(prefix, format string, args ...any) {
	if !verbose.Load() {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	if !verbose.Load() {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}
