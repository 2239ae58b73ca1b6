// Package logger provides leveled logging for portfolio-rag.
// Debug and Info messages are printed only in verbose mode (the --verbose
// flag); warnings and errors are always printed so degraded retrievals stay
// visible to operators. Output goes to stderr, leaving stdout for results.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing and for keeping stdio MCP
// transports clean.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(always bool, level, component, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !always && !verbose {
		return
	}
	prefix := "[" + level + "] "
	if component != "" {
		prefix += "[" + component + "] "
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "DEBUG", "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "INFO", "", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf(true, "WARN", "", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	logf(true, "ERROR", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Component tags messages with the subsystem that emitted them.
type Component struct {
	name string
}

// For returns a logger that prefixes messages with [name].
func For(name string) Component {
	return Component{name: name}
}

// Debug prints a tagged message if verbose mode is enabled.
func (c Component) Debug(format string, args ...any) {
	logf(false, "DEBUG", c.name, format, args...)
}

// Info prints a tagged message if verbose mode is enabled.
func (c Component) Info(format string, args ...any) {
	logf(false, "INFO", c.name, format, args...)
}

// Warn prints a tagged warning.
func (c Component) Warn(format string, args ...any) {
	logf(true, "WARN", c.name, format, args...)
}

// Error prints a tagged error.
func (c Component) Error(format string, args ...any) {
	logf(true, "ERROR", c.name, format, args...)
}
