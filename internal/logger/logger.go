// Package logger provides logging for rankwatch.
//
// Debug, Info and Warn are diagnostics gated by the --verbose flag.
// Event and Error form the operational log: they are always written,
// timestamped, to the output and to the event log file when one is set.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	mu       sync.RWMutex
	verbose  bool
	output   io.Writer = os.Stderr
	eventLog *os.File
	now      = time.Now
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

// SetOutput sets the output writer for all logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetEventLog appends operational events to the file at path, creating it
// and its directory if needed. An empty path closes the current file.
func SetEventLog(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if eventLog != nil {
		_ = eventLog.Close()
		eventLog = nil
	}
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	eventLog = f
	return nil
}

// CloseEventLog closes the event log file, if any.
func CloseEventLog() error {
	return SetEventLog("")
}

// Event records an operational event.
func Event(format string, args ...any) {
	writeEvent("", format, args...)
}

// Error records a failure in the operational log.
func Error(format string, args ...any) {
	writeEvent("ERROR: ", format, args...)
}

func writeEvent(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()

	line := fmt.Sprintf("[%s] %s%s\n", now().Format(timestampLayout), prefix, fmt.Sprintf(format, args...))
	_, _ = io.WriteString(output, line)
	if eventLog != nil {
		_, _ = eventLog.WriteString(line)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
	}
}
