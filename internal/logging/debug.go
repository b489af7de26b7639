package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Debug and warning output; replaced in tests
var (
	debugOutput io.Writer = os.Stderr
	warnOutput  io.Writer = os.Stderr
)

// DebugEnabled returns true if debug mode is enabled via TM_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TM_DEBUG") != ""
}

// Debugf prints a formatted debug message on its own line only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
		fmt.Fprintf(debugOutput, "debug: %s\n", line)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintln(debugOutput, append([]interface{}{"debug:"}, args...)...)
	}
}

// Warnf reports a recoverable problem, such as unreadable stored tasks, on stderr.
// Warnings are always printed, debug mode or not.
func Warnf(format string, args ...interface{}) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(warnOutput, "warning: %s\n", line)
}

// SetDebugOutput redirects debug messages and returns a function restoring the previous writer
func SetDebugOutput(w io.Writer) func() {
	previous := debugOutput
	debugOutput = w
	return func() { debugOutput = previous }
}

// SetWarnOutput redirects warnings and returns a function restoring the previous writer
func SetWarnOutput(w io.Writer) func() {
	previous := warnOutput
	warnOutput = w
	return func() { warnOutput = previous }
}
