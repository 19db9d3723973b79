// Package logger provides leveled stderr logging for the Avisearch CLI.
// Debug and info messages are gated by the --verbose flag; warnings
// always print because they mark degraded behavior (unreadable source
// files, tables without an age column, fallback answers) that the user
// should see even in quiet runs.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
)

var levelTags = map[level]string{
	levelDebug: "[DEBUG] ",
	levelInfo:  "[INFO] ",
	levelWarn:  "[WARN] ",
}

var state struct {
	mu      sync.RWMutex
	verbose bool
	out     io.Writer
}

func init() {
	state.out = os.Stderr
}

// SetVerbose enables or disables debug and info output.
func SetVerbose(v bool) {
	state.mu.Lock()
	state.verbose = v
	state.mu.Unlock()
}

// IsVerbose reports whether debug and info output is enabled.
func IsVerbose() bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	state.mu.Lock()
	state.out = w
	state.mu.Unlock()
}

func emit(lv level, format string, args ...any) {
	state.mu.RLock()
	defer state.mu.RUnlock()
	if lv < levelWarn && !state.verbose {
		return
	}
	fmt.Fprintf(state.out, levelTags[lv]+format+"\n", args...)
}

// Debug prints a pipeline trace message in verbose mode.
func Debug(format string, args ...any) {
	emit(levelDebug, format, args...)
}

// Info prints a progress message in verbose mode.
func Info(format string, args ...any) {
	emit(levelInfo, format, args...)
}

// Warn prints a degradation warning. Warnings are never suppressed.
func Warn(format string, args ...any) {
	emit(levelWarn, format, args...)
}

// Section prints a phase header in verbose mode, used to group the
// build pipeline's walk, embed and persist stages.
func Section(name string) {
	state.mu.RLock()
	defer state.mu.RUnlock()
	if state.verbose {
		fmt.Fprintf(state.out, "\n=== %s ===\n", name)
	}
}
