package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

var currentLogLevel string = LevelInfo

// stdout carries image data, so everything goes to stderr.
var logger = log.New(os.Stderr, "", 0)

// Log level constants
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levels = []string{LevelDebug, LevelInfo, LevelWarn, LevelError}

// SetLevel sets the global logging level. Unknown levels fall back to info.
func SetLevel(level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range levels {
		if l == level {
			currentLogLevel = level
			return
		}
	}
	currentLogLevel = LevelInfo
}

// Level returns the active level.
func Level() string { return currentLogLevel }

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if shouldLog(LevelDebug) {
		logger.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if shouldLog(LevelInfo) {
		logger.Printf(format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if shouldLog(LevelWarn) {
		logger.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if shouldLog(LevelError) {
		logger.Printf("[ERROR] "+format, args...)
	}
}

func shouldLog(level string) bool {
	currentIndex := -1
	levelIndex := -1

	for i, l := range levels {
		if l == currentLogLevel {
			currentIndex = i
		}
		if l == level {
			levelIndex = i
		}
	}

	return levelIndex >= currentIndex
}
