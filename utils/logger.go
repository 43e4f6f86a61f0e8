// Package utils provides utility functions for the application.
package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileSettings describes the rotation policy for a log file
type LogFileSettings struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRotatingLogger builds a logger that writes to stdout and, when a file path
// is configured, to a size-rotated log file as well.
func NewRotatingLogger(prefix string, settings LogFileSettings) *log.Logger {
	writer := io.Writer(os.Stdout)
	if settings.Path != "" {
		rotated := &lumberjack.Logger{
			Filename:   settings.Path,
			MaxSize:    settings.MaxSizeMB,
			MaxBackups: settings.MaxBackups,
			MaxAge:     settings.MaxAgeDays,
			Compress:   settings.Compress,
		}
		writer = io.MultiWriter(os.Stdout, rotated)
	}
	return log.New(writer, prefix, log.LstdFlags|log.Lmicroseconds|log.LUTC)
}
