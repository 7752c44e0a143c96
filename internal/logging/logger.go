// Package logging builds the logrus logger shared by the application.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ytget/ytfetch/internal/config"
)

// Logger wraps a logrus logger and the optional log file behind it.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// NewLogger creates a logger writing to console and, when configured, also
// appending to cfg.File. A nil console discards console output.
func NewLogger(cfg config.LogSettings, console io.Writer) (*Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if console == nil {
		console = io.Discard
	}

	l := &Logger{Logger: logrus.New()}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetOutput(console)

	if cfg.File == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	// Plain text in files, colours only make sense on a terminal.
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	l.SetOutput(io.MultiWriter(console, f))
	return l, nil
}

// Close flushes and closes the log file if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.SetOutput(io.Discard)
	err := l.file.Close()
	l.file = nil
	return err
}
