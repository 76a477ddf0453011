// Package logging configures the process-wide slog logger: console plus a
// log file, with an optional GELF handler shipping records to Graylog.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// Manager owns the configured logger and the resources behind it.
type Manager struct {
	logger  *slog.Logger
	logFile *os.File
}

// NewManager creates an unconfigured logging manager.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes logging to stdout and a file under logsDir. When
// graylogAddr is non-empty a GELF handler is added so records also reach
// Graylog.
func (m *Manager) Setup(level, logsDir, graylogAddr string) error {
	lvl := parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))

	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return fmt.Errorf("creating logs dir: %w", err)
		}
		file, err := os.OpenFile(
			filepath.Join(logsDir, "broadside.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		m.logFile = file
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	if graylogAddr != "" {
		gelfWriter, err := gelf.NewWriter(graylogAddr)
		if err != nil {
			return fmt.Errorf("connecting to graylog: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(gelfWriter, handlerOpts))
	}

	m.logger = slog.New(newMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", level)
	return nil
}

// SetupWriter configures logging to a single writer. Used by tests and
// tools that manage their own output.
func (m *Manager) SetupWriter(w io.Writer, level string) {
	m.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// Logger returns the configured slog.Logger, or the default logger when
// Setup has not been called.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Close releases the log file, if one was opened.
func (m *Manager) Close() error {
	if m.logFile != nil {
		return m.logFile.Close()
	}
	return nil
}
