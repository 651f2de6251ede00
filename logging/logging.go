// Package logging builds the console and file loggers used by stanalyzer.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the sink the analysis packages log through. *log.Logger
// satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Levels lists the level names accepted on the command line.
var Levels = []string{"default", "debug", "info", "warning", "error"}

// ParseLevel maps a command line level name to a log level. "default" is
// info and "warning" is an alias for warn.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q (want one of %s)", name, strings.Join(Levels, ", "))
	}
	return lvl, nil
}

// New returns a console logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "stanalyzer",
		Level:  level,
	})
}

// NewFile opens path for appending and returns a logfmt logger that records
// everything down to debug. The caller closes the returned file.
func NewFile(path string) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f, nil
}

// Nop returns a logger that drops everything.
func Nop() *log.Logger {
	return log.New(io.Discard)
}

// Multi fans every entry out to each of its loggers.
type Multi []Logger

func (m Multi) Debug(msg interface{}, keyvals ...interface{}) {
	for _, l := range m {
		l.Debug(msg, keyvals...)
	}
}

func (m Multi) Info(msg interface{}, keyvals ...interface{}) {
	for _, l := range m {
		l.Info(msg, keyvals...)
	}
}

func (m Multi) Warn(msg interface{}, keyvals ...interface{}) {
	for _, l := range m {
		l.Warn(msg, keyvals...)
	}
}

func (m Multi) Error(msg interface{}, keyvals ...interface{}) {
	for _, l := range m {
		l.Error(msg, keyvals...)
	}
}
