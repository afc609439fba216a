// Package logging builds the process logger handed to the engine and the
// CLI. Workers log through it concurrently, so every logger returned here
// is safe for shared use.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config controls logger construction.
type Config struct {
	// Level is one of silent, error, warn, info, debug. Unknown values
	// fall back to info.
	Level string

	// Output defaults to stderr so log lines never interleave with the
	// progress display on stdout.
	Output io.Writer

	// JSON switches from the text formatter to JSON lines.
	JSON bool
}

// New builds a configured logrus logger.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)
	l.SetLevel(ParseLevel(cfg.Level))

	if cfg.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	}

	return l
}

// ParseLevel maps a configuration string onto a logrus level.
func ParseLevel(level string) logrus.Level {
	switch level {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Nop returns a logger that discards everything.
func Nop() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
