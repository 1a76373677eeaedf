// Package log wraps logrus with the application's level and format settings.
// Until Setup is called all output is discarded, so library packages can log
// freely without writing to a caller's terminal.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields is an alias so callers do not import logrus directly.
type Fields = logrus.Fields

var logger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup configures output, level and format. An unknown level falls back to info.
func Setup(w io.Writer, level string, json bool) {
	l := logrus.New()
	l.SetOutput(w)

	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	logger = l
}

// Logger returns the configured logger.
func Logger() *logrus.Logger { return logger }

func WithFields(f Fields) *logrus.Entry { return logger.WithFields(f) }

func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
