// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New creates a configured logger writing to the given destination.
// Unknown level names fall back to info.
func New(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(out)

	return log
}
