package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	LevelEnvVar = "LOG_LEVEL"
	ServiceKey  = "service"
)

var (
	base *logrus.Logger
	once sync.Once
)

//
// Base returns the process-wide logrus logger that every service logger derives from. Its level is
// read from the LOG_LEVEL environment variable the first time it is requested and defaults to
// "info".
//
func Base() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006/01/02 15:04:05",
		})

		level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(os.Getenv(LevelEnvVar))))
		if err != nil {
			level = logrus.InfoLevel
		}

		base.SetLevel(level)
	})

	return base
}

//
// New returns a log entry tagged with the provided service name (e.g. "≪web-client≫").
//
func New(name string) *logrus.Entry {
	return Base().WithField(ServiceKey, name)
}

//
// SetVerbose toggles debug level output on the base logger.
//
func SetVerbose(verbose bool) {
	if verbose {
		Base().SetLevel(logrus.DebugLevel)
	}
}
