package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	isVerbose bool
	logger    = newLogger(os.Stderr)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	return l
}

func SetVerbose(verbose bool) {
	isVerbose = verbose
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

func IsVerbose() bool {
	return isVerbose
}

// SetOutput redirects all log output, mainly so the terminal demo can keep
// log lines off the screen it owns.
func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

func Verbose(format string, args ...interface{}) {
	if isVerbose {
		logger.Debugf(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Error(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
