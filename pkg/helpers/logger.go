package helpers

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

// NewLogger returns a text logger in development and a JSON logger elsewhere.
// LOG_LEVEL overrides the level chosen from env.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); err == nil {
		logger.SetLevel(lvl)
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// LogError logs err with its error kind. A nil logger is a no-op so
// services can run without one in tests.
func LogError(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if noLogger(logger) {
		return
	}
	errorEntry(logger, err, fields).Error(msg)
}

// LogWarn is LogError for failures the caller recovers from.
func LogWarn(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if noLogger(logger) {
		return
	}
	errorEntry(logger, err, fields).Warn(msg)
}

// noLogger also catches a nil *Logger or *Entry stored in the interface.
func noLogger(logger logrus.FieldLogger) bool {
	switch l := logger.(type) {
	case nil:
		return true
	case *logrus.Logger:
		return l == nil
	case *logrus.Entry:
		return l == nil
	}
	return false
}

func errorEntry(logger logrus.FieldLogger, err error, fields logrus.Fields) *logrus.Entry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
		fields["kind"] = apperr.KindOf(err)
	}
	return logger.WithFields(fields)
}
