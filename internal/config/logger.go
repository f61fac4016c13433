package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		logg.SetLevel(logrus.DebugLevel)
	case "warn":
		logg.SetLevel(logrus.WarnLevel)
	case "error":
		logg.SetLevel(logrus.ErrorLevel)
	default:
		logg.SetLevel(logrus.InfoLevel)
	}
}

func Log() *logrus.Logger {
	return logg
}

// LogIntegrityWarning records a non-fatal data problem (e.g. a line pointing
// at a deleted tax). The triggering operation continues.
func LogIntegrityWarning(module, funcName string, data any, err error) {
	logg.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
		"data":     data,
	}).Warn(err.Error())
}

func LogError(module, funcName string, data any, err error) {
	logg.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
		"data":     data,
	}).Error(err.Error())
}
