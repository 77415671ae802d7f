// internal/utils/logger.go
package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogger sets the process-wide logrus level and format. Unknown
// levels fall back to info.
func ConfigureLogger(level, format string) {
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
