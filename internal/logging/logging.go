// ABOUTME: Structured file logger for background activity.
// ABOUTME: Logrus writing to a rotating file so CLI stdout stays clean for user output.
package logging

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to a rotating file under dataDir. Poll
// failures and session transitions land here instead of cluttering the
// terminal.
func New(dataDir string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	if err := os.MkdirAll(dataDir, 0750); err != nil {
		// Fall back to stderr rather than failing the command.
		log.SetOutput(os.Stderr)
		return log
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "gymlog.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	})
	return log
}
