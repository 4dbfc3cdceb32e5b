package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kdduha/regression-plot/internal/config"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// New builds the process logger. The config is expected to be validated, an
// unknown level falls back to info.
func New(cfg config.LogConfig) *logrus.Logger {
	return newWithOutput(cfg, os.Stdout)
}

func newWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	}
	return l
}
