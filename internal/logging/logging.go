package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupLogging returns a text logger writing to out. An unknown level
// falls back to warn.
func SetupLogging(out io.Writer, level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logger := logrus.Logger{
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:      out,
		Hooks:    make(logrus.LevelHooks),
		Level:    lvl,
		ExitFunc: func(int) {},
	}

	return &logger
}
