package logging

import (
	"github.com/sirupsen/logrus"
)

// Wrap runs a command body between Start and Complete/Error log lines
// carrying the run's fields and its duration. The body's error is returned
// untouched; the caller prints it, so the Error line stays at debug level.
func Wrap(
	commandName string,
	log *logrus.Logger,
	body func(*LogData) error,
) func() error {
	return func() error {
		logData := NewLogData(log)
		logData.AddData(FieldComponent, ComponentCLI)
		logData.Log().Debugf("Command.%v.Start", commandName)

		endTimer := logData.AddTiming("duration")
		err := body(logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Debugf("Command.%v.Error", commandName)
			return err
		}

		logData.Log().Infof("Command.%v.Complete", commandName)
		return nil
	}
}
