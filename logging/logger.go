package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

var discard = newDiscard()

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func BoostrapLogger() {
	Log = &logrus.Logger{
		Out:   nil,
		Hooks: make(logrus.LevelHooks),
		Formatter: &logrus.TextFormatter{
			DisableColors:    false,
			DisableQuote:     false,
			DisableTimestamp: false,
			FullTimestamp:    false,
			TimestampFormat:  "",
		},
		ReportCaller: false,
		Level:        logrus.DebugLevel,
		ExitFunc:     os.Exit,
	}

	Log.SetReportCaller(true)
	Log.Out = os.Stdout
}

// SetLevel applies a textual level such as "info" or "warn". Unknown levels
// leave the current level untouched.
func SetLevel(level string) {
	if Log == nil || level == "" {
		return
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Log.Warnf("LOGGING: unknown level %q, keeping %s", level, Log.GetLevel())
		return
	}
	Log.SetLevel(parsed)
}

// Logger returns the global logger, or a discarding one when the logger was
// never bootstrapped (library use without the service).
func Logger() *logrus.Logger {
	if Log != nil {
		return Log
	}
	return discard
}
