// Package log provides the logging facade used throughout the core. It
// wraps logrus with formatter options suited to plain terminal output:
// no colour, no timestamp, no quoting, fields left unsorted.
package log

import "github.com/sirupsen/logrus"

// Logger is the logging surface the core depends on. Components never
// import logrus directly; they take a Logger so tests can swap in
// NewNullLogger.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus with plain-text formatting.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return &logger{l: l}
}

func (lg *logger) Infof(format string, args ...interface{}) {
	lg.l.Infof(format, args...)
}

func (lg *logger) Errorf(format string, args ...interface{}) {
	lg.l.Errorf(format, args...)
}

func (lg *logger) Debugf(format string, args ...interface{}) {
	lg.l.Debugf(format, args...)
}
