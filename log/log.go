// Package log is the engine's structured logger, a thin wrapper over logrus
// so every other package can call log.Debugf/log.Infof/log.Errorf the way
// the original transport layer did without each package importing logrus directly.
package log

import (
	logrus "github.com/sirupsen/logrus"
)

var std = logrus.New()

func init() {
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetLevel adjusts verbosity; callers pass one of the Level constants below.
func SetLevel(level Level) {
	std.SetLevel(logrus.Level(level))
}

// ParseLevel converts a level name ("debug", "info", "warn", ...) into a
// Level, for wiring a -log-level flag straight into SetLevel.
func ParseLevel(name string) (Level, error) {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return 0, err
	}
	return Level(lvl), nil
}

type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func Debug(args ...interface{})            { std.Debug(args...) }
func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
func Info(args ...interface{})             { std.Info(args...) }
func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warn(args ...interface{})             { std.Warn(args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Error(args ...interface{})            { std.Error(args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }

// WithField returns an entry to build up structured context before logging,
// mirroring logrus.WithField for call sites that want more than a message.
func WithField(key string, value interface{}) *logrus.Entry {
	return std.WithField(key, value)
}
