package main

import "log"

// engineLogger adapts the two stdlib loggers to the engine's interface.
type engineLogger struct {
	info *log.Logger
	err  *log.Logger
}

func (l *engineLogger) Infof(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l *engineLogger) Errorf(format string, args ...interface{}) {
	l.err.Printf(format, args...)
}
