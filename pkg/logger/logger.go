package logger

import "log"

// Levels are ordered by severity; a logger prints everything at or above its
// own level. SILENCE drops all output and is meant for tests.
const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type stdLogger struct {
	level int
}

// NewLogger returns a Logger printing to the standard log writer.
func NewLogger(level int) *stdLogger {
	return &stdLogger{level: level}
}

func (l *stdLogger) logf(level int, prefix, msg string, a ...any) {
	if level >= l.level {
		log.Printf(prefix+msg+"\n", a...)
	}
}

func (l *stdLogger) Debugf(msg string, a ...any) {
	l.logf(DEBUG, "DEBUG: ", msg, a...)
}

func (l *stdLogger) Infof(msg string, a ...any) {
	l.logf(INFO, "INFO: ", msg, a...)
}

func (l *stdLogger) Warnf(msg string, a ...any) {
	l.logf(WARNING, "WARN: ", msg, a...)
}

func (l *stdLogger) Errorf(msg string, a ...any) {
	l.logf(ERROR, "ERROR: ", msg, a...)
}
