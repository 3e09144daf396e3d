package logging

import (
	"sync"
)

// Logger stores and displays the output of the checker and interpreter.
type Logger struct {
	errorCount int
	LogLevel   int

	// warnings are held back and displayed with the summary
	warnings []LogMessage

	m *sync.Mutex
}

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only errors and the closing summary
	LogLevelWarning        // errors, warnings and the closing summary
	LogLevelVerbose        // everything above plus the header and phases (DEFAULT)
)

// LogMessage is anything the logger can display.
type LogMessage interface {
	display()
	isError() bool
}

func newLogger(loglevel int) Logger {
	return Logger{
		LogLevel: loglevel,
		m:        &sync.Mutex{},
	}
}

// handleMsg counts and displays errors immediately; warnings wait for the
// summary.
func (l *Logger) handleMsg(lm LogMessage) {
	l.m.Lock()
	defer l.m.Unlock()

	if lm.isError() {
		l.errorCount++

		if l.LogLevel > LogLevelSilent {
			displayEndPhase(false)
			lm.display()
		}
	} else {
		l.warnings = append(l.warnings, lm)
	}
}

func levelFromName(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warning":
		return LogLevelWarning
	}
	return LogLevelVerbose
}
