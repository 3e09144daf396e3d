// Package logging displays diagnostics, runtime faults and progress of the
// ning tool on the terminal.
package logging

import (
	"ning/internal/source"
	"ning/internal/typecheck"
)

// logger is the shared Logger used by every log function.
var logger = newLogger(LogLevelVerbose)

// Initialize resets the global logger with the named log level. Invalid
// names fall back to verbose.
func Initialize(loglevelname string) {
	logger = newLogger(levelFromName(loglevelname))
}

// ShouldProceed reports whether no error has been logged so far.
func ShouldProceed() bool {
	return ErrorCount() == 0
}

func ErrorCount() int {
	logger.m.Lock()
	defer logger.m.Unlock()
	return logger.errorCount
}

func WarningCount() int {
	logger.m.Lock()
	defer logger.m.Unlock()
	return len(logger.warnings)
}

// -----------------------------------------------------------------------------
// NOTE: every log function only displays at the appropriate log level, but
// errors are always counted.

// LogDiagnostic logs a typechecking diagnostic found in file.
func LogDiagnostic(file *source.File, d typecheck.Diagnostic) {
	logger.handleMsg(&diagnosticMessage{file: file, diag: d})
}

// LogRuntimeError logs a fault that stopped the program in file.
func LogRuntimeError(file *source.File, err error) {
	logger.handleMsg(&runtimeMessage{file: file, err: err})
}

// LogError logs an error that is not tied to a source position, such as a
// syntax error already carrying its location or a bad configuration.
func LogError(kind string, err error) {
	logger.handleMsg(&plainMessage{kind: kind, msg: err.Error(), err: true})
}

// LogWarning logs a warning that is displayed with the summary.
func LogWarning(kind, msg string) {
	logger.handleMsg(&plainMessage{kind: kind, msg: msg})
}

// LogInfo prints an informational message in verbose mode.
func LogInfo(tag, msg string) {
	if logger.LogLevel == LogLevelVerbose {
		PrintInfoMessage(tag, msg)
	}
}

// BeginPhase starts a progress spinner for phase in verbose mode.
func BeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// EndPhase stops the current progress spinner.
func EndPhase(success bool) {
	displayEndPhase(success)
}

// DisplayHeader prints the tool version and the program about to be
// processed in verbose mode.
func DisplayHeader(version, path string) {
	if logger.LogLevel == LogLevelVerbose {
		displayHeader(version, path)
	}
}

// DisplaySummary prints the held back warnings and the closing message.
func DisplaySummary() {
	logger.m.Lock()
	defer logger.m.Unlock()

	if logger.LogLevel == LogLevelSilent {
		return
	}

	if logger.LogLevel >= LogLevelWarning {
		for _, w := range logger.warnings {
			w.display()
		}
	}

	displayFinished(logger.errorCount == 0, logger.errorCount, len(logger.warnings))
}
