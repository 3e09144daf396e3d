package logging

import (
	"errors"
	"testing"

	"ning/internal/source"
	"ning/internal/typecheck"
)

func TestMakeSnippet(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		col, width   int
		code         string
		indent, want int
	}{
		{"plain", "x (1) + y", 3, 3, "x (1) + y", 2, 3},
		{"tab indent", "\tlet [x] (5);", 2, 12, "let [x] (5);", 0, 12},
		{"space indent", "    foo (1);", 5, 3, "foo (1);", 0, 3},
		{"clamped to line", "Command (f) {", 1, 50, "Command (f) {", 0, 13},
		{"past the end", "ab", 9, 4, "ab", 2, 1},
		{"empty line", "", 1, 3, "", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := makeSnippet(tt.line, tt.col, tt.width)
			if s.code != tt.code || s.indent != tt.indent || s.width != tt.want {
				t.Fatalf("got (%q, %d, %d), want (%q, %d, %d)", s.code, s.indent, s.width, tt.code, tt.indent, tt.want)
			}
		})
	}
}

func TestLevelFromName(t *testing.T) {
	for name, want := range map[string]int{
		"silent":  LogLevelSilent,
		"error":   LogLevelError,
		"warning": LogLevelWarning,
		"verbose": LogLevelVerbose,
		"loud":    LogLevelVerbose,
		"":        LogLevelVerbose,
	} {
		if got := levelFromName(name); got != want {
			t.Errorf("levelFromName(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestSilentLoggerCounts(t *testing.T) {
	Initialize("silent")
	defer Initialize("verbose")

	file, errs := source.Parse("count.ning", "Command (f) {\n    g;\n}\n")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	diags := typecheck.Check(file.Defs)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}

	if !ShouldProceed() {
		t.Fatalf("expected a fresh logger to proceed")
	}

	LogDiagnostic(file, diags[0])
	LogRuntimeError(file, errors.New("boom"))
	LogWarning("Program", "no `update` command")
	LogError("Config", errors.New("bad fps"))

	if ShouldProceed() {
		t.Fatalf("expected errors to stop the logger from proceeding")
	}
	if got := ErrorCount(); got != 3 {
		t.Fatalf("expected 3 errors, got %d", got)
	}
	if got := WarningCount(); got != 1 {
		t.Fatalf("expected 1 warning, got %d", got)
	}

	Initialize("silent")
	if ErrorCount() != 0 || WarningCount() != 0 {
		t.Fatalf("expected Initialize to reset the counts")
	}
}

func TestEveryKindHasACategory(t *testing.T) {
	for k := typecheck.NameClash; k <= typecheck.NameNotFound; k++ {
		if diagnosticCategories[k] == "" {
			t.Errorf("no category for %s", k)
		}
	}
}
