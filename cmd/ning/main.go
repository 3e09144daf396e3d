package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ComedicChimera/olive"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"ning/internal/ast"
	"ning/internal/builtins"
	_ "ning/internal/builtins/catalog"
	"ning/internal/config"
	"ning/internal/logging"
	"ning/internal/source"
	"ning/internal/typecheck"
)

const version = "0.1.0"

func main() {
	os.Exit(execute(os.Args))
}

// execute runs the `ning` application and returns the exit status.
func execute(args []string) int {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		pterm.DisableColor()
	}

	cli := olive.NewCLI("ning", "ning checks and runs Ning canvas programs", true)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, config.LogLevels)

	checkCmd := cli.AddSubcommand("check", "typecheck a program and report errors", true)
	checkCmd.AddPrimaryArg("file", "the program to check", true)

	runCmd := cli.AddSubcommand("run", "check a program and run it headless", true)
	runCmd.AddPrimaryArg("file", "the program to run", true)
	runCmd.AddStringArg("config", "c", "the configuration file (default: ning.toml next to the program)", false)
	runCmd.AddStringArg("frames", "f", "the number of frames to run (0 runs until interrupted)", false)
	runCmd.AddStringArg("snapshot", "s", "write the final canvas to this PNG file", false)

	dumpCmd := cli.AddSubcommand("dump", "print the syntax tree of a program", true)
	dumpCmd.AddPrimaryArg("file", "the program to dump", true)

	cli.AddSubcommand("builtins", "list the builtin commands and queries", false)
	cli.AddSubcommand("version", "print the ning version", false)

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	loglevel, _ := result.Arguments["loglevel"].(string)

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		return execCheckCommand(subResult, loglevel)
	case "run":
		return execRunCommand(subResult, loglevel)
	case "dump":
		return execDumpCommand(subResult)
	case "builtins":
		return execBuiltinsCommand()
	case "version":
		logging.PrintInfoMessage("Ning Version", version)
	}
	return 0
}

func execCheckCommand(result *olive.ArgParseResult, loglevel string) int {
	path, _ := result.PrimaryArg()
	if loglevel == "" {
		loglevel = "verbose"
	}

	logging.Initialize(loglevel)
	logging.DisplayHeader(version, path)

	checkProgram(path)

	logging.DisplaySummary()
	return exitStatus()
}

func execDumpCommand(result *olive.ArgParseResult) int {
	path, _ := result.PrimaryArg()

	file, errs := source.Load(path)
	for _, err := range errs {
		logging.PrintErrorMessage("Syntax Error", err)
	}
	if file == nil || len(errs) > 0 {
		return 1
	}

	fmt.Print(ast.DumpFile(file.Defs))
	return 0
}

func execBuiltinsCommand() int {
	data := pterm.TableData{{"Kind", "Signature", "Inputs", "Output"}}
	for _, m := range builtins.All() {
		data = append(data, []string{m.Kind.String(), m.Signature, describeInputs(m), describeOutput(m)})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		logging.PrintErrorMessage("Display Error", err)
		return 1
	}
	return 0
}

func describeInputs(m builtins.Meta) string {
	var parts []string
	for _, set := range m.Args {
		parts = append(parts, "("+set.String()+")")
	}
	for _, set := range m.Refs {
		parts = append(parts, "["+set.String()+"]")
	}
	return strings.Join(parts, " ")
}

func describeOutput(m builtins.Meta) string {
	if m.Kind != builtins.QueryKind {
		return ""
	}
	switch m.Output {
	case builtins.ElementOutput:
		return "list element"
	case builtins.BranchOutput:
		return "branch type"
	}
	return m.Result.String()
}

// checkProgram loads and typechecks the program at path, logging every
// problem found. A nil file means the program cannot run.
func checkProgram(path string) *source.File {
	logging.BeginPhase("Parsing")
	file, errs := source.Load(path)
	for _, err := range errs {
		logging.LogError("Syntax", err)
	}
	if file == nil || len(errs) > 0 {
		return nil
	}
	logging.EndPhase(true)

	logging.BeginPhase("Checking")
	diags := typecheck.Check(file.Defs)
	for _, d := range diags {
		logging.LogDiagnostic(file, d)
	}
	if len(diags) > 0 {
		return nil
	}
	logging.EndPhase(true)

	return file
}

func exitStatus() int {
	if logging.ShouldProceed() {
		return 0
	}
	return 1
}
