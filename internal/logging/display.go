package logging

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pterm/pterm"

	"ning/internal/ast"
	"ning/internal/interp"
	"ning/internal/source"
	"ning/internal/token"
	"ning/internal/typecheck"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------

type plainMessage struct {
	kind string
	msg  string
	err  bool
}

func (pm *plainMessage) isError() bool { return pm.err }

func (pm *plainMessage) display() {
	if pm.err {
		PrintErrorMessage(pm.kind+" Error", errors.New(pm.msg))
	} else {
		PrintWarningMessage(pm.kind+" Warning", pm.msg)
	}
}

var diagnosticCategories = map[typecheck.Kind]string{
	typecheck.NameClash:                         "Name",
	typecheck.NameNotFound:                      "Name",
	typecheck.GlobalDefNotFirst:                 "Definition",
	typecheck.IllegalCommandInGlobalDefBody:     "Usage",
	typecheck.IllegalCommandInQueryDefBody:      "Usage",
	typecheck.QueryDefBodyMutatesGlobal:         "Mutability",
	typecheck.ReassignedImmutableVariable:       "Mutability",
	typecheck.QueryDefBodyLacksInevitableReturn: "Return",
	typecheck.ReturnKindMismatch:                "Return",
	typecheck.ReturnTypeMismatch:                "Type",
	typecheck.ArgTypeMismatch:                   "Type",
	typecheck.SquareTypeMismatch:                "Type",
}

type diagnosticMessage struct {
	file *source.File
	diag typecheck.Diagnostic
}

func (*diagnosticMessage) isError() bool { return true }

func (dm *diagnosticMessage) display() {
	displayBanner(diagnosticCategories[dm.diag.Kind]+" Error", dm.file.Path, ErrorStyleBG)
	fmt.Println(dm.diag.Msg)

	nodes := dm.diag.Nodes
	if len(nodes) == 0 && dm.diag.Node != nil {
		nodes = []ast.Node{dm.diag.Node}
	}
	for _, n := range nodes {
		displayCodeSelection(dm.file, n.Pos(), nodeWidth(n))
	}

	switch {
	case dm.diag.Conflict != nil:
		InfoColorFG.Println("first defined here:")
		displayCodeSelection(dm.file, dm.diag.Conflict.Pos(), nodeWidth(dm.diag.Conflict))
	case dm.diag.ConflictBuiltin != "":
		InfoColorFG.Println(fmt.Sprintf("`%s` is a builtin", dm.diag.ConflictBuiltin))
	}
}

type runtimeMessage struct {
	file *source.File
	err  error
}

func (*runtimeMessage) isError() bool { return true }

func (rm *runtimeMessage) display() {
	var rerr *interp.RuntimeError
	if !errors.As(rm.err, &rerr) {
		PrintErrorMessage("Runtime Error", rm.err)
		return
	}

	displayBanner("Runtime Error", rm.file.Path, ErrorStyleBG)
	fmt.Println(rerr.Msg)
	displayCodeSelection(rm.file, rerr.Pos, 1)
}

// displayBanner displays the banner on top of all source messages
func displayBanner(title, path string, style *pterm.Style) {
	fmt.Print("\n\n-- ")
	style.Print(title)
	fmt.Print(" ")

	fileName := filepath.Base(path)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(fileName) - len(title) - 1
	if dashCount < 2 {
		dashCount = 2
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// nodeWidth is the width of n when written on one line.
func nodeWidth(n ast.Node) int {
	return utf8.RuneCountInString(ast.Format(n))
}

// displayCodeSelection displays the line at pos with its line number and
// underlines width columns starting at pos.
func displayCodeSelection(file *source.File, pos token.Position, width int) {
	if file == nil || pos.Line < 1 {
		return
	}
	s := makeSnippet(file.Line(pos.Line), pos.Column, width)

	fmt.Println()
	gutterWidth := len(strconv.Itoa(pos.Line)) + 1
	InfoColorFG.Print(fmt.Sprintf("%-"+strconv.Itoa(gutterWidth)+"v", pos.Line))
	fmt.Print("|  ")
	fmt.Println(s.code)
	fmt.Print(strings.Repeat(" ", gutterWidth), "|  ")
	fmt.Print(strings.Repeat(" ", s.indent))
	ErrorColorFG.Println(strings.Repeat("^", s.width))
	fmt.Println()
}

// snippet is a source line prepared for display: tabs expanded, leading
// whitespace trimmed, and the selection clamped to the line.
type snippet struct {
	code   string
	indent int
	width  int
}

func makeSnippet(line string, col, width int) snippet {
	runes := []rune(line)
	if col < 1 {
		col = 1
	}
	if col > len(runes)+1 {
		col = len(runes) + 1
	}

	code := strings.ReplaceAll(line, "\t", "    ")
	indent := utf8.RuneCountInString(strings.ReplaceAll(string(runes[:col-1]), "\t", "    "))

	lead := len(code) - len(strings.TrimLeft(code, " "))
	if lead > indent {
		lead = indent
	}
	code = code[lead:]
	indent -= lead

	if rest := utf8.RuneCountInString(code) - indent; width > rest {
		width = rest
	}
	if width < 1 {
		width = 1
	}
	return snippet{code: code, indent: indent, width: width}
}

// -----------------------------------------------------------------------------

var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Checking")

func displayHeader(version, path string) {
	fmt.Print("ning ")
	InfoColorFG.Print("v" + version)
	fmt.Print(" -- program: ")
	InfoColorFG.Println(path)
}

func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

func displayEndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}

	padding := strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2)
	if success {
		phaseSpinner.Success(
			currentPhase+padding,
			fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
		)
	} else {
		phaseSpinner.Fail(currentPhase + padding)
	}

	phaseSpinner = nil
}

func displayFinished(success bool, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")
	displayCount(errorCount, "error", ErrorColorFG)
	fmt.Print(", ")
	displayCount(warningCount, "warning", WarnColorFG)
	fmt.Println(")")
}

func displayCount(n int, noun string, color pterm.Color) {
	if n == 0 {
		SuccessColorFG.Print(0)
	} else {
		color.Print(n)
	}
	if n == 1 {
		fmt.Print(" " + noun)
	} else {
		fmt.Print(" " + noun + "s")
	}
}
