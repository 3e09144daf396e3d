package interp_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kr/pretty"

	"ning/internal/ast"
	"ning/internal/interp"
	"ning/internal/lexer"
	"ning/internal/parser"
	"ning/internal/runtime"
	"ning/internal/typecheck"
	"ning/internal/types"
)

// parse lexes and parses input, failing the test on syntax errors.
func parse(t *testing.T, input string) []ast.Def {
	t.Helper()

	p := parser.New(lexer.New(input))
	defs := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			t.Logf("parser error: %s", e)
		}
		t.Fatalf("expected no parser errors, got %d", len(errs))
	}
	return defs
}

// load parses and typechecks input.
func load(t *testing.T, input string) []ast.Def {
	t.Helper()

	defs := parse(t, input)
	if diags := typecheck.Check(defs); len(diags) > 0 {
		for _, d := range diags {
			t.Logf("%s: %s", d.Kind, d.Error())
		}
		t.Fatalf("expected no type errors, got %d", len(diags))
	}
	return defs
}

func newEnv(images runtime.ImageLibrary) (*runtime.Headless, *runtime.Raster) {
	raster := runtime.NewRaster(32, 32)
	env := runtime.NewHeadless(raster, images, runtime.InputState{
		WindowWidth:  800,
		WindowHeight: 600,
		CanvasMouseX: 12,
		Keys:         map[string]bool{"ArrowUp": true},
	})
	return env, raster
}

// run starts the program and runs ticks ticks, failing on any fault.
func run(t *testing.T, ip *interp.Interpreter, ticks int) *runtime.Raster {
	t.Helper()

	env, raster := newEnv(nil)
	if err := ip.Start(env); err != nil {
		t.Fatalf("start: %v", err)
	}
	for n := 0; n < ticks; n++ {
		if err := ip.Tick(); err != nil {
			t.Fatalf("tick %d: %v", n, err)
		}
	}
	return raster
}

func number(t *testing.T, ip *interp.Interpreter, name string) float64 {
	t.Helper()

	v, ok := ip.Global(name)
	if !ok {
		t.Fatalf("global %q not found", name)
	}
	if v.Type != types.Number {
		t.Fatalf("global %q: expected Number, got %s", name, v.Type)
	}
	return v.Num
}

func boolean(t *testing.T, ip *interp.Interpreter, name string) bool {
	t.Helper()

	v, ok := ip.Global(name)
	if !ok || v.Type != types.Boolean {
		t.Fatalf("global %q: expected Boolean, got %#v", name, v)
	}
	return v.Bool
}

func TestRepeatIncreases(t *testing.T) {
	input := `Global {
    var [x] (0);
}

Command (update) {
    repeat (3) times {
        increase [x] (1);
    };
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 1)
	if x := number(t, ip, "x"); x != 3 {
		t.Fatalf("expected x = 3, got %v", x)
	}

	if err := ip.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if x := number(t, ip, "x"); x != 6 {
		t.Fatalf("expected x = 6 after a second tick, got %v", x)
	}
}

func TestListItems(t *testing.T) {
	input := `Global {
    create number list [nums];
    var [first] (-1);
    var [missing] (-1);
    var [found] (false);
}

Command (update) {
    add (5) to [nums];
    assign [first] (item (0) of [nums]);
    assign [missing] (item (5) of [nums]);
    delete item (9) of [nums];
    insert (7) at (3) of [nums];
    assign [found] ([nums] contains (5));
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 1)

	if got := number(t, ip, "first"); got != 5 {
		t.Fatalf("expected item 0 = 5, got %v", got)
	}
	if got := number(t, ip, "missing"); got != 0 {
		t.Fatalf("expected out-of-range item = 0, got %v", got)
	}
	if !boolean(t, ip, "found") {
		t.Fatalf("expected the list to contain 5")
	}
	nums, ok := ip.GlobalList("nums")
	if !ok || len(nums.Items) != 1 {
		t.Fatalf("expected out-of-range edits to be no-ops, got %v", nums)
	}
}

func TestNaNEqualsNaN(t *testing.T) {
	input := `Global {
    let [same] ((NaN) = (NaN));
    let [less] ((NaN) < (NaN));
    let [differ] ((NaN) != (NaN));
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 0)

	if !boolean(t, ip, "same") {
		t.Fatalf("expected NaN = NaN")
	}
	if boolean(t, ip, "less") {
		t.Fatalf("expected NaN < NaN to be false")
	}
	if boolean(t, ip, "differ") {
		t.Fatalf("expected NaN != NaN to be false")
	}
}

func TestEnvironmentQueries(t *testing.T) {
	input := `Global {
    let [w] (window width);
    let [h] (window height);
    let [mx] (canvas mouse x);
    let [up] (key ("ArrowUp") pressed);
    let [down] (key ("ArrowDown") pressed);
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 0)

	if w := number(t, ip, "w"); w != 800 {
		t.Fatalf("expected window width 800, got %v", w)
	}
	// window height reports the width
	if h := number(t, ip, "h"); h != 800 {
		t.Fatalf("expected window height to report 800, got %v", h)
	}
	if mx := number(t, ip, "mx"); mx != 12 {
		t.Fatalf("expected canvas mouse x 12, got %v", mx)
	}
	if !boolean(t, ip, "up") || boolean(t, ip, "down") {
		t.Fatalf("unexpected key state")
	}
}

func TestClockAndRandom(t *testing.T) {
	input := `Global {
    let [month] (current month);
    let [date] (current date);
    let [hour] (current hour);
    let [r] (random integer from (0) to (10));
}
`

	at := time.Date(2024, time.March, 5, 14, 30, 15, 0, time.Local)
	ip := interp.New(load(t, input),
		interp.WithClock(func() time.Time { return at }),
		interp.WithRand(func() float64 { return 0.55 }),
	)
	run(t, ip, 0)

	if m := number(t, ip, "month"); m != 2 {
		t.Fatalf("expected zero-based month 2, got %v", m)
	}
	if d := number(t, ip, "date"); d != 5 {
		t.Fatalf("expected date 5, got %v", d)
	}
	if h := number(t, ip, "hour"); h != 14 {
		t.Fatalf("expected hour 14, got %v", h)
	}
	if r := number(t, ip, "r"); r != 5 {
		t.Fatalf("expected random integer 5, got %v", r)
	}
}

func TestQueriesAndCommands(t *testing.T) {
	input := `Global {
    var [count] (0);
    var [found] (0);
    var [name] ("");
}

Number Query (first over (Number limit)) {
    var [i] (0);
    repeat (100) times {
        increase [i] (1);
        if ((i) > (limit)) {
            return (i);
        };
    };
    return (-1);
}

String Query (greet (String who)) {
    return (("hi ") ++ (who));
}

Command (bump) {
    increase [count] (1);
    return;
    increase [count] (100);
}

Command (update) {
    bump;
    bump;
    assign [found] (first over (5));
    assign [name] (greet (substring of ("héllo") from (1) to (3)));
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 1)

	if c := number(t, ip, "count"); c != 2 {
		t.Fatalf("expected return to end only the command, got count = %v", c)
	}
	if f := number(t, ip, "found"); f != 6 {
		t.Fatalf("expected first over 5 = 6, got %v", f)
	}
	if v, _ := ip.Global("name"); v.Str != "hi él" {
		t.Fatalf("expected %q, got %#v", "hi él", v)
	}
}

func TestRenderLog(t *testing.T) {
	input := `Command (update) {
    resize canvas to (1) by (1);
}

Command (render) {
    resize canvas to (20) by (10);
    clear rect at (0) (0) size (20) (10);
    draw image ("ship") at (1.7) (2) size (4) (0);
    draw image ("ship") at (1.7) (2) size (4) (3);
}
`

	ship := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			ship.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	env, raster := newEnv(runtime.ImageLibrary{"ship": ship})

	ip := interp.New(load(t, input))
	if err := ip.Start(env); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := ip.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	want := []string{
		"resize 20x10",
		"clear (0,0)-(20,10)",
		"draw (1,2)-(5,5)",
	}
	if diff := pretty.Diff(want, raster.Ops()); len(diff) > 0 {
		t.Fatalf("render log mismatch:\n%s", strings.Join(diff, "\n"))
	}
	if got := raster.Image().RGBAAt(2, 3); got.G != 255 {
		t.Fatalf("expected the ship drawn at (2, 3), got %v", got)
	}
}

func TestUnknownImageFaults(t *testing.T) {
	input := `Command (render) {
    draw image ("ghost") at (0) (0) size (1) (1);
}
`

	var faults []error
	ip := interp.New(load(t, input), interp.WithFaultHandler(func(err error) {
		faults = append(faults, err)
	}))

	env, _ := newEnv(nil)
	if err := ip.Start(env); err != nil {
		t.Fatalf("start: %v", err)
	}

	err := ip.Tick()
	var rt *interp.RuntimeError
	if !errors.As(err, &rt) {
		t.Fatalf("expected a runtime error, got %v", err)
	}
	if rt.Pos.Line != 2 || !strings.Contains(rt.Msg, "ghost") {
		t.Fatalf("expected fault at line 2 naming the image, got %v", rt)
	}
	if ip.Running() {
		t.Fatalf("expected a fault to stop the program")
	}
	if ip.Err() != err || len(faults) != 1 {
		t.Fatalf("expected the fault to be recorded once, got %v / %v", ip.Err(), faults)
	}
}

func TestRuntimeFaults(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		line int
	}{
		{"infinite repeat", "repeat (Infinity) times { };", "not a finite number", 4},
		{"huge repeat", "repeat (1e300) times { };", "too large", 4},
		{"NaN canvas size", "resize canvas to (NaN) by (1);", "not a finite number", 4},
		{"fall-through query", "let [v] (never returns);", "finished without returning", 4},
		{"void return in query", "let [v] (returns nothing);", "without a value", 4},
		{"unknown command", "fly away;", "could not find a command", 4},
		{"unknown query", "let [v] (mystery (1));", "could not find a query", 4},
		{"unknown variable", "let [v] (ghost);", "no variable or query", 4},
		{"unknown list", "add (1) to [ghosts];", "not found", 4},
	}

	prelude := `Number Query (never returns) { if (false) { return (1); }; }
Number Query (returns nothing) { return; }
`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// these programs fail the typechecker; the interpreter must still
			// fault cleanly
			ip := interp.New(parse(t, prelude+"Command (update) {\n    "+tt.body+"\n}\n"))
			env, _ := newEnv(nil)
			if err := ip.Start(env); err != nil {
				t.Fatalf("start: %v", err)
			}

			err := ip.Tick()
			var rt *interp.RuntimeError
			if !errors.As(err, &rt) {
				t.Fatalf("expected a runtime error, got %v", err)
			}
			t.Logf("fault: %v", rt)
			if !strings.Contains(rt.Msg, tt.want) {
				t.Fatalf("expected %q in %q", tt.want, rt.Msg)
			}
			if rt.Pos.Line != tt.line {
				t.Fatalf("expected fault on line %d, got %s", tt.line, rt.Pos)
			}
		})
	}
}

func TestStartStopErrors(t *testing.T) {
	ip := interp.New(load(t, "Command (update) { }"))
	env, _ := newEnv(nil)

	if err := ip.Stop(); err == nil {
		t.Fatalf("expected Stop before Start to fail")
	}
	if err := ip.Tick(); err == nil {
		t.Fatalf("expected Tick before Start to fail")
	}
	if err := ip.Start(env); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := ip.Start(env); err == nil {
		t.Fatalf("expected a second Start to fail")
	}
	if err := ip.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := ip.Stop(); err == nil {
		t.Fatalf("expected a second Stop to fail")
	}
	if err := ip.Start(env); err != nil {
		t.Fatalf("expected restart after Stop to succeed: %v", err)
	}
}

func TestStartResetsGlobals(t *testing.T) {
	input := `Global {
    var [x] (0);
}

Command (update) {
    increase [x] (1);
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 2)
	if err := ip.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	env, _ := newEnv(nil)
	if err := ip.Start(env); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if x := number(t, ip, "x"); x != 0 {
		t.Fatalf("expected x reset to 0, got %v", x)
	}
}

func TestFrameLoopDrivesTicks(t *testing.T) {
	input := `Global {
    var [frames] (0);
}

Command (update) {
    increase [frames] (1);
}
`

	loop := runtime.NewFrameLoop(240)
	ip := interp.New(load(t, input), interp.WithTickSource(loop))

	env, _ := newEnv(nil)
	if err := ip.Start(env); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Run(ctx, 3); err != nil {
		t.Fatalf("run: %v", err)
	}

	if n := number(t, ip, "frames"); n != 3 {
		t.Fatalf("expected 3 ticks, got %v", n)
	}
	if !ip.Running() {
		t.Fatalf("expected the program to keep running after the frame limit")
	}
	if err := ip.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// Stop cancelled the pending tick, so the loop has nothing left to run
	if err := loop.Run(ctx, 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := number(t, ip, "frames"); n != 3 {
		t.Fatalf("expected no ticks after Stop, got %v", n)
	}
}

func TestFaultStopsScheduling(t *testing.T) {
	input := `Global {
    var [n] (0);
}

Command (update) {
    increase [n] (1);
    if ((n) = (2)) {
        repeat ((0) / (0)) times { };
    };
}
`

	loop := runtime.NewFrameLoop(240)
	ip := interp.New(load(t, input), interp.WithTickSource(loop))

	env, _ := newEnv(nil)
	if err := ip.Start(env); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := loop.Run(context.Background(), 10); err != nil {
		t.Fatalf("run: %v", err)
	}

	if ip.Err() == nil {
		t.Fatalf("expected a fault")
	}
	if n := number(t, ip, "n"); n != 2 {
		t.Fatalf("expected the fault on the second tick to stop the loop, got n = %v", n)
	}
	if loop.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", loop.Frames())
	}
}

func TestDivisionIsIEEE(t *testing.T) {
	input := `Global {
    let [inf] ((1) / (0));
    let [nan] ((0) / (0));
    let [rem] ((-7) % (3));
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 0)

	if v := number(t, ip, "inf"); !math.IsInf(v, 1) {
		t.Fatalf("expected +Inf, got %v", v)
	}
	if v := number(t, ip, "nan"); !math.IsNaN(v) {
		t.Fatalf("expected NaN, got %v", v)
	}
	if v := number(t, ip, "rem"); v != -1 {
		t.Fatalf("expected -7 %% 3 = -1, got %v", v)
	}
}

func TestRunawayRecursionFaults(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"command", `Command (loop) {
    loop;
}

Command (update) {
    loop;
}
`, 2},
		// queries cannot call themselves once checked, so this one is run
		// unchecked
		{"query", `Number Query (deeper) {
    return ((deeper) + (1));
}

Command (update) {
    let [v] (deeper);
}
`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := interp.New(parse(t, tt.input))
			env, _ := newEnv(nil)
			if err := ip.Start(env); err != nil {
				t.Fatalf("start: %v", err)
			}

			err := ip.Tick()
			var rt *interp.RuntimeError
			if !errors.As(err, &rt) {
				t.Fatalf("expected a runtime error, got %v", err)
			}
			if !strings.Contains(rt.Msg, "user calls deep") {
				t.Fatalf("expected a call depth fault, got %q", rt.Msg)
			}
			if rt.Pos.Line != tt.line {
				t.Fatalf("expected fault on line %d, got %s", tt.line, rt.Pos)
			}
			if ip.Running() {
				t.Fatalf("expected the fault to stop the program")
			}
		})
	}
}

func TestLaterDefinitionWins(t *testing.T) {
	input := `Global {
    var [x] (0);
}

Command (update) {
    assign [x] (1);
}

Command (update) {
    assign [x] (2);
}
`

	// the duplicate is a NameClash for the typechecker, so run it unchecked
	ip := interp.New(parse(t, input))
	run(t, ip, 1)
	if x := number(t, ip, "x"); x != 2 {
		t.Fatalf("expected the second update to run, got x = %v", x)
	}
}

func TestStringArgumentOrder(t *testing.T) {
	input := `Global {
    var [letter] ("");
    var [at] (0);
    var [missing] (0);
}

Command (update) {
    assign [letter] (letter ("abc") of (1));
    assign [at] (index of ("abc") in ("b"));
    assign [missing] (index of ("b") in ("abc"));
}
`

	ip := interp.New(load(t, input))
	run(t, ip, 1)

	if v, _ := ip.Global("letter"); v.Str != "b" {
		t.Fatalf("expected letter 1 of abc = %q, got %#v", "b", v)
	}
	if at := number(t, ip, "at"); at != 1 {
		t.Fatalf("expected b at 1 in abc, got %v", at)
	}
	if missing := number(t, ip, "missing"); missing != -1 {
		t.Fatalf("expected abc not found in b, got %v", missing)
	}
}
