// Package interp runs a typechecked Ning program. A program is a set of
// definitions; running it means initializing globals once and then, on every
// tick, executing the `update` and `render` commands and flushing the render
// requests staged by `render` to the environment.
package interp

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"ning/internal/ast"
	"ning/internal/builtins"
	_ "ning/internal/builtins/catalog" // Ensure builtin packages are loaded for registration
	"ning/internal/runtime"
	"ning/internal/token"
	"ning/internal/value"
)

// Signatures of the commands a tick runs.
const (
	UpdateSignature = "update"
	RenderSignature = "render"
)

// RuntimeError is a fault raised while running a program. It always carries
// the position of the application that failed.
type RuntimeError struct {
	Pos token.Position
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

func faultf(node ast.Node, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Pos: node.Pos(), Msg: fmt.Sprintf(format, args...)}
}

// locate attaches the position of node to an error returned by a builtin.
// Errors that already are faults come from deeper applications and keep
// their own position.
func locate(err error, node ast.Node, sig string) error {
	if err == nil {
		return nil
	}
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return err
	}
	return faultf(node, "`%s`: %v", sig, err)
}

// ----- Options -----

type Option func(*Interpreter)

// WithTickSource makes Start and every completed tick request the next tick
// from ts. Without one, ticks only run when Tick is called.
func WithTickSource(ts runtime.TickSource) Option {
	return func(i *Interpreter) { i.ticks = ts }
}

// WithClock replaces time.Now for the clock builtins.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// WithRand replaces the source of `random integer from () to ()`. fn must
// return numbers in [0, 1).
func WithRand(fn func() float64) Option {
	return func(i *Interpreter) { i.random = fn }
}

// WithFaultHandler registers fn to be called with every fault that stops
// the program.
func WithFaultHandler(fn func(error)) Option {
	return func(i *Interpreter) { i.onFault = fn }
}

// ----- Interpreter -----

type staged struct {
	req runtime.RenderRequest
	pos token.Position
}

type Interpreter struct {
	globals  []*ast.GlobalDef
	queries  map[string]*ast.QueryDef
	commands map[string]*ast.CommandDef

	ticks   runtime.TickSource
	now     func() time.Time
	random  func() float64
	onFault func(error)

	// running state, reset by Start
	env     runtime.Environment
	frames  *builtins.Frames
	queue   []staged
	pos     token.Position // command whose builtin is executing
	depth   int            // nested user command and query calls
	running bool
	pending int // tick request id, 0 when none
	err     error
}

// New prepares defs for running. defs should have passed the typechecker;
// the interpreter trusts its guarantees and only checks what it must to
// fail cleanly. Of two definitions with one signature the later is used.
func New(defs []ast.Def, opts ...Option) *Interpreter {
	i := &Interpreter{
		queries:  make(map[string]*ast.QueryDef),
		commands: make(map[string]*ast.CommandDef),
		now:      time.Now,
		random:   rand.Float64,
		frames:   new(builtins.Frames),
	}
	i.frames.Reset()

	for _, def := range defs {
		switch d := def.(type) {
		case *ast.GlobalDef:
			i.globals = append(i.globals, d)
		case *ast.QueryDef:
			i.queries[ast.HeaderSignature(d.Header)] = d
		case *ast.CommandDef:
			i.commands[ast.HeaderSignature(d.Header)] = d
		}
	}

	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Start resets all running state, initializes globals in env and schedules
// the first tick. It fails if the program is already running or if a global
// initializer faults.
func (i *Interpreter) Start(env runtime.Environment) error {
	if i.running {
		return errors.New("interp: Start called while the program is already running")
	}

	i.env = env
	i.frames.Reset()
	i.queue = nil
	i.depth = 0
	i.err = nil
	i.running = true

	if err := i.initGlobals(); err != nil {
		i.fail(err)
		return err
	}

	i.schedule()
	return nil
}

// Stop cancels the pending tick. It fails if the program is not running.
func (i *Interpreter) Stop() error {
	if !i.running {
		return errors.New("interp: Stop called while the program is already stopped")
	}
	i.cancel()
	i.running = false
	return nil
}

// Running reports whether the program has been started and has neither
// been stopped nor faulted.
func (i *Interpreter) Running() bool { return i.running }

// Err returns the fault that stopped the program, if any.
func (i *Interpreter) Err() error { return i.err }

// Tick runs one update/render cycle and schedules the next one. A fault
// stops the program and is returned.
func (i *Interpreter) Tick() error {
	if !i.running {
		return errors.New("interp: Tick called while the program is stopped")
	}
	i.pending = 0

	if err := i.tick(); err != nil {
		i.fail(err)
		return err
	}

	i.schedule()
	return nil
}

// Global returns the value of a global variable.
func (i *Interpreter) Global(name string) (value.Value, bool) {
	v, ok := i.frames.Global().Vars[name]
	return v, ok
}

// GlobalList returns a global list.
func (i *Interpreter) GlobalList(name string) (*value.List, bool) {
	l, ok := i.frames.Global().Lists[name]
	return l, ok
}

// initGlobals runs every Global body directly in frame 0. A return ends the
// body it appears in.
func (i *Interpreter) initGlobals() error {
	for _, g := range i.globals {
		if _, err := i.execCommands(g.Body.Commands); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) tick() error {
	if err := i.runTickCommand(UpdateSignature); err != nil {
		return err
	}

	i.queue = i.queue[:0]
	if err := i.runTickCommand(RenderSignature); err != nil {
		return err
	}
	return i.flush()
}

func (i *Interpreter) runTickCommand(sig string) error {
	def, ok := i.commands[sig]
	if !ok {
		return nil
	}
	return i.callCommand(def, def, nil)
}

// flush applies the staged render requests in order.
func (i *Interpreter) flush() error {
	queue := i.queue
	i.queue = nil
	for _, s := range queue {
		if err := runtime.Apply(i.env, s.req); err != nil {
			return &RuntimeError{Pos: s.pos, Msg: err.Error()}
		}
	}
	return nil
}

func (i *Interpreter) schedule() {
	if i.ticks == nil {
		return
	}
	i.pending = i.ticks.Request(func() {
		// the error is kept in Err and passed to the fault handler
		_ = i.Tick()
	})
}

func (i *Interpreter) cancel() {
	if i.ticks != nil && i.pending != 0 {
		i.ticks.Cancel(i.pending)
	}
	i.pending = 0
}

func (i *Interpreter) fail(err error) {
	i.err = err
	i.cancel()
	i.running = false
	if i.onFault != nil {
		i.onFault(err)
	}
}

// ----- builtins.Context -----

func (i *Interpreter) Frames() *builtins.Frames { return i.frames }

func (i *Interpreter) Stage(req runtime.RenderRequest) {
	i.queue = append(i.queue, staged{req: req, pos: i.pos})
}

func (i *Interpreter) Env() runtime.Environment { return i.env }

func (i *Interpreter) Now() time.Time { return i.now() }

func (i *Interpreter) Random() float64 { return i.random() }

var _ builtins.Context = (*Interpreter)(nil)
