// Package builtins holds the catalog of builtin queries and commands. Each
// category lives in its own subpackage and registers itself from init; the
// catalog package imports them all. The typechecker reads the metadata, the
// interpreter runs the operations, both through the same signature-keyed
// registry.
package builtins

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ning/internal/ast"
	"ning/internal/runtime"
	"ning/internal/scope"
	"ning/internal/types"
	"ning/internal/value"
)

// Kind says whether a builtin is applied as an expression or as a command.
type Kind int

const (
	QueryKind Kind = iota
	CommandKind
)

func (k Kind) String() string {
	if k == CommandKind {
		return "command"
	}
	return "query"
}

// Rule selects a typing rule for the builtins whose constraints span more
// than one slot. RuleNone checks every slot against its own set.
type Rule int

const (
	RuleNone Rule = iota
	// RuleSameType: two value slots of any single type, the second must
	// match the first.
	RuleSameType
	// RuleTernary: a Boolean condition and two branches of the same type.
	RuleTernary
	// RuleElement: reference 0 is a list and value slot ElementArg must be of
	// its element type.
	RuleElement
	// RuleAssign: reference 0 is a variable and value slot 0 must be of its
	// type.
	RuleAssign
)

// Output selects how a query's result type is determined.
type Output int

const (
	// FixedOutput: the Result field.
	FixedOutput Output = iota
	// ElementOutput: the element type of the list in reference 0.
	ElementOutput
	// BranchOutput: the common type of the ternary branches.
	BranchOutput
)

// Declaration marks commands whose reference 0 introduces a new name.
type Declaration int

const (
	NoDeclaration Declaration = iota
	DeclareImmutable
	DeclareMutable
	DeclareList
)

// Meta describes a builtin for the typechecker and for listings.
type Meta struct {
	Signature string
	Kind      Kind
	Name      string

	// Args has one type set per value slot, Refs one square set per
	// reference slot. A declaration has no Refs.
	Args []types.Set
	Refs []types.SquareSet

	Rule       Rule
	ElementArg int

	Output Output
	Result types.Type

	Declares Declaration
	// ListElem is the element type of a DeclareList.
	ListElem types.Type

	// Mutates is set when the command writes to the name in reference 0.
	Mutates bool

	// Return marks `return ()` and `return`.
	Return bool

	InGlobal bool
	InQuery  bool
}

// Slots counts the value, reference and block slots of a signature.
func Slots(signature string) (args, refs, blocks int) {
	for _, word := range strings.Fields(signature) {
		switch word {
		case ast.ValueSlot:
			args++
		case ast.RefSlot:
			refs++
		case ast.BlockSlot:
			blocks++
		}
	}
	return args, refs, blocks
}

// ---------- Evaluation ----------

// Frames is the interpreter's frame stack.
type Frames = scope.Stack[value.Value, *value.List]

// Context is what an operation sees of the running interpreter. It is
// implemented by the interpreter.
type Context interface {
	Eval(e ast.Expression) (value.Value, error)
	// Exec runs b in a fresh frame.
	Exec(b *ast.Block) (Completion, error)
	Frames() *Frames
	// Stage queues a render request for the end of the tick.
	Stage(req runtime.RenderRequest)
	Env() runtime.Environment
	Now() time.Time
	// Random returns a number in [0, 1).
	Random() float64
}

// CompletionKind tells how a command finished.
type CompletionKind int

const (
	Continue CompletionKind = iota
	ReturnVoid
	ReturnValue
)

// Completion is the outcome of executing a command or block. Anything but
// Continue unwinds to the enclosing function.
type Completion struct {
	Kind  CompletionKind
	Value value.Value
}

// Continued is the completion of a command that ran to its end.
var Continued = Completion{}

func Returned(v value.Value) Completion { return Completion{Kind: ReturnValue, Value: v} }

func (c Completion) String() string {
	switch c.Kind {
	case ReturnVoid:
		return "return"
	case ReturnValue:
		return "return " + c.Value.GoString()
	default:
		return "continue"
	}
}

// Call is one application of a builtin. Arguments are evaluated on demand,
// so control commands decide what runs and how often.
type Call struct {
	Ctx Context
	In  ast.Inputs
}

func (c *Call) Arg(i int) (value.Value, error) {
	return c.Ctx.Eval(c.In.Args[i])
}

func (c *Call) Number(i int) (float64, error) {
	v, err := c.Arg(i)
	return v.Num, err
}

func (c *Call) Text(i int) (string, error) {
	v, err := c.Arg(i)
	return v.Str, err
}

func (c *Call) Bool(i int) (bool, error) {
	v, err := c.Arg(i)
	return v.Bool, err
}

// Numbers evaluates value slots 0..n-1, which must all be Numbers.
func (c *Call) Numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		f, err := c.Number(i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// RefName is the name written in reference slot i.
func (c *Call) RefName(i int) string { return c.In.Refs[i].RefName() }

// List resolves reference slot i to a visible list.
func (c *Call) List(i int) (*value.List, error) {
	name := c.RefName(i)
	l, _, ok := c.Ctx.Frames().LookupList(name)
	if !ok {
		return nil, fmt.Errorf("list %q not found", name)
	}
	return l, nil
}

// Block runs block slot i.
func (c *Call) Block(i int) (Completion, error) {
	return c.Ctx.Exec(c.In.Blocks[i])
}

type (
	QueryFunc   func(c *Call) (value.Value, error)
	CommandFunc func(c *Call) (Completion, error)
)

// Builtin is a complete builtin: metadata plus the operation for its kind.
type Builtin struct {
	Meta    Meta
	Query   QueryFunc
	Command CommandFunc
}

// ---------- Registry ----------

type registry struct {
	mu       sync.RWMutex
	queries  map[string]*Builtin
	commands map[string]*Builtin
}

var globalRegistry = &registry{
	queries:  make(map[string]*Builtin),
	commands: make(map[string]*Builtin),
}

// Register adds a builtin. It is called from the init functions of the
// category packages and panics on malformed metadata or a duplicate
// signature.
func Register(b Builtin) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	m := b.Meta
	args, refs, blocks := Slots(m.Signature)
	if m.Declares == NoDeclaration && len(m.Refs) != refs {
		panic(fmt.Sprintf("builtin %q: %d reference sets for %d reference slots", m.Signature, len(m.Refs), refs))
	}
	if m.Declares != NoDeclaration && (refs != 1 || len(m.Refs) != 0) {
		panic(fmt.Sprintf("builtin %q: a declaration takes exactly one unchecked reference", m.Signature))
	}
	if len(m.Args) != args {
		panic(fmt.Sprintf("builtin %q: %d type sets for %d value slots", m.Signature, len(m.Args), args))
	}

	index := globalRegistry.queries
	switch m.Kind {
	case QueryKind:
		if b.Query == nil {
			panic(fmt.Sprintf("builtin query %q has no operation", m.Signature))
		}
		if blocks > 0 {
			panic(fmt.Sprintf("builtin query %q has a block slot", m.Signature))
		}
	case CommandKind:
		if b.Command == nil {
			panic(fmt.Sprintf("builtin command %q has no operation", m.Signature))
		}
		index = globalRegistry.commands
	}

	if _, exists := index[m.Signature]; exists {
		panic(fmt.Sprintf("builtin %s %q is already registered", m.Kind, m.Signature))
	}
	index[m.Signature] = &b
}

// LookupQuery finds a builtin query by signature. Returns nil if not found.
func LookupQuery(signature string) *Builtin {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return globalRegistry.queries[signature]
}

// LookupCommand finds a builtin command by signature. Returns nil if not
// found.
func LookupCommand(signature string) *Builtin {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return globalRegistry.commands[signature]
}

// Lookup finds a builtin of either kind. Builtin signatures are reserved for
// every kind of user definition.
func Lookup(signature string) *Builtin {
	if b := LookupQuery(signature); b != nil {
		return b
	}
	return LookupCommand(signature)
}

// All returns the metadata of every builtin, queries first, each kind sorted
// by signature.
func All() []Meta {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	result := make([]Meta, 0, len(globalRegistry.queries)+len(globalRegistry.commands))
	for _, index := range []map[string]*Builtin{globalRegistry.queries, globalRegistry.commands} {
		start := len(result)
		for _, b := range index {
			result = append(result, b.Meta)
		}
		part := result[start:]
		sort.Slice(part, func(i, j int) bool { return part[i].Signature < part[j].Signature })
	}
	return result
}
