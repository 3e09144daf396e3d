// Package typecheck statically checks a parsed Ning file. Checking never
// stops at the first problem: every diagnostic found is returned, and an
// empty result means the file is safe to run.
package typecheck

import (
	"fmt"

	"ning/internal/ast"
	"ning/internal/builtins"
	_ "ning/internal/builtins/catalog" // Ensure builtin packages are loaded for registration
	"ning/internal/scope"
	"ning/internal/types"
)

// ----- Symbols -----

// variable is what the checker knows about a variable binding. Result is
// poisoned when the initializer failed to type.
type variable struct {
	Result  types.Result
	Mutable bool
	Node    ast.Node
}

type list struct {
	Elem types.Type
	Node ast.Node
}

type userQuery struct {
	def    *ast.QueryDef
	params []types.Type
	result types.Type
}

type userCommand struct {
	def    *ast.CommandDef
	params []types.Type
}

// bodyKind selects the rules for the commands of the body being checked.
type bodyKind int

const (
	globalBody bodyKind = iota
	queryBody
	commandBody
)

// ----- Checker -----

type Checker struct {
	frames   *scope.Stack[variable, list]
	queries  map[string]*userQuery
	commands map[string]*userCommand

	diags []Diagnostic

	body   bodyKind
	result types.Type // declared type of the query being checked
}

// Check typechecks defs and returns every diagnostic found.
func Check(defs []ast.Def) []Diagnostic {
	c := &Checker{
		frames:   scope.New[variable, list](),
		queries:  make(map[string]*userQuery),
		commands: make(map[string]*userCommand),
	}
	c.checkGlobalDefs(defs)
	c.checkQueryDefs(defs)
	c.checkCommandDefs(defs)
	return c.diags
}

func (c *Checker) report(d Diagnostic, format string, args ...interface{}) {
	d.Msg = fmt.Sprintf(format, args...)
	c.diags = append(c.diags, d)
}

// checkGlobalDefs checks every Global body directly in frame 0, so its
// declarations become globals.
func (c *Checker) checkGlobalDefs(defs []ast.Def) {
	var globals []*ast.GlobalDef
	var misplaced []ast.Node
	for i, def := range defs {
		g, ok := def.(*ast.GlobalDef)
		if !ok {
			continue
		}
		globals = append(globals, g)
		if i > 0 {
			misplaced = append(misplaced, g)
		}
	}

	if len(misplaced) > 0 {
		c.report(Diagnostic{Kind: GlobalDefNotFirst, Node: misplaced[0], Nodes: misplaced},
			"a Global definition must be the first definition in the file (%d misplaced)", len(misplaced))
	}

	c.body = globalBody
	for _, g := range globals {
		c.checkCommands(g.Body.Commands)
	}
}

// checkQueryDefs checks queries in file order. A query is registered only
// after its body is checked, so it can call earlier queries but neither
// itself nor later ones.
func (c *Checker) checkQueryDefs(defs []ast.Def) {
	for _, def := range defs {
		q, ok := def.(*ast.QueryDef)
		if !ok {
			continue
		}

		sig := ast.HeaderSignature(q.Header)
		available := c.claim(sig, q, "query")

		params := c.pushParams(q.Header)
		c.body = queryBody
		c.result = q.ReturnType.Type
		c.checkCommands(q.Body.Commands)
		c.frames.Pop()

		if !hasInevitableReturn(q.Body) {
			c.report(Diagnostic{Kind: QueryDefBodyLacksInevitableReturn, Node: q},
				"query `%s` can finish without returning a %s", sig, q.ReturnType.Type)
		}

		if available {
			c.queries[sig] = &userQuery{def: q, params: params, result: q.ReturnType.Type}
		}
	}
}

// checkCommandDefs registers every command before checking any body, so
// commands may call each other in any order.
func (c *Checker) checkCommandDefs(defs []ast.Def) {
	var cmds []*ast.CommandDef
	for _, def := range defs {
		cmd, ok := def.(*ast.CommandDef)
		if !ok {
			continue
		}
		cmds = append(cmds, cmd)

		sig := ast.HeaderSignature(cmd.Header)
		if c.claim(sig, cmd, "command") {
			c.commands[sig] = &userCommand{def: cmd, params: paramTypes(cmd.Header)}
		}
	}

	c.body = commandBody
	for _, cmd := range cmds {
		c.pushParams(cmd.Header)
		c.checkCommands(cmd.Body.Commands)
		c.frames.Pop()
	}
}

// ----- Names -----

// conflict finds the definition name would collide with, checking
// variables, lists, queries, commands and builtins in that order. For a
// builtin the node is nil and the signature is returned instead.
func (c *Checker) conflict(name string) (node ast.Node, builtin string, found bool) {
	if v, _, ok := c.frames.LookupVar(name); ok {
		return v.Node, "", true
	}
	if l, _, ok := c.frames.LookupList(name); ok {
		return l.Node, "", true
	}
	if q, ok := c.queries[name]; ok {
		return q.def, "", true
	}
	if cmd, ok := c.commands[name]; ok {
		return cmd.def, "", true
	}
	if b := builtins.Lookup(name); b != nil {
		return nil, name, true
	}
	return nil, "", false
}

// claim reports a NameClash and returns false when name is taken.
func (c *Checker) claim(name string, node ast.Node, what string) bool {
	conflict, builtin, found := c.conflict(name)
	if !found {
		return true
	}

	d := Diagnostic{Kind: NameClash, Node: node, Conflict: conflict, ConflictBuiltin: builtin}
	if conflict != nil {
		c.report(d, "%s `%s` clashes with the definition at %s", what, name, conflict.Pos())
	} else {
		c.report(d, "%s `%s` clashes with a builtin", what, name)
	}
	return false
}

func paramTypes(header []ast.HeaderPart) []types.Type {
	var ts []types.Type
	for _, p := range ast.Params(header) {
		ts = append(ts, p.Type.Type)
	}
	return ts
}

// pushParams enters a frame holding the header's parameters as immutable
// variables. A parameter that clashes is reported and left unbound.
func (c *Checker) pushParams(header []ast.HeaderPart) []types.Type {
	frame := c.frames.Push()
	for _, p := range ast.Params(header) {
		name := p.ParamName()
		if c.claim(name, p, "parameter") {
			frame.Vars[name] = variable{Result: types.Typed(p.Type.Type), Node: p}
		}
	}
	return paramTypes(header)
}

// ----- Commands -----

func (c *Checker) checkCommands(cmds []*ast.Command) {
	for _, cmd := range cmds {
		c.checkCommand(cmd)
	}
}

func (c *Checker) checkBlock(b *ast.Block) {
	c.frames.Push()
	c.checkCommands(b.Commands)
	c.frames.Pop()
}

func (c *Checker) checkCommand(cmd *ast.Command) {
	sig := ast.CommandSignature(cmd)
	in := ast.CommandInputs(cmd)
	b := builtins.LookupCommand(sig)

	switch c.body {
	case globalBody:
		if b == nil || !b.Meta.InGlobal {
			c.report(Diagnostic{Kind: IllegalCommandInGlobalDefBody, Node: cmd},
				"`%s` is not allowed in a Global body; only declarations are", sig)
			return
		}
	case queryBody:
		if b == nil || !b.Meta.InQuery {
			c.report(Diagnostic{Kind: IllegalCommandInQueryDefBody, Node: cmd},
				"`%s` is not allowed in a query body", sig)
			return
		}
	}

	if b != nil {
		c.checkBuiltinCommand(cmd, &b.Meta, in)
		return
	}

	args := c.inferAll(in.Args)
	if u, ok := c.commands[sig]; ok {
		c.checkUserArgs(sig, in.Args, args, u.params)
		return
	}

	c.report(Diagnostic{Kind: NameNotFound, Node: cmd}, "no command with signature `%s`", sig)
	for _, block := range in.Blocks {
		c.checkBlock(block)
	}
}

func (c *Checker) checkBuiltinCommand(cmd *ast.Command, m *builtins.Meta, in ast.Inputs) {
	args := c.inferAll(in.Args)

	if m.Return {
		c.checkReturn(cmd, in, args)
		return
	}

	if m.Declares != builtins.NoDeclaration {
		c.declare(m, in.Refs[0], args)
		return
	}

	c.checkApplication(m, in, args)
	if m.Mutates {
		c.checkMutation(in.Refs[0])
	}
	for _, block := range in.Blocks {
		c.checkBlock(block)
	}
}

func (c *Checker) checkReturn(cmd *ast.Command, in ast.Inputs, args []types.Result) {
	if len(args) == 0 {
		if c.body == queryBody {
			c.report(Diagnostic{Kind: ReturnKindMismatch, Node: cmd},
				"a query must return a %s value", c.result)
		}
		return
	}

	if c.body != queryBody {
		c.report(Diagnostic{Kind: ReturnKindMismatch, Node: cmd}, "a command cannot return a value")
		return
	}
	if t, ok := args[0].Type(); ok && t != c.result {
		c.report(Diagnostic{Kind: ReturnTypeMismatch, Node: in.Args[0], Expected: types.SetOf(c.result), Actual: t},
			"query must return %s, got %s", c.result, t)
	}
}

// declare binds the name in the reference of a let, var or list creation in
// the innermost frame. The initializer has already been typed, so it cannot
// see the new name.
func (c *Checker) declare(m *builtins.Meta, ref *ast.SquareRef, args []types.Result) {
	name := ref.RefName()
	switch m.Declares {
	case builtins.DeclareList:
		if c.claim(name, ref, "list") {
			c.frames.DeclareList(name, list{Elem: m.ListElem, Node: ref})
		}
	default:
		if c.claim(name, ref, "variable") {
			c.frames.DeclareVar(name, variable{
				Result:  args[0],
				Mutable: m.Declares == builtins.DeclareMutable,
				Node:    ref,
			})
		}
	}
}

// checkMutation applies the restrictions on the target of a mutating
// builtin. An unresolved target has already been reported.
func (c *Checker) checkMutation(ref *ast.SquareRef) {
	name := ref.RefName()
	depth := c.frames.FrameOf(name)
	if depth < 0 {
		return
	}

	if c.body == queryBody && depth == 0 {
		c.report(Diagnostic{Kind: QueryDefBodyMutatesGlobal, Node: ref},
			"a query cannot modify the global `%s`", name)
	}
	if v, _, ok := c.frames.LookupVar(name); ok && !v.Mutable {
		c.report(Diagnostic{Kind: ReassignedImmutableVariable, Node: ref, Conflict: v.Node},
			"`%s` is immutable", name)
	}
}

// hasInevitableReturn reports whether every path through b returns: some
// top-level command is a return, or an if/else whose arms both have one.
func hasInevitableReturn(b *ast.Block) bool {
	for _, cmd := range b.Commands {
		sig := ast.CommandSignature(cmd)
		if builtin := builtins.LookupCommand(sig); builtin != nil && builtin.Meta.Return {
			return true
		}
		if sig == "if () {} else {}" {
			in := ast.CommandInputs(cmd)
			if hasInevitableReturn(in.Blocks[0]) && hasInevitableReturn(in.Blocks[1]) {
				return true
			}
		}
	}
	return false
}
