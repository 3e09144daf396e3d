package interp

import (
	"strings"

	"ning/internal/ast"
	"ning/internal/builtins"
	"ning/internal/scope"
	"ning/internal/value"
)

// execCommands runs cmds in the current frame, stopping at the first
// completion that is not Continue.
func (i *Interpreter) execCommands(cmds []*ast.Command) (builtins.Completion, error) {
	for _, cmd := range cmds {
		c, err := i.execCommand(cmd)
		if err != nil {
			return builtins.Continued, err
		}
		if c.Kind != builtins.Continue {
			return c, nil
		}
	}
	return builtins.Continued, nil
}

// Exec runs b in a fresh frame.
func (i *Interpreter) Exec(b *ast.Block) (builtins.Completion, error) {
	i.frames.Push()
	defer i.frames.Pop()
	return i.execCommands(b.Commands)
}

func (i *Interpreter) execCommand(cmd *ast.Command) (builtins.Completion, error) {
	sig := ast.CommandSignature(cmd)
	in := ast.CommandInputs(cmd)

	if b := builtins.LookupCommand(sig); b != nil {
		prev := i.pos
		i.pos = cmd.Pos()
		c, err := b.Command(&builtins.Call{Ctx: i, In: in})
		i.pos = prev
		return c, locate(err, cmd, sig)
	}

	if def, ok := i.commands[sig]; ok {
		args, err := i.evalAll(in.Args)
		if err != nil {
			return builtins.Continued, err
		}
		return builtins.Continued, i.callCommand(cmd, def, args)
	}

	return builtins.Continued, faultf(cmd, "could not find a command with signature `%s`", sig)
}

// MaxCallDepth bounds the nesting of user command and query calls. A call
// beyond it faults instead of exhausting the goroutine stack.
const MaxCallDepth = 10000

// enter counts a user call made at node and undoes it with the returned func.
func (i *Interpreter) enter(node ast.Node, sig string) (func(), error) {
	if i.depth >= MaxCallDepth {
		return nil, faultf(node, "calling `%s` nests more than %d user calls deep", sig, MaxCallDepth)
	}
	i.depth++
	return func() { i.depth-- }, nil
}

// callCommand runs a user command with its parameters bound in a new frame.
// A return ends the command and nothing more.
func (i *Interpreter) callCommand(at ast.Node, def *ast.CommandDef, args []value.Value) error {
	leave, err := i.enter(at, ast.HeaderSignature(def.Header))
	if err != nil {
		return err
	}
	defer leave()

	i.frames.PushFrame(paramFrame(def.Header, args))
	defer i.frames.Pop()

	_, err = i.execCommands(def.Body.Commands)
	return err
}

// callQuery runs a user query with its parameters bound in a new frame. The
// body must end in a value return; anything else faults at the call site.
func (i *Interpreter) callQuery(call *ast.CompoundExpr, def *ast.QueryDef, args []value.Value) (value.Value, error) {
	sig := ast.HeaderSignature(def.Header)
	leave, err := i.enter(call, sig)
	if err != nil {
		return value.Value{}, err
	}
	defer leave()

	i.frames.PushFrame(paramFrame(def.Header, args))
	defer i.frames.Pop()

	c, err := i.execCommands(def.Body.Commands)
	if err != nil {
		return value.Value{}, err
	}

	switch c.Kind {
	case builtins.ReturnValue:
		return c.Value, nil
	case builtins.ReturnVoid:
		return value.Value{}, faultf(call, "query `%s` with args %s reached a `return` without a value", sig, formatArgs(args))
	}
	return value.Value{}, faultf(call, "query `%s` with args %s finished without returning", sig, formatArgs(args))
}

func paramFrame(header []ast.HeaderPart, args []value.Value) *scope.Frame[value.Value, *value.List] {
	frame := &scope.Frame[value.Value, *value.List]{Vars: make(map[string]value.Value)}
	for n, p := range ast.Params(header) {
		if n < len(args) {
			frame.Vars[p.ParamName()] = args[n]
		}
	}
	return frame
}

func formatArgs(args []value.Value) string {
	parts := make([]string, len(args))
	for n, a := range args {
		parts[n] = a.GoString()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
