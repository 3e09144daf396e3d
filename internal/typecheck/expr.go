package typecheck

import (
	"ning/internal/ast"
	"ning/internal/builtins"
	"ning/internal/types"
	"ning/internal/value"
)

func (c *Checker) inferAll(exprs []ast.Expression) []types.Result {
	out := make([]types.Result, len(exprs))
	for i, e := range exprs {
		out[i] = c.inferExpr(e)
	}
	return out
}

func (c *Checker) inferExpr(e ast.Expression) types.Result {
	switch e := e.(type) {
	case *ast.StringLiteral:
		return types.Typed(types.String)
	case *ast.CompoundExpr:
		return c.inferCompound(e)
	}
	return types.Poisoned()
}

// inferCompound types a compound expression. One made of identifiers alone
// is a number literal or a variable if it spells one; anything else is an
// application.
func (c *Checker) inferCompound(e *ast.CompoundExpr) types.Result {
	if name, ok := e.BareName(); ok {
		if value.IsNumberLiteral(name) {
			return types.Typed(types.Number)
		}
		if v, _, ok := c.frames.LookupVar(name); ok {
			return v.Result
		}
	}

	sig := ast.QuerySignature(e)
	in := ast.QueryInputs(e)
	args := c.inferAll(in.Args)

	if b := builtins.LookupQuery(sig); b != nil {
		return c.checkApplication(&b.Meta, in, args)
	}
	if q, ok := c.queries[sig]; ok {
		c.checkUserArgs(sig, in.Args, args, q.params)
		return types.Typed(q.result)
	}

	if sig == "" {
		c.report(Diagnostic{Kind: NameNotFound, Node: e}, "empty expression")
	} else {
		c.report(Diagnostic{Kind: NameNotFound, Node: e}, "no variable or query named `%s`", sig)
	}
	return types.Poisoned()
}

// square is a resolved reference; ok is false when it could not be resolved
// or did not match its slot.
type square struct {
	sq types.Square
	ok bool
}

func (c *Checker) resolveSquare(ref *ast.SquareRef) square {
	name := ref.RefName()
	if v, _, ok := c.frames.LookupVar(name); ok {
		t, typed := v.Result.Type()
		return square{sq: types.Square{Elem: t}, ok: typed}
	}
	if l, _, ok := c.frames.LookupList(name); ok {
		return square{sq: types.Square{IsList: true, Elem: l.Elem}, ok: true}
	}
	c.report(Diagnostic{Kind: NameNotFound, Node: ref}, "no variable or list named `%s`", name)
	return square{}
}

// checkApplication checks the slots of a builtin application and returns
// its output type. A failed slot is reported but does not poison the output
// unless the output depends on it.
func (c *Checker) checkApplication(m *builtins.Meta, in ast.Inputs, args []types.Result) types.Result {
	squares := make([]square, len(in.Refs))
	for i, ref := range in.Refs {
		s := c.resolveSquare(ref)
		if s.ok && !m.Refs[i].Has(s.sq) {
			c.report(Diagnostic{Kind: SquareTypeMismatch, Node: ref, ExpectedSquare: m.Refs[i], ActualSquare: s.sq},
				"reference %d of `%s` must be %s, got %s", i+1, m.Signature, m.Refs[i], s.sq)
			s.ok = false
		}
		squares[i] = s
	}

	for i, r := range args {
		t, ok := r.Type()
		if !ok {
			continue
		}

		expected := m.Args[i]
		switch m.Rule {
		case builtins.RuleSameType:
			if first, ok := args[0].Type(); ok && i == 1 {
				expected = types.SetOf(first)
			}
		case builtins.RuleTernary:
			if then, ok := args[1].Type(); ok && i == 2 {
				expected = types.SetOf(then)
			}
		case builtins.RuleElement, builtins.RuleAssign:
			if i == m.ElementArg {
				if !squares[0].ok {
					continue
				}
				expected = types.SetOf(squares[0].sq.Elem)
			}
		}

		if !expected.Has(t) {
			c.report(Diagnostic{Kind: ArgTypeMismatch, Node: in.Args[i], Expected: expected, Actual: t},
				"argument %d of `%s` must be %s, got %s", i+1, m.Signature, expected, t)
		}
	}

	switch m.Output {
	case builtins.ElementOutput:
		if squares[0].ok {
			return types.Typed(squares[0].sq.Elem)
		}
		return types.Poisoned()
	case builtins.BranchOutput:
		if !args[1].IsPoisoned() {
			return args[1]
		}
		return args[2]
	}
	return types.Typed(m.Result)
}

// checkUserArgs checks the arguments of a user query or command, each
// against its single declared parameter type.
func (c *Checker) checkUserArgs(sig string, exprs []ast.Expression, args []types.Result, params []types.Type) {
	for i, r := range args {
		t, ok := r.Type()
		if !ok || i >= len(params) || t == params[i] {
			continue
		}
		c.report(Diagnostic{Kind: ArgTypeMismatch, Node: exprs[i], Expected: types.SetOf(params[i]), Actual: t},
			"argument %d of `%s` must be %s, got %s", i+1, sig, params[i], t)
	}
}
