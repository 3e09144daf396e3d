package interp

import (
	"fmt"

	"ning/internal/ast"
	"ning/internal/builtins"
	"ning/internal/value"
)

// Eval evaluates an expression in the current frame stack.
func (i *Interpreter) Eval(e ast.Expression) (value.Value, error) {
	switch e := e.(type) {
	case *ast.StringLiteral:
		return value.String(e.Value), nil
	case *ast.CompoundExpr:
		return i.evalCompound(e)
	}
	return value.Value{}, fmt.Errorf("unexpected expression %T", e)
}

func (i *Interpreter) evalAll(exprs []ast.Expression) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for n, e := range exprs {
		v, err := i.Eval(e)
		if err != nil {
			return nil, err
		}
		out[n] = v
	}
	return out, nil
}

// evalCompound resolves a bare name as a number literal, then a variable;
// everything else is dispatched by signature, builtins first.
func (i *Interpreter) evalCompound(e *ast.CompoundExpr) (value.Value, error) {
	name, bare := e.BareName()
	if bare {
		if f, ok := value.ParseNumber(name); ok {
			return value.Number(f), nil
		}
		if v, _, ok := i.frames.LookupVar(name); ok {
			return v, nil
		}
	}

	sig := ast.QuerySignature(e)
	in := ast.QueryInputs(e)

	if b := builtins.LookupQuery(sig); b != nil {
		v, err := b.Query(&builtins.Call{Ctx: i, In: in})
		return v, locate(err, e, sig)
	}

	if def, ok := i.queries[sig]; ok {
		args, err := i.evalAll(in.Args)
		if err != nil {
			return value.Value{}, err
		}
		return i.callQuery(e, def, args)
	}

	if bare {
		return value.Value{}, faultf(e, "no variable or query named `%s`", name)
	}
	return value.Value{}, faultf(e, "could not find a query with signature `%s`", sig)
}
