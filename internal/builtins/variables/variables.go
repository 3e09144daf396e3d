// Package variables registers the commands that declare and update
// variables.
package variables

import (
	"fmt"

	"ning/internal/builtins"
	"ning/internal/types"
	"ning/internal/value"
)

func init() {
	declare("let [] ()", "let", builtins.DeclareImmutable)
	declare("var [] ()", "var", builtins.DeclareMutable)

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "assign [] ()",
			Kind:      builtins.CommandKind,
			Name:      "assign",
			Args:      []types.Set{types.AnyType},
			Refs:      []types.SquareSet{types.AnyVariable},
			Rule:      builtins.RuleAssign,
			Mutates:   true,
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			v, err := c.Arg(0)
			if err != nil {
				return builtins.Continued, err
			}
			name := c.RefName(0)
			if !c.Ctx.Frames().SetVar(name, v) {
				return builtins.Continued, fmt.Errorf("variable %q not found", name)
			}
			return builtins.Continued, nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "increase [] ()",
			Kind:      builtins.CommandKind,
			Name:      "increase",
			Args:      []types.Set{types.SetOf(types.Number)},
			Refs:      []types.SquareSet{types.NumberVariable},
			Mutates:   true,
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			amount, err := c.Number(0)
			if err != nil {
				return builtins.Continued, err
			}
			name := c.RefName(0)
			frames := c.Ctx.Frames()
			old, _, ok := frames.LookupVar(name)
			if !ok {
				return builtins.Continued, fmt.Errorf("variable %q not found", name)
			}
			frames.SetVar(name, value.Number(old.Num+amount))
			return builtins.Continued, nil
		},
	})
}

func declare(signature, name string, decl builtins.Declaration) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.CommandKind,
			Name:      name,
			Args:      []types.Set{types.AnyType},
			Declares:  decl,
			InGlobal:  true,
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			v, err := c.Arg(0)
			if err != nil {
				return builtins.Continued, err
			}
			c.Ctx.Frames().DeclareVar(c.RefName(0), v)
			return builtins.Continued, nil
		},
	})
}
