// Package control registers the branching, looping and return commands.
package control

import (
	"fmt"
	"math"

	"ning/internal/builtins"
	"ning/internal/types"
)

var (
	num     = types.SetOf(types.Number)
	boolean = types.SetOf(types.Boolean)
)

// maxRepeat is the largest count a float64 still counts exactly.
const maxRepeat = 1 << 53

func init() {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "if () {}",
			Kind:      builtins.CommandKind,
			Name:      "if",
			Args:      []types.Set{boolean},
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			cond, err := c.Bool(0)
			if err != nil || !cond {
				return builtins.Continued, err
			}
			return c.Block(0)
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "if () {} else {}",
			Kind:      builtins.CommandKind,
			Name:      "if else",
			Args:      []types.Set{boolean},
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			cond, err := c.Bool(0)
			if err != nil {
				return builtins.Continued, err
			}
			if cond {
				return c.Block(0)
			}
			return c.Block(1)
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "while () {}",
			Kind:      builtins.CommandKind,
			Name:      "while",
			Args:      []types.Set{boolean},
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			for {
				cond, err := c.Bool(0)
				if err != nil || !cond {
					return builtins.Continued, err
				}
				done, err := c.Block(0)
				if err != nil || done.Kind != builtins.Continue {
					return done, err
				}
			}
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "repeat () times {}",
			Kind:      builtins.CommandKind,
			Name:      "repeat",
			Args:      []types.Set{num},
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			raw, err := c.Number(0)
			if err != nil {
				return builtins.Continued, err
			}
			if math.IsNaN(raw) || math.IsInf(raw, 0) {
				return builtins.Continued, fmt.Errorf("repeat iteration count %v is not a finite number", raw)
			}
			if raw > maxRepeat {
				return builtins.Continued, fmt.Errorf("repeat iteration count %v is too large", raw)
			}
			for i, n := int64(0), int64(math.Floor(raw)); i < n; i++ {
				done, err := c.Block(0)
				if err != nil || done.Kind != builtins.Continue {
					return done, err
				}
			}
			return builtins.Continued, nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "return ()",
			Kind:      builtins.CommandKind,
			Name:      "return value",
			Args:      []types.Set{types.AnyType},
			Return:    true,
			InQuery:   true,
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			v, err := c.Arg(0)
			if err != nil {
				return builtins.Continued, err
			}
			return builtins.Returned(v), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "return",
			Kind:      builtins.CommandKind,
			Name:      "return",
			Return:    true,
			InQuery:   true,
		},
		Command: func(*builtins.Call) (builtins.Completion, error) {
			return builtins.Completion{Kind: builtins.ReturnVoid}, nil
		},
	})
}
