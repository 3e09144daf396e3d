// Package canvas registers the drawing commands. They do not touch the
// surface directly; each stages a render request that the interpreter
// flushes at the end of the tick.
package canvas

import (
	"fmt"
	"math"

	"ning/internal/builtins"
	"ning/internal/runtime"
	"ning/internal/types"
)

var (
	num = types.SetOf(types.Number)
	str = types.SetOf(types.String)
)

func init() {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "resize canvas to () by ()",
			Kind:      builtins.CommandKind,
			Name:      "resize canvas",
			Args:      []types.Set{num, num},
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			dims, err := dimensions(c, 0, 2)
			if err != nil {
				return builtins.Continued, err
			}
			c.Ctx.Stage(&runtime.ResizeRequest{Width: dims[0], Height: dims[1]})
			return builtins.Continued, nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "draw image () at () () size () ()",
			Kind:      builtins.CommandKind,
			Name:      "draw image",
			Args:      []types.Set{str, num, num, num, num},
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			name, err := c.Text(0)
			if err != nil {
				return builtins.Continued, err
			}
			r, err := dimensions(c, 1, 4)
			if err != nil {
				return builtins.Continued, err
			}
			if r[2] <= 0 || r[3] <= 0 {
				return builtins.Continued, nil
			}
			c.Ctx.Stage(&runtime.DrawRequest{ImageName: name, X: r[0], Y: r[1], Width: r[2], Height: r[3]})
			return builtins.Continued, nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "clear rect at () () size () ()",
			Kind:      builtins.CommandKind,
			Name:      "clear rect",
			Args:      []types.Set{num, num, num, num},
		},
		Command: func(c *builtins.Call) (builtins.Completion, error) {
			r, err := dimensions(c, 0, 4)
			if err != nil {
				return builtins.Continued, err
			}
			if r[2] <= 0 || r[3] <= 0 {
				return builtins.Continued, nil
			}
			c.Ctx.Stage(&runtime.ClearRectRequest{X: r[0], Y: r[1], Width: r[2], Height: r[3]})
			return builtins.Continued, nil
		},
	})
}

// dimensions evaluates n Number slots starting at first and floors them.
// Every one must be finite.
func dimensions(c *builtins.Call, first, n int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		f, err := c.Number(first + i)
		if err != nil {
			return nil, err
		}
		f = math.Floor(f)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("canvas dimension %v is not a finite number", f)
		}
		out[i] = int(f)
	}
	return out, nil
}
