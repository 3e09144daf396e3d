// Package environment registers the queries that poll the host: pointer,
// keyboard, window and canvas size, and the wall clock.
package environment

import (
	"time"

	"ning/internal/builtins"
	"ning/internal/runtime"
	"ning/internal/types"
	"ning/internal/value"
)

func init() {
	poll("window mouse x", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(env.WindowMouseX())
	})
	poll("window mouse y", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(env.WindowMouseY())
	})
	poll("canvas mouse x", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(env.CanvasMouseX())
	})
	poll("canvas mouse y", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(env.CanvasMouseY())
	})
	poll("mouse down", types.Boolean, func(env runtime.Environment) value.Value {
		return value.Bool(env.MouseDown())
	})
	poll("window width", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(env.WindowWidth())
	})
	// Reports the window width, as the browser host always has.
	poll("window height", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(env.WindowWidth())
	})
	poll("canvas width", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(float64(env.Surface().Width()))
	})
	poll("canvas height", types.Number, func(env runtime.Environment) value.Value {
		return value.Number(float64(env.Surface().Height()))
	})

	clock("milliseconds since unix epoch", func(t time.Time) int64 { return t.UnixMilli() })
	clock("current year", func(t time.Time) int64 { return int64(t.Year()) })
	clock("current month", func(t time.Time) int64 { return int64(t.Month()) - 1 })
	clock("current date", func(t time.Time) int64 { return int64(t.Day()) })
	clock("current day of week", func(t time.Time) int64 { return int64(t.Weekday()) })
	clock("current hour", func(t time.Time) int64 { return int64(t.Hour()) })
	clock("current minute", func(t time.Time) int64 { return int64(t.Minute()) })
	clock("current second", func(t time.Time) int64 { return int64(t.Second()) })

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "key () pressed",
			Kind:      builtins.QueryKind,
			Name:      "key pressed",
			Args:      []types.Set{types.SetOf(types.String)},
			Result:    types.Boolean,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			key, err := c.Text(0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(c.Ctx.Env().KeyPressed(key)), nil
		},
	})
}

func poll(signature string, result types.Type, read func(runtime.Environment) value.Value) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      signature,
			Result:    result,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			return read(c.Ctx.Env()), nil
		},
	})
}

// clock registers a query reading the interpreter's clock in local time.
func clock(signature string, field func(time.Time) int64) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      signature,
			Result:    types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			return value.Number(float64(field(c.Ctx.Now().Local()))), nil
		},
	})
}
