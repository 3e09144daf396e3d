// Package operators registers the arithmetic, comparison, logic and ternary
// queries.
package operators

import (
	"math"

	"ning/internal/builtins"
	"ning/internal/types"
	"ning/internal/value"
)

var (
	num     = types.SetOf(types.Number)
	str     = types.SetOf(types.String)
	boolean = types.SetOf(types.Boolean)
)

func init() {
	arithmetic("() + ()", "add", func(a, b float64) float64 { return a + b })
	arithmetic("() - ()", "subtract", func(a, b float64) float64 { return a - b })
	arithmetic("() * ()", "multiply", func(a, b float64) float64 { return a * b })
	arithmetic("() / ()", "divide", func(a, b float64) float64 { return a / b })
	arithmetic("() % ()", "remainder", math.Mod)
	arithmetic("() ^ ()", "power", Pow)

	comparison("() < ()", "less than", func(a, b float64) bool { return a < b })
	comparison("() <= ()", "less than or equal", func(a, b float64) bool { return a <= b })
	comparison("() > ()", "greater than", func(a, b float64) bool { return a > b })
	comparison("() >= ()", "greater than or equal", func(a, b float64) bool { return a >= b })

	equality("() = ()", "equal", false)
	equality("() != ()", "not equal", true)

	logic("() and ()", "and", func(a, b bool) bool { return a && b })
	logic("() or ()", "or", func(a, b bool) bool { return a || b })

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "not ()",
			Kind:      builtins.QueryKind,
			Name:      "not",
			Args:      []types.Set{boolean},
			Result:    types.Boolean,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			b, err := c.Bool(0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(!b), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "() ++ ()",
			Kind:      builtins.QueryKind,
			Name:      "concatenate",
			Args:      []types.Set{str, str},
			Result:    types.String,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			a, err := c.Text(0)
			if err != nil {
				return value.Value{}, err
			}
			b, err := c.Text(1)
			if err != nil {
				return value.Value{}, err
			}
			return value.String(a + b), nil
		},
	})

	constant("true", value.Bool(true))
	constant("false", value.Bool(false))

	// Both branches are evaluated; only the condition picks the result.
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "if () then () else ()",
			Kind:      builtins.QueryKind,
			Name:      "ternary",
			Args:      []types.Set{boolean, types.AnyType, types.AnyType},
			Rule:      builtins.RuleTernary,
			Output:    builtins.BranchOutput,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			cond, err := c.Bool(0)
			if err != nil {
				return value.Value{}, err
			}
			then, err := c.Arg(1)
			if err != nil {
				return value.Value{}, err
			}
			otherwise, err := c.Arg(2)
			if err != nil {
				return value.Value{}, err
			}
			if cond {
				return then, nil
			}
			return otherwise, nil
		},
	})
}

func arithmetic(signature, name string, fn func(a, b float64) float64) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      name,
			Args:      []types.Set{num, num},
			Result:    types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			xs, err := c.Numbers(2)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(fn(xs[0], xs[1])), nil
		},
	})
}

func comparison(signature, name string, fn func(a, b float64) bool) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      name,
			Args:      []types.Set{num, num},
			Result:    types.Boolean,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			xs, err := c.Numbers(2)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(fn(xs[0], xs[1])), nil
		},
	})
}

func equality(signature, name string, negate bool) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      name,
			Args:      []types.Set{types.AnyType, types.AnyType},
			Rule:      builtins.RuleSameType,
			Result:    types.Boolean,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			a, err := c.Arg(0)
			if err != nil {
				return value.Value{}, err
			}
			b, err := c.Arg(1)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(value.Equal(a, b) != negate), nil
		},
	})
}

func logic(signature, name string, fn func(a, b bool) bool) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      name,
			Args:      []types.Set{boolean, boolean},
			Result:    types.Boolean,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			a, err := c.Bool(0)
			if err != nil {
				return value.Value{}, err
			}
			b, err := c.Bool(1)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(fn(a, b)), nil
		},
	})
}

func constant(signature string, v value.Value) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      signature,
			Args:      []types.Set{},
			Result:    v.Type,
		},
		Query: func(*builtins.Call) (value.Value, error) { return v, nil },
	})
}

// Pow is exponentiation with ECMAScript semantics, which differ from
// math.Pow for a base of ±1 with an infinite or NaN exponent: those are NaN.
func Pow(x, y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}
	if math.Abs(x) == 1 && math.IsInf(y, 0) {
		return math.NaN()
	}
	return math.Pow(x, y)
}
