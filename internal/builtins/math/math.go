// Package math registers the numeric function and constant queries.
package math

import (
	"math"

	"ning/internal/builtins"
	"ning/internal/types"
	"ning/internal/value"
)

var num = types.SetOf(types.Number)

func init() {
	unary("exp ()", "natural exponential", math.Exp)
	unary("ln ()", "natural logarithm", math.Log)
	unary("sin ()", "sine", math.Sin)
	unary("cos ()", "cosine", math.Cos)
	unary("tan ()", "tangent", math.Tan)
	unary("asin ()", "arcsine", math.Asin)
	unary("acos ()", "arccosine", math.Acos)
	unary("atan ()", "arctangent", math.Atan)
	unary("floor ()", "floor", math.Floor)
	unary("ceil ()", "ceiling", math.Ceil)
	unary("round ()", "round", Round)
	unary("abs ()", "absolute value", math.Abs)

	binary("atan2 () ()", "two-argument arctangent", math.Atan2)
	binary("min () ()", "minimum", math.Min)
	binary("max () ()", "maximum", math.Max)

	constant("pi", math.Pi)
	constant("NaN", math.NaN())
	constant("Infinity", math.Inf(1))
	constant("-Infinity", math.Inf(-1))

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "random integer from () to ()",
			Kind:      builtins.QueryKind,
			Name:      "random integer",
			Args:      []types.Set{num, num},
			Result:    types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			xs, err := c.Numbers(2)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(RandomInteger(xs[0], xs[1], c.Ctx.Random())), nil
		},
	})
}

// Round rounds half up, so -2.5 becomes -2.
func Round(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

// RandomInteger maps r in [0, 1) to an integer in [floor(lo), floor(hi)).
// It returns floor(lo) when the range is empty.
func RandomInteger(lo, hi, r float64) float64 {
	lo, hi = math.Floor(lo), math.Floor(hi)
	return lo + math.Floor(r*(hi-lo))
}

func unary(signature, name string, fn func(float64) float64) {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      name,
			Args:      []types.Set{num},
			Result:    types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			x, err := c.Number(0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(fn(x)), nil
		},
	})
}

func binary(signature, name string, fn func(a, b float64) float64) {
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

func constant(signature string, f float64) {
	v := value.Number(f)
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: signature,
			Kind:      builtins.QueryKind,
			Name:      signature,
			Result:    types.Number,
		},
		Query: func(*builtins.Call) (value.Value, error) { return v, nil },
	})
}
