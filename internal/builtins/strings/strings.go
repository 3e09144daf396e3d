// Package strings registers the string queries. Strings are indexed by
// Unicode code point.
package strings

import (
	"math"
	"strings"
	"unicode/utf8"

	"ning/internal/builtins"
	"ning/internal/types"
	"ning/internal/value"
)

var (
	num = types.SetOf(types.Number)
	str = types.SetOf(types.String)
)

func init() {
	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "length of ()",
			Kind:      builtins.QueryKind,
			Name:      "string length",
			Args:      []types.Set{str},
			Result:    types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			s, err := c.Text(0)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(float64(utf8.RuneCountInString(s))), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "letter () of ()",
			Kind:      builtins.QueryKind,
			Name:      "letter",
			Args:      []types.Set{str, num},
			Result:    types.String,
		},
		// The string comes first: `letter ("abc") of (1)` is "b".
		Query: func(c *builtins.Call) (value.Value, error) {
			s, err := c.Text(0)
			if err != nil {
				return value.Value{}, err
			}
			index, err := c.Number(1)
			if err != nil {
				return value.Value{}, err
			}
			return value.String(Letter(s, index)), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "substring of () from () to ()",
			Kind:      builtins.QueryKind,
			Name:      "substring",
			Args:      []types.Set{str, num, num},
			Result:    types.String,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			s, err := c.Text(0)
			if err != nil {
				return value.Value{}, err
			}
			bounds, err := numbersFrom(c, 1, 2)
			if err != nil {
				return value.Value{}, err
			}
			return value.String(Substring(s, bounds[0], bounds[1])), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "() contains ()",
			Kind:      builtins.QueryKind,
			Name:      "string contains",
			Args:      []types.Set{str, str},
			Result:    types.Boolean,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			haystack, needle, err := pair(c)
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(strings.Contains(haystack, needle)), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "index of () in ()",
			Kind:      builtins.QueryKind,
			Name:      "string index of",
			Args:      []types.Set{str, str},
			Result:    types.Number,
		},
		// The haystack comes first: `index of ("abc") in ("b")` is 1.
		Query: func(c *builtins.Call) (value.Value, error) {
			haystack, needle, err := pair(c)
			if err != nil {
				return value.Value{}, err
			}
			return value.Number(float64(IndexOf(haystack, needle))), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "parse number ()",
			Kind:      builtins.QueryKind,
			Name:      "parse number",
			Args:      []types.Set{str},
			Result:    types.Number,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			s, err := c.Text(0)
			if err != nil {
				return value.Value{}, err
			}
			f, ok := value.ParseNumber(s)
			if !ok {
				f = math.NaN()
			}
			return value.Number(f), nil
		},
	})

	builtins.Register(builtins.Builtin{
		Meta: builtins.Meta{
			Signature: "string of ()",
			Kind:      builtins.QueryKind,
			Name:      "string of",
			Args:      []types.Set{types.SetOf(types.Number, types.Boolean)},
			Result:    types.String,
		},
		Query: func(c *builtins.Call) (value.Value, error) {
			v, err := c.Arg(0)
			if err != nil {
				return value.Value{}, err
			}
			return value.String(v.String()), nil
		},
	})
}

func pair(c *builtins.Call) (string, string, error) {
	a, err := c.Text(0)
	if err != nil {
		return "", "", err
	}
	b, err := c.Text(1)
	return a, b, err
}

func numbersFrom(c *builtins.Call, slots ...int) ([]float64, error) {
	out := make([]float64, len(slots))
	for i, slot := range slots {
		f, err := c.Number(slot)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func isIndex(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Floor(f)
}

// Letter returns the code point at index, or "" when index is not an
// integer in range.
func Letter(s string, index float64) string {
	rs := []rune(s)
	if !isIndex(index) || index < 0 || index >= float64(len(rs)) {
		return ""
	}
	return string(rs[int(index)])
}

// Substring returns the code points in [start, end). Negative bounds count
// from the end, out of range bounds are clamped, and non-integer bounds
// yield "".
func Substring(s string, start, end float64) string {
	if !isIndex(start) || !isIndex(end) {
		return ""
	}
	rs := []rune(s)
	from, to := clamp(start, len(rs)), clamp(end, len(rs))
	if from >= to {
		return ""
	}
	return string(rs[from:to])
}

func clamp(f float64, n int) int {
	if f < 0 {
		f += float64(n)
		if f < 0 {
			return 0
		}
	}
	if f > float64(n) {
		return n
	}
	return int(f)
}

// IndexOf returns the code point index of the first occurrence of needle in
// haystack, or -1.
func IndexOf(haystack, needle string) int {
	i := strings.Index(haystack, needle)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(haystack[:i])
}
