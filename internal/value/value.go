package value

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"ning/internal/types"
)

// Value is a runtime value. Exactly one of Num, Str, Bool is meaningful,
// selected by Type.
type Value struct {
	Type types.Type
	Num  float64
	Str  string
	Bool bool
}

func Number(f float64) Value { return Value{Type: types.Number, Num: f} }
func String(s string) Value  { return Value{Type: types.String, Str: s} }
func Bool(b bool) Value      { return Value{Type: types.Boolean, Bool: b} }

// Zero is the default value of t: 0, "" or false.
func Zero(t types.Type) Value {
	switch t {
	case types.String:
		return String("")
	case types.Boolean:
		return Bool(false)
	default:
		return Number(0)
	}
}

// Equal is Ning equality. It differs from IEEE comparison in one place: NaN
// is equal to NaN.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case types.Number:
		return a.Num == b.Num || (math.IsNaN(a.Num) && math.IsNaN(b.Num))
	case types.String:
		return a.Str == b.Str
	case types.Boolean:
		return a.Bool == b.Bool
	}
	return false
}

func (v Value) String() string {
	switch v.Type {
	case types.Number:
		return FormatNumber(v.Num)
	case types.String:
		return v.Str
	case types.Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	}
	return "<invalid>"
}

// GoString renders strings quoted, for fault messages and test output.
func (v Value) GoString() string {
	if v.Type == types.String {
		return strconv.Quote(v.Str)
	}
	return v.String()
}

// FormatNumber renders f the way Ning's `string of` does: integers without a
// fraction, NaN, Infinity and -Infinity spelled out, exponent form outside
// [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go writes 1e+21 as 1e+21 and 1e-07 as 1e-07; Ning drops the padding.
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + string(sign) + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var numberLiteral = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// IsNumberLiteral reports whether lexeme spells a Ning number literal.
func IsNumberLiteral(lexeme string) bool {
	return numberLiteral.MatchString(lexeme)
}

// ParseNumber parses a Ning number literal. ok is false when lexeme is not
// one.
func ParseNumber(lexeme string) (f float64, ok bool) {
	if !IsNumberLiteral(lexeme) {
		return 0, false
	}
	// out of range literals come back as ±Inf with ErrRange, which is fine
	f, _ = strconv.ParseFloat(lexeme, 64)
	return f, true
}

// ----- Lists -----

// List is a mutable, homogeneous list. Lists are shared by reference.
type List struct {
	Elem  types.Type
	Items []Value
}

func NewList(elem types.Type) *List {
	return &List{Elem: elem}
}

// Index converts f to a valid index into l, reporting false when f is not an
// integer in range.
func (l *List) Index(f float64) (int, bool) {
	if f != math.Floor(f) || f < 0 || f >= float64(len(l.Items)) {
		return 0, false
	}
	return int(f), true
}

// Item returns the element at f, or the zero value of the element type.
func (l *List) Item(f float64) Value {
	if i, ok := l.Index(f); ok {
		return l.Items[i]
	}
	return Zero(l.Elem)
}

// Replace overwrites the element at f. Out of range indices are ignored.
func (l *List) Replace(f float64, v Value) {
	if i, ok := l.Index(f); ok {
		l.Items[i] = v
	}
}

// Insert inserts v before the element at f. Out of range indices are ignored.
func (l *List) Insert(f float64, v Value) {
	i, ok := l.Index(f)
	if !ok {
		return
	}
	l.Items = append(l.Items, Value{})
	copy(l.Items[i+1:], l.Items[i:])
	l.Items[i] = v
}

// Delete removes the element at f. Out of range indices are ignored.
func (l *List) Delete(f float64) {
	if i, ok := l.Index(f); ok {
		l.Items = append(l.Items[:i], l.Items[i+1:]...)
	}
}

func (l *List) Clear() { l.Items = l.Items[:0] }

func (l *List) Add(v Value) { l.Items = append(l.Items, v) }

// IndexOf returns the position of the first element equal to v, or -1.
func (l *List) IndexOf(v Value) int {
	for i, item := range l.Items {
		if Equal(item, v) {
			return i
		}
	}
	return -1
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, el := range l.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(el.GoString())
	}
	b.WriteByte(']')
	return b.String()
}
