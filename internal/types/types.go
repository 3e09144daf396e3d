package types

import (
	"sort"
	"strings"
)

// Type is one of the three Ning value types.
type Type int

const (
	Number Type = iota
	String
	Boolean
)

func (t Type) String() string {
	switch t {
	case Number:
		return "Number"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	default:
		return "Type(?)"
	}
}

// All lists every Type in declaration order.
var All = []Type{Number, String, Boolean}

// ----- Type sets -----

// Set is a non-empty union of types accepted by one value slot.
type Set uint8

func SetOf(ts ...Type) Set {
	var s Set
	for _, t := range ts {
		s |= 1 << uint(t)
	}
	return s
}

// AnyType accepts every single type.
var AnyType = SetOf(Number, String, Boolean)

func (s Set) Has(t Type) bool { return s&(1<<uint(t)) != 0 }

// Types returns the members of s in declaration order.
func (s Set) Types() []Type {
	var out []Type
	for _, t := range All {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s Set) String() string {
	names := make([]string, 0, 3)
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, " | ")
}

// ----- Square types -----

// Square is the type of whatever a bracketed name reference denotes: a plain
// variable of type Elem, or a list whose elements are of type Elem.
type Square struct {
	IsList bool
	Elem   Type
}

func (s Square) String() string {
	if s.IsList {
		return s.Elem.String() + " List"
	}
	return s.Elem.String()
}

// SquarePattern matches squares of one shape whose type is in Types.
type SquarePattern struct {
	IsList bool
	Types  Set
}

func (p SquarePattern) Matches(s Square) bool {
	return p.IsList == s.IsList && p.Types.Has(s.Elem)
}

func (p SquarePattern) String() string {
	if p.Types == AnyType {
		if p.IsList {
			return "any list"
		}
		return "any variable"
	}
	if p.IsList {
		return "list of " + p.Types.String()
	}
	return p.Types.String()
}

// SquareSet is the union of square shapes accepted by one reference slot.
type SquareSet []SquarePattern

var (
	AnyList     = SquareSet{{IsList: true, Types: AnyType}}
	AnyVariable = SquareSet{{IsList: false, Types: AnyType}}

	NumberVariable = SquareSet{{IsList: false, Types: SetOf(Number)}}
)

func (ss SquareSet) Has(s Square) bool {
	for _, p := range ss {
		if p.Matches(s) {
			return true
		}
	}
	return false
}

func (ss SquareSet) String() string {
	parts := make([]string, len(ss))
	for i, p := range ss {
		parts[i] = p.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}

// ----- Typing results -----

// Result is the outcome of typing an expression: either a concrete type or
// poison, meaning the failure has already been reported and must not be
// checked again.
type Result struct {
	typ Type
	ok  bool
}

func Typed(t Type) Result { return Result{typ: t, ok: true} }

// Poisoned is the result of a sub-expression that failed to type.
func Poisoned() Result { return Result{} }

func (r Result) IsPoisoned() bool { return !r.ok }

// Type returns the concrete type; ok is false for poison.
func (r Result) Type() (t Type, ok bool) { return r.typ, r.ok }

func (r Result) String() string {
	if !r.ok {
		return "<poisoned>"
	}
	return r.typ.String()
}
