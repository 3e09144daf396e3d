package ast

import "strings"

// Slot markers used in signatures in place of non-identifier parts.
const (
	ValueSlot = "()"
	RefSlot   = "[]"
	BlockSlot = "{}"
)

// Inputs are the non-identifier parts of an application, in source order.
type Inputs struct {
	Args   []Expression
	Refs   []*SquareRef
	Blocks []*Block
}

// CommandSignature returns the dispatch signature of a command application.
func CommandSignature(c *Command) string {
	words := make([]string, len(c.Parts))
	for i, part := range c.Parts {
		switch p := part.(type) {
		case *Identifier:
			words[i] = p.Name
		case *ParenExpr:
			words[i] = ValueSlot
		case *SquareRef:
			words[i] = RefSlot
		case *Block:
			words[i] = BlockSlot
		}
	}
	return strings.Join(words, " ")
}

// QuerySignature returns the dispatch signature of a query application.
func QuerySignature(e *CompoundExpr) string {
	words := make([]string, len(e.Parts))
	for i, part := range e.Parts {
		switch p := part.(type) {
		case *Identifier:
			words[i] = p.Name
		case *ParenExpr:
			words[i] = ValueSlot
		case *SquareRef:
			words[i] = RefSlot
		}
	}
	return strings.Join(words, " ")
}

// HeaderSignature returns the signature a command/query header defines.
func HeaderSignature(header []HeaderPart) string {
	words := make([]string, len(header))
	for i, part := range header {
		switch p := part.(type) {
		case *Identifier:
			words[i] = p.Name
		case *ParamDef:
			words[i] = ValueSlot
		}
	}
	return strings.Join(words, " ")
}

// Params returns the parameter declarations of a header, in order.
func Params(header []HeaderPart) []*ParamDef {
	var params []*ParamDef
	for _, part := range header {
		if p, ok := part.(*ParamDef); ok {
			params = append(params, p)
		}
	}
	return params
}

// CommandInputs splits a command into its arguments, references and blocks.
func CommandInputs(c *Command) Inputs {
	var in Inputs
	for _, part := range c.Parts {
		switch p := part.(type) {
		case *Identifier:
		case *ParenExpr:
			in.Args = append(in.Args, p.Expr)
		case *SquareRef:
			in.Refs = append(in.Refs, p)
		case *Block:
			in.Blocks = append(in.Blocks, p)
		}
	}
	return in
}

// QueryInputs splits a compound expression into its arguments and references.
func QueryInputs(e *CompoundExpr) Inputs {
	var in Inputs
	for _, part := range e.Parts {
		switch p := part.(type) {
		case *Identifier:
		case *ParenExpr:
			in.Args = append(in.Args, p.Expr)
		case *SquareRef:
			in.Refs = append(in.Refs, p)
		}
	}
	return in
}

// DefSignature returns the signature of a command or query definition, and
// "" for a global definition.
func DefSignature(d Def) string {
	switch def := d.(type) {
	case *CommandDef:
		return HeaderSignature(def.Header)
	case *QueryDef:
		return HeaderSignature(def.Header)
	case *GlobalDef:
		return ""
	}
	return ""
}
