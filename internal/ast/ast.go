package ast

import (
	"strings"

	"ning/internal/token"
	"ning/internal/types"
)

// Basic interfaces. The unexported marker methods seal each variant set, so
// a type switch over them only ever sees the cases declared in this file.

type Node interface {
	Pos() token.Position
}

// Def is a top-level definition: *CommandDef, *QueryDef or *GlobalDef.
type Def interface {
	Node
	defNode()
}

// HeaderPart is one part of a command/query header: *Identifier or *ParamDef.
type HeaderPart interface {
	Node
	headerPart()
}

// CommandPart is one part of a command: *Identifier, *ParenExpr, *SquareRef
// or *Block.
type CommandPart interface {
	Node
	commandPart()
}

// Expression is *StringLiteral or *CompoundExpr.
type Expression interface {
	Node
	exprNode()
}

// CompoundPart is one part of a compound expression: *Identifier,
// *ParenExpr or *SquareRef.
type CompoundPart interface {
	Node
	compoundPart()
}

// ---------- Definitions ----------

type CommandDef struct {
	CommandPos token.Position
	Header     []HeaderPart
	Body       *Block
}

func (d *CommandDef) Pos() token.Position { return d.CommandPos }
func (*CommandDef) defNode()              {}

type QueryDef struct {
	ReturnType *TypeNode
	QueryPos   token.Position
	Header     []HeaderPart
	Body       *Block
}

func (d *QueryDef) Pos() token.Position { return d.ReturnType.Pos() }
func (*QueryDef) defNode()              {}

type GlobalDef struct {
	GlobalPos token.Position
	Body      *Block
}

func (d *GlobalDef) Pos() token.Position { return d.GlobalPos }
func (*GlobalDef) defNode()              {}

// ---------- Header ----------

// ParamDef is a typed parameter such as `(Number speed)`.
type ParamDef struct {
	LParen token.Position
	Type   *TypeNode
	Name   []*Identifier
}

func (p *ParamDef) Pos() token.Position { return p.LParen }
func (*ParamDef) headerPart()           {}

// ParamName is the parameter name, its identifiers joined by a space.
func (p *ParamDef) ParamName() string { return JoinIdentifiers(p.Name) }

type TypeNode struct {
	TypePos token.Position
	Type    types.Type
}

func (t *TypeNode) Pos() token.Position { return t.TypePos }

// ---------- Commands ----------

type Command struct {
	Parts     []CommandPart
	StartPos  token.Position
	Semicolon token.Position
}

func (c *Command) Pos() token.Position { return c.StartPos }

// Block is a `{ ... }` sequence of commands and a lexical scope.
type Block struct {
	LBrace   token.Position
	Commands []*Command
	RBrace   token.Position
}

func (b *Block) Pos() token.Position { return b.LBrace }
func (*Block) commandPart()          {}

// ---------- Expressions ----------

type Identifier struct {
	NamePos token.Position
	Name    string
}

func (i *Identifier) Pos() token.Position { return i.NamePos }
func (*Identifier) headerPart()           {}
func (*Identifier) commandPart()          {}
func (*Identifier) compoundPart()         {}

// ParenExpr is a value argument `( expression )`.
type ParenExpr struct {
	LParen token.Position
	Expr   Expression
	RParen token.Position
}

func (p *ParenExpr) Pos() token.Position { return p.LParen }
func (*ParenExpr) commandPart()          {}
func (*ParenExpr) compoundPart()         {}

// SquareRef is a bracketed name reference `[ ident+ ]`.
type SquareRef struct {
	LBracket    token.Position
	Identifiers []*Identifier
	RBracket    token.Position
}

func (s *SquareRef) Pos() token.Position { return s.LBracket }
func (*SquareRef) commandPart()          {}
func (*SquareRef) compoundPart()         {}

// RefName is the referenced name, its identifiers joined by a space.
func (s *SquareRef) RefName() string { return JoinIdentifiers(s.Identifiers) }

type StringLiteral struct {
	LitPos token.Position
	Source string // raw, quotes included
	Value  string // decoded
}

func (s *StringLiteral) Pos() token.Position { return s.LitPos }
func (*StringLiteral) exprNode()             {}

type CompoundExpr struct {
	StartPos token.Position
	Parts    []CompoundPart
}

func (c *CompoundExpr) Pos() token.Position { return c.StartPos }
func (*CompoundExpr) exprNode()             {}

// BareName reports whether the expression consists only of identifiers and,
// if so, returns them joined by a space.
func (c *CompoundExpr) BareName() (string, bool) {
	if len(c.Parts) == 0 {
		return "", false
	}
	names := make([]string, 0, len(c.Parts))
	for _, part := range c.Parts {
		id, ok := part.(*Identifier)
		if !ok {
			return "", false
		}
		names = append(names, id.Name)
	}
	return strings.Join(names, " "), true
}

// JoinIdentifiers joins identifier names with a single space.
func JoinIdentifiers(ids []*Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return strings.Join(names, " ")
}
