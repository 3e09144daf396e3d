package token

import "fmt"

type Kind int

const (
	Illegal Kind = iota
	EOF

	Ident  // Identifier (any run of non-delimiter characters)
	String // String literal, Lexeme holds the raw source including quotes

	// Keywords
	Command
	Query
	Global

	// Type keywords
	NumberType  // Number
	StringType  // String
	BooleanType // Boolean

	// Delimiters
	Semicolon // ;
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

func (k Kind) String() string {
	switch k {
	case Illegal:
		return "Illegal"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case String:
		return "StringLiteral"
	case Command:
		return "Command"
	case Query:
		return "Query"
	case Global:
		return "Global"
	case NumberType:
		return "Number"
	case StringType:
		return "String"
	case BooleanType:
		return "Boolean"
	case Semicolon:
		return ";"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var keywords = map[string]Kind{
	"Command": Command,
	"Query":   Query,
	"Global":  Global,
	"Number":  NumberType,
	"String":  StringType,
	"Boolean": BooleanType,
}

// LookupIdent returns the keyword kind for ident, or Ident.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Ident
}

// IsType reports whether k is one of the type keywords.
func (k Kind) IsType() bool {
	return k == NumberType || k == StringType || k == BooleanType
}
