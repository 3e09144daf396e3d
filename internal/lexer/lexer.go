package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"ning/internal/token"
)

type Lexer struct {
	input []rune

	pos int

	ch   rune
	line int
	col  int

	errors []string
}

func New(input string) *Lexer {
	l := &Lexer{
		input: []rune(input),
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := token.Position{
		Line:   l.line,
		Column: l.col,
	}

	ch := l.ch

	// EOF
	if ch == 0 {
		return token.Token{
			Kind:   token.EOF,
			Lexeme: "",
			Pos:    pos,
		}
	}

	// Strings keep their raw source; DecodeString turns them into text.
	if ch == '"' {
		lit, ok := l.readString(pos)
		if !ok {
			return token.Token{Kind: token.Illegal, Lexeme: lit, Pos: pos}
		}
		return token.Token{
			Kind:   token.String,
			Lexeme: lit,
			Pos:    pos,
		}
	}

	var kind token.Kind
	var lexeme string

	switch ch {
	case ';':
		kind = token.Semicolon
		lexeme = ";"
	case '(':
		kind = token.LParen
		lexeme = "("
	case ')':
		kind = token.RParen
		lexeme = ")"
	case '{':
		kind = token.LBrace
		lexeme = "{"
	case '}':
		kind = token.RBrace
		lexeme = "}"
	case '[':
		kind = token.LBracket
		lexeme = "["
	case ']':
		kind = token.RBracket
		lexeme = "]"
	default:
		// Identifiers / keywords
		lit := l.readIdentifier()
		return token.Token{
			Kind:   token.LookupIdent(lit),
			Lexeme: lit,
			Pos:    pos,
		}
	}

	l.readChar()

	return token.Token{
		Kind:   kind,
		Lexeme: lexeme,
		Pos:    pos,
	}
}

// Helpers

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		// keep pos one past the end so slicing with pos-1 stays valid
		l.pos = len(l.input) + 1
		return
	}

	l.ch = l.input[l.pos]
	l.pos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for unicode.IsSpace(l.ch) {
			l.readChar()
		}

		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		break
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos - 1 // current rune is already in l.ch
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return string(l.input[start : l.pos-1])
}

// readString consumes a string literal starting at the opening quote. Inside
// the quotes `{` and `}` may only appear as part of a `{0x<hex>}` escape.
func (l *Lexer) readString(start token.Position) (string, bool) {
	var sb strings.Builder
	sb.WriteRune(l.ch)
	l.readChar() // consume opening quote

	for {
		switch l.ch {
		case 0:
			l.errorf(start, "unterminated string literal")
			return sb.String(), false
		case '"':
			sb.WriteRune(l.ch)
			l.readChar()
			return sb.String(), true
		case '}':
			l.errorf(token.Position{Line: l.line, Column: l.col}, "unexpected '}' in string literal")
			l.readChar()
			return sb.String(), false
		case '{':
			escPos := token.Position{Line: l.line, Column: l.col}
			esc, ok := l.readEscape(escPos)
			sb.WriteString(esc)
			if !ok {
				return sb.String(), false
			}
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// readEscape consumes `{0x<hex>}` and returns it verbatim.
func (l *Lexer) readEscape(pos token.Position) (string, bool) {
	var sb strings.Builder
	sb.WriteRune(l.ch) // '{'
	l.readChar()
	if l.ch != '0' || l.peekChar() != 'x' {
		l.errorf(pos, "invalid escape: expected {0x<hex>}")
		return sb.String(), false
	}
	sb.WriteString("0x")
	l.readChar()
	l.readChar()

	digits := 0
	for {
		if l.ch == '}' {
			sb.WriteRune(l.ch)
			l.readChar()
			break
		}
		if _, ok := hexValue(l.ch); !ok {
			l.errorf(pos, "invalid hex escape")
			return sb.String(), false
		}
		sb.WriteRune(l.ch)
		digits++
		l.readChar()
	}
	if digits == 0 {
		l.errorf(pos, "empty hex escape")
		return sb.String(), false
	}
	return sb.String(), true
}

// DecodeString converts the raw source of a string literal (quotes included)
// into the text it denotes.
func DecodeString(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("malformed string literal %s", raw)
	}
	body := raw[1 : len(raw)-1]

	var sb strings.Builder
	for len(body) > 0 {
		open := strings.IndexByte(body, '{')
		if open < 0 {
			sb.WriteString(body)
			break
		}
		sb.WriteString(body[:open])
		end := strings.IndexByte(body[open:], '}')
		if end < 0 || !strings.HasPrefix(body[open:], "{0x") {
			return "", fmt.Errorf("malformed escape in %s", raw)
		}
		code, err := strconv.ParseUint(body[open+3:open+end], 16, 32)
		if err != nil || code > unicode.MaxRune {
			return "", fmt.Errorf("invalid code point in %s", raw)
		}
		sb.WriteRune(rune(code))
		body = body[open+end+1:]
	}
	return sb.String(), nil
}

func hexValue(ch rune) (rune, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	default:
		return 0, false
	}
}

func (l *Lexer) errorf(pos token.Position, msg string) {
	l.errors = append(l.errors, formatError(pos, msg))
}

func formatError(pos token.Position, msg string) string {
	return fmt.Sprintf("%d:%d: %s", pos.Line, pos.Column, msg)
}

func (l *Lexer) Errors() []string {
	return l.errors
}

func isIdentChar(ch rune) bool {
	if ch == 0 || unicode.IsSpace(ch) {
		return false
	}
	switch ch {
	case '(', ')', '[', ']', '{', '}', ';', '"':
		return false
	}
	return true
}
