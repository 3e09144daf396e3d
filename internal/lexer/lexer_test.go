package lexer_test

import (
	"testing"

	"ning/internal/lexer"
	"ning/internal/token"
)

func TestNextToken_BasicProgram(t *testing.T) {
	input := `Global {
    var [score] (0);
}

Number Query (double (Number x)) {
    return (x) * (2);
}
`

	tests := []struct {
		kind token.Kind
		lit  string
	}{
		{token.Global, "Global"},
		{token.LBrace, "{"},

		{token.Ident, "var"},
		{token.LBracket, "["},
		{token.Ident, "score"},
		{token.RBracket, "]"},
		{token.LParen, "("},
		{token.Ident, "0"},
		{token.RParen, ")"},
		{token.Semicolon, ";"},

		{token.RBrace, "}"},

		{token.NumberType, "Number"},
		{token.Query, "Query"},
		{token.LParen, "("},
		{token.Ident, "double"},
		{token.LParen, "("},
		{token.NumberType, "Number"},
		{token.Ident, "x"},
		{token.RParen, ")"},
		{token.RParen, ")"},
		{token.LBrace, "{"},

		{token.Ident, "return"},
		{token.LParen, "("},
		{token.Ident, "x"},
		{token.RParen, ")"},
		{token.Ident, "*"},
		{token.LParen, "("},
		{token.Ident, "2"},
		{token.RParen, ")"},
		{token.Semicolon, ";"},

		{token.RBrace, "}"},
		{token.EOF, ""},
	}

	l := lexer.New(input)

	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%v, got=%v (lit=%q)", i, tt.kind, tok.Kind, tok.Lexeme)
		}
		if tok.Lexeme != tt.lit {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.lit, tok.Lexeme)
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
}

func TestNextToken_IdentifiersTakeAnyNonDelimiter(t *testing.T) {
	input := `<= ++ -1.5e3 a.b !=`
	want := []string{"<=", "++", "-1.5e3", "a.b", "!="}

	l := lexer.New(input)
	for i, lit := range want {
		tok := l.NextToken()
		if tok.Kind != token.Ident || tok.Lexeme != lit {
			t.Fatalf("token %d: expected Ident %q, got %v %q", i, lit, tok.Kind, tok.Lexeme)
		}
	}
	if tok := l.NextToken(); tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
}

func TestNextToken_Positions(t *testing.T) {
	input := "foo\n  [bar]"

	l := lexer.New(input)
	want := []token.Position{{Line: 1, Column: 1}, {Line: 2, Column: 3}, {Line: 2, Column: 4}, {Line: 2, Column: 7}}
	for i, pos := range want {
		tok := l.NextToken()
		if tok.Pos != pos {
			t.Fatalf("token %d (%q): expected position %s, got %s", i, tok.Lexeme, pos, tok.Pos)
		}
	}
}

func TestNextToken_SkipsComments(t *testing.T) {
	input := "// leading comment\nfoo // trailing\n// last"

	l := lexer.New(input)
	tok := l.NextToken()
	if tok.Kind != token.Ident || tok.Lexeme != "foo" {
		t.Fatalf("expected Ident foo, got %v %q", tok.Kind, tok.Lexeme)
	}
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("expected foo at 2:1, got %s", tok.Pos)
	}
	if tok := l.NextToken(); tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v %q", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_StringWithEscape(t *testing.T) {
	l := lexer.New(`"a{0x41}b{0x1F600}"`)

	tok := l.NextToken()
	if tok.Kind != token.String {
		t.Fatalf("expected string literal, got %v", tok.Kind)
	}
	if tok.Lexeme != `"a{0x41}b{0x1F600}"` {
		t.Fatalf("expected raw lexeme, got %q", tok.Lexeme)
	}

	text, err := lexer.DecodeString(tok.Lexeme)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "aAb\U0001F600" {
		t.Fatalf("expected %q, got %q", "aAb\U0001F600", text)
	}
}

func TestNextToken_StringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated", `"abc`},
		{"stray close brace", `"a}b"`},
		{"bad escape", `"a{41}"`},
		{"non hex escape", `"a{0xZZ}"`},
		{"empty escape", `"a{0x}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lexer.New(tt.input)
			tok := l.NextToken()
			if tok.Kind != token.Illegal {
				t.Fatalf("expected Illegal token, got %v %q", tok.Kind, tok.Lexeme)
			}
			if len(l.Errors()) == 0 {
				t.Fatalf("expected a lexer error")
			}
			for _, e := range l.Errors() {
				t.Logf("lexer error: %s", e)
			}
		})
	}
}

func TestDecodeString_PlainText(t *testing.T) {
	text, err := lexer.DecodeString(`"hello world"`)
	if err != nil || text != "hello world" {
		t.Fatalf("expected hello world, got %q (%v)", text, err)
	}
	if _, err := lexer.DecodeString(`hello`); err == nil {
		t.Fatalf("expected error for unquoted input")
	}
}
