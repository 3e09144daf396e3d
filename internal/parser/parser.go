package parser

import (
	"fmt"

	"ning/internal/ast"
	"ning/internal/lexer"
	"ning/internal/token"
	"ning/internal/types"
)

type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// init cur/peek
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns lexical errors followed by syntax errors.
func (p *Parser) Errors() []string {
	errs := append([]string(nil), p.l.Errors()...)
	return append(errs, p.errors...)
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf("%d:%d: ", pos.Line, pos.Column) + fmt.Sprintf(format, args...)
	p.errors = append(p.errors, msg)
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	tok := p.cur
	if tok.Kind != kind {
		p.errorf(tok.Pos, "expected %s, got %s (%q)", kind, tok.Kind, tok.Lexeme)
		return tok, false
	}
	p.nextToken()
	return tok, true
}

// ---------- Top-level ----------

// ParseFile parses definitions until EOF. Definitions that fail to parse are
// reported and left out.
func (p *Parser) ParseFile() []ast.Def {
	var defs []ast.Def

	for p.cur.Kind != token.EOF {
		var def ast.Def
		switch {
		case p.cur.Kind == token.Command:
			def = p.parseCommandDef()
		case p.cur.Kind.IsType():
			def = p.parseQueryDef()
		case p.cur.Kind == token.Global:
			def = p.parseGlobalDef()
		default:
			p.errorf(p.cur.Pos, "unexpected %s (%q) at top level; expected Command, Query or Global definition", p.cur.Kind, p.cur.Lexeme)
			p.skipDef()
			continue
		}
		if def != nil {
			defs = append(defs, def)
		}
	}

	return defs
}

// skipDef advances to the next token that can start a definition.
func (p *Parser) skipDef() {
	p.nextToken()
	for p.cur.Kind != token.EOF && p.cur.Kind != token.Command && p.cur.Kind != token.Global && !p.cur.Kind.IsType() {
		p.nextToken()
	}
}

func (p *Parser) parseCommandDef() ast.Def {
	kw := p.cur
	p.nextToken() // consume Command

	header, ok := p.parseHeader()
	if !ok {
		p.skipDef()
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.CommandDef{CommandPos: kw.Pos, Header: header, Body: body}
}

func (p *Parser) parseQueryDef() ast.Def {
	ret := p.parseType()
	queryTok, ok := p.expect(token.Query)
	if !ok {
		p.skipDef()
		return nil
	}

	header, ok := p.parseHeader()
	if !ok {
		p.skipDef()
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.QueryDef{ReturnType: ret, QueryPos: queryTok.Pos, Header: header, Body: body}
}

func (p *Parser) parseGlobalDef() ast.Def {
	kw := p.cur
	p.nextToken() // consume Global

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.GlobalDef{GlobalPos: kw.Pos, Body: body}
}

// parseHeader parses `( headerPart* )`.
func (p *Parser) parseHeader() ([]ast.HeaderPart, bool) {
	if _, ok := p.expect(token.LParen); !ok {
		return nil, false
	}

	var parts []ast.HeaderPart
	for p.cur.Kind != token.RParen {
		switch p.cur.Kind {
		case token.Ident:
			parts = append(parts, &ast.Identifier{NamePos: p.cur.Pos, Name: p.cur.Lexeme})
			p.nextToken()
		case token.LParen:
			param := p.parseParamDef()
			if param == nil {
				return nil, false
			}
			parts = append(parts, param)
		default:
			p.errorf(p.cur.Pos, "unexpected %s (%q) in definition header", p.cur.Kind, p.cur.Lexeme)
			return nil, false
		}
	}
	p.nextToken() // consume ')'

	if len(parts) == 0 {
		p.errorf(p.cur.Pos, "definition header is empty")
		return nil, false
	}
	return parts, true
}

// parseParamDef parses `( type ident+ )`.
func (p *Parser) parseParamDef() *ast.ParamDef {
	lparen := p.cur
	p.nextToken() // consume '('

	if !p.cur.Kind.IsType() {
		p.errorf(p.cur.Pos, "expected parameter type, got %s (%q)", p.cur.Kind, p.cur.Lexeme)
		return nil
	}
	typ := p.parseType()

	names := p.parseIdentifiers(token.RParen)
	if names == nil {
		p.errorf(p.cur.Pos, "expected parameter name")
		return nil
	}
	if _, ok := p.expect(token.RParen); !ok {
		return nil
	}
	return &ast.ParamDef{LParen: lparen.Pos, Type: typ, Name: names}
}

func (p *Parser) parseType() *ast.TypeNode {
	tok := p.cur
	p.nextToken()

	var typ types.Type
	switch tok.Kind {
	case token.NumberType:
		typ = types.Number
	case token.StringType:
		typ = types.String
	case token.BooleanType:
		typ = types.Boolean
	default:
		p.errorf(tok.Pos, "expected type, got %s (%q)", tok.Kind, tok.Lexeme)
	}
	return &ast.TypeNode{TypePos: tok.Pos, Type: typ}
}

// parseIdentifiers collects identifiers up to the closing token.
func (p *Parser) parseIdentifiers(closing token.Kind) []*ast.Identifier {
	var ids []*ast.Identifier
	for p.cur.Kind == token.Ident {
		ids = append(ids, &ast.Identifier{NamePos: p.cur.Pos, Name: p.cur.Lexeme})
		p.nextToken()
	}
	if p.cur.Kind != closing {
		return nil
	}
	return ids
}

// ---------- Blocks & commands ----------

func (p *Parser) parseBlock() *ast.Block {
	lbrace, ok := p.expect(token.LBrace)
	if !ok {
		p.skipDef()
		return nil
	}

	block := &ast.Block{LBrace: lbrace.Pos}

	for p.cur.Kind != token.RBrace && p.cur.Kind != token.EOF {
		cmd := p.parseCommand()
		if cmd != nil {
			block.Commands = append(block.Commands, cmd)
		}
	}

	if p.cur.Kind == token.RBrace {
		block.RBrace = p.cur.Pos
		p.nextToken()
	} else {
		p.errorf(p.cur.Pos, "expected '}' to close block opened at %s", lbrace.Pos)
	}

	return block
}

// parseCommand parses `commandPart* ;`. On error it skips to the next ';'
// or the end of the enclosing block and returns nil.
func (p *Parser) parseCommand() *ast.Command {
	cmd := &ast.Command{StartPos: p.cur.Pos}

	for p.cur.Kind != token.Semicolon {
		if p.cur.Kind == token.RBrace || p.cur.Kind == token.EOF {
			p.errorf(p.cur.Pos, "expected ';' to end command")
			return nil
		}
		part, ok := p.parseCommandPart()
		if !ok {
			p.skipCommand()
			return nil
		}
		cmd.Parts = append(cmd.Parts, part)
	}

	cmd.Semicolon = p.cur.Pos
	p.nextToken() // consume ';'

	if len(cmd.Parts) == 0 {
		p.errorf(cmd.Semicolon, "empty command")
		return nil
	}
	return cmd
}

func (p *Parser) parseCommandPart() (ast.CommandPart, bool) {
	switch p.cur.Kind {
	case token.Ident:
		id := &ast.Identifier{NamePos: p.cur.Pos, Name: p.cur.Lexeme}
		p.nextToken()
		return id, true
	case token.LParen:
		if paren := p.parseParenExpr(); paren != nil {
			return paren, true
		}
	case token.LBracket:
		if ref := p.parseSquareRef(); ref != nil {
			return ref, true
		}
	case token.LBrace:
		if block := p.parseBlock(); block != nil {
			return block, true
		}
	default:
		p.errorf(p.cur.Pos, "unexpected %s (%q) in command", p.cur.Kind, p.cur.Lexeme)
	}
	return nil, false
}

// skipCommand advances past the next ';' at the current nesting level, or
// up to the '}' that closes the enclosing block.
func (p *Parser) skipCommand() {
	depth := 0
	for p.cur.Kind != token.EOF {
		switch p.cur.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

// ---------- Expressions ----------

func (p *Parser) parseParenExpr() *ast.ParenExpr {
	lparen := p.cur
	p.nextToken() // consume '('

	expr := p.parseExpression()
	if expr == nil {
		return nil
	}

	rparen, ok := p.expect(token.RParen)
	if !ok {
		return nil
	}
	return &ast.ParenExpr{LParen: lparen.Pos, Expr: expr, RParen: rparen.Pos}
}

// parseExpression parses a string literal or a compound expression; it
// stops before the closing ')'.
func (p *Parser) parseExpression() ast.Expression {
	switch p.cur.Kind {
	case token.String:
		tok := p.cur
		p.nextToken()
		text, err := lexer.DecodeString(tok.Lexeme)
		if err != nil {
			p.errorf(tok.Pos, "%v", err)
		}
		return &ast.StringLiteral{LitPos: tok.Pos, Source: tok.Lexeme, Value: text}
	case token.Illegal:
		// already reported by the lexer
		p.nextToken()
		return nil
	}

	expr := &ast.CompoundExpr{StartPos: p.cur.Pos}
	for p.cur.Kind != token.RParen {
		switch p.cur.Kind {
		case token.Ident:
			expr.Parts = append(expr.Parts, &ast.Identifier{NamePos: p.cur.Pos, Name: p.cur.Lexeme})
			p.nextToken()
		case token.LParen:
			inner := p.parseParenExpr()
			if inner == nil {
				return nil
			}
			expr.Parts = append(expr.Parts, inner)
		case token.LBracket:
			ref := p.parseSquareRef()
			if ref == nil {
				return nil
			}
			expr.Parts = append(expr.Parts, ref)
		default:
			p.errorf(p.cur.Pos, "unexpected %s (%q) in expression", p.cur.Kind, p.cur.Lexeme)
			return nil
		}
	}
	return expr
}

func (p *Parser) parseSquareRef() *ast.SquareRef {
	lbracket := p.cur
	p.nextToken() // consume '['

	ids := p.parseIdentifiers(token.RBracket)
	if len(ids) == 0 {
		p.errorf(p.cur.Pos, "expected a name inside [ ]")
		return nil
	}
	rbracket := p.cur
	p.nextToken() // consume ']'

	return &ast.SquareRef{LBracket: lbracket.Pos, Identifiers: ids, RBracket: rbracket.Pos}
}
