// Package parser builds natded's two concrete syntaxes — propositions
// and proof terms — plus the declaration prefix (datatype/atom) wrapping
// them into a Program (spec.md §6).
package parser

import (
	"fmt"

	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/pipeline"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/token"
)

// Parser is a recursive-descent parser over a pre-lexed token stream.
type Parser struct {
	tokens []token.Token
	pos    int
	errors []*diagnostics.DiagnosticError
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(tok token.Token, code diagnostics.Code, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(code, tok, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(tt token.Type, code diagnostics.Code, what string) (token.Token, bool) {
	if p.cur().Type != tt {
		p.errorf(p.cur(), code, "expected %s, got %q", what, p.cur().Lexeme)
		return token.Token{}, false
	}
	return p.advance(), true
}

// Errors returns the diagnostics accumulated while parsing.
func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errors }

// ParseProgram parses the declaration prefix followed by a proof term.
func (p *Parser) ParseProgram() *pipeline.Program {
	prog := &pipeline.Program{}
	for p.cur().Type == token.DATATYPE || p.cur().Type == token.ATOM {
		switch p.cur().Type {
		case token.DATATYPE:
			prog.Datatypes = append(prog.Datatypes, p.parseDatatypeDecl())
		case token.ATOM:
			prog.Atoms = append(prog.Atoms, p.parseAtomDecl())
		}
	}
	prog.Term = p.ParseTerm()
	return prog
}

func (p *Parser) parseDatatypeDecl() pipeline.DatatypeDecl {
	start := p.advance() // 'datatype'
	name, ok := p.expect(token.IDENT, "P001", "a datatype name")
	if !ok {
		p.skipToSemi()
		return pipeline.DatatypeDecl{Span: start.Span()}
	}
	p.expect(token.SEMI, "P002", `";"`)
	return pipeline.DatatypeDecl{Name: name.Lexeme, Span: start.Span()}
}

func (p *Parser) parseAtomDecl() pipeline.AtomDecl {
	start := p.advance() // 'atom'
	name, ok := p.expect(token.IDENT, "P003", "an atom name")
	if !ok {
		p.skipToSemi()
		return pipeline.AtomDecl{Span: start.Span()}
	}
	arity := 0
	if p.cur().Type == token.LPAREN {
		p.advance()
		n, ok := p.expect(token.NUMBER, "P004", "an arity literal")
		if ok {
			fmt.Sscanf(n.Lexeme, "%d", &arity)
		}
		p.expect(token.RPAREN, "P005", `")"`)
	}
	p.expect(token.SEMI, "P006", `";"`)
	return pipeline.AtomDecl{Name: name.Lexeme, Arity: arity, Span: start.Span()}
}

func (p *Parser) skipToSemi() {
	for p.cur().Type != token.SEMI && p.cur().Type != token.EOF {
		p.advance()
	}
	if p.cur().Type == token.SEMI {
		p.advance()
	}
}

// ParseProp parses a bare proposition (used by `natded prove`, which
// treats the whole input as a goal rather than a proof term).
func (p *Parser) ParseProp() *prop.Prop {
	return p.parseImplies()
}

// --- Proposition grammar: -> (right-assoc) < || < && < ~ < atom ---

func (p *Parser) parseImplies() *prop.Prop {
	left := p.parseOr()
	if p.cur().Type == token.IMPLIES {
		p.advance()
		right := p.parseImplies()
		return prop.Impl(left, right)
	}
	return left
}

func (p *Parser) parseOr() *prop.Prop {
	left := p.parseAnd()
	for p.cur().Type == token.OR {
		p.advance()
		right := p.parseAnd()
		left = prop.Or(left, right)
	}
	return left
}

func (p *Parser) parseAnd() *prop.Prop {
	left := p.parseNot()
	for p.cur().Type == token.AND {
		p.advance()
		right := p.parseNot()
		left = prop.And(left, right)
	}
	return left
}

func (p *Parser) parseNot() *prop.Prop {
	if p.cur().Type == token.NOT {
		p.advance()
		inner := p.parseNot()
		return prop.Impl(inner, prop.False())
	}
	return p.parseQuantOrAtomProp()
}

func (p *Parser) parseQuantOrAtomProp() *prop.Prop {
	switch p.cur().Type {
	case token.FORALL, token.EXISTS:
		isForAll := p.cur().Type == token.FORALL
		p.advance()
		obj, _ := p.expect(token.IDENT, "P010", "a bound variable name")
		p.expect(token.COLON, "P011", `":"`)
		typeName, _ := p.expect(token.IDENT, "P012", "a datatype name")
		p.expect(token.DOT, "P013", `"."`)
		body := p.parseImplies()
		if isForAll {
			return prop.ForAll(obj.Lexeme, typeName.Lexeme, body)
		}
		return prop.Exists(obj.Lexeme, typeName.Lexeme, body)
	default:
		return p.parseAtomProp()
	}
}

func (p *Parser) parseAtomProp() *prop.Prop {
	switch p.cur().Type {
	case token.TOP:
		p.advance()
		return prop.True()
	case token.BOT:
		p.advance()
		return prop.False()
	case token.LPAREN:
		p.advance()
		inner := p.parseImplies()
		p.expect(token.RPAREN, "P014", `")"`)
		return inner
	case token.IDENT:
		name := p.advance()
		var params []prop.Parameter
		if p.cur().Type == token.LPAREN {
			p.advance()
			if p.cur().Type != token.RPAREN {
				params = append(params, prop.Uninst(p.advanceIdentLexeme()))
				for p.cur().Type == token.COMMA {
					p.advance()
					params = append(params, prop.Uninst(p.advanceIdentLexeme()))
				}
			}
			p.expect(token.RPAREN, "P015", `")"`)
		}
		return prop.Atom(name.Lexeme, params...)
	default:
		p.errorf(p.cur(), "P016", "expected a proposition, got %q", p.cur().Lexeme)
		p.advance()
		return prop.False()
	}
}

func (p *Parser) advanceIdentLexeme() string {
	tok, ok := p.expect(token.IDENT, "P017", "a parameter name")
	if !ok {
		return ""
	}
	return tok.Lexeme
}
