package parser

import (
	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/token"
)

// specialApplicants are identifiers recognized as a term-level
// eliminator only when they head an application; using one bare is a
// parse error (spec.md §6).
var specialApplicants = map[string]bool{
	"fst": true, "snd": true, "abort": true, "inl": true, "inr": true,
}

// ParseTerm parses one ProofTerm, optionally suffixed by `: prop`
// (TypeAscription).
func (p *Parser) ParseTerm() proofterm.Term {
	term := p.parseExpr()
	if p.cur().Type == token.COLON {
		p.advance()
		ascription := p.parseImplies()
		term = proofterm.NewTypeAscription(term.Span(), term, ascription)
	}
	return term
}

func (p *Parser) parseExpr() proofterm.Term {
	switch p.cur().Type {
	case token.FN:
		return p.parseFunction()
	case token.CASE:
		return p.parseCase()
	case token.LET:
		return p.parseLetIn()
	default:
		return p.parseApplication()
	}
}

func (p *Parser) parseFunction() proofterm.Term {
	start := p.advance() // 'fn'
	param, _ := p.expect(token.IDENT, "P020", "a parameter name")
	var ann *proofterm.Type
	if p.cur().Type == token.COLON {
		p.advance()
		t := proofterm.PropType(p.parseImplies())
		ann = &t
	}
	p.expect(token.FAT_ARROW, "P021", `"=>"`)
	body := p.parseExpr()
	return proofterm.NewFunction(start.Span(), param.Lexeme, ann, body)
}

func (p *Parser) parseCase() proofterm.Term {
	start := p.advance() // 'case'
	head := p.parseExpr()
	p.expect(token.OF, "P022", `"of"`)
	p.expectWord("inl", "P023")
	fstBinder, _ := p.expect(token.IDENT, "P024", "a binder name")
	p.expect(token.FAT_ARROW, "P025", `"=>"`)
	fstTerm := p.parseExpr()
	p.expect(token.COMMA, "P026", `","`)
	p.expectWord("inr", "P027")
	sndBinder, _ := p.expect(token.IDENT, "P028", "a binder name")
	p.expect(token.FAT_ARROW, "P029", `"=>"`)
	sndTerm := p.parseExpr()
	if p.cur().Type == token.COMMA {
		p.advance()
	}
	return proofterm.NewCase(start.Span(), head, fstBinder.Lexeme, fstTerm, sndBinder.Lexeme, sndTerm)
}

// expectWord consumes an IDENT token whose lexeme must literally be
// word ("inl"/"inr" are not keywords, spec.md §6, but the case grammar
// still requires them verbatim to introduce each arm).
func (p *Parser) expectWord(word string, code diagnostics.Code) token.Token {
	if p.cur().Type != token.IDENT || p.cur().Lexeme != word {
		p.errorf(p.cur(), code, "expected %q, got %q", word, p.cur().Lexeme)
		return token.Token{}
	}
	return p.advance()
}

func (p *Parser) parseLetIn() proofterm.Term {
	start := p.advance() // 'let'
	p.expect(token.LPAREN, "P030", `"("`)
	fstIdent, _ := p.expect(token.IDENT, "P031", "an identifier")
	p.expect(token.COMMA, "P032", `","`)
	sndIdent, _ := p.expect(token.IDENT, "P033", "an identifier")
	p.expect(token.RPAREN, "P034", `")"`)
	p.expect(token.ASSIGN, "P035", `"="`)
	head := p.parseExpr()
	p.expect(token.IN, "P036", `"in"`)
	body := p.parseExpr()
	return proofterm.NewLetIn(start.Span(), fstIdent.Lexeme, sndIdent.Lexeme, head, body)
}

// parseApplication implements `atom { atom | function | case | let_in }`.
func (p *Parser) parseApplication() proofterm.Term {
	head, headName := p.parseAtomTerm()
	if headName != "" && !p.startsArgument() {
		p.errorf(p.cur(), "P040", "%q must be applied to an argument", headName)
	}
	for p.startsArgument() {
		var arg proofterm.Term
		switch p.cur().Type {
		case token.FN:
			arg = p.parseFunction()
		case token.CASE:
			arg = p.parseCase()
		case token.LET:
			arg = p.parseLetIn()
		default:
			var argName string
			arg, argName = p.parseAtomTerm()
			if argName != "" && !p.startsArgument() {
				p.errorf(p.cur(), "P041", "%q must be applied to an argument", argName)
			}
		}
		head = p.buildApplication(head, headName, arg)
		headName = ""
	}
	return head
}

func (p *Parser) buildApplication(fn proofterm.Term, fnName string, arg proofterm.Term) proofterm.Term {
	span := fn.Span()
	switch fnName {
	case "fst":
		return proofterm.NewProjectFst(span, arg)
	case "snd":
		return proofterm.NewProjectSnd(span, arg)
	case "abort":
		return proofterm.NewAbort(span, arg)
	case "inl":
		return proofterm.NewOrLeft(span, arg)
	case "inr":
		return proofterm.NewOrRight(span, arg)
	default:
		return proofterm.NewApplication(span, fn, arg)
	}
}

// startsArgument reports whether the current token can begin another
// atom/function/case/let_in in an application chain.
func (p *Parser) startsArgument() bool {
	switch p.cur().Type {
	case token.LPAREN, token.IDENT, token.SORRY, token.FN, token.CASE, token.LET:
		return true
	default:
		return false
	}
}

// parseAtomTerm parses `atom = "(" expr ")" | ident | "(" expr "," expr
// [","] ")" | "(" ")"`. The returned name is non-empty iff the atom was
// a bare special-eliminator identifier (fst/snd/abort/inl/inr), so the
// caller can either fold it into an Application or reject it unapplied.
func (p *Parser) parseAtomTerm() (proofterm.Term, string) {
	switch p.cur().Type {
	case token.SORRY:
		tok := p.advance()
		return proofterm.NewSorry(tok.Span()), ""
	case token.IDENT:
		tok := p.advance()
		if specialApplicants[tok.Lexeme] {
			return proofterm.NewIdent(tok.Span(), tok.Lexeme), tok.Lexeme
		}
		return proofterm.NewIdent(tok.Span(), tok.Lexeme), ""
	case token.LPAREN:
		start := p.advance()
		if p.cur().Type == token.RPAREN {
			p.advance()
			return proofterm.NewUnit(start.Span()), ""
		}
		first := p.parseExpr()
		if p.cur().Type == token.COMMA {
			p.advance()
			second := p.parseExpr()
			if p.cur().Type == token.COMMA {
				p.advance()
			}
			p.expect(token.RPAREN, "P042", `")"`)
			return proofterm.NewPair(start.Span(), first, second), ""
		}
		p.expect(token.RPAREN, "P043", `")"`)
		return first, ""
	default:
		p.errorf(p.cur(), "P044", "expected a term, got %q", p.cur().Lexeme)
		tok := p.advance()
		return proofterm.NewSorry(tok.Span()), ""
	}
}
