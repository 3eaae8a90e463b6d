package parser

import (
	"testing"

	"github.com/natded/natded/internal/lexer"
	"github.com/natded/natded/internal/proofterm"
)

func newParser(src string) *Parser {
	return New(lexer.Tokenize(src))
}

func TestParseProp_ImplicationIsRightAssociative(t *testing.T) {
	p := newParser("P -> Q -> R")
	goal := p.ParseProp()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if got := goal.String(); got != "(P -> (Q -> R))" {
		t.Errorf("expected right-associative implication, got %q", got)
	}
}

func TestParseProp_PrecedenceOrBeforeAnd(t *testing.T) {
	p := newParser("P && Q || R")
	goal := p.ParseProp()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	want := "((P & Q) | R)"
	if got := goal.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseProp_NotBindsTighterThanAnd(t *testing.T) {
	p := newParser("~P && Q")
	goal := p.ParseProp()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	want := "((P -> false) & Q)"
	if got := goal.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseProp_QuantifierSyntax(t *testing.T) {
	p := newParser(`\forall x:D. P(x)`)
	goal := p.ParseProp()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	want := `\forall x:D. P(x)`
	if got := goal.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseProp_AtomWithParameters(t *testing.T) {
	p := newParser("P(x, y)")
	goal := p.ParseProp()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(goal.AtomParams) != 2 {
		t.Fatalf("expected 2 atom parameters, got %d", len(goal.AtomParams))
	}
}

func TestParseProp_UnclosedParenReportsError(t *testing.T) {
	p := newParser("(P && Q")
	p.ParseProp()
	if len(p.Errors()) == 0 {
		t.Errorf("expected a diagnostic for an unclosed parenthesis")
	}
}

func TestParseTerm_Function(t *testing.T) {
	p := newParser("fn x => x")
	term := p.ParseTerm()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fn, ok := term.(*proofterm.Function)
	if !ok {
		t.Fatalf("expected a *proofterm.Function, got %T", term)
	}
	if fn.Param != "x" {
		t.Errorf("expected param %q, got %q", "x", fn.Param)
	}
	if _, ok := fn.Body.(*proofterm.Ident); !ok {
		t.Errorf("expected the function body to be an identifier, got %T", fn.Body)
	}
}

func TestParseTerm_SpecialEliminators(t *testing.T) {
	tests := []struct {
		src  string
		want interface{}
	}{
		{"fst p", &proofterm.ProjectFst{}},
		{"snd p", &proofterm.ProjectSnd{}},
		{"abort p", &proofterm.Abort{}},
		{"inl p", &proofterm.OrLeft{}},
		{"inr p", &proofterm.OrRight{}},
	}
	for _, tc := range tests {
		p := newParser(tc.src)
		term := p.ParseTerm()
		if len(p.Errors()) != 0 {
			t.Fatalf("%s: unexpected errors: %v", tc.src, p.Errors())
		}
		switch tc.want.(type) {
		case *proofterm.ProjectFst:
			if _, ok := term.(*proofterm.ProjectFst); !ok {
				t.Errorf("%s: expected ProjectFst, got %T", tc.src, term)
			}
		case *proofterm.ProjectSnd:
			if _, ok := term.(*proofterm.ProjectSnd); !ok {
				t.Errorf("%s: expected ProjectSnd, got %T", tc.src, term)
			}
		case *proofterm.Abort:
			if _, ok := term.(*proofterm.Abort); !ok {
				t.Errorf("%s: expected Abort, got %T", tc.src, term)
			}
		case *proofterm.OrLeft:
			if _, ok := term.(*proofterm.OrLeft); !ok {
				t.Errorf("%s: expected OrLeft, got %T", tc.src, term)
			}
		case *proofterm.OrRight:
			if _, ok := term.(*proofterm.OrRight); !ok {
				t.Errorf("%s: expected OrRight, got %T", tc.src, term)
			}
		}
	}
}

func TestParseTerm_BareEliminatorWithoutArgumentIsAnError(t *testing.T) {
	p := newParser("fst")
	p.ParseTerm()
	if len(p.Errors()) == 0 {
		t.Errorf("expected an error for a bare, unapplied eliminator")
	}
}

func TestParseTerm_PairAndUnit(t *testing.T) {
	p := newParser("(x, y)")
	term := p.ParseTerm()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if _, ok := term.(*proofterm.Pair); !ok {
		t.Fatalf("expected a *proofterm.Pair, got %T", term)
	}

	p2 := newParser("()")
	unit := p2.ParseTerm()
	if _, ok := unit.(*proofterm.Unit); !ok {
		t.Fatalf("expected a *proofterm.Unit, got %T", unit)
	}
}

func TestParseTerm_LetIn(t *testing.T) {
	p := newParser("let (a, b) = w in a")
	term := p.ParseTerm()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	letIn, ok := term.(*proofterm.LetIn)
	if !ok {
		t.Fatalf("expected a *proofterm.LetIn, got %T", term)
	}
	if letIn.FstIdent != "a" || letIn.SndIdent != "b" {
		t.Errorf("expected binders a, b, got %s, %s", letIn.FstIdent, letIn.SndIdent)
	}
}

func TestParseTerm_CaseOfInlInr(t *testing.T) {
	p := newParser("case h of inl l => l, inr r => r")
	term := p.ParseTerm()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	c, ok := term.(*proofterm.Case)
	if !ok {
		t.Fatalf("expected a *proofterm.Case, got %T", term)
	}
	if c.FstIdent != "l" || c.SndIdent != "r" {
		t.Errorf("expected binders l, r, got %s, %s", c.FstIdent, c.SndIdent)
	}
}

func TestParseTerm_TypeAscription(t *testing.T) {
	p := newParser("() : true")
	term := p.ParseTerm()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	asc, ok := term.(*proofterm.TypeAscription)
	if !ok {
		t.Fatalf("expected a *proofterm.TypeAscription, got %T", term)
	}
	if asc.Ascription.String() != "true" {
		t.Errorf("expected ascription %q, got %q", "true", asc.Ascription.String())
	}
}

func TestParseTerm_Sorry(t *testing.T) {
	p := newParser("sorry")
	term := p.ParseTerm()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if _, ok := term.(*proofterm.Sorry); !ok {
		t.Fatalf("expected a *proofterm.Sorry, got %T", term)
	}
}

func TestParseProgram_DeclarationsThenTerm(t *testing.T) {
	p := newParser("datatype D; atom P(1); fn x => x")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(prog.Datatypes) != 1 || prog.Datatypes[0].Name != "D" {
		t.Fatalf("expected one datatype D, got %+v", prog.Datatypes)
	}
	if len(prog.Atoms) != 1 || prog.Atoms[0].Name != "P" || prog.Atoms[0].Arity != 1 {
		t.Fatalf("expected one atom P/1, got %+v", prog.Atoms)
	}
	if prog.Term == nil {
		t.Fatalf("expected a parsed proof term")
	}
}
