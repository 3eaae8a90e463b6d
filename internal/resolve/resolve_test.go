package resolve

import (
	"testing"

	"github.com/natded/natded/internal/pipeline"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/token"
)

func prog(datatypes []pipeline.DatatypeDecl, atoms []pipeline.AtomDecl, term proofterm.Term) *pipeline.Program {
	return &pipeline.Program{Datatypes: datatypes, Atoms: atoms, Term: term}
}

func TestResolve_DuplicateDatatype(t *testing.T) {
	p := prog(
		[]pipeline.DatatypeDecl{{Name: "D"}, {Name: "D"}},
		nil,
		proofterm.NewUnit(token.Span{}),
	)
	_, _, errs := Resolve(p)
	if len(errs) != 1 || errs[0].Code != "R001" {
		t.Fatalf("expected a single R001 duplicate-datatype error, got %+v", errs)
	}
}

func TestResolve_DuplicateAtom(t *testing.T) {
	p := prog(nil,
		[]pipeline.AtomDecl{{Name: "P", Arity: 1}, {Name: "P", Arity: 2}},
		proofterm.NewUnit(token.Span{}),
	)
	_, _, errs := Resolve(p)
	if len(errs) != 1 || errs[0].Code != "R002" {
		t.Fatalf("expected a single R002 duplicate-atom error, got %+v", errs)
	}
}

func TestResolve_UnknownAtomInAscription(t *testing.T) {
	term := proofterm.NewTypeAscription(token.Span{}, proofterm.NewUnit(token.Span{}), prop.Atom("P"))
	_, _, errs := Resolve(prog(nil, nil, term))
	if len(errs) != 1 || errs[0].Code != "R004" {
		t.Fatalf("expected a single R004 unknown-atom error, got %+v", errs)
	}
}

func TestResolve_AtomArityMismatch(t *testing.T) {
	term := proofterm.NewTypeAscription(token.Span{}, proofterm.NewUnit(token.Span{}), prop.Atom("P", prop.Uninst("x")))
	p := prog(nil, []pipeline.AtomDecl{{Name: "P", Arity: 0}}, term)
	_, _, errs := Resolve(p)
	if len(errs) != 1 || errs[0].Code != "R005" {
		t.Fatalf("expected a single R005 arity-mismatch error, got %+v", errs)
	}
}

func TestResolve_UnknownDatatypeInQuantifier(t *testing.T) {
	term := proofterm.NewTypeAscription(token.Span{}, proofterm.NewUnit(token.Span{}),
		prop.ForAll("x", "D", prop.Atom("P", prop.Uninst("x"))))
	p := prog(nil, []pipeline.AtomDecl{{Name: "P", Arity: 1}}, term)
	_, _, errs := Resolve(p)
	if len(errs) != 1 || errs[0].Code != "R006" {
		t.Fatalf("expected a single R006 unknown-datatype error, got %+v", errs)
	}
}

func TestResolve_UnknownDatatypeInAnnotatedParam(t *testing.T) {
	fn := proofterm.NewFunction(token.Span{}, "x", func() *proofterm.Type { ty := proofterm.DatatypeType("D"); return &ty }(), proofterm.NewIdent(token.Span{}, "x"))
	_, _, errs := Resolve(prog(nil, nil, fn))
	if len(errs) != 1 || errs[0].Code != "R003" {
		t.Fatalf("expected a single R003 unknown-datatype error, got %+v", errs)
	}
}

func TestResolve_WellFormedProgramHasNoErrors(t *testing.T) {
	term := proofterm.NewTypeAscription(token.Span{}, proofterm.NewUnit(token.Span{}),
		prop.ForAll("x", "D", prop.Atom("P", prop.Uninst("x"))))
	p := prog(
		[]pipeline.DatatypeDecl{{Name: "D"}},
		[]pipeline.AtomDecl{{Name: "P", Arity: 1}},
		term,
	)
	datatypes, atoms, errs := Resolve(p)
	if len(errs) != 0 {
		t.Fatalf("expected no errors for a well-formed program, got %+v", errs)
	}
	if !datatypes["D"] {
		t.Errorf("expected D to be recorded as a declared datatype")
	}
	if atoms["P"] != 1 {
		t.Errorf("expected P to be recorded with arity 1, got %d", atoms["P"])
	}
}

func TestProcessor_Process_SkipsWhenProgramNil(t *testing.T) {
	ctx := &pipeline.ProcessContext{}
	r := &Processor{}
	out := r.Process(ctx)
	if out.Datatypes != nil || out.AtomArities != nil {
		t.Errorf("expected no-op processing when Program is nil, got %+v", out)
	}
}

func TestProcessor_Process_AttachesFilePathToErrors(t *testing.T) {
	ctx := &pipeline.ProcessContext{
		FilePath: "a.nd",
		Program: prog(
			[]pipeline.DatatypeDecl{{Name: "D"}, {Name: "D"}},
			nil,
			proofterm.NewUnit(token.Span{}),
		),
	}
	r := &Processor{}
	out := r.Process(ctx)
	if len(out.Errors) != 1 || out.Errors[0].File != "a.nd" {
		t.Fatalf("expected the resolve error to carry the context's file path, got %+v", out.Errors)
	}
}
