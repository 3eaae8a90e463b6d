package prop

import (
	"testing"

	"github.com/natded/natded/internal/ident"
)

func TestString_RendersConnectives(t *testing.T) {
	p := Impl(And(Atom("P"), Atom("Q")), Or(Atom("R"), False()))
	want := "((P & Q) -> (R | false))"
	if got := p.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestString_Quantifier(t *testing.T) {
	p := ForAll("x", "D", Atom("P", Uninst("x")))
	want := `\forall x:D. P(x)`
	if got := p.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHasQuantifiers(t *testing.T) {
	if HasQuantifiers(Atom("P")) {
		t.Errorf("expected a bare atom to have no quantifiers")
	}
	if !HasQuantifiers(Impl(Atom("P"), ForAll("x", "D", Atom("Q")))) {
		t.Errorf("expected a quantifier nested under -> to be detected")
	}
}

func TestFreeParameters_RespectsBinder(t *testing.T) {
	p := ForAll("x", "D", And(Atom("P", Uninst("x")), Atom("Q", Uninst("y"))))
	free := FreeParameters(p)
	if len(free) != 1 || free[0].Name != "y" {
		t.Fatalf("expected exactly one free parameter %q, got %+v", "y", free)
	}
}

func TestInstantiateFreeParameter_LeavesBoundOccurrencesAlone(t *testing.T) {
	factory := ident.NewFactory()
	id := factory.Fresh("x")
	p := ForAll("x", "D", Atom("P", Uninst("x")))
	got := InstantiateFreeParameter(p, "x", id)
	if got.Body.AtomParams[0].Kind != Uninstantiated {
		t.Errorf("expected the bound occurrence under \\forall x to stay uninstantiated")
	}
}

func TestInstantiateFreeParameter_RewritesFreeOccurrence(t *testing.T) {
	factory := ident.NewFactory()
	id := factory.Fresh("x")
	p := Atom("P", Uninst("x"))
	got := InstantiateFreeParameter(p, "x", id)
	if got.AtomParams[0].Kind != Instantiated || !got.AtomParams[0].ID.Equal(id) {
		t.Errorf("expected the free occurrence to become Instantiated(%s), got %+v", id, got.AtomParams[0])
	}
}

func TestAlphaEq_BoundNamesDoNotMatter(t *testing.T) {
	l := ForAll("x", "D", Atom("P", Uninst("x")))
	r := ForAll("y", "D", Atom("P", Uninst("y")))
	if !AlphaEq(l, r) {
		t.Errorf("expected alpha-equivalent propositions with differently-named binders to be equal")
	}
}

func TestAlphaEq_DifferentDatatypesAreUnequal(t *testing.T) {
	l := ForAll("x", "D", Atom("P", Uninst("x")))
	r := ForAll("x", "E", Atom("P", Uninst("x")))
	if AlphaEq(l, r) {
		t.Errorf("expected propositions quantifying over different datatypes to be unequal")
	}
}

func TestAlphaEq_PanicsOnFreeUninstantiatedParameter(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected AlphaEq to panic on a free uninstantiated parameter")
		} else if _, ok := r.(*PreconditionViolationError); !ok {
			t.Fatalf("expected a *PreconditionViolationError, got %T", r)
		}
	}()
	AlphaEq(Atom("P", Uninst("x")), Atom("P", Uninst("x")))
}

func TestAlphaEqRelaxed_NeverPanicsOnFreeParameters(t *testing.T) {
	if !AlphaEqRelaxed(Atom("P", Uninst("x")), Atom("P", Uninst("x"))) {
		t.Errorf("expected identically-named free parameters to compare equal under the relaxed check")
	}
	if AlphaEqRelaxed(Atom("P", Uninst("x")), Atom("P", Uninst("y"))) {
		t.Errorf("expected differently-named free parameters to compare unequal under the relaxed check")
	}
}

func TestInstantiateWithContext_UnknownIdentifier(t *testing.T) {
	_, err := InstantiateWithContext(Atom("P", Uninst("x")), stubLookup{})
	if err == nil {
		t.Fatalf("expected an error for an unbound free parameter")
	}
	if _, ok := err.(*UnknownIdentifierError); !ok {
		t.Fatalf("expected *UnknownIdentifierError, got %T", err)
	}
}

type stubLookup struct{}

func (stubLookup) LookupByName(name string) (ident.Identifier, bool) {
	return ident.Identifier{}, false
}

func TestBindIdentifier_RebindsSelectedOccurrence(t *testing.T) {
	factory := ident.NewFactory()
	id := factory.Fresh("x")
	p := And(Atom("P", Inst(id)), Atom("P", Inst(id)))
	bound := BindIdentifier(ForAllKind, id, []int{0}, "x", "D", p)
	if bound.Tag != TagQuant || bound.Quant != ForAllKind {
		t.Fatalf("expected a ForAll wrapper, got %+v", bound)
	}
	first := bound.Body.Left.AtomParams[0]
	second := bound.Body.Right.AtomParams[0]
	if first.Kind != Uninstantiated || first.Name != "x" {
		t.Errorf("expected the first (index 0) occurrence to be rebound, got %+v", first)
	}
	if second.Kind != Instantiated {
		t.Errorf("expected the second occurrence to remain instantiated, got %+v", second)
	}
}

func TestClone_DeepCopiesSubtrees(t *testing.T) {
	p := And(Atom("P"), Atom("Q"))
	clone := p.Clone()
	clone.Left.AtomName = "R"
	if p.Left.AtomName == "R" {
		t.Errorf("expected Clone to produce an independent copy, mutation leaked into the original")
	}
}
