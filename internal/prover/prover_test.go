package prover

import (
	"testing"

	"github.com/natded/natded/internal/checker"
	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/prop"
)

func atom(name string) *prop.Prop { return prop.Atom(name) }

// checkProvable re-typechecks the prover's own output against the goal
// it was asked to prove, guarding against the prover and the checker
// silently disagreeing about what counts as a proof.
func checkProvable(t *testing.T, goal *prop.Prop) {
	t.Helper()
	factory := ident.NewFactory()
	term, ok := Prove(goal, factory)
	if !ok {
		t.Fatalf("expected a proof of %s, found none", goal)
	}
	ctx := checker.NewContext()
	res, err := checker.Check(term, checker.PropType(goal), ctx, ident.NewFactory())
	if err != nil {
		t.Fatalf("prover produced a term the checker rejects for %s: %v", goal, err)
	}
	if len(res.Goals) != 0 {
		t.Fatalf("expected a fully closed proof of %s, got %d open goals", goal, len(res.Goals))
	}
}

func TestProve_Tautologies(t *testing.T) {
	p, q, r := atom("P"), atom("Q"), atom("R")
	cases := []struct {
		name string
		goal *prop.Prop
	}{
		{"identity", prop.Impl(p, p)},
		{"double-negation-excluded-middle", prop.Impl(prop.Impl(prop.Or(p, prop.Impl(p, prop.False())), prop.False()), prop.False())},
		{"and-commutes", prop.Impl(prop.And(p, q), prop.And(q, p))},
		{"or-commutes", prop.Impl(prop.Or(p, q), prop.Or(q, p))},
		{"curry", prop.Impl(prop.Impl(prop.And(p, q), r), prop.Impl(p, prop.Impl(q, r)))},
		{"uncurry", prop.Impl(prop.Impl(p, prop.Impl(q, r)), prop.Impl(prop.And(p, q), r))},
		{"distribute-impl-over-and", prop.Impl(prop.Impl(p, prop.And(q, r)), prop.And(prop.Impl(p, q), prop.Impl(p, r)))},
		{"ex-falso", prop.Impl(prop.False(), p)},
		{"true-intro", prop.True()},
		{"weakening", prop.Impl(p, prop.Impl(q, p))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			checkProvable(t, c.goal)
		})
	}
}

func TestProve_Unprovable(t *testing.T) {
	p, q := atom("P"), atom("Q")
	cases := []struct {
		name string
		goal *prop.Prop
	}{
		{"bare-atom", p},
		{"independent-atoms", prop.Impl(p, q)},
		{"converse-ex-falso", prop.Impl(p, prop.False())},
		{"peirce", prop.Impl(prop.Impl(prop.Impl(p, q), p), p)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			factory := ident.NewFactory()
			if _, ok := Prove(c.goal, factory); ok {
				t.Fatalf("expected %s to be unprovable", c.goal)
			}
		})
	}
}

func TestProve_PreconditionViolationOnQuantifier(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for a quantified goal")
		}
		if _, ok := r.(*PreconditionError); !ok {
			t.Fatalf("expected *PreconditionError, got %T", r)
		}
	}()
	goal := prop.ForAll("x", "Nat", atom("P"))
	Prove(goal, ident.NewFactory())
}

func TestProve_PreconditionViolationOnFreeParameter(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for a free-parameter goal")
		}
		if _, ok := r.(*PreconditionError); !ok {
			t.Fatalf("expected *PreconditionError, got %T", r)
		}
	}()
	goal := prop.Atom("P", prop.Uninst("x"))
	Prove(goal, ident.NewFactory())
}

func TestAtomsEqual_DistinguishesInstantiatedFromUninstantiated(t *testing.T) {
	id := ident.NewFactory().Fresh("a")
	inst := prop.Atom("P", prop.Inst(id))
	uninst := prop.Atom("P", prop.Uninst("a"))
	if atomsEqual(inst, uninst) {
		t.Fatal("an instantiated and an uninstantiated parameter must never compare equal")
	}
	if !atomsEqual(inst, prop.Atom("P", prop.Inst(id))) {
		t.Fatal("two references to the same identifier must compare equal")
	}
}
