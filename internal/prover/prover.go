// Package prover implements the G4ip / LJT contraction-free sequent
// search for quantifier-free, free-parameter-free propositional
// intuitionistic logic. It both answers provability and, on success,
// emits a proof term the checker will accept (prover soundness,
// spec.md §8 invariant 3).
package prover

import (
	"fmt"

	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/token"
)

// PreconditionError reports that Prove was handed a proposition
// containing a quantifier or a free parameter; the prover only decides
// the quantifier-free, closed propositional fragment.
type PreconditionError struct {
	Prop *prop.Prop
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("prover precondition violated: %s is not quantifier-free and closed", e.Prop)
}

// maxDepth bounds recursion as a defensive measure only (design notes
// §9); the algorithm's own termination does not rely on it.
const maxDepth = 100000

// entry is one sequent-context formula together with the proof term
// witnessing it.
type entry struct {
	Prop    *prop.Prop
	Witness proofterm.Term
}

// sequent is the (ordered, unordered) pair of contexts G4ip threads
// through the search. The ordered context carries formulas whose
// principal connective has not yet been decomposed; the unordered
// context carries formulas inert until the atomic-goal search phase.
type sequent struct {
	ordered   []entry
	unordered []entry
}

func assertQuantifierFreeClosed(p *prop.Prop) {
	if p == nil {
		return
	}
	if p.Tag == prop.TagQuant {
		panic(&PreconditionError{Prop: p})
	}
	for _, param := range p.AtomParams {
		if param.Kind == prop.Uninstantiated {
			panic(&PreconditionError{Prop: p})
		}
	}
	assertQuantifierFreeClosed(p.Left)
	assertQuantifierFreeClosed(p.Right)
	assertQuantifierFreeClosed(p.Body)
}

// Prove attempts to find a term inhabiting goal. It panics with
// *PreconditionError if goal contains a quantifier or a free parameter;
// callers do not filter goals first: internal/driver and the CLI's prove
// command each recover this panic (spec.md §6).
func Prove(goal *prop.Prop, factory *ident.Factory) (proofterm.Term, bool) {
	assertQuantifierFreeClosed(goal)
	return proveRight(goal, sequent{}, factory, 0)
}

func proveRight(goal *prop.Prop, seq sequent, factory *ident.Factory, depth int) (proofterm.Term, bool) {
	if depth > maxDepth {
		return nil, false
	}
	switch goal.Tag {
	case prop.TagTrue:
		return proofterm.NewUnit(token.Span{}), true
	case prop.TagFalse, prop.TagAtom, prop.TagOr:
		return proveLeft(goal, seq, factory, depth+1)
	case prop.TagAnd:
		left, ok := proveRight(goal.Left, seq, factory, depth+1)
		if !ok {
			return nil, false
		}
		right, ok := proveRight(goal.Right, seq, factory, depth+1)
		if !ok {
			return nil, false
		}
		return proofterm.NewPair(token.Span{}, left, right), true
	case prop.TagImpl:
		id := factory.Fresh("h")
		name := fmt.Sprintf("%s%d", id.Name, id.UID)
		next := seq
		next.ordered = append(append([]entry(nil), seq.ordered...), entry{Prop: goal.Left, Witness: proofterm.NewIdent(token.Span{}, name)})
		body, ok := proveRight(goal.Right, next, factory, depth+1)
		if !ok {
			return nil, false
		}
		return proofterm.NewFunction(token.Span{}, name, nil, body), true
	default:
		panic(&PreconditionError{Prop: goal})
	}
}

func proveLeft(goal *prop.Prop, seq sequent, factory *ident.Factory, depth int) (proofterm.Term, bool) {
	if depth > maxDepth {
		return nil, false
	}
	if len(seq.ordered) > 0 {
		head := seq.ordered[len(seq.ordered)-1]
		rest := seq.ordered[:len(seq.ordered)-1]
		return decomposeLeft(goal, head, sequent{ordered: rest, unordered: seq.unordered}, factory, depth)
	}
	return search(goal, seq, factory, depth)
}

func decomposeLeft(goal *prop.Prop, head entry, rest sequent, factory *ident.Factory, depth int) (proofterm.Term, bool) {
	switch head.Prop.Tag {
	case prop.TagTrue:
		return proveLeft(goal, rest, factory, depth+1)
	case prop.TagFalse:
		return proofterm.NewAbort(token.Span{}, head.Witness), true
	case prop.TagAtom:
		rest.unordered = append(rest.unordered, head)
		return proveLeft(goal, rest, factory, depth+1)
	case prop.TagAnd:
		rest.ordered = append(rest.ordered,
			entry{Prop: head.Prop.Left, Witness: proofterm.NewProjectFst(token.Span{}, head.Witness)},
			entry{Prop: head.Prop.Right, Witness: proofterm.NewProjectSnd(token.Span{}, head.Witness)})
		return proveLeft(goal, rest, factory, depth+1)
	case prop.TagOr:
		leftID := factory.Fresh("l")
		rightID := factory.Fresh("r")
		leftSeq := sequent{ordered: append([]entry(nil), rest.ordered...), unordered: append([]entry(nil), rest.unordered...)}
		leftSeq.ordered = append(leftSeq.ordered, entry{Prop: head.Prop.Left, Witness: proofterm.NewIdent(token.Span{}, leftID.Name)})
		leftTerm, ok := proveLeft(goal, leftSeq, factory, depth+1)
		if !ok {
			return nil, false
		}
		rightSeq := sequent{ordered: append([]entry(nil), rest.ordered...), unordered: append([]entry(nil), rest.unordered...)}
		rightSeq.ordered = append(rightSeq.ordered, entry{Prop: head.Prop.Right, Witness: proofterm.NewIdent(token.Span{}, rightID.Name)})
		rightTerm, ok := proveLeft(goal, rightSeq, factory, depth+1)
		if !ok {
			return nil, false
		}
		return proofterm.NewCase(token.Span{}, head.Witness, leftID.Name, leftTerm, rightID.Name, rightTerm), true
	case prop.TagImpl:
		return decomposeLeftImpl(goal, head, rest, factory, depth)
	default:
		panic(&PreconditionError{Prop: head.Prop})
	}
}

// decomposeLeftImpl handles head.Prop == A -> B, dispatching on A's
// shape per the G4ip left-implication rules.
func decomposeLeftImpl(goal *prop.Prop, head entry, rest sequent, factory *ident.Factory, depth int) (proofterm.Term, bool) {
	a, b := head.Prop.Left, head.Prop.Right
	switch a.Tag {
	case prop.TagTrue:
		newWitness := proofterm.NewApplication(token.Span{}, head.Witness, proofterm.NewUnit(token.Span{}))
		rest.ordered = append(rest.ordered, entry{Prop: b, Witness: newWitness})
		return proveLeft(goal, rest, factory, depth+1)
	case prop.TagAnd:
		c, d := a.Left, a.Right
		cID := factory.Fresh("c")
		dID := factory.Fresh("d")
		inner := proofterm.NewApplication(token.Span{}, head.Witness,
			proofterm.NewPair(token.Span{}, proofterm.NewIdent(token.Span{}, cID.Name), proofterm.NewIdent(token.Span{}, dID.Name)))
		newWitness := proofterm.NewFunction(token.Span{}, cID.Name, nil,
			proofterm.NewFunction(token.Span{}, dID.Name, nil, inner))
		newFormula := prop.Impl(c, prop.Impl(d, b))
		rest.ordered = append(rest.ordered, entry{Prop: newFormula, Witness: newWitness})
		return proveLeft(goal, rest, factory, depth+1)
	case prop.TagOr:
		c, d := a.Left, a.Right
		cType, dType := proofterm.PropType(c), proofterm.PropType(d)
		cID := factory.Fresh("c")
		witnessC := proofterm.NewFunction(token.Span{}, cID.Name, &cType,
			proofterm.NewApplication(token.Span{}, head.Witness, proofterm.NewOrLeft(token.Span{}, proofterm.NewIdent(token.Span{}, cID.Name))))
		dID := factory.Fresh("d")
		witnessD := proofterm.NewFunction(token.Span{}, dID.Name, &dType,
			proofterm.NewApplication(token.Span{}, head.Witness, proofterm.NewOrRight(token.Span{}, proofterm.NewIdent(token.Span{}, dID.Name))))
		rest.ordered = append(rest.ordered,
			entry{Prop: prop.Impl(c, b), Witness: witnessC},
			entry{Prop: prop.Impl(d, b), Witness: witnessD})
		return proveLeft(goal, rest, factory, depth+1)
	case prop.TagFalse:
		return proveLeft(goal, rest, factory, depth+1)
	case prop.TagAtom, prop.TagImpl:
		rest.unordered = append(rest.unordered, head)
		return proveLeft(goal, rest, factory, depth+1)
	default:
		panic(&PreconditionError{Prop: a})
	}
}

func atomsEqual(l, r *prop.Prop) bool {
	if l.Tag != prop.TagAtom || r.Tag != prop.TagAtom || l.AtomName != r.AtomName || len(l.AtomParams) != len(r.AtomParams) {
		return false
	}
	for i := range l.AtomParams {
		lp, rp := l.AtomParams[i], r.AtomParams[i]
		if lp.Kind != rp.Kind {
			return false
		}
		if lp.Kind == prop.Instantiated {
			if !lp.ID.Equal(rp.ID) {
				return false
			}
		} else if lp.Name != rp.Name {
			return false
		}
	}
	return true
}

// search runs once the ordered context is empty: Id, Falsum, ∨-right,
// →-left-on-atom and →-left-on-implication.
func search(goal *prop.Prop, seq sequent, factory *ident.Factory, depth int) (proofterm.Term, bool) {
	if depth > maxDepth {
		return nil, false
	}
	if goal.Tag == prop.TagAtom {
		for _, e := range seq.unordered {
			if e.Prop.Tag == prop.TagAtom && atomsEqual(e.Prop, goal) {
				return e.Witness, true
			}
		}
	}
	if goal.Tag == prop.TagFalse {
		for _, e := range seq.unordered {
			if e.Prop.Tag == prop.TagFalse {
				return e.Witness, true
			}
		}
	}
	if goal.Tag == prop.TagOr {
		if left, ok := proveRight(goal.Left, seq, factory, depth+1); ok {
			return proofterm.NewOrLeft(token.Span{}, left), true
		}
		if right, ok := proveRight(goal.Right, seq, factory, depth+1); ok {
			return proofterm.NewOrRight(token.Span{}, right), true
		}
	}
	// →-left on atom: P -> Q with P atomic and P present.
	for i, e := range seq.unordered {
		if e.Prop.Tag != prop.TagImpl || e.Prop.Left.Tag != prop.TagAtom {
			continue
		}
		for _, fact := range seq.unordered {
			if fact.Prop.Tag == prop.TagAtom && atomsEqual(fact.Prop, e.Prop.Left) {
				newWitness := proofterm.NewApplication(token.Span{}, e.Witness, fact.Witness)
				next := sequent{unordered: without(seq.unordered, i)}
				next.ordered = []entry{{Prop: e.Prop.Right, Witness: newWitness}}
				if term, ok := proveLeft(goal, next, factory, depth+1); ok {
					return term, true
				}
			}
		}
	}
	// →-left on implication: (C -> D) -> E.
	for i, e := range seq.unordered {
		if e.Prop.Tag != prop.TagImpl || e.Prop.Left.Tag != prop.TagImpl {
			continue
		}
		c, d := e.Prop.Left.Left, e.Prop.Left.Right
		entryE := e.Prop.Right
		yID := factory.Fresh("y")
		substituteWitness := proofterm.NewFunction(token.Span{}, yID.Name, nil,
			proofterm.NewApplication(token.Span{}, e.Witness,
				proofterm.NewFunction(token.Span{}, factory.Fresh("_").Name, nil, proofterm.NewIdent(token.Span{}, yID.Name))))
		modified := sequent{unordered: without(seq.unordered, i)}
		modified.unordered = append(modified.unordered, entry{Prop: prop.Impl(d, entryE), Witness: substituteWitness})
		if proved, ok := proveRight(prop.Impl(c, d), modified, factory, depth+1); ok {
			withFact := sequent{unordered: append(append([]entry(nil), seq.unordered...), entry{Prop: entryE, Witness: proofterm.NewApplication(token.Span{}, e.Witness, proved)})}
			if term, ok := proveLeft(goal, withFact, factory, depth+1); ok {
				return term, true
			}
		}
	}
	return nil, false
}

func without(entries []entry, index int) []entry {
	out := make([]entry, 0, len(entries)-1)
	for i, e := range entries {
		if i != index {
			out = append(out, e)
		}
	}
	return out
}
