// Package export renders a checked ProofTerm as an ML-shaped functional
// core (the untyped fragment OCaml, SML, and F# all agree on), following
// the Curry-Howard erasure: the proof term already IS the program: once
// the checker accepts it, stripping every Ascription leaves a runnable
// functional term (spec.md §8).
package export

import (
	"bytes"
	"fmt"

	"github.com/natded/natded/internal/checker"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prop"
)

// preamble defines the handful of primitives the erasure target assumes:
// the empty type, the two-constructor disjunction Inl/Inr mirroring the
// prover's OrLeft/OrRight, and runtime stand-ins for `fst`/`snd`/`abort`
// sorry leaves if one somehow survives to the exported program.
const preamble = `type empty = |
type ('a, 'b) disjunction = Inl of 'a | Inr of 'b
let fst (x, _) = x
let snd (_, y) = y
let abort (_ : empty) : 'a = failwith "abort"
let rec sorry () = sorry ()
`

// precedence levels for parenthesization: higher binds tighter.
const (
	precLow = iota // fun/match/let, extend as far right as grammar allows
	precApp        // application and the unary eliminators (abort/fst/snd/Inl/Inr)
	precAtom       // identifiers, (), tuples, parenthesized forms
)

// ToML renders term as a standalone ML program: the preamble followed by
// `let proof = <erased term>`.
func ToML(term proofterm.Term) (string, error) {
	if !CanExport(term) {
		return "", fmt.Errorf("export: term contains a let-in or a quantified parameter annotation (no erasure target)")
	}
	var buf bytes.Buffer
	buf.WriteString(preamble)
	buf.WriteString("\nlet proof = ")
	buf.WriteString(render(term, precLow))
	buf.WriteString("\n")
	return buf.String(), nil
}

// CanExport reports whether term's shape is within the erasable
// fragment: every constructor erases cleanly except LetIn, whose
// existential witness has no finite ML representation without
// existential types (spec.md §8's documented Non-goal), and a Function
// whose parameter annotation is a quantified proposition.
func CanExport(term proofterm.Term) bool {
	switch t := term.(type) {
	case *proofterm.LetIn:
		return false
	case *proofterm.Ident, *proofterm.Unit, *proofterm.Sorry:
		return true
	case *proofterm.Pair:
		return CanExport(t.Fst) && CanExport(t.Snd)
	case *proofterm.ProjectFst:
		return CanExport(t.Of)
	case *proofterm.ProjectSnd:
		return CanExport(t.Of)
	case *proofterm.OrLeft:
		return CanExport(t.Of)
	case *proofterm.OrRight:
		return CanExport(t.Of)
	case *proofterm.Abort:
		return CanExport(t.Of)
	case *proofterm.Case:
		return CanExport(t.Head) && CanExport(t.FstTerm) && CanExport(t.SndTerm)
	case *proofterm.Application:
		return CanExport(t.Function) && CanExport(t.Applicant)
	case *proofterm.Function:
		if t.ParamType != nil && !t.ParamType.IsDatatype && prop.HasQuantifiers(t.ParamType.Prop) {
			return false
		}
		return CanExport(t.Body)
	case *proofterm.TypeAscription:
		return CanExport(t.Term)
	default:
		return false
	}
}

// ExportableType reports whether a synthesized type can still head an
// exported program: quantified propositions would need ML polymorphism
// generalized over the quantifier's datatype, which this exporter does
// not attempt, so only quantifier-free Prop types (and any Datatype
// type, trivially) are accepted.
func ExportableType(typ checker.Type) bool {
	if typ.IsDatatype {
		return true
	}
	return !prop.HasQuantifiers(typ.Prop)
}

func precedenceOf(term proofterm.Term) int {
	switch term.(type) {
	case *proofterm.Ident, *proofterm.Unit, *proofterm.Sorry, *proofterm.Pair:
		return precAtom
	case *proofterm.Application, *proofterm.Abort, *proofterm.ProjectFst,
		*proofterm.ProjectSnd, *proofterm.OrLeft, *proofterm.OrRight:
		return precApp
	default:
		return precLow
	}
}

func render(term proofterm.Term, minPrec int) string {
	if ta, ok := term.(*proofterm.TypeAscription); ok {
		return render(ta.Term, minPrec)
	}
	s := renderBare(term)
	if precedenceOf(term) < minPrec {
		return "(" + s + ")"
	}
	return s
}

// renderArgument renders a term standing as an application's function or
// an eliminator's operand: atomic forms pass through; anything else
// (including another application, which would otherwise misassociate)
// is parenthesized.
func renderArgument(term proofterm.Term) string {
	if ta, ok := term.(*proofterm.TypeAscription); ok {
		return renderArgument(ta.Term)
	}
	if precedenceOf(term) == precAtom {
		return renderBare(term)
	}
	return "(" + renderBare(term) + ")"
}

func renderBare(term proofterm.Term) string {
	switch t := term.(type) {
	case *proofterm.Ident:
		return t.Name
	case *proofterm.Unit:
		return "()"
	case *proofterm.Sorry:
		return "sorry ()"
	case *proofterm.Pair:
		return fmt.Sprintf("(%s, %s)", render(t.Fst, precLow), render(t.Snd, precLow))
	case *proofterm.ProjectFst:
		return "fst " + renderArgument(t.Of)
	case *proofterm.ProjectSnd:
		return "snd " + renderArgument(t.Of)
	case *proofterm.OrLeft:
		return "Inl " + renderArgument(t.Of)
	case *proofterm.OrRight:
		return "Inr " + renderArgument(t.Of)
	case *proofterm.Abort:
		return "abort " + renderArgument(t.Of)
	case *proofterm.Function:
		return fmt.Sprintf("fun %s -> %s", t.Param, render(t.Body, precLow))
	case *proofterm.Application:
		fn := t.Function
		if _, ok := fn.(*proofterm.Application); ok {
			return fmt.Sprintf("%s %s", renderBare(fn), renderArgument(t.Applicant))
		}
		return fmt.Sprintf("%s %s", renderArgument(fn), renderArgument(t.Applicant))
	case *proofterm.Case:
		return fmt.Sprintf("match %s with | Inl %s -> %s | Inr %s -> %s",
			render(t.Head, precLow), t.FstIdent, render(t.FstTerm, precLow), t.SndIdent, render(t.SndTerm, precLow))
	case *proofterm.TypeAscription:
		return renderBare(t.Term)
	case *proofterm.LetIn:
		// Unreachable once ToML has rejected the term via CanExport;
		// kept only so renderBare stays total over proofterm.Term.
		return fmt.Sprintf("let (%s, %s) = %s in %s", t.FstIdent, t.SndIdent, render(t.Head, precLow), render(t.Body, precLow))
	default:
		return "<?>"
	}
}
