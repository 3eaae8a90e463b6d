package checker

import (
	"reflect"

	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prooftree"
	"github.com/natded/natded/internal/prop"
)

// Goal is one open hole recorded while checking a proof term containing
// Sorry. Solution is filled in later by the verification driver if the
// prover discharges it; it is nil for a goal that remains open.
type Goal struct {
	Conclusion prooftree.Conclusion
	Solution   proofterm.Term
}

// Result is the outcome of a successful check/synthesize call: the
// natural-deduction proof tree built for the term, plus every open goal
// encountered, in source-order (left-to-right traversal) of the term.
type Result struct {
	Tree  *prooftree.Tree
	Goals []*Goal
}

func merge(results ...*Result) []*Goal {
	var goals []*Goal
	for _, r := range results {
		if r == nil {
			continue
		}
		goals = append(goals, r.Goals...)
	}
	return goals
}

// finalize wraps tree in an AlphaEq node iff actual and expected are
// alpha-equivalent but not structurally identical; it is an error to
// call this when they are not even alpha-equivalent (callers check that
// first).
func finalize(tree *prooftree.Tree, expected, actual *prop.Prop) *prooftree.Tree {
	if reflect.DeepEqual(expected, actual) {
		return tree
	}
	return prooftree.WrapAlphaEq(tree, expected)
}

// termKindName names a ProofTerm's constructor for diagnostics.
func termKindName(t proofterm.Term) string {
	switch t.(type) {
	case *proofterm.Ident:
		return "identifier"
	case *proofterm.Pair:
		return "pair"
	case *proofterm.ProjectFst:
		return "fst-projection"
	case *proofterm.ProjectSnd:
		return "snd-projection"
	case *proofterm.Function:
		return "function"
	case *proofterm.Application:
		return "application"
	case *proofterm.LetIn:
		return "let-in"
	case *proofterm.OrLeft:
		return "inl"
	case *proofterm.OrRight:
		return "inr"
	case *proofterm.Case:
		return "case"
	case *proofterm.Abort:
		return "abort"
	case *proofterm.Unit:
		return "unit"
	case *proofterm.TypeAscription:
		return "ascription"
	case *proofterm.Sorry:
		return "sorry"
	default:
		return "unknown"
	}
}
