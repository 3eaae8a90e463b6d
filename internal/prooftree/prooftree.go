// Package prooftree implements the natural-deduction ProofTree witness
// that the checker builds alongside every successful typing decision.
package prooftree

import (
	"fmt"
	"strings"

	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/prop"
)

// RuleTag identifies which natural-deduction rule a Tree node applies.
type RuleTag int

const (
	TrueIntro RuleTag = iota
	FalseElim
	AndIntro
	AndElimFst
	AndElimSnd
	OrIntroLeft
	OrIntroRight
	OrElim
	ImplIntro
	ImplElim
	ForAllIntro
	ForAllElim
	ExistsIntro
	ExistsElim
	IdentRule
	SorryRule
	AlphaEqRule
)

var ruleNames = map[RuleTag]string{
	TrueIntro: "⊤-I", FalseElim: "⊥-E", AndIntro: "∧-I",
	AndElimFst: "∧-E₁", AndElimSnd: "∧-E₂",
	OrIntroLeft: "∨-I₁", OrIntroRight: "∨-I₂", OrElim: "∨-E",
	ImplIntro: "→-I", ImplElim: "→-E",
	ForAllIntro: "∀-I", ForAllElim: "∀-E",
	ExistsIntro: "∃-I", ExistsElim: "∃-E",
	IdentRule: "Ident", SorryRule: "Sorry", AlphaEqRule: "AlphaEq",
}

func (r RuleTag) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return "?"
}

// Rule is the fully-applied rule tag: the RuleTag plus whatever bound
// identifiers that rule's natural-deduction presentation names (→-I(id),
// ∀-I(id), ∨-E(left_id, right_id), ∃-E(wit_id, proof_id)). Fields are
// zero-valued when the rule carries no identifier.
type Rule struct {
	Tag                  RuleTag
	ID                   ident.Identifier // →-I, ∀-I
	LeftID, RightID      ident.Identifier // ∨-E
	WitnessID, ProofID   ident.Identifier // ∃-E
	HasID                bool
	HasLeftRight         bool
	HasWitnessProof      bool
}

func Simple(tag RuleTag) Rule { return Rule{Tag: tag} }

func WithID(tag RuleTag, id ident.Identifier) Rule {
	return Rule{Tag: tag, ID: id, HasID: true}
}

func WithLeftRight(tag RuleTag, left, right ident.Identifier) Rule {
	return Rule{Tag: tag, LeftID: left, RightID: right, HasLeftRight: true}
}

func WithWitnessProof(tag RuleTag, witness, proof ident.Identifier) Rule {
	return Rule{Tag: tag, WitnessID: witness, ProofID: proof, HasWitnessProof: true}
}

func (r Rule) String() string {
	switch {
	case r.HasID:
		return fmt.Sprintf("%s(%s)", r.Tag, r.ID)
	case r.HasLeftRight:
		return fmt.Sprintf("%s(%s, %s)", r.Tag, r.LeftID, r.RightID)
	case r.HasWitnessProof:
		return fmt.Sprintf("%s(%s, %s)", r.Tag, r.WitnessID, r.ProofID)
	default:
		return r.Tag.String()
	}
}

// ConclusionKind distinguishes the two shapes a Tree's conclusion can
// take.
type ConclusionKind int

const (
	PropIsTrue ConclusionKind = iota
	TypeJudgement
)

// Conclusion is the judgement a Tree node establishes: either "this
// proposition is true" or "this identifier has this datatype".
type Conclusion struct {
	Kind         ConclusionKind
	Prop         *prop.Prop       // valid iff Kind == PropIsTrue
	ID           ident.Identifier // valid iff Kind == TypeJudgement
	DatatypeName string           // valid iff Kind == TypeJudgement
}

func PropConclusion(p *prop.Prop) Conclusion {
	return Conclusion{Kind: PropIsTrue, Prop: p}
}

func TypeConclusion(id ident.Identifier, datatype string) Conclusion {
	return Conclusion{Kind: TypeJudgement, ID: id, DatatypeName: datatype}
}

func (c Conclusion) String() string {
	if c.Kind == TypeJudgement {
		return fmt.Sprintf("%s : %s", c.ID, c.DatatypeName)
	}
	return c.Prop.String()
}

// Tree is one node of a natural-deduction proof.
type Tree struct {
	Premisses  []*Tree
	Rule       Rule
	Conclusion Conclusion
}

func New(rule Rule, conclusion Conclusion, premisses ...*Tree) *Tree {
	return &Tree{Premisses: premisses, Rule: rule, Conclusion: conclusion}
}

// WrapAlphaEq wraps t in a one-premise AlphaEq node whose conclusion is
// wanted, used whenever a proof's natural conclusion is alpha-equivalent
// to, but not identical to, the proposition the caller expected.
func WrapAlphaEq(t *Tree, wanted *prop.Prop) *Tree {
	return New(Simple(AlphaEqRule), PropConclusion(wanted), t)
}

// Render produces an indented human-readable rendering of the tree,
// premisses above conclusions in the usual natural-deduction style but
// laid out top-to-bottom for terminal output.
func (t *Tree) Render() string {
	var b strings.Builder
	t.render(&b, 0)
	return b.String()
}

func (t *Tree) render(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, premiss := range t.Premisses {
		premiss.render(b, depth+1)
	}
	fmt.Fprintf(b, "%s%s  [%s]\n", indent, t.Conclusion, t.Rule)
}
