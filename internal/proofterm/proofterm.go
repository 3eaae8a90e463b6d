// Package proofterm implements the ProofTerm syntax: the small
// lambda-calculus with dependent products and sums that the checker
// type-checks and the prover synthesizes witnesses in. Every node
// carries an optional source span for diagnostics, and dispatches to a
// Visitor so checker/prover/export can each add a traversal without
// touching this package.
package proofterm

import (
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/token"
)

// Type names a checking-time type annotation written by the user: either
// a proposition or a datatype name. It mirrors checker.Type but lives
// here (no import of checker, which itself imports proofterm) as a small
// sum type used only for surface annotations.
type Type struct {
	IsDatatype bool
	Prop       *prop.Prop
	Datatype   string
}

func PropType(p *prop.Prop) Type   { return Type{Prop: p} }
func DatatypeType(name string) Type { return Type{IsDatatype: true, Datatype: name} }

// Term is the ProofTerm datatype.
type Term interface {
	Span() token.Span
	Accept(v Visitor)
	term()
}

type base struct {
	span token.Span
}

func (b base) Span() token.Span { return b.span }

// Ident references a bound identifier by its surface name; the checker
// resolves it to a concrete ident.Identifier via the context.
type Ident struct {
	base
	Name string
}

func NewIdent(span token.Span, name string) *Ident { return &Ident{base{span}, name} }
func (*Ident) term()                                {}
func (n *Ident) Accept(v Visitor)                   { v.VisitIdent(n) }

// Pair is conjunction/existential introduction: (fst, snd).
type Pair struct {
	base
	Fst, Snd Term
}

func NewPair(span token.Span, fst, snd Term) *Pair { return &Pair{base{span}, fst, snd} }
func (*Pair) term()                                 {}
func (n *Pair) Accept(v Visitor)                    { v.VisitPair(n) }

// ProjectFst is conjunction elimination-1: fst t.
type ProjectFst struct {
	base
	Of Term
}

func NewProjectFst(span token.Span, of Term) *ProjectFst { return &ProjectFst{base{span}, of} }
func (*ProjectFst) term()                                 {}
func (n *ProjectFst) Accept(v Visitor)                    { v.VisitProjectFst(n) }

// ProjectSnd is conjunction elimination-2: snd t.
type ProjectSnd struct {
	base
	Of Term
}

func NewProjectSnd(span token.Span, of Term) *ProjectSnd { return &ProjectSnd{base{span}, of} }
func (*ProjectSnd) term()                                 {}
func (n *ProjectSnd) Accept(v Visitor)                    { v.VisitProjectSnd(n) }

// Function is implication/forall introduction: fn p[:ann] => body.
type Function struct {
	base
	Param     string
	ParamType *Type // nil if unannotated
	Body      Term
}

func NewFunction(span token.Span, param string, paramType *Type, body Term) *Function {
	return &Function{base{span}, param, paramType, body}
}
func (*Function) term()              {}
func (n *Function) Accept(v Visitor) { v.VisitFunction(n) }

// Application is implication/forall elimination: function applicant.
type Application struct {
	base
	Function, Applicant Term
}

func NewApplication(span token.Span, fn, arg Term) *Application {
	return &Application{base{span}, fn, arg}
}
func (*Application) term()              {}
func (n *Application) Accept(v Visitor) { v.VisitApplication(n) }

// LetIn is existential elimination: let (fst, snd) = head in body.
type LetIn struct {
	base
	FstIdent, SndIdent string
	Head, Body         Term
}

func NewLetIn(span token.Span, fstIdent, sndIdent string, head, body Term) *LetIn {
	return &LetIn{base{span}, fstIdent, sndIdent, head, body}
}
func (*LetIn) term()              {}
func (n *LetIn) Accept(v Visitor) { v.VisitLetIn(n) }

// OrLeft is disjunction introduction-1: inl t.
type OrLeft struct {
	base
	Of Term
}

func NewOrLeft(span token.Span, of Term) *OrLeft { return &OrLeft{base{span}, of} }
func (*OrLeft) term()                             {}
func (n *OrLeft) Accept(v Visitor)                { v.VisitOrLeft(n) }

// OrRight is disjunction introduction-2: inr t.
type OrRight struct {
	base
	Of Term
}

func NewOrRight(span token.Span, of Term) *OrRight { return &OrRight{base{span}, of} }
func (*OrRight) term()                              {}
func (n *OrRight) Accept(v Visitor)                 { v.VisitOrRight(n) }

// Case is disjunction elimination:
// case head of inl fstIdent => fstTerm, inr sndIdent => sndTerm.
type Case struct {
	base
	Head               Term
	FstIdent, SndIdent string
	FstTerm, SndTerm   Term
}

func NewCase(span token.Span, head Term, fstIdent string, fstTerm Term, sndIdent string, sndTerm Term) *Case {
	return &Case{base{span}, head, fstIdent, sndIdent, fstTerm, sndTerm}
}
func (*Case) term()              {}
func (n *Case) Accept(v Visitor) { v.VisitCase(n) }

// Abort is falsum elimination (ex falso quodlibet): abort t.
type Abort struct {
	base
	Of Term
}

func NewAbort(span token.Span, of Term) *Abort { return &Abort{base{span}, of} }
func (*Abort) term()                            {}
func (n *Abort) Accept(v Visitor)               { v.VisitAbort(n) }

// Unit is the canonical inhabitant of True: ().
type Unit struct {
	base
}

func NewUnit(span token.Span) *Unit { return &Unit{base{span}} }
func (*Unit) term()                  {}
func (n *Unit) Accept(v Visitor)     { v.VisitUnit(n) }

// TypeAscription is term : ascription, switching surrounding
// synthesis-mode into check-mode for term.
type TypeAscription struct {
	base
	Term       Term
	Ascription *prop.Prop
}

func NewTypeAscription(span token.Span, term Term, ascription *prop.Prop) *TypeAscription {
	return &TypeAscription{base{span}, term, ascription}
}
func (*TypeAscription) term()              {}
func (n *TypeAscription) Accept(v Visitor) { v.VisitTypeAscription(n) }

// Sorry is an explicit open hole: it always succeeds against any Prop
// and records the goal it would prove, without discharging it.
type Sorry struct {
	base
}

func NewSorry(span token.Span) *Sorry { return &Sorry{base{span}} }
func (*Sorry) term()                   {}
func (n *Sorry) Accept(v Visitor)      { v.VisitSorry(n) }

// Visitor dispatches over every ProofTerm constructor. No traversal in
// this module implements it: the checker, the prover and the exporter
// all pattern-match on concrete types instead, since Go's
// type switches on a closed set of constructors pay no dividend over the
// indirection (design notes, §9).
type Visitor interface {
	VisitIdent(*Ident)
	VisitPair(*Pair)
	VisitProjectFst(*ProjectFst)
	VisitProjectSnd(*ProjectSnd)
	VisitFunction(*Function)
	VisitApplication(*Application)
	VisitLetIn(*LetIn)
	VisitOrLeft(*OrLeft)
	VisitOrRight(*OrRight)
	VisitCase(*Case)
	VisitAbort(*Abort)
	VisitUnit(*Unit)
	VisitTypeAscription(*TypeAscription)
	VisitSorry(*Sorry)
}
