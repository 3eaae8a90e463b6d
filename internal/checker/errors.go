package checker

import (
	"fmt"

	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/token"
)

// Error is the common interface every checker error satisfies, letting
// internal/diagnostics render a span-aware message without importing
// this package's concrete error types.
type Error interface {
	error
	Span() token.Span
}

type baseErr struct {
	span token.Span
}

func (e baseErr) Span() token.Span { return e.span }

// IncompatibleProofTermError is returned when a checking-mode term's
// shape cannot possibly inhabit the expected type (e.g. a Pair checked
// against an Atom).
type IncompatibleProofTermError struct {
	baseErr
	Expected Type
	Term     proofterm.Term
}

func (e *IncompatibleProofTermError) Error() string {
	return fmt.Sprintf("term is incompatible with expected type %s", e.Expected)
}

// UnexpectedProofTermKindError is returned when a term's syntactic kind
// cannot be synthesized/checked in the current position at all.
type UnexpectedProofTermKindError struct {
	baseErr
	Expected string
	Received string
}

func (e *UnexpectedProofTermKindError) Error() string {
	return fmt.Sprintf("expected a %s proof term, found %s", e.Expected, e.Received)
}

// UnexpectedPropKindError is returned when a synthesized/expected
// proposition does not have the connective shape an elimination form
// requires (e.g. fst applied to something not synthesizing to And).
type UnexpectedPropKindError struct {
	baseErr
	Expected string
	Received *prop.Prop
}

func (e *UnexpectedPropKindError) Error() string {
	return fmt.Sprintf("expected a %s proposition, found %s", e.Expected, e.Received)
}

// UnexpectedTypeError is returned when synthesis produces a type
// incompatible with what checking mode expected.
type UnexpectedTypeError struct {
	baseErr
	Expected Type
	Received Type
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("expected type %s, found %s", e.Expected, e.Received)
}

// CannotCheckForDatatypesError is returned when check is invoked at the
// outer boundary with a Datatype as the expected type; only Props are
// checkable goals.
type CannotCheckForDatatypesError struct {
	baseErr
	Datatype string
}

func (e *CannotCheckForDatatypesError) Error() string {
	return fmt.Sprintf("cannot check a proof term against datatype %s directly", e.Datatype)
}

// CannotReturnDatatypeError is returned when synthesis would have to
// yield a bare Datatype as the type of a Prop-classified position (a
// Function body, a LetIn body or a Case arm synthesizing to a Datatype).
type CannotReturnDatatypeError struct {
	baseErr
}

func (e *CannotReturnDatatypeError) Error() string {
	return "cannot synthesize a bare datatype here"
}

// QuantifiedObjectEscapesScopeError is returned when a LetIn's witness
// identifier appears free in the resulting proposition, violating
// existential scope discipline.
type QuantifiedObjectEscapesScopeError struct {
	baseErr
	Object ident.Identifier
}

func (e *QuantifiedObjectEscapesScopeError) Error() string {
	return fmt.Sprintf("quantified object %s escapes its scope", e.Object)
}

// TypeAnnotationsNeededError is returned when synthesis cannot proceed
// without an explicit ascription (e.g. a Pair whose first component
// synthesizes to a Datatype: existential introduction is not
// synthesizable unannotated).
type TypeAnnotationsNeededError struct {
	baseErr
	Term proofterm.Term
}

func (e *TypeAnnotationsNeededError) Error() string {
	return "type annotations needed"
}

// TypeHasFreeParametersError is returned by the outer check wrapper when
// the expected type still has a free Uninstantiated parameter; the
// caller must resolve it via prop.InstantiateWithContext first.
type TypeHasFreeParametersError struct {
	baseErr
	Type Type
}

func (e *TypeHasFreeParametersError) Error() string {
	return fmt.Sprintf("type %s has free parameters", e.Type)
}

// NotSynthesizingError is returned by synthesize for term kinds that can
// only ever be checked (OrLeft, OrRight, Abort, Sorry).
type NotSynthesizingError struct {
	baseErr
	Kind string
}

func (e *NotSynthesizingError) Error() string {
	return fmt.Sprintf("%s does not synthesize a type; an ascription is required", e.Kind)
}

// UnknownIdentifierError is returned when synthesizing Ident(x) finds no
// binding for x in the context.
type UnknownIdentifierError struct {
	baseErr
	Name string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown identifier: %s", e.Name)
}

// CaseArmsDifferentError is returned when a Case's two arms synthesize
// to types that are not alpha-equivalent.
type CaseArmsDifferentError struct {
	baseErr
	Fst, Snd Type
}

func (e *CaseArmsDifferentError) Error() string {
	return fmt.Sprintf("case arms synthesize to different types: %s vs %s", e.Fst, e.Snd)
}

// ExpectedPropAsSecondPairComponentError describes a Pair checked
// against an Exists whose second-component type is not a Prop. No
// checker path currently returns it.
type ExpectedPropAsSecondPairComponentError struct {
	baseErr
}

func (e *ExpectedPropAsSecondPairComponentError) Error() string {
	return "expected a proposition as the second pair component"
}
