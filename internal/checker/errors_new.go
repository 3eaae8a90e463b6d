package checker

import (
	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/token"
)

func NewIncompatibleProofTermError(span token.Span, expected Type, term proofterm.Term) *IncompatibleProofTermError {
	return &IncompatibleProofTermError{baseErr{span}, expected, term}
}

func NewUnexpectedProofTermKindError(span token.Span, expected, received string) *UnexpectedProofTermKindError {
	return &UnexpectedProofTermKindError{baseErr{span}, expected, received}
}

func NewUnexpectedPropKindError(span token.Span, expected string, received *prop.Prop) *UnexpectedPropKindError {
	return &UnexpectedPropKindError{baseErr{span}, expected, received}
}

func NewUnexpectedTypeError(span token.Span, expected, received Type) *UnexpectedTypeError {
	return &UnexpectedTypeError{baseErr{span}, expected, received}
}

func NewCannotCheckForDatatypesError(span token.Span, datatype string) *CannotCheckForDatatypesError {
	return &CannotCheckForDatatypesError{baseErr{span}, datatype}
}

func NewCannotReturnDatatypeError(span token.Span) *CannotReturnDatatypeError {
	return &CannotReturnDatatypeError{baseErr{span}}
}

func NewQuantifiedObjectEscapesScopeError(span token.Span, object ident.Identifier) *QuantifiedObjectEscapesScopeError {
	return &QuantifiedObjectEscapesScopeError{baseErr{span}, object}
}

func NewTypeAnnotationsNeededError(span token.Span, term proofterm.Term) *TypeAnnotationsNeededError {
	return &TypeAnnotationsNeededError{baseErr{span}, term}
}

func NewTypeHasFreeParametersError(span token.Span, typ Type) *TypeHasFreeParametersError {
	return &TypeHasFreeParametersError{baseErr{span}, typ}
}

func NewNotSynthesizingError(span token.Span, kind string) *NotSynthesizingError {
	return &NotSynthesizingError{baseErr{span}, kind}
}

func NewUnknownIdentifierError(span token.Span, name string) *UnknownIdentifierError {
	return &UnknownIdentifierError{baseErr{span}, name}
}

func NewCaseArmsDifferentError(span token.Span, fst, snd Type) *CaseArmsDifferentError {
	return &CaseArmsDifferentError{baseErr{span}, fst, snd}
}

func NewExpectedPropAsSecondPairComponentError(span token.Span) *ExpectedPropAsSecondPairComponentError {
	return &ExpectedPropAsSecondPairComponentError{baseErr{span}}
}
