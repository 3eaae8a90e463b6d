package checker

import (
	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prooftree"
	"github.com/natded/natded/internal/prop"
)

// Check is the outer checking entry point. Its two preconditions — the
// expected type is not a Datatype, and it has no free Uninstantiated
// parameter — are enforced here and only here; internal recursive calls
// go through checkInternal directly and relax the first one (spec.md
// §4.2, design notes §9's "two equivalent check functions" split).
func Check(term proofterm.Term, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	if expected.IsDatatype {
		return nil, NewCannotCheckForDatatypesError(term.Span(), expected.Datatype)
	}
	for _, param := range prop.FreeParameters(expected.Prop) {
		if param.Kind == prop.Uninstantiated {
			return nil, NewTypeHasFreeParametersError(term.Span(), expected)
		}
	}
	return checkInternal(term, expected, ctx, factory)
}

// checkInternal is the recursive checking judgment. expected may be a
// Datatype only transiently, for the Ident-against-object-type cases
// reached from Pair/∃ and the ∀-elimination applicant; every other path
// works over Prop-classified expected types.
func checkInternal(term proofterm.Term, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	switch t := term.(type) {
	case *proofterm.Pair:
		return checkPair(t, expected, ctx, factory)
	case *proofterm.Function:
		return checkFunction(t, expected, ctx, factory)
	case *proofterm.OrLeft:
		return checkOrLeft(t, expected, ctx, factory)
	case *proofterm.OrRight:
		return checkOrRight(t, expected, ctx, factory)
	case *proofterm.Case:
		return checkCase(t, expected, ctx, factory)
	case *proofterm.Abort:
		return checkAbort(t, expected, ctx, factory)
	case *proofterm.LetIn:
		return checkLetIn(t, expected, ctx, factory)
	case *proofterm.Unit:
		return checkUnit(t, expected)
	case *proofterm.TypeAscription:
		return checkAscription(t, expected, ctx, factory)
	case *proofterm.Sorry:
		tree := prooftree.New(prooftree.Simple(prooftree.SorryRule), prooftree.PropConclusion(expected.Prop))
		goal := &Goal{Conclusion: prooftree.PropConclusion(expected.Prop)}
		return &Result{Tree: tree, Goals: []*Goal{goal}}, nil
	default:
		return checkBySynthesis(term, expected, ctx, factory)
	}
}

func checkPair(t *proofterm.Pair, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	if expected.IsDatatype {
		return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
	}
	switch expected.Prop.Tag {
	case prop.TagAnd:
		resA, err := checkInternal(t.Fst, PropType(expected.Prop.Left), ctx, factory)
		if err != nil {
			return nil, err
		}
		resB, err := checkInternal(t.Snd, PropType(expected.Prop.Right), ctx, factory)
		if err != nil {
			return nil, err
		}
		tree := prooftree.New(prooftree.Simple(prooftree.AndIntro), prooftree.PropConclusion(expected.Prop), resA.Tree, resB.Tree)
		return &Result{Tree: tree, Goals: merge(resA, resB)}, nil
	case prop.TagQuant:
		if expected.Prop.Quant != prop.ExistsKind {
			return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
		}
		id, _, err := checkIdentAgainstDatatype(t.Fst, expected.Prop.ObjectType, ctx)
		if err != nil {
			return nil, err
		}
		bodyExpected := prop.InstantiateFreeParameter(expected.Prop.Body, expected.Prop.Object, id)
		resB, err := checkInternal(t.Snd, PropType(bodyExpected), ctx, factory)
		if err != nil {
			return nil, err
		}
		tree := prooftree.New(prooftree.Simple(prooftree.ExistsIntro), prooftree.PropConclusion(expected.Prop), resB.Tree)
		return &Result{Tree: tree, Goals: resB.Goals}, nil
	default:
		return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
	}
}

func checkFunction(t *proofterm.Function, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	if expected.IsDatatype {
		return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
	}
	switch expected.Prop.Tag {
	case prop.TagImpl:
		if t.ParamType != nil {
			if t.ParamType.IsDatatype || !prop.AlphaEqRelaxed(t.ParamType.Prop, expected.Prop.Left) {
				return nil, NewUnexpectedTypeError(t.Span(), PropType(expected.Prop.Left), paramAnnotationType(t.ParamType))
			}
		}
		id := factory.Fresh(t.Param)
		child := ctx.Clone()
		child.Insert(id, PropType(expected.Prop.Left))
		resBody, err := checkInternal(t.Body, PropType(expected.Prop.Right), child, factory)
		if err != nil {
			return nil, err
		}
		tree := prooftree.New(prooftree.WithID(prooftree.ImplIntro, id), prooftree.PropConclusion(expected.Prop), resBody.Tree)
		return &Result{Tree: tree, Goals: resBody.Goals}, nil
	case prop.TagQuant:
		if expected.Prop.Quant != prop.ForAllKind {
			return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
		}
		if t.ParamType != nil {
			if !t.ParamType.IsDatatype || t.ParamType.Datatype != expected.Prop.ObjectType {
				return nil, NewUnexpectedTypeError(t.Span(), DatatypeType(expected.Prop.ObjectType), paramAnnotationType(t.ParamType))
			}
		}
		id := factory.Fresh(t.Param)
		child := ctx.Clone()
		child.Insert(id, DatatypeType(expected.Prop.ObjectType))
		bodyExpected := prop.InstantiateFreeParameter(expected.Prop.Body, expected.Prop.Object, id)
		resBody, err := checkInternal(t.Body, PropType(bodyExpected), child, factory)
		if err != nil {
			return nil, err
		}
		tree := prooftree.New(prooftree.WithID(prooftree.ForAllIntro, id), prooftree.PropConclusion(expected.Prop), resBody.Tree)
		return &Result{Tree: tree, Goals: resBody.Goals}, nil
	default:
		return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
	}
}

func paramAnnotationType(t *proofterm.Type) Type {
	if t.IsDatatype {
		return DatatypeType(t.Datatype)
	}
	return PropType(t.Prop)
}

func checkOrLeft(t *proofterm.OrLeft, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	if expected.IsDatatype || expected.Prop.Tag != prop.TagOr {
		return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
	}
	res, err := checkInternal(t.Of, PropType(expected.Prop.Left), ctx, factory)
	if err != nil {
		return nil, err
	}
	tree := prooftree.New(prooftree.Simple(prooftree.OrIntroLeft), prooftree.PropConclusion(expected.Prop), res.Tree)
	return &Result{Tree: tree, Goals: res.Goals}, nil
}

func checkOrRight(t *proofterm.OrRight, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	if expected.IsDatatype || expected.Prop.Tag != prop.TagOr {
		return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
	}
	res, err := checkInternal(t.Of, PropType(expected.Prop.Right), ctx, factory)
	if err != nil {
		return nil, err
	}
	tree := prooftree.New(prooftree.Simple(prooftree.OrIntroRight), prooftree.PropConclusion(expected.Prop), res.Tree)
	return &Result{Tree: tree, Goals: res.Goals}, nil
}

func checkCase(t *proofterm.Case, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	th, resHead, err := Synthesize(t.Head, ctx, factory)
	if err != nil {
		return nil, err
	}
	if th.IsDatatype || th.Prop.Tag != prop.TagOr {
		var received *prop.Prop
		if !th.IsDatatype {
			received = th.Prop
		}
		return nil, NewUnexpectedPropKindError(t.Span(), "∨", received)
	}
	fstID := factory.Fresh(t.FstIdent)
	fstCtx := ctx.Clone()
	fstCtx.Insert(fstID, PropType(th.Prop.Left))
	resFst, err := checkInternal(t.FstTerm, expected, fstCtx, factory)
	if err != nil {
		return nil, err
	}
	sndID := factory.Fresh(t.SndIdent)
	sndCtx := ctx.Clone()
	sndCtx.Insert(sndID, PropType(th.Prop.Right))
	resSnd, err := checkInternal(t.SndTerm, expected, sndCtx, factory)
	if err != nil {
		return nil, err
	}
	tree := prooftree.New(prooftree.WithLeftRight(prooftree.OrElim, fstID, sndID), prooftree.PropConclusion(expected.Prop), resHead.Tree, resFst.Tree, resSnd.Tree)
	return &Result{Tree: tree, Goals: merge(resHead, resFst, resSnd)}, nil
}

func checkAbort(t *proofterm.Abort, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	if expected.IsDatatype {
		return nil, NewCannotCheckForDatatypesError(t.Span(), expected.Datatype)
	}
	res, err := checkInternal(t.Of, PropType(prop.False()), ctx, factory)
	if err != nil {
		return nil, err
	}
	tree := prooftree.New(prooftree.Simple(prooftree.FalseElim), prooftree.PropConclusion(expected.Prop), res.Tree)
	return &Result{Tree: tree, Goals: res.Goals}, nil
}

func checkLetIn(t *proofterm.LetIn, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	th, resHead, err := Synthesize(t.Head, ctx, factory)
	if err != nil {
		return nil, err
	}
	if th.IsDatatype || th.Prop.Tag != prop.TagQuant || th.Prop.Quant != prop.ExistsKind {
		var received *prop.Prop
		if !th.IsDatatype {
			received = th.Prop
		}
		return nil, NewUnexpectedPropKindError(t.Span(), "∃", received)
	}
	fstID := factory.Fresh(t.FstIdent)
	sndProp := prop.InstantiateFreeParameter(th.Prop.Body, th.Prop.Object, fstID)
	sndID := factory.Fresh(t.SndIdent)
	child := ctx.Clone()
	child.Insert(fstID, DatatypeType(th.Prop.ObjectType))
	child.Insert(sndID, PropType(sndProp))
	// expected is fixed by the caller and predates fstID/sndID, so it
	// cannot itself mention them: no explicit scope-escape check is
	// needed here (unlike the synthesizing LetIn, whose result type is
	// built from the body and must be checked for escape).
	resBody, err := checkInternal(t.Body, expected, child, factory)
	if err != nil {
		return nil, err
	}
	tree := prooftree.New(prooftree.WithWitnessProof(prooftree.ExistsElim, fstID, sndID), prooftree.PropConclusion(expected.Prop), resHead.Tree, resBody.Tree)
	return &Result{Tree: tree, Goals: merge(resHead, resBody)}, nil
}

func checkUnit(t *proofterm.Unit, expected Type) (*Result, error) {
	if expected.IsDatatype || expected.Prop.Tag != prop.TagTrue {
		return nil, NewIncompatibleProofTermError(t.Span(), expected, t)
	}
	tree := prooftree.New(prooftree.Simple(prooftree.TrueIntro), prooftree.PropConclusion(expected.Prop))
	return &Result{Tree: tree}, nil
}

func checkAscription(t *proofterm.TypeAscription, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	if expected.IsDatatype {
		return nil, NewCannotCheckForDatatypesError(t.Span(), expected.Datatype)
	}
	ascription, err := prop.InstantiateWithContext(t.Ascription, ctx)
	if err != nil {
		return nil, NewUnknownIdentifierError(t.Span(), unwrapUnknownIdentifier(err))
	}
	if !prop.AlphaEqRelaxed(ascription, expected.Prop) {
		return nil, NewUnexpectedTypeError(t.Span(), expected, PropType(ascription))
	}
	res, err := checkInternal(t.Term, PropType(ascription), ctx, factory)
	if err != nil {
		return nil, err
	}
	res.Tree = finalize(res.Tree, expected.Prop, ascription)
	return res, nil
}

// checkBySynthesis handles every ProofTerm kind that only ever
// synthesizes (Ident, projections, applications): synthesize the term
// and compare against expected, wrapping in AlphaEq if they agree only
// up to alpha-equivalence. Application additionally retries via the
// domain-from-applicant fallback described in spec.md §4.2 when
// synthesis of the function itself fails.
func checkBySynthesis(term proofterm.Term, expected Type, ctx *Context, factory *ident.Factory) (*Result, error) {
	actual, res, err := Synthesize(term, ctx, factory)
	if err == nil {
		if !actual.Equal(expected) {
			return nil, NewUnexpectedTypeError(term.Span(), expected, actual)
		}
		if !expected.IsDatatype {
			res.Tree = finalize(res.Tree, expected.Prop, actual.Prop)
		}
		return res, nil
	}
	app, isApp := term.(*proofterm.Application)
	if !isApp || expected.IsDatatype {
		return nil, err
	}
	argType, argRes, argErr := Synthesize(app.Applicant, ctx, factory)
	if argErr != nil || argType.IsDatatype {
		return nil, err
	}
	funcExpected := PropType(prop.Impl(argType.Prop, expected.Prop))
	resFn, fnErr := checkInternal(app.Function, funcExpected, ctx, factory)
	if fnErr != nil {
		return nil, err
	}
	tree := prooftree.New(prooftree.Simple(prooftree.ImplElim), prooftree.PropConclusion(expected.Prop), resFn.Tree, argRes.Tree)
	return &Result{Tree: tree, Goals: merge(resFn, argRes)}, nil
}
