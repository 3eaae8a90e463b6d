package checker

import (
	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prooftree"
	"github.com/natded/natded/internal/prop"
)

// Synthesize implements the synthesis judgment: it succeeds on terms
// whose type is determined entirely by the term itself, returning that
// type alongside the proof tree/goals built for it.
func Synthesize(term proofterm.Term, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	switch t := term.(type) {
	case *proofterm.Ident:
		return synthesizeIdent(t, ctx)
	case *proofterm.Pair:
		return synthesizePair(t, ctx, factory)
	case *proofterm.ProjectFst:
		return synthesizeProject(t, t.Of, true, ctx, factory)
	case *proofterm.ProjectSnd:
		return synthesizeProject(t, t.Of, false, ctx, factory)
	case *proofterm.Function:
		return synthesizeFunction(t, ctx, factory)
	case *proofterm.Application:
		return synthesizeApplication(t, ctx, factory)
	case *proofterm.LetIn:
		return synthesizeLetIn(t, ctx, factory)
	case *proofterm.Case:
		return synthesizeCase(t, ctx, factory)
	case *proofterm.TypeAscription:
		return synthesizeAscription(t, ctx, factory)
	case *proofterm.Unit:
		return PropType(prop.True()), &Result{Tree: prooftree.New(prooftree.Simple(prooftree.TrueIntro), prooftree.PropConclusion(prop.True()))}, nil
	case *proofterm.OrLeft:
		return Type{}, nil, NewNotSynthesizingError(t.Span(), "inl")
	case *proofterm.OrRight:
		return Type{}, nil, NewNotSynthesizingError(t.Span(), "inr")
	case *proofterm.Abort:
		return Type{}, nil, NewNotSynthesizingError(t.Span(), "abort")
	case *proofterm.Sorry:
		return Type{}, nil, NewNotSynthesizingError(t.Span(), "sorry")
	default:
		return Type{}, nil, NewUnexpectedProofTermKindError(term.Span(), "synthesizable term", termKindName(term))
	}
}

func synthesizeIdent(t *proofterm.Ident, ctx *Context) (Type, *Result, error) {
	id, ok := ctx.LookupByName(t.Name)
	if !ok {
		return Type{}, nil, NewUnknownIdentifierError(t.Span(), t.Name)
	}
	typ, _ := ctx.LookupByIdentifier(id)
	var conclusion prooftree.Conclusion
	if typ.IsDatatype {
		conclusion = prooftree.TypeConclusion(id, typ.Datatype)
	} else {
		conclusion = prooftree.PropConclusion(typ.Prop)
	}
	tree := prooftree.New(prooftree.Simple(prooftree.IdentRule), conclusion)
	return typ, &Result{Tree: tree}, nil
}

func synthesizePair(t *proofterm.Pair, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	ta, resA, err := Synthesize(t.Fst, ctx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if ta.IsDatatype {
		return Type{}, nil, NewTypeAnnotationsNeededError(t.Span(), t)
	}
	tb, resB, err := Synthesize(t.Snd, ctx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if tb.IsDatatype {
		return Type{}, nil, NewTypeAnnotationsNeededError(t.Span(), t)
	}
	conj := prop.And(ta.Prop, tb.Prop)
	tree := prooftree.New(prooftree.Simple(prooftree.AndIntro), prooftree.PropConclusion(conj), resA.Tree, resB.Tree)
	return PropType(conj), &Result{Tree: tree, Goals: merge(resA, resB)}, nil
}

func synthesizeProject(t proofterm.Term, of proofterm.Term, wantFst bool, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	to, res, err := Synthesize(of, ctx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if to.IsDatatype || to.Prop.Tag != prop.TagAnd {
		var received *prop.Prop
		if !to.IsDatatype {
			received = to.Prop
		}
		return Type{}, nil, NewUnexpectedPropKindError(t.Span(), "conjunction", received)
	}
	if wantFst {
		tree := prooftree.New(prooftree.Simple(prooftree.AndElimFst), prooftree.PropConclusion(to.Prop.Left), res.Tree)
		return PropType(to.Prop.Left), &Result{Tree: tree, Goals: res.Goals}, nil
	}
	tree := prooftree.New(prooftree.Simple(prooftree.AndElimSnd), prooftree.PropConclusion(to.Prop.Right), res.Tree)
	return PropType(to.Prop.Right), &Result{Tree: tree, Goals: res.Goals}, nil
}

func synthesizeFunction(t *proofterm.Function, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	if t.ParamType == nil {
		return Type{}, nil, NewUnexpectedProofTermKindError(t.Span(), "annotated function", "unannotated function")
	}
	id := factory.Fresh(t.Param)
	child := ctx.Clone()
	if t.ParamType.IsDatatype {
		child.Insert(id, DatatypeType(t.ParamType.Datatype))
		tb, res, err := Synthesize(t.Body, child, factory)
		if err != nil {
			return Type{}, nil, err
		}
		if tb.IsDatatype {
			return Type{}, nil, NewCannotReturnDatatypeError(t.Span())
		}
		positions := occurrencePositions(tb.Prop, id)
		quant := prop.BindIdentifier(prop.ForAllKind, id, positions, t.Param, t.ParamType.Datatype, tb.Prop)
		tree := prooftree.New(prooftree.WithID(prooftree.ForAllIntro, id), prooftree.PropConclusion(quant), res.Tree)
		return PropType(quant), &Result{Tree: tree, Goals: res.Goals}, nil
	}
	child.Insert(id, PropType(t.ParamType.Prop))
	tb, res, err := Synthesize(t.Body, child, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if tb.IsDatatype {
		return Type{}, nil, NewCannotReturnDatatypeError(t.Span())
	}
	impl := prop.Impl(t.ParamType.Prop, tb.Prop)
	tree := prooftree.New(prooftree.WithID(prooftree.ImplIntro, id), prooftree.PropConclusion(impl), res.Tree)
	return PropType(impl), &Result{Tree: tree, Goals: res.Goals}, nil
}

// occurrencePositions returns every left-to-right counter position at
// which id occurs Instantiated in p, for use with prop.BindIdentifier.
func occurrencePositions(p *prop.Prop, id ident.Identifier) []int {
	var positions []int
	counter := 0
	var walk func(p *prop.Prop)
	walk = func(p *prop.Prop) {
		if p == nil {
			return
		}
		switch p.Tag {
		case prop.TagAtom:
			for _, param := range p.AtomParams {
				if param.Kind == prop.Instantiated && param.ID.Equal(id) {
					positions = append(positions, counter)
				}
				counter++
			}
		case prop.TagAnd, prop.TagOr, prop.TagImpl:
			walk(p.Left)
			walk(p.Right)
		case prop.TagQuant:
			walk(p.Body)
		}
	}
	walk(p)
	return positions
}

func synthesizeApplication(t *proofterm.Application, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	tf, resF, err := Synthesize(t.Function, ctx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if tf.IsDatatype {
		return Type{}, nil, NewUnexpectedPropKindError(t.Span(), "∀ or →", nil)
	}
	switch tf.Prop.Tag {
	case prop.TagQuant:
		if tf.Prop.Quant != prop.ForAllKind {
			return Type{}, nil, NewUnexpectedPropKindError(t.Span(), "∀ or →", tf.Prop)
		}
		id, _, err := checkIdentAgainstDatatype(t.Applicant, tf.Prop.ObjectType, ctx)
		if err != nil {
			return Type{}, nil, err
		}
		result := prop.InstantiateFreeParameter(tf.Prop.Body, tf.Prop.Object, id)
		tree := prooftree.New(prooftree.Simple(prooftree.ForAllElim), prooftree.PropConclusion(result), resF.Tree)
		return PropType(result), &Result{Tree: tree, Goals: resF.Goals}, nil
	case prop.TagImpl:
		resA, err := Check(t.Applicant, PropType(tf.Prop.Left), ctx, factory)
		if err != nil {
			return Type{}, nil, err
		}
		tree := prooftree.New(prooftree.Simple(prooftree.ImplElim), prooftree.PropConclusion(tf.Prop.Right), resF.Tree, resA.Tree)
		return PropType(tf.Prop.Right), &Result{Tree: tree, Goals: merge(resF, resA)}, nil
	default:
		return Type{}, nil, NewUnexpectedPropKindError(t.Span(), "∀ or →", tf.Prop)
	}
}

func checkIdentAgainstDatatype(term proofterm.Term, datatype string, ctx *Context) (ident.Identifier, *prooftree.Tree, error) {
	identNode, ok := term.(*proofterm.Ident)
	if !ok {
		return ident.Identifier{}, nil, NewUnexpectedProofTermKindError(term.Span(), "identifier", termKindName(term))
	}
	id, ok := ctx.LookupByName(identNode.Name)
	if !ok {
		return ident.Identifier{}, nil, NewUnknownIdentifierError(term.Span(), identNode.Name)
	}
	typ, _ := ctx.LookupByIdentifier(id)
	if !typ.IsDatatype || typ.Datatype != datatype {
		return ident.Identifier{}, nil, NewUnexpectedTypeError(term.Span(), DatatypeType(datatype), typ)
	}
	tree := prooftree.New(prooftree.Simple(prooftree.IdentRule), prooftree.TypeConclusion(id, datatype))
	return id, tree, nil
}

func synthesizeLetIn(t *proofterm.LetIn, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	th, resHead, err := Synthesize(t.Head, ctx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if th.IsDatatype || th.Prop.Tag != prop.TagQuant || th.Prop.Quant != prop.ExistsKind {
		var received *prop.Prop
		if !th.IsDatatype {
			received = th.Prop
		}
		return Type{}, nil, NewUnexpectedPropKindError(t.Span(), "∃", received)
	}
	fstID := factory.Fresh(t.FstIdent)
	sndProp := prop.InstantiateFreeParameter(th.Prop.Body, th.Prop.Object, fstID)
	sndID := factory.Fresh(t.SndIdent)
	child := ctx.Clone()
	child.Insert(fstID, DatatypeType(th.Prop.ObjectType))
	child.Insert(sndID, PropType(sndProp))
	tb, resBody, err := Synthesize(t.Body, child, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if tb.IsDatatype {
		return Type{}, nil, NewCannotReturnDatatypeError(t.Span())
	}
	for _, param := range prop.FreeParameters(tb.Prop) {
		if param.Kind == prop.Instantiated && param.ID.Equal(fstID) {
			return Type{}, nil, NewQuantifiedObjectEscapesScopeError(t.Span(), fstID)
		}
	}
	tree := prooftree.New(prooftree.WithWitnessProof(prooftree.ExistsElim, fstID, sndID), prooftree.PropConclusion(tb.Prop), resHead.Tree, resBody.Tree)
	return tb, &Result{Tree: tree, Goals: merge(resHead, resBody)}, nil
}

func synthesizeCase(t *proofterm.Case, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	th, resHead, err := Synthesize(t.Head, ctx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if th.IsDatatype || th.Prop.Tag != prop.TagOr {
		var received *prop.Prop
		if !th.IsDatatype {
			received = th.Prop
		}
		return Type{}, nil, NewUnexpectedPropKindError(t.Span(), "∨", received)
	}
	fstID := factory.Fresh(t.FstIdent)
	fstCtx := ctx.Clone()
	fstCtx.Insert(fstID, PropType(th.Prop.Left))
	tFst, resFst, err := Synthesize(t.FstTerm, fstCtx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	sndID := factory.Fresh(t.SndIdent)
	sndCtx := ctx.Clone()
	sndCtx.Insert(sndID, PropType(th.Prop.Right))
	tSnd, resSnd, err := Synthesize(t.SndTerm, sndCtx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	if !tFst.Equal(tSnd) {
		return Type{}, nil, NewCaseArmsDifferentError(t.Span(), tFst, tSnd)
	}
	if tFst.IsDatatype {
		return Type{}, nil, NewCannotReturnDatatypeError(t.Span())
	}
	tree := prooftree.New(prooftree.WithLeftRight(prooftree.OrElim, fstID, sndID), prooftree.PropConclusion(tFst.Prop), resHead.Tree, resFst.Tree, resSnd.Tree)
	return tFst, &Result{Tree: tree, Goals: merge(resHead, resFst, resSnd)}, nil
}

func synthesizeAscription(t *proofterm.TypeAscription, ctx *Context, factory *ident.Factory) (Type, *Result, error) {
	ascription, err := prop.InstantiateWithContext(t.Ascription, ctx)
	if err != nil {
		return Type{}, nil, NewUnknownIdentifierError(t.Span(), unwrapUnknownIdentifier(err))
	}
	res, err := checkInternal(t.Term, PropType(ascription), ctx, factory)
	if err != nil {
		return Type{}, nil, err
	}
	return PropType(ascription), res, nil
}

func unwrapUnknownIdentifier(err error) string {
	if e, ok := err.(*prop.UnknownIdentifierError); ok {
		return e.Name
	}
	return err.Error()
}
