// Package resolve implements the declaration-resolution pipeline stage:
// it validates a Program's datatype/atom prefix (no duplicate names)
// and cross-checks every proposition embedded in the proof term (type
// ascriptions, annotated function parameters) against those
// declarations — unknown atoms, arity mismatches, and quantifiers over
// an undeclared datatype are all reported here, before the checker ever
// runs (SPEC_FULL.md §7).
package resolve

import (
	"fmt"

	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/pipeline"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/token"
)

// Processor is the pipeline's resolve stage. It requires
// ParserProcessor to have run first.
type Processor struct{}

func (r *Processor) Process(ctx *pipeline.ProcessContext) *pipeline.ProcessContext {
	if ctx.Program == nil {
		return ctx
	}
	datatypes, atoms, errs := Resolve(ctx.Program)
	ctx.Datatypes = datatypes
	ctx.AtomArities = atoms
	for _, e := range errs {
		if e.File == "" {
			e.File = ctx.FilePath
		}
	}
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}

// Resolve validates prog's declaration prefix and every proposition
// reachable from its proof term, returning the declared datatype set,
// the declared atom arities, and any diagnostics found.
func Resolve(prog *pipeline.Program) (map[string]bool, map[string]int, []*diagnostics.DiagnosticError) {
	var errs []*diagnostics.DiagnosticError

	datatypes := map[string]bool{}
	for _, d := range prog.Datatypes {
		if datatypes[d.Name] {
			errs = append(errs, diagnostics.NewError("R001", tokenAt(d.Span), fmt.Sprintf("duplicate datatype declaration %q", d.Name)))
			continue
		}
		datatypes[d.Name] = true
	}

	atoms := map[string]int{}
	for _, a := range prog.Atoms {
		if _, ok := atoms[a.Name]; ok {
			errs = append(errs, diagnostics.NewError("R002", tokenAt(a.Span), fmt.Sprintf("duplicate atom declaration %q", a.Name)))
			continue
		}
		atoms[a.Name] = a.Arity
	}

	w := &walker{datatypes: datatypes, atoms: atoms}
	if prog.Term != nil {
		w.walkTerm(prog.Term)
	}
	errs = append(errs, w.errors...)
	return datatypes, atoms, errs
}

func tokenAt(span token.Span) token.Token {
	return token.Token{Line: span.StartLine, Column: span.StartColumn}
}

type walker struct {
	datatypes map[string]bool
	atoms     map[string]int
	errors    []*diagnostics.DiagnosticError
}

func (w *walker) walkTerm(t proofterm.Term) {
	if t == nil {
		return
	}
	switch n := t.(type) {
	case *proofterm.Ident:
	case *proofterm.Pair:
		w.walkTerm(n.Fst)
		w.walkTerm(n.Snd)
	case *proofterm.ProjectFst:
		w.walkTerm(n.Of)
	case *proofterm.ProjectSnd:
		w.walkTerm(n.Of)
	case *proofterm.Function:
		if n.ParamType != nil {
			w.walkType(*n.ParamType, n.Span())
		}
		w.walkTerm(n.Body)
	case *proofterm.Application:
		w.walkTerm(n.Function)
		w.walkTerm(n.Applicant)
	case *proofterm.LetIn:
		w.walkTerm(n.Head)
		w.walkTerm(n.Body)
	case *proofterm.OrLeft:
		w.walkTerm(n.Of)
	case *proofterm.OrRight:
		w.walkTerm(n.Of)
	case *proofterm.Case:
		w.walkTerm(n.Head)
		w.walkTerm(n.FstTerm)
		w.walkTerm(n.SndTerm)
	case *proofterm.Abort:
		w.walkTerm(n.Of)
	case *proofterm.Unit:
	case *proofterm.TypeAscription:
		w.walkProp(n.Ascription, n.Span())
		w.walkTerm(n.Term)
	case *proofterm.Sorry:
	}
}

func (w *walker) walkType(typ proofterm.Type, span token.Span) {
	if typ.IsDatatype {
		if !w.datatypes[typ.Datatype] {
			w.errors = append(w.errors, diagnostics.NewError("R003", tokenAt(span), fmt.Sprintf("unknown datatype %q", typ.Datatype)))
		}
		return
	}
	w.walkProp(typ.Prop, span)
}

func (w *walker) walkProp(p *prop.Prop, span token.Span) {
	if p == nil {
		return
	}
	switch p.Tag {
	case prop.TagAtom:
		arity, ok := w.atoms[p.AtomName]
		if !ok {
			w.errors = append(w.errors, diagnostics.NewError("R004", tokenAt(span), fmt.Sprintf("unknown atom %q", p.AtomName)))
			return
		}
		if arity != len(p.AtomParams) {
			w.errors = append(w.errors, diagnostics.NewError("R005", tokenAt(span),
				fmt.Sprintf("atom %q declared with arity %d, used with %d argument(s)", p.AtomName, arity, len(p.AtomParams))))
		}
	case prop.TagAnd, prop.TagOr, prop.TagImpl:
		w.walkProp(p.Left, span)
		w.walkProp(p.Right, span)
	case prop.TagQuant:
		if !w.datatypes[p.ObjectType] {
			w.errors = append(w.errors, diagnostics.NewError("R006", tokenAt(span), fmt.Sprintf("unknown datatype %q", p.ObjectType)))
		}
		w.walkProp(p.Body, span)
	case prop.TagTrue, prop.TagFalse:
	}
}
