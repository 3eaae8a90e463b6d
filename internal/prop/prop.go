// Package prop implements the Proposition datatype of minimal first-order
// intuitionistic logic and its algebraic operations: free-parameter
// analysis, capture-avoiding instantiation, quantifier (re)binding, and
// alpha-equivalence.
package prop

import (
	"fmt"
	"strings"

	"github.com/natded/natded/internal/ident"
)

// ParamKind distinguishes a still-bound parameter from one already
// resolved to a concrete witness identifier.
type ParamKind int

const (
	Uninstantiated ParamKind = iota
	Instantiated
)

// Parameter is a tagged variant: Uninstantiated carries just a name (it
// is still bound by an enclosing quantifier); Instantiated carries the
// concrete Identifier it was substituted with.
type Parameter struct {
	Kind Kind
	Name string           // valid iff Kind == Uninstantiated
	ID   ident.Identifier // valid iff Kind == Instantiated
}

// Kind is an alias kept distinct from ParamKind for readability at call
// sites (Parameter.Kind reads naturally as a field of that name).
type Kind = ParamKind

// Uninst builds an Uninstantiated parameter.
func Uninst(name string) Parameter { return Parameter{Kind: Uninstantiated, Name: name} }

// Inst builds an Instantiated parameter.
func Inst(id ident.Identifier) Parameter { return Parameter{Kind: Instantiated, ID: id} }

func (p Parameter) String() string {
	if p.Kind == Instantiated {
		return p.ID.String()
	}
	return p.Name
}

// QuantifierKind distinguishes ForAll from Exists.
type QuantifierKind int

const (
	ForAllKind QuantifierKind = iota
	ExistsKind
)

// Prop is the Proposition datatype. Exactly one of the fields group is
// meaningful, selected by Tag.
type Prop struct {
	Tag Tag

	// Atom
	AtomName   string
	AtomParams []Parameter

	// And / Or / Impl
	Left, Right *Prop

	// ForAll / Exists
	Quant          QuantifierKind
	Object         string // bound name as written at the binder
	ObjectType     string // datatype name
	Body           *Prop
}

// Tag identifies the Prop constructor in use.
type Tag int

const (
	TagAtom Tag = iota
	TagAnd
	TagOr
	TagImpl
	TagQuant
	TagTrue
	TagFalse
)

func Atom(name string, params ...Parameter) *Prop {
	return &Prop{Tag: TagAtom, AtomName: name, AtomParams: params}
}

func And(l, r *Prop) *Prop  { return &Prop{Tag: TagAnd, Left: l, Right: r} }
func Or(l, r *Prop) *Prop   { return &Prop{Tag: TagOr, Left: l, Right: r} }
func Impl(l, r *Prop) *Prop { return &Prop{Tag: TagImpl, Left: l, Right: r} }

func ForAll(object, objectType string, body *Prop) *Prop {
	return &Prop{Tag: TagQuant, Quant: ForAllKind, Object: object, ObjectType: objectType, Body: body}
}

func Exists(object, objectType string, body *Prop) *Prop {
	return &Prop{Tag: TagQuant, Quant: ExistsKind, Object: object, ObjectType: objectType, Body: body}
}

func True() *Prop  { return &Prop{Tag: TagTrue} }
func False() *Prop { return &Prop{Tag: TagFalse} }

// HasQuantifiers reports whether p contains a ForAll or Exists anywhere,
// which the ML exporter uses to reject propositions outside the
// quantifier-free fragment the sequent prover (and the exported
// language's simple types) can represent.
func HasQuantifiers(p *Prop) bool {
	if p == nil {
		return false
	}
	switch p.Tag {
	case TagQuant:
		return true
	case TagAnd, TagOr, TagImpl:
		return HasQuantifiers(p.Left) || HasQuantifiers(p.Right)
	default:
		return false
	}
}

func (p *Prop) String() string {
	if p == nil {
		return "<nil>"
	}
	switch p.Tag {
	case TagAtom:
		if len(p.AtomParams) == 0 {
			return p.AtomName
		}
		parts := make([]string, len(p.AtomParams))
		for i, pr := range p.AtomParams {
			parts[i] = pr.String()
		}
		return fmt.Sprintf("%s(%s)", p.AtomName, strings.Join(parts, ", "))
	case TagAnd:
		return fmt.Sprintf("(%s & %s)", p.Left, p.Right)
	case TagOr:
		return fmt.Sprintf("(%s | %s)", p.Left, p.Right)
	case TagImpl:
		return fmt.Sprintf("(%s -> %s)", p.Left, p.Right)
	case TagQuant:
		sym := "\\forall"
		if p.Quant == ExistsKind {
			sym = "\\exists"
		}
		return fmt.Sprintf("%s %s:%s. %s", sym, p.Object, p.ObjectType, p.Body)
	case TagTrue:
		return "true"
	case TagFalse:
		return "false"
	}
	return "<invalid-prop>"
}

// Clone returns a deep copy of p, so that mutation of the result (there
// is none in this package, but callers in checker/prover build new trees
// freely) never aliases the input.
func (p *Prop) Clone() *Prop {
	if p == nil {
		return nil
	}
	cp := *p
	cp.AtomParams = append([]Parameter(nil), p.AtomParams...)
	cp.Left = p.Left.Clone()
	cp.Right = p.Right.Clone()
	cp.Body = p.Body.Clone()
	return &cp
}

// FreeParameters returns, in traversal order with duplicates preserved,
// every parameter occurring under no binder. Binding is by name: a
// quantifier over x hides every enclosing occurrence of x regardless of
// whether that occurrence is Uninstantiated or Instantiated.
func FreeParameters(p *Prop) []Parameter {
	var out []Parameter
	freeParameters(p, map[string]bool{}, &out)
	return out
}

func freeParameters(p *Prop, bound map[string]bool, out *[]Parameter) {
	if p == nil {
		return
	}
	switch p.Tag {
	case TagAtom:
		for _, param := range p.AtomParams {
			name := param.Name
			if param.Kind == Instantiated {
				name = param.ID.Name
			}
			if bound[name] {
				continue
			}
			*out = append(*out, param)
		}
	case TagAnd, TagOr, TagImpl:
		freeParameters(p.Left, bound, out)
		freeParameters(p.Right, bound, out)
	case TagQuant:
		inner := make(map[string]bool, len(bound)+1)
		for k := range bound {
			inner[k] = true
		}
		inner[p.Object] = true
		freeParameters(p.Body, inner, out)
	case TagTrue, TagFalse:
	}
}

// InstantiateFreeParameter rewrites every free Uninstantiated parameter
// whose name equals substituentName into Instantiated(substitutorID). The
// rewrite does not descend under a binder whose Object equals
// substituentName (that binder's body no longer has a free occurrence of
// the name by definition). Already-instantiated parameters are never
// rewritten.
func InstantiateFreeParameter(p *Prop, substituentName string, substitutorID ident.Identifier) *Prop {
	if p == nil {
		return nil
	}
	switch p.Tag {
	case TagAtom:
		params := make([]Parameter, len(p.AtomParams))
		for i, param := range p.AtomParams {
			if param.Kind == Uninstantiated && param.Name == substituentName {
				params[i] = Inst(substitutorID)
			} else {
				params[i] = param
			}
		}
		return &Prop{Tag: TagAtom, AtomName: p.AtomName, AtomParams: params}
	case TagAnd:
		return And(InstantiateFreeParameter(p.Left, substituentName, substitutorID),
			InstantiateFreeParameter(p.Right, substituentName, substitutorID))
	case TagOr:
		return Or(InstantiateFreeParameter(p.Left, substituentName, substitutorID),
			InstantiateFreeParameter(p.Right, substituentName, substitutorID))
	case TagImpl:
		return Impl(InstantiateFreeParameter(p.Left, substituentName, substitutorID),
			InstantiateFreeParameter(p.Right, substituentName, substitutorID))
	case TagQuant:
		if p.Object == substituentName {
			return p.Clone()
		}
		body := InstantiateFreeParameter(p.Body, substituentName, substitutorID)
		return &Prop{Tag: TagQuant, Quant: p.Quant, Object: p.Object, ObjectType: p.ObjectType, Body: body}
	default:
		return p.Clone()
	}
}

// UnknownIdentifierError is returned by InstantiateWithContext when a
// free Uninstantiated parameter has no binding in the supplied context.
type UnknownIdentifierError struct {
	Name string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown identifier: %s", e.Name)
}

// ContextLookup is the minimal surface InstantiateWithContext needs from
// an IdentifierContext: find the most recent identifier bound to name.
type ContextLookup interface {
	LookupByName(name string) (ident.Identifier, bool)
}

// InstantiateWithContext scans all free Uninstantiated parameters and
// rewrites each to Instantiated against the top identifier of matching
// name in ctx. Fails with UnknownIdentifierError if no such binding
// exists for some free parameter.
func InstantiateWithContext(p *Prop, ctx ContextLookup) (*Prop, error) {
	result := p
	for _, param := range FreeParameters(p) {
		if param.Kind != Uninstantiated {
			continue
		}
		id, ok := ctx.LookupByName(param.Name)
		if !ok {
			return nil, &UnknownIdentifierError{Name: param.Name}
		}
		result = InstantiateFreeParameter(result, param.Name, id)
	}
	return result, nil
}

// BindIdentifier produces a fresh ForAll or Exists wrapping p, converting
// selected Instantiated(id) occurrences back into Uninstantiated(bindName).
// A left-to-right counter visits every Instantiated parameter whose
// (name, uid) matches id; only those whose 0-based counter position
// appears in indices are rewritten.
func BindIdentifier(quant QuantifierKind, id ident.Identifier, indices []int, bindName, typeName string, p *Prop) *Prop {
	wanted := make(map[int]bool, len(indices))
	for _, i := range indices {
		wanted[i] = true
	}
	counter := 0
	body := bindOccurrences(p, id, bindName, wanted, &counter)
	return &Prop{Tag: TagQuant, Quant: quant, Object: bindName, ObjectType: typeName, Body: body}
}

func bindOccurrences(p *Prop, id ident.Identifier, bindName string, wanted map[int]bool, counter *int) *Prop {
	if p == nil {
		return nil
	}
	switch p.Tag {
	case TagAtom:
		params := make([]Parameter, len(p.AtomParams))
		for i, param := range p.AtomParams {
			if param.Kind == Instantiated && param.ID.Equal(id) {
				pos := *counter
				*counter++
				if wanted[pos] {
					params[i] = Uninst(bindName)
					continue
				}
			}
			params[i] = param
		}
		return &Prop{Tag: TagAtom, AtomName: p.AtomName, AtomParams: params}
	case TagAnd:
		return And(bindOccurrences(p.Left, id, bindName, wanted, counter), bindOccurrences(p.Right, id, bindName, wanted, counter))
	case TagOr:
		return Or(bindOccurrences(p.Left, id, bindName, wanted, counter), bindOccurrences(p.Right, id, bindName, wanted, counter))
	case TagImpl:
		return Impl(bindOccurrences(p.Left, id, bindName, wanted, counter), bindOccurrences(p.Right, id, bindName, wanted, counter))
	case TagQuant:
		body := bindOccurrences(p.Body, id, bindName, wanted, counter)
		return &Prop{Tag: TagQuant, Quant: p.Quant, Object: p.Object, ObjectType: p.ObjectType, Body: body}
	default:
		return p.Clone()
	}
}

// PreconditionViolationError reports that AlphaEq was called on a
// proposition with a free Uninstantiated parameter outside any binder,
// which AlphaEq requires callers to resolve first via
// InstantiateWithContext.
type PreconditionViolationError struct {
	Name string
}

func (e *PreconditionViolationError) Error() string {
	return fmt.Sprintf("alpha_eq precondition violated: free uninstantiated parameter %q", e.Name)
}

// AlphaEq decides alpha-equivalence of l and r under an empty initial
// binder environment. Panics with *PreconditionViolationError if either
// side has a free Uninstantiated parameter outside any binder. The
// checker does not call it; its type equality uses AlphaEqRelaxed.
func AlphaEq(l, r *Prop) bool {
	for _, param := range FreeParameters(l) {
		if param.Kind == Uninstantiated {
			panic(&PreconditionViolationError{Name: param.Name})
		}
	}
	for _, param := range FreeParameters(r) {
		if param.Kind == Uninstantiated {
			panic(&PreconditionViolationError{Name: param.Name})
		}
	}
	return alphaEq(l, r, nil)
}

// binderEnv is a stack of (leftName, rightName) pairs, newest last.
type binderEnv []binderPair

type binderPair struct{ left, right string }

func (e binderEnv) topMatches(left, right string) bool {
	if len(e) == 0 {
		return false
	}
	top := e[len(e)-1]
	return top.left == left && top.right == right
}

func alphaEq(l, r *Prop, env binderEnv) bool {
	if l == nil || r == nil {
		return l == r
	}
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case TagAtom:
		if l.AtomName != r.AtomName || len(l.AtomParams) != len(r.AtomParams) {
			return false
		}
		for i := range l.AtomParams {
			if !paramEq(l.AtomParams[i], r.AtomParams[i], env) {
				return false
			}
		}
		return true
	case TagAnd, TagOr, TagImpl:
		return alphaEq(l.Left, r.Left, env) && alphaEq(l.Right, r.Right, env)
	case TagQuant:
		if l.Quant != r.Quant || l.ObjectType != r.ObjectType {
			return false
		}
		next := append(append(binderEnv(nil), env...), binderPair{left: l.Object, right: r.Object})
		return alphaEq(l.Body, r.Body, next)
	case TagTrue, TagFalse:
		return true
	}
	return false
}

func paramEq(l, r Parameter, env binderEnv) bool {
	if l.Kind == Uninstantiated && r.Kind == Uninstantiated {
		return env.topMatches(l.Name, r.Name)
	}
	if l.Kind == Instantiated && r.Kind == Instantiated {
		return l.ID.Equal(r.ID)
	}
	return false
}

// AlphaEqRelaxed decides the same equivalence as AlphaEq but never
// panics: a free Uninstantiated parameter (one with no matching binder
// at the top of the environment) is compared directly by spelling
// instead of being treated as a precondition violation. The checker uses
// this for its internal, free-parameter-tolerant recursive type
// comparison (spec.md §4.2's "check_compare_free_parameters_structurally"
// split); AlphaEq remains the strict outer-boundary check.
func AlphaEqRelaxed(l, r *Prop) bool {
	return alphaEqRelaxed(l, r, nil)
}

func alphaEqRelaxed(l, r *Prop, env binderEnv) bool {
	if l == nil || r == nil {
		return l == r
	}
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case TagAtom:
		if l.AtomName != r.AtomName || len(l.AtomParams) != len(r.AtomParams) {
			return false
		}
		for i := range l.AtomParams {
			if !paramEqRelaxed(l.AtomParams[i], r.AtomParams[i], env) {
				return false
			}
		}
		return true
	case TagAnd, TagOr, TagImpl:
		return alphaEqRelaxed(l.Left, r.Left, env) && alphaEqRelaxed(l.Right, r.Right, env)
	case TagQuant:
		if l.Quant != r.Quant || l.ObjectType != r.ObjectType {
			return false
		}
		next := append(append(binderEnv(nil), env...), binderPair{left: l.Object, right: r.Object})
		return alphaEqRelaxed(l.Body, r.Body, next)
	case TagTrue, TagFalse:
		return true
	}
	return false
}

func paramEqRelaxed(l, r Parameter, env binderEnv) bool {
	if l.Kind == Uninstantiated && r.Kind == Uninstantiated {
		if env.topMatches(l.Name, r.Name) {
			return true
		}
		return l.Name == r.Name
	}
	if l.Kind == Instantiated && r.Kind == Instantiated {
		return l.ID.Equal(r.ID)
	}
	return false
}
