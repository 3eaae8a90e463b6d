// Package checker implements the bidirectional type checker: the
// check/synthesize judgment pair that decides whether a proof term
// inhabits a proposition, producing a natural-deduction ProofTree
// alongside each decision.
package checker

import (
	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/identctx"
	"github.com/natded/natded/internal/prop"
)

// Type is either a Prop (the term proves a proposition) or a Datatype
// (the term names an inhabitant of an uninterpreted sort).
type Type struct {
	IsDatatype bool
	Prop       *prop.Prop
	Datatype   string
}

func PropType(p *prop.Prop) Type    { return Type{Prop: p} }
func DatatypeType(name string) Type { return Type{IsDatatype: true, Datatype: name} }

func (t Type) String() string {
	if t.IsDatatype {
		return t.Datatype
	}
	return t.Prop.String()
}

// Equal compares two Types the way the checker does throughout: nominal
// equality for datatypes, AlphaEqRelaxed for propositions (free
// Uninstantiated parameters compared by spelling, Instantiated by
// identifier — spec.md §4.2).
func (t Type) Equal(other Type) bool {
	if t.IsDatatype != other.IsDatatype {
		return false
	}
	if t.IsDatatype {
		return t.Datatype == other.Datatype
	}
	return prop.AlphaEqRelaxed(t.Prop, other.Prop)
}

// Context is the IdentifierContext specialized to checker.Type bindings.
type Context struct {
	inner *identctx.Context
}

func NewContext() *Context { return &Context{inner: identctx.New()} }

func (c *Context) Clone() *Context { return &Context{inner: c.inner.Clone()} }

func (c *Context) Insert(id ident.Identifier, typ Type) { c.inner.Insert(id, typ) }

func (c *Context) LookupByIdentifier(id ident.Identifier) (Type, bool) {
	v, ok := c.inner.LookupByIdentifier(id)
	if !ok {
		return Type{}, false
	}
	return v.(Type), true
}

func (c *Context) LookupByName(name string) (ident.Identifier, bool) {
	return c.inner.LookupByName(name)
}

func (c *Context) LookupTypeByName(name string) (Type, bool) {
	v, ok := c.inner.LookupTypeByName(name)
	if !ok {
		return Type{}, false
	}
	return v.(Type), true
}

func (c *Context) RemoveByIdentifier(id ident.Identifier) (Type, bool) {
	v, ok := c.inner.RemoveByIdentifier(id)
	if !ok {
		return Type{}, false
	}
	return v.(Type), true
}
