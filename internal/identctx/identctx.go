// Package identctx implements IdentifierContext: a stack of
// (Identifier, Type) bindings with the newest entry on top, supporting
// shadow-correct lookup by identifier and by bare name, and removal by
// either key. A Context's lifetime matches a single type-checking
// invocation; callers Clone() at branch points (Case arms, prover
// disjuncts) so a child's bindings are unreachable once the child
// returns.
package identctx

import "github.com/natded/natded/internal/ident"

// Type is the minimal interface a bound value's type must satisfy here;
// the checker package supplies the concrete Type (Prop or Datatype). It
// is declared as an empty interface alias so this package has no import
// dependency on checker/prop.
type Type = interface{}

type entry struct {
	ID   ident.Identifier
	Type Type
}

// Context is an ordered stack of identifier bindings, newest last.
type Context struct {
	entries []entry
}

// New returns an empty Context.
func New() *Context {
	return &Context{}
}

// Clone returns a copy of c whose entry slice does not alias c's: pushes
// and pops on the clone never affect the original.
func (c *Context) Clone() *Context {
	return &Context{entries: append([]entry(nil), c.entries...)}
}

// Insert pushes a new binding on top of the context.
func (c *Context) Insert(id ident.Identifier, typ Type) {
	c.entries = append(c.entries, entry{ID: id, Type: typ})
}

// LookupByIdentifier searches from the top for an exact (name, uid)
// match.
func (c *Context) LookupByIdentifier(id ident.Identifier) (Type, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].ID.Equal(id) {
			return c.entries[i].Type, true
		}
	}
	return nil, false
}

// LookupByName searches from the top for the first binding whose
// identifier has the given bare name, honoring shadowing.
func (c *Context) LookupByName(name string) (ident.Identifier, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].ID.Name == name {
			return c.entries[i].ID, true
		}
	}
	return ident.Identifier{}, false
}

// LookupTypeByName is LookupByName followed by the bound type.
func (c *Context) LookupTypeByName(name string) (Type, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].ID.Name == name {
			return c.entries[i].Type, true
		}
	}
	return nil, false
}

// RemoveByIdentifier removes the most recently inserted entry matching
// id exactly, returning it and whether it was found.
func (c *Context) RemoveByIdentifier(id ident.Identifier) (Type, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].ID.Equal(id) {
			typ := c.entries[i].Type
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return typ, true
		}
	}
	return nil, false
}

// RemoveByName removes the most recently inserted entry with a matching
// bare name, returning the removed identifier, its type, and whether one
// was found. Tests for shadowing rely on this returning the most recent
// entry with a matching name.
func (c *Context) RemoveByName(name string) (ident.Identifier, Type, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].ID.Name == name {
			id, typ := c.entries[i].ID, c.entries[i].Type
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return id, typ, true
		}
	}
	return ident.Identifier{}, nil, false
}

// Len reports the number of live bindings.
func (c *Context) Len() int { return len(c.entries) }
