// Package ident implements the Identifier and IdentifierFactory
// components: globally unique (name, uid) pairs, issued by a plain
// counter carried explicitly by the caller. There is no process-wide
// singleton; a Factory's lifetime matches a single verification
// invocation (spec.md §5).
package ident

import "fmt"

// Identifier is a (name, uid) pair. Two identifiers are equal iff both
// components agree; names may repeat across identifiers, uids never do.
type Identifier struct {
	Name string
	UID  uint64
}

func (id Identifier) String() string {
	return fmt.Sprintf("%s#%d", id.Name, id.UID)
}

// Equal reports whether id and other denote the same identifier.
func (id Identifier) Equal(other Identifier) bool {
	return id.Name == other.Name && id.UID == other.UID
}

// sorryUID is the reserved uid of the Sorry sentinel. Factory.Fresh never
// produces it.
const sorryUID = 0

// Sorry is the distinguished sentinel identifier standing for an open
// proof goal recorded by the ProofTerm Sorry variant.
var Sorry = Identifier{Name: "sorry", UID: sorryUID}

// Factory issues fresh, globally unique identifiers for a single
// type-checking or proving invocation. It carries all of its mutable
// state in an unexported counter; there is no global counter anywhere
// in natded.
type Factory struct {
	next uint64
}

// NewFactory returns a Factory whose first Fresh call yields uid 1
// (uid 0 is reserved for Sorry).
func NewFactory() *Factory {
	return &Factory{next: sorryUID + 1}
}

// Fresh returns a new Identifier with the given name and a uid that has
// never been returned before by this Factory.
func (f *Factory) Fresh(name string) Identifier {
	id := Identifier{Name: name, UID: f.next}
	f.next++
	return id
}
