package model

import "ridl/internal/source"

// RegEntry is one committed registry entry.
type RegEntry[T any, P PackageRepr[P], E any] struct {
	Name Name[P]
	Span source.Span
	Reg  Reg[T, P, E]
}

// Registry is the append-only symbol table of a compilation. Keys are
// interned name identities, so a key committed once stays committed:
// Put never replaces and nothing is ever removed. Iteration follows
// insertion order.
type Registry[T any, P PackageRepr[P], E any] struct {
	keys    *source.Interner
	entries []RegEntry[T, P, E]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any, P PackageRepr[P], E any]() *Registry[T, P, E] {
	return &Registry[T, P, E]{keys: source.NewInterner()}
}

// Put registers reg under its name identity. When the key is new the
// entry is committed and added is true. When the key was already
// committed the existing registration is returned unchanged and added is
// false.
func (r *Registry[T, P, E]) Put(reg Reg[T, P, E]) (Reg[T, P, E], bool) {
	name := reg.Name()
	id := r.keys.Intern(name.Key())
	idx := int(id) - 1
	if idx < len(r.entries) {
		return r.entries[idx].Reg, false
	}
	r.entries = append(r.entries, RegEntry[T, P, E]{Name: name, Span: reg.Span(), Reg: reg})
	return reg, true
}

// Get looks up a registration by name identity without committing
// anything.
func (r *Registry[T, P, E]) Get(name Name[P]) (Reg[T, P, E], bool) {
	return r.GetKey(name.Key())
}

// GetKey looks up a registration by its raw key.
func (r *Registry[T, P, E]) GetKey(key string) (Reg[T, P, E], bool) {
	id, ok := r.keys.Find(key)
	if !ok || id == source.NoStringID {
		var zero Reg[T, P, E]
		return zero, false
	}
	return r.entries[int(id)-1].Reg, true
}

// Has reports whether a name identity is committed.
func (r *Registry[T, P, E]) Has(name Name[P]) bool {
	_, ok := r.Get(name)
	return ok
}

// Len returns the number of committed entries.
func (r *Registry[T, P, E]) Len() int {
	return len(r.entries)
}

// At returns the i-th entry in insertion order.
func (r *Registry[T, P, E]) At(i int) RegEntry[T, P, E] {
	return r.entries[i]
}

// Entries returns the committed entries in insertion order. The returned
// slice aliases internal storage and must not be modified.
func (r *Registry[T, P, E]) Entries() []RegEntry[T, P, E] {
	return r.entries
}
