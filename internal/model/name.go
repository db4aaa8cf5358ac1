package model

import "strings"

// Name is an absolute reference to a declaration: the package it lives in
// plus the path of nested declaration idents inside that package. Prefix
// carries the local import alias the name was written under, when any, and
// never participates in identity.
type Name[P PackageRepr[P]] struct {
	Prefix  string
	Package P
	Parts   []string
}

// NewName builds an absolute name without a prefix.
func NewName[P PackageRepr[P]](pkg P, parts ...string) Name[P] {
	return Name[P]{Package: pkg, Parts: parts}
}

// Key returns the registry identity of the name. The prefix is excluded so
// that a type referenced through an alias and the declaration itself share
// one key.
func (n Name[P]) Key() string {
	return n.Package.Key() + "::" + strings.Join(n.Parts, ".")
}

func (n Name[P]) String() string {
	var b strings.Builder
	if n.Prefix != "" {
		b.WriteString(n.Prefix)
		b.WriteString("::")
	}
	b.WriteString(strings.Join(n.Parts, "::"))
	return b.String()
}

// IsEmpty reports whether the name has no parts.
func (n Name[P]) IsEmpty() bool {
	return len(n.Parts) == 0
}

// WithPrefix returns the same name carrying a local alias.
func (n Name[P]) WithPrefix(prefix string) Name[P] {
	return Name[P]{Prefix: prefix, Package: n.Package, Parts: n.Parts}
}

// WithoutPrefix strips the local alias.
func (n Name[P]) WithoutPrefix() Name[P] {
	return Name[P]{Package: n.Package, Parts: n.Parts}
}

// Push returns a child name one level deeper.
func (n Name[P]) Push(part string) Name[P] {
	parts := make([]string, 0, len(n.Parts)+1)
	parts = append(parts, n.Parts...)
	parts = append(parts, part)
	return Name[P]{Prefix: n.Prefix, Package: n.Package, Parts: parts}
}

// WithParts replaces the declaration path, keeping package and prefix.
func (n Name[P]) WithParts(parts []string) Name[P] {
	return Name[P]{Prefix: n.Prefix, Package: n.Package, Parts: parts}
}

// Equal reports identity equality, ignoring the prefix.
func (n Name[P]) Equal(o Name[P]) bool {
	if n.Package.Compare(o.Package) != 0 {
		return false
	}
	if len(n.Parts) != len(o.Parts) {
		return false
	}
	for i := range n.Parts {
		if n.Parts[i] != o.Parts[i] {
			return false
		}
	}
	return true
}
