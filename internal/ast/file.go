// Package ast defines the syntax tree a frontend hands to modeling. The
// bundled document parser produces it; an external grammar parser can
// produce it just as well. Every node carries the span it came from.
package ast

import "ridl/internal/source"

// File is one parsed schema document.
type File struct {
	Span       source.Span
	Comment    []string
	Attributes []Attribute
	Uses       []UseDecl
	Decls      []Decl
}

// UseDecl represents a use clause: the imported package, an optional
// version requirement, and an optional alias.
type UseDecl struct {
	Span            source.Span
	Package         []string
	Requirement     string
	RequirementSpan source.Span
	Alias           string
	AliasSpan       source.Span
}
