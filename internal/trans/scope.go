package trans

import (
	"ridl/internal/model"
	"ridl/internal/naming"
)

// Scope is the per-file naming context modeling runs under: the canonical
// package of the file, the import prefixes its use clauses established,
// and the spelling conventions in effect.
type Scope struct {
	pkg            model.VersionedPackage
	prefixes       map[string]model.VersionedPackage
	keywords       map[string]string
	fieldNaming    naming.Policy
	endpointNaming naming.Policy
}

// NewScope creates a scope for one file. The package must already be
// canonical; nil naming policies leave identifiers untouched.
func NewScope(
	pkg model.VersionedPackage,
	prefixes map[string]model.VersionedPackage,
	keywords map[string]string,
	fieldNaming, endpointNaming naming.Policy,
) *Scope {
	return &Scope{
		pkg:            pkg,
		prefixes:       prefixes,
		keywords:       keywords,
		fieldNaming:    fieldNaming,
		endpointNaming: endpointNaming,
	}
}

// Package returns the canonical package of the file.
func (s *Scope) Package() model.VersionedPackage {
	return s.pkg
}

// Lookup resolves an import prefix to the package it was bound to.
func (s *Scope) Lookup(prefix string) (model.VersionedPackage, bool) {
	pkg, ok := s.prefixes[prefix]
	return pkg, ok
}

// Ident rewrites one identifier through the keyword table.
func (s *Scope) Ident(ident string) string {
	if repl, ok := s.keywords[ident]; ok {
		return repl
	}
	return ident
}

// Name builds an absolute name in the scope's own package.
func (s *Scope) Name(parts ...string) CoreName {
	return s.NameIn(s.pkg, parts...)
}

// NameIn builds an absolute name in the given package. Parts pass through
// the keyword table so that names agree with registered declarations.
func (s *Scope) NameIn(pkg model.VersionedPackage, parts ...string) CoreName {
	canonical := make([]string, len(parts))
	for i, part := range parts {
		canonical[i] = s.Ident(part)
	}
	return model.NewName(pkg, canonical...)
}

// FieldWireName resolves the serialized name of a field: the explicit
// override when given, the field convention otherwise. Empty means the
// ident serializes as written.
func (s *Scope) FieldWireName(ident, override string) string {
	if override != "" {
		return override
	}
	if s.fieldNaming != nil {
		return s.fieldNaming.Convert(ident)
	}
	return ""
}

// EndpointName resolves the wire name of an endpoint: the explicit
// override, the endpoint convention, or the ident itself.
func (s *Scope) EndpointName(ident, override string) string {
	if override != "" {
		return override
	}
	if s.endpointNaming != nil {
		return s.endpointNaming.Convert(ident)
	}
	return ident
}
