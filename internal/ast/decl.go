package ast

import (
	"fmt"

	"ridl/internal/source"
)

// DeclKind discriminates the declaration payload.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclType
	DeclTuple
	DeclInterface
	DeclEnum
	DeclService
)

var declKindNames = [...]string{
	DeclInvalid:   "invalid",
	DeclType:      "type",
	DeclTuple:     "tuple",
	DeclInterface: "interface",
	DeclEnum:      "enum",
	DeclService:   "service",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return fmt.Sprintf("DeclKind(%d)", uint8(k))
}

// Decl is one declaration of any kind. Exactly the body matching Kind is
// non-nil.
type Decl struct {
	Kind      DeclKind
	Type      *TypeDecl
	Tuple     *TupleDecl
	Interface *InterfaceDecl
	Enum      *EnumDecl
	Service   *ServiceDecl
}

// Name returns the declared identifier.
func (d Decl) Name() string {
	switch d.Kind {
	case DeclType:
		return d.Type.Name
	case DeclTuple:
		return d.Tuple.Name
	case DeclInterface:
		return d.Interface.Name
	case DeclEnum:
		return d.Enum.Name
	case DeclService:
		return d.Service.Name
	}
	return ""
}

// Span returns the declaration position.
func (d Decl) Span() source.Span {
	switch d.Kind {
	case DeclType:
		return d.Type.Span
	case DeclTuple:
		return d.Tuple.Span
	case DeclInterface:
		return d.Interface.Span
	case DeclEnum:
		return d.Enum.Span
	case DeclService:
		return d.Service.Span
	}
	return source.Span{}
}

// NameSpan returns the position of the declared identifier.
func (d Decl) NameSpan() source.Span {
	switch d.Kind {
	case DeclType:
		return d.Type.NameSpan
	case DeclTuple:
		return d.Tuple.NameSpan
	case DeclInterface:
		return d.Interface.NameSpan
	case DeclEnum:
		return d.Enum.NameSpan
	case DeclService:
		return d.Service.NameSpan
	}
	return source.Span{}
}

// FieldDecl is a named, typed member.
type FieldDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Comment  []string
	Optional bool
	WireName string
	Ty       TypeRef
}

// TypeDecl represents a record declaration.
type TypeDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Comment  []string
	Fields   []FieldDecl
	Decls    []Decl
}

// TupleDecl represents a positional record declaration.
type TupleDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Comment  []string
	Fields   []FieldDecl
	Decls    []Decl
}

// InterfaceDecl represents a tagged union declaration.
type InterfaceDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Comment  []string
	Fields   []FieldDecl
	SubTypes []SubTypeDecl
	Decls    []Decl
}

// SubTypeDecl is one concrete case of an interface. WireName carries an
// explicit tag override.
type SubTypeDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Comment  []string
	WireName string
	Fields   []FieldDecl
}

// EnumDecl represents an enum declaration. Ty names the value domain.
type EnumDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Comment  []string
	Ty       TypeRef
	Variants []VariantDecl
}

// VariantDecl is one enum member with an optional explicit value.
type VariantDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span
	Comment  []string
	Value    *Value
}

// ServiceDecl represents a service declaration.
type ServiceDecl struct {
	Span      source.Span
	Name      string
	NameSpan  source.Span
	Comment   []string
	Endpoints []EndpointDecl
}

// EndpointDecl is one operation of a service. WireName carries an
// explicit name override.
type EndpointDecl struct {
	Span      source.Span
	Name      string
	NameSpan  source.Span
	Comment   []string
	WireName  string
	Arguments []ArgumentDecl
	Response  *ChannelDecl
}

// ArgumentDecl is a named endpoint input.
type ArgumentDecl struct {
	Span    source.Span
	Name    string
	Channel ChannelDecl
}

// ChannelDecl carries a value through an endpoint, optionally streaming.
type ChannelDecl struct {
	Span      source.Span
	Ty        TypeRef
	Streaming bool
}
