package model

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

// DeclHeader carries what every declaration has: its absolute name, the
// ident it was declared under, leading comments, and the declaration span.
type DeclHeader[P PackageRepr[P]] struct {
	Name    Name[P]
	Ident   string
	Comment []string
	Span    source.Span
}

// Field is a named, typed member of a type, tuple, interface, or sub type
// body.
type Field[T any] struct {
	Ident    string
	WireName string
	Optional bool
	Ty       T
	Comment  []string
	Span     source.Span
}

// Name returns the serialized field name: the explicit wire name when one
// was given, the ident otherwise.
func (f *Field[T]) Name() string {
	if f.WireName != "" {
		return f.WireName
	}
	return f.Ident
}

// Channel carries a value through an endpoint, optionally as a stream.
type Channel[T any] struct {
	Ty        T
	Streaming bool
}

// Argument is a named endpoint input.
type Argument[T any] struct {
	Ident   string
	Channel Channel[T]
	Span    source.Span
}

// Endpoint is a single operation of a service. Name is the wire name after
// endpoint naming was applied; Ident is the declared spelling.
type Endpoint[T any] struct {
	Ident     string
	Name      string
	Comment   []string
	Arguments []Argument[T]
	Response  *Channel[T]
	Span      source.Span
}

// Variant is one member of an enum. Value carries the explicit ordinal
// when one was written.
type Variant[P PackageRepr[P]] struct {
	Name    Name[P]
	Ident   string
	Comment []string
	Value   *Value
	Span    source.Span
}

// WireValue returns the serialized form of the variant: the explicit value
// when present, the ident otherwise.
func (v *Variant[P]) WireValue() Value {
	if v.Value != nil {
		return *v.Value
	}
	return StringValue(v.Ident, v.Span)
}

// SubType is one concrete case of an interface. WireName overrides the
// tag value used on the wire when non-empty.
type SubType[T any, P PackageRepr[P]] struct {
	DeclHeader[P]
	WireName string
	Fields   []Field[T]
}

// Tag returns the wire tag of the sub type.
func (s *SubType[T, P]) Tag() string {
	if s.WireName != "" {
		return s.WireName
	}
	return s.Ident
}

// TypeBody is a plain record declaration.
type TypeBody[T any, P PackageRepr[P], E any] struct {
	DeclHeader[P]
	Fields []Field[T]
	Decls  []Decl[T, P, E]
}

// TupleBody is a positional record declaration.
type TupleBody[T any, P PackageRepr[P], E any] struct {
	DeclHeader[P]
	Fields []Field[T]
	Decls  []Decl[T, P, E]
}

// InterfaceBody is a tagged union declaration.
type InterfaceBody[T any, P PackageRepr[P], E any] struct {
	DeclHeader[P]
	Fields   []Field[T]
	SubTypes []SubType[T, P]
	Decls    []Decl[T, P, E]
}

// EnumBody is a closed set of variants over one value domain.
type EnumBody[T any, P PackageRepr[P], E any] struct {
	DeclHeader[P]
	EnumType E
	Variants []Variant[P]
}

// ServiceBody is a set of endpoints.
type ServiceBody[T any, P PackageRepr[P], E any] struct {
	DeclHeader[P]
	Endpoints []Endpoint[T]
}

// Decl is one declaration of any kind. Exactly the body matching Kind is
// non-nil.
type Decl[T any, P PackageRepr[P], E any] struct {
	Kind      DeclKind
	Type      *TypeBody[T, P, E]
	Tuple     *TupleBody[T, P, E]
	Interface *InterfaceBody[T, P, E]
	Enum      *EnumBody[T, P, E]
	Service   *ServiceBody[T, P, E]
}

func NewTypeDecl[T any, P PackageRepr[P], E any](body *TypeBody[T, P, E]) Decl[T, P, E] {
	return Decl[T, P, E]{Kind: DeclType, Type: body}
}

func NewTupleDecl[T any, P PackageRepr[P], E any](body *TupleBody[T, P, E]) Decl[T, P, E] {
	return Decl[T, P, E]{Kind: DeclTuple, Tuple: body}
}

func NewInterfaceDecl[T any, P PackageRepr[P], E any](body *InterfaceBody[T, P, E]) Decl[T, P, E] {
	return Decl[T, P, E]{Kind: DeclInterface, Interface: body}
}

func NewEnumDecl[T any, P PackageRepr[P], E any](body *EnumBody[T, P, E]) Decl[T, P, E] {
	return Decl[T, P, E]{Kind: DeclEnum, Enum: body}
}

func NewServiceDecl[T any, P PackageRepr[P], E any](body *ServiceBody[T, P, E]) Decl[T, P, E] {
	return Decl[T, P, E]{Kind: DeclService, Service: body}
}

func (d Decl[T, P, E]) header() *DeclHeader[P] {
	switch d.Kind {
	case DeclType:
		return &d.Type.DeclHeader
	case DeclTuple:
		return &d.Tuple.DeclHeader
	case DeclInterface:
		return &d.Interface.DeclHeader
	case DeclEnum:
		return &d.Enum.DeclHeader
	case DeclService:
		return &d.Service.DeclHeader
	}
	panic("model: declaration without a body")
}

// Name returns the absolute name of the declaration.
func (d Decl[T, P, E]) Name() Name[P] {
	return d.header().Name
}

// Ident returns the declared spelling.
func (d Decl[T, P, E]) Ident() string {
	return d.header().Ident
}

// Comment returns the leading comment lines.
func (d Decl[T, P, E]) Comment() []string {
	return d.header().Comment
}

// Span returns the declaration position.
func (d Decl[T, P, E]) Span() source.Span {
	return d.header().Span
}

// Decls returns the directly nested declarations.
func (d Decl[T, P, E]) Decls() []Decl[T, P, E] {
	switch d.Kind {
	case DeclType:
		return d.Type.Decls
	case DeclTuple:
		return d.Tuple.Decls
	case DeclInterface:
		return d.Interface.Decls
	}
	return nil
}

// DeclByIdent finds a directly nested declaration by its spelling.
func (d Decl[T, P, E]) DeclByIdent(ident string) (Decl[T, P, E], bool) {
	for _, nested := range d.Decls() {
		if nested.Ident() == ident {
			return nested, true
		}
	}
	return Decl[T, P, E]{}, false
}

// ToReg flattens the declaration into registration entries: the
// declaration itself first, then interface sub types or enum variants,
// then nested declarations in order, each recursively.
func (d Decl[T, P, E]) ToReg() []Reg[T, P, E] {
	var out []Reg[T, P, E]
	return d.appendReg(out)
}

func (d Decl[T, P, E]) appendReg(out []Reg[T, P, E]) []Reg[T, P, E] {
	switch d.Kind {
	case DeclType:
		out = append(out, Reg[T, P, E]{Kind: RegType, Decl: d})
	case DeclTuple:
		out = append(out, Reg[T, P, E]{Kind: RegTuple, Decl: d})
	case DeclInterface:
		out = append(out, Reg[T, P, E]{Kind: RegInterface, Decl: d})
		for i := range d.Interface.SubTypes {
			out = append(out, Reg[T, P, E]{Kind: RegSubType, Decl: d, Sub: &d.Interface.SubTypes[i]})
		}
	case DeclEnum:
		out = append(out, Reg[T, P, E]{Kind: RegEnum, Decl: d})
		for i := range d.Enum.Variants {
			out = append(out, Reg[T, P, E]{Kind: RegEnumVariant, Decl: d, Variant: &d.Enum.Variants[i]})
		}
	case DeclService:
		out = append(out, Reg[T, P, E]{Kind: RegService, Decl: d})
	}
	for _, nested := range d.Decls() {
		out = nested.appendReg(out)
	}
	return out
}

// RegKind discriminates registration entries.
type RegKind uint8

const (
	RegType RegKind = iota
	RegTuple
	RegInterface
	RegSubType
	RegEnum
	RegEnumVariant
	RegService
)

var regKindNames = [...]string{
	RegType:        "type",
	RegTuple:       "tuple",
	RegInterface:   "interface",
	RegSubType:     "subtype",
	RegEnum:        "enum",
	RegEnumVariant: "variant",
	RegService:     "service",
}

func (k RegKind) String() string {
	if int(k) < len(regKindNames) {
		return regKindNames[k]
	}
	return fmt.Sprintf("RegKind(%d)", uint8(k))
}

// Reg is one registrable item: a declaration, or an addressable piece of
// one. Sub is set for RegSubType, Variant for RegEnumVariant, and Decl
// always points at the owning declaration.
type Reg[T any, P PackageRepr[P], E any] struct {
	Kind    RegKind
	Decl    Decl[T, P, E]
	Sub     *SubType[T, P]
	Variant *Variant[P]
}

// Name returns the absolute name of the registered item.
func (r Reg[T, P, E]) Name() Name[P] {
	switch r.Kind {
	case RegSubType:
		return r.Sub.Name
	case RegEnumVariant:
		return r.Variant.Name
	}
	return r.Decl.Name()
}

// Ident returns the declared spelling of the registered item.
func (r Reg[T, P, E]) Ident() string {
	switch r.Kind {
	case RegSubType:
		return r.Sub.Ident
	case RegEnumVariant:
		return r.Variant.Ident
	}
	return r.Decl.Ident()
}

// Span returns the position of the registered item.
func (r Reg[T, P, E]) Span() source.Span {
	switch r.Kind {
	case RegSubType:
		return r.Sub.Span
	case RegEnumVariant:
		return r.Variant.Span
	}
	return r.Decl.Span()
}

// Named is a listable view of one named item: a declaration body, or an
// interface sub type or enum variant inside one. Exactly the field
// matching Kind is non-nil.
type Named[T any, P PackageRepr[P], E any] struct {
	Kind      RegKind
	Type      *TypeBody[T, P, E]
	Tuple     *TupleBody[T, P, E]
	Interface *InterfaceBody[T, P, E]
	Sub       *SubType[T, P]
	Enum      *EnumBody[T, P, E]
	Variant   *Variant[P]
	Service   *ServiceBody[T, P, E]
}

// Name returns the name of the item.
func (n Named[T, P, E]) Name() Name[P] {
	switch n.Kind {
	case RegType:
		return n.Type.Name
	case RegTuple:
		return n.Tuple.Name
	case RegInterface:
		return n.Interface.Name
	case RegSubType:
		return n.Sub.Name
	case RegEnumVariant:
		return n.Variant.Name
	case RegService:
		return n.Service.Name
	}
	return n.Enum.Name
}

// Span returns the position of the item.
func (n Named[T, P, E]) Span() source.Span {
	switch n.Kind {
	case RegType:
		return n.Type.Span
	case RegTuple:
		return n.Tuple.Span
	case RegInterface:
		return n.Interface.Span
	case RegSubType:
		return n.Sub.Span
	case RegEnumVariant:
		return n.Variant.Span
	case RegService:
		return n.Service.Span
	}
	return n.Enum.Span
}

// ToNamed flattens the declaration into listable items with direct body
// access, in the same order as ToReg.
func (d Decl[T, P, E]) ToNamed() []Named[T, P, E] {
	var out []Named[T, P, E]
	return d.appendNamed(out)
}

func (d Decl[T, P, E]) appendNamed(out []Named[T, P, E]) []Named[T, P, E] {
	switch d.Kind {
	case DeclType:
		out = append(out, Named[T, P, E]{Kind: RegType, Type: d.Type})
	case DeclTuple:
		out = append(out, Named[T, P, E]{Kind: RegTuple, Tuple: d.Tuple})
	case DeclInterface:
		out = append(out, Named[T, P, E]{Kind: RegInterface, Interface: d.Interface})
		for i := range d.Interface.SubTypes {
			out = append(out, Named[T, P, E]{Kind: RegSubType, Sub: &d.Interface.SubTypes[i]})
		}
	case DeclEnum:
		out = append(out, Named[T, P, E]{Kind: RegEnum, Enum: d.Enum})
		for i := range d.Enum.Variants {
			out = append(out, Named[T, P, E]{Kind: RegEnumVariant, Variant: &d.Enum.Variants[i]})
		}
	case DeclService:
		out = append(out, Named[T, P, E]{Kind: RegService, Service: d.Service})
	}
	for _, nested := range d.Decls() {
		out = nested.appendNamed(out)
	}
	return out
}
