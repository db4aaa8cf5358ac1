// Package irdump projects a translated session into a flat, serializable
// document. Emitters and the build cache consume the document instead of
// the live session.
package irdump

import (
	"ridl/internal/model"
	"ridl/internal/source"
	"ridl/internal/trans"
)

// SchemaVersion identifies the document layout. Readers treat any other
// value as unreadable, so stale cache entries fall out on upgrade.
const SchemaVersion = 1

// Document is one captured translation. Files carry the full declaration
// trees; Reachable lists the name keys the output actually references, in
// first-reference order.
type Document struct {
	Schema    int      `json:"schema" msgpack:"schema"`
	Flavor    string   `json:"flavor" msgpack:"flavor"`
	Prefix    string   `json:"prefix,omitempty" msgpack:"prefix"`
	Files     []File   `json:"files" msgpack:"files"`
	Reachable []string `json:"reachable,omitempty" msgpack:"reachable"`
}

// File is one output package worth of declarations.
type File struct {
	Package string   `json:"package" msgpack:"package"`
	Comment []string `json:"comment,omitempty" msgpack:"comment"`
	Decls   []Decl   `json:"decls" msgpack:"decls"`
}

// Span points back into the loaded sources as a file and byte range.
type Span struct {
	File  uint32 `json:"file" msgpack:"file"`
	Start uint32 `json:"start" msgpack:"start"`
	End   uint32 `json:"end" msgpack:"end"`
}

// Decl is one declaration. Exactly the slices implied by Kind are set:
// fields for types and tuples, fields plus sub types for interfaces,
// the value domain plus variants for enums, endpoints for services.
type Decl struct {
	Kind      string     `json:"kind" msgpack:"kind"`
	Name      string     `json:"name" msgpack:"name"`
	Ident     string     `json:"ident" msgpack:"ident"`
	Comment   []string   `json:"comment,omitempty" msgpack:"comment"`
	Span      Span       `json:"span" msgpack:"span"`
	Fields    []Field    `json:"fields,omitempty" msgpack:"fields"`
	SubTypes  []SubType  `json:"sub_types,omitempty" msgpack:"sub_types"`
	EnumType  string     `json:"enum_type,omitempty" msgpack:"enum_type"`
	Variants  []Variant  `json:"variants,omitempty" msgpack:"variants"`
	Endpoints []Endpoint `json:"endpoints,omitempty" msgpack:"endpoints"`
	Decls     []Decl     `json:"decls,omitempty" msgpack:"decls"`
}

// Field is a named member. Name is the wire name after naming policies
// and overrides were applied.
type Field struct {
	Ident    string   `json:"ident" msgpack:"ident"`
	Name     string   `json:"name" msgpack:"name"`
	Optional bool     `json:"optional,omitempty" msgpack:"optional"`
	Type     Type     `json:"type" msgpack:"type"`
	Comment  []string `json:"comment,omitempty" msgpack:"comment"`
	Span     Span     `json:"span" msgpack:"span"`
}

// Type is a use of a type. Kind carries the scalar spelling ("string",
// "u32", ...) or one of "name", "array", "map".
type Type struct {
	Kind   string `json:"kind" msgpack:"kind"`
	Name   string `json:"name,omitempty" msgpack:"name"`
	Items  *Type  `json:"items,omitempty" msgpack:"items"`
	Keys   *Type  `json:"keys,omitempty" msgpack:"keys"`
	Values *Type  `json:"values,omitempty" msgpack:"values"`
}

// SubType is one concrete case of an interface. Tag is the resolved wire
// tag.
type SubType struct {
	Name    string   `json:"name" msgpack:"name"`
	Ident   string   `json:"ident" msgpack:"ident"`
	Tag     string   `json:"tag" msgpack:"tag"`
	Comment []string `json:"comment,omitempty" msgpack:"comment"`
	Span    Span     `json:"span" msgpack:"span"`
	Fields  []Field  `json:"fields,omitempty" msgpack:"fields"`
}

// Variant is one enum member. Value is the explicit ordinal when one was
// written; readers fall back to the ident otherwise.
type Variant struct {
	Name    string   `json:"name" msgpack:"name"`
	Ident   string   `json:"ident" msgpack:"ident"`
	Value   *Value   `json:"value,omitempty" msgpack:"value"`
	Comment []string `json:"comment,omitempty" msgpack:"comment"`
	Span    Span     `json:"span" msgpack:"span"`
}

// Value is a literal.
type Value struct {
	Kind   string  `json:"kind" msgpack:"kind"`
	String string  `json:"string,omitempty" msgpack:"string"`
	Number float64 `json:"number,omitempty" msgpack:"number"`
	List   []Value `json:"list,omitempty" msgpack:"list"`
}

// Endpoint is one service operation. Name is the resolved wire name.
type Endpoint struct {
	Ident     string     `json:"ident" msgpack:"ident"`
	Name      string     `json:"name" msgpack:"name"`
	Comment   []string   `json:"comment,omitempty" msgpack:"comment"`
	Span      Span       `json:"span" msgpack:"span"`
	Arguments []Argument `json:"arguments,omitempty" msgpack:"arguments"`
	Returns   *Channel   `json:"returns,omitempty" msgpack:"returns"`
}

// Argument is one named endpoint input.
type Argument struct {
	Ident     string `json:"ident" msgpack:"ident"`
	Type      Type   `json:"type" msgpack:"type"`
	Streaming bool   `json:"streaming,omitempty" msgpack:"streaming"`
}

// Channel is an endpoint response.
type Channel struct {
	Type      Type `json:"type" msgpack:"type"`
	Streaming bool `json:"streaming,omitempty" msgpack:"streaming"`
}

// Capture projects a translated session. The flavor names the package
// representation the session was translated under.
func Capture[P2 model.PackageRepr[P2]](t *trans.Translated[P2], flavor string) *Document {
	doc := &Document{
		Schema: SchemaVersion,
		Flavor: flavor,
		Prefix: t.Prefix().Key(),
	}
	for _, tf := range t.Files() {
		doc.Files = append(doc.Files, File{
			Package: tf.Package.Key(),
			Comment: tf.File.Comment,
			Decls:   captureDecls(tf.File.Decls),
		})
	}
	for _, entry := range t.Decls() {
		doc.Reachable = append(doc.Reachable, entry.Name.Key())
	}
	return doc
}

func captureDecls[P2 model.PackageRepr[P2]](decls []model.Decl[*model.Type[P2], P2, model.EnumType]) []Decl {
	if len(decls) == 0 {
		return nil
	}
	out := make([]Decl, 0, len(decls))
	for _, d := range decls {
		out = append(out, captureDecl(d))
	}
	return out
}

func captureDecl[P2 model.PackageRepr[P2]](d model.Decl[*model.Type[P2], P2, model.EnumType]) Decl {
	out := Decl{
		Kind:    d.Kind.String(),
		Name:    d.Name().Key(),
		Ident:   d.Ident(),
		Comment: d.Comment(),
		Span:    captureSpan(d.Span()),
	}
	switch d.Kind {
	case model.DeclType:
		out.Fields = captureFields(d.Type.Fields)
	case model.DeclTuple:
		out.Fields = captureFields(d.Tuple.Fields)
	case model.DeclInterface:
		out.Fields = captureFields(d.Interface.Fields)
		for i := range d.Interface.SubTypes {
			out.SubTypes = append(out.SubTypes, captureSubType(&d.Interface.SubTypes[i]))
		}
	case model.DeclEnum:
		out.EnumType = d.Enum.EnumType.String()
		for i := range d.Enum.Variants {
			out.Variants = append(out.Variants, captureVariant(&d.Enum.Variants[i]))
		}
	case model.DeclService:
		for i := range d.Service.Endpoints {
			out.Endpoints = append(out.Endpoints, captureEndpoint(&d.Service.Endpoints[i]))
		}
	}
	out.Decls = captureDecls(d.Decls())
	return out
}

func captureFields[P2 model.PackageRepr[P2]](fields []model.Field[*model.Type[P2]]) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, 0, len(fields))
	for i := range fields {
		f := &fields[i]
		out = append(out, Field{
			Ident:    f.Ident,
			Name:     f.Name(),
			Optional: f.Optional,
			Type:     captureType(f.Ty),
			Comment:  f.Comment,
			Span:     captureSpan(f.Span),
		})
	}
	return out
}

func captureSubType[P2 model.PackageRepr[P2]](s *model.SubType[*model.Type[P2], P2]) SubType {
	return SubType{
		Name:    s.Name.Key(),
		Ident:   s.Ident,
		Tag:     s.Tag(),
		Comment: s.Comment,
		Span:    captureSpan(s.Span),
		Fields:  captureFields(s.Fields),
	}
}

func captureVariant[P2 model.PackageRepr[P2]](v *model.Variant[P2]) Variant {
	out := Variant{
		Name:    v.Name.Key(),
		Ident:   v.Ident,
		Comment: v.Comment,
		Span:    captureSpan(v.Span),
	}
	if v.Value != nil {
		val := captureValue(*v.Value)
		out.Value = &val
	}
	return out
}

func captureValue(v model.Value) Value {
	out := Value{Kind: v.Kind.String()}
	switch v.Kind {
	case model.ValueNumber:
		out.Number = v.Num
	case model.ValueArray:
		for _, item := range v.List {
			out.List = append(out.List, captureValue(item))
		}
	default:
		out.String = v.Str
	}
	return out
}

func captureEndpoint[P2 model.PackageRepr[P2]](ep *model.Endpoint[*model.Type[P2]]) Endpoint {
	out := Endpoint{
		Ident:   ep.Ident,
		Name:    ep.Name,
		Comment: ep.Comment,
		Span:    captureSpan(ep.Span),
	}
	for i := range ep.Arguments {
		arg := &ep.Arguments[i]
		out.Arguments = append(out.Arguments, Argument{
			Ident:     arg.Ident,
			Type:      captureType(arg.Channel.Ty),
			Streaming: arg.Channel.Streaming,
		})
	}
	if ep.Response != nil {
		out.Returns = &Channel{
			Type:      captureType(ep.Response.Ty),
			Streaming: ep.Response.Streaming,
		}
	}
	return out
}

func captureType[P2 model.PackageRepr[P2]](t *model.Type[P2]) Type {
	if t == nil {
		return Type{Kind: model.TypeInvalid.String()}
	}
	switch t.Kind {
	case model.TypeNumber:
		return Type{Kind: t.Number.String()}
	case model.TypeName:
		return Type{Kind: "name", Name: t.Ref.Key()}
	case model.TypeArray:
		items := captureType(t.Inner)
		return Type{Kind: "array", Items: &items}
	case model.TypeMap:
		keys := captureType(t.Key)
		values := captureType(t.Value)
		return Type{Kind: "map", Keys: &keys, Values: &values}
	}
	return Type{Kind: t.Kind.String()}
}

func captureSpan(s source.Span) Span {
	return Span{File: uint32(s.File), Start: s.Start, End: s.End}
}
