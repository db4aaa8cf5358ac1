package model

import (
	"fmt"
	"testing"

	"github.com/Masterminds/semver/v3"
)

type flatType = *Type[Package]

// flattenTranslator rewrites versioned packages into flat paths with a
// major version segment and records every visited reference.
type flattenTranslator struct {
	visited []string
}

func (tr *flattenTranslator) TranslatePackage(pkg VersionedPackage) (Package, error) {
	return pkg.AsPackage(func(v *semver.Version) string {
		return fmt.Sprintf("v%d", v.Major())
	}), nil
}

func (tr *flattenTranslator) TranslateLocalName(n Name[VersionedPackage]) (Name[Package], error) {
	pkg, err := tr.TranslatePackage(n.Package)
	if err != nil {
		return Name[Package]{}, err
	}
	return Name[Package]{Prefix: n.Prefix, Package: pkg, Parts: n.Parts}, nil
}

func (tr *flattenTranslator) TranslateType(ty coreType) (flatType, error) {
	switch ty.Kind {
	case TypeName:
		if err := tr.Visit(*ty.Ref); err != nil {
			return nil, err
		}
		name, err := tr.TranslateLocalName(*ty.Ref)
		if err != nil {
			return nil, err
		}
		return NameType(name, ty.Span), nil
	case TypeArray:
		inner, err := tr.TranslateType(ty.Inner)
		if err != nil {
			return nil, err
		}
		return ArrayType(inner, ty.Span), nil
	case TypeMap:
		key, err := tr.TranslateType(ty.Key)
		if err != nil {
			return nil, err
		}
		value, err := tr.TranslateType(ty.Value)
		if err != nil {
			return nil, err
		}
		return MapType(key, value, ty.Span), nil
	default:
		return &Type[Package]{Kind: ty.Kind, Number: ty.Number, Span: ty.Span}, nil
	}
}

func (tr *flattenTranslator) TranslateField(f Field[coreType]) (Field[flatType], error) {
	ty, err := tr.TranslateType(f.Ty)
	if err != nil {
		return Field[flatType]{}, err
	}
	return Field[flatType]{
		Ident:    f.Ident,
		WireName: f.WireName,
		Optional: f.Optional,
		Ty:       ty,
		Comment:  f.Comment,
		Span:     f.Span,
	}, nil
}

func (tr *flattenTranslator) TranslateEndpoint(ep Endpoint[coreType]) (Endpoint[flatType], error) {
	out := Endpoint[flatType]{
		Ident:   ep.Ident,
		Name:    ep.Name,
		Comment: ep.Comment,
		Span:    ep.Span,
	}
	for _, arg := range ep.Arguments {
		ty, err := tr.TranslateType(arg.Channel.Ty)
		if err != nil {
			return Endpoint[flatType]{}, err
		}
		out.Arguments = append(out.Arguments, Argument[flatType]{
			Ident:   arg.Ident,
			Channel: Channel[flatType]{Ty: ty, Streaming: arg.Channel.Streaming},
			Span:    arg.Span,
		})
	}
	if ep.Response != nil {
		ty, err := tr.TranslateType(ep.Response.Ty)
		if err != nil {
			return Endpoint[flatType]{}, err
		}
		out.Response = &Channel[flatType]{Ty: ty, Streaming: ep.Response.Streaming}
	}
	return out, nil
}

func (tr *flattenTranslator) TranslateEnumType(e EnumType) (EnumType, error) {
	return e, nil
}

func (tr *flattenTranslator) Visit(n Name[VersionedPackage]) error {
	tr.visited = append(tr.visited, n.Key())
	return nil
}

func TestLiftDecl(t *testing.T) {
	pkg := testPackage("io.test", "1.2.3")
	ref := NewName(pkg, "Color")
	decl := NewTypeDecl(&TypeBody[coreType, VersionedPackage, EnumType]{
		DeclHeader: testHeader(pkg, "Message", "Message"),
		Fields: []Field[coreType]{
			{Ident: "name", Ty: StringType[VersionedPackage](attrSpan(1))},
			{Ident: "colors", Ty: ArrayType(NameType(ref, attrSpan(2)), attrSpan(2))},
		},
	})

	tr := &flattenTranslator{}
	lift := NewLift[coreType, VersionedPackage, EnumType, flatType, Package, EnumType](tr)

	out, err := lift.Decl(decl)
	if err != nil {
		t.Fatalf("Decl: %v", err)
	}
	if got := out.Name().Key(); got != "io.test.v1::Message" {
		t.Errorf("Expected io.test.v1::Message, got %q", got)
	}
	if got := len(out.Type.Fields); got != 2 {
		t.Fatalf("Expected 2 fields, got %d", got)
	}
	colors := out.Type.Fields[1].Ty
	if colors.Kind != TypeArray || colors.Inner.Kind != TypeName {
		t.Fatalf("Expected array of names, got %v", colors)
	}
	if got := colors.Inner.Ref.Package.Key(); got != "io.test.v1" {
		t.Errorf("Expected flattened package io.test.v1, got %q", got)
	}
	if len(tr.visited) != 1 || tr.visited[0] != "io.test@1.2.3::Color" {
		t.Errorf("Expected one visit of the Color reference, got %v", tr.visited)
	}
}

func TestLiftInterface(t *testing.T) {
	pkg := testPackage("io.test", "")
	tr := &flattenTranslator{}
	lift := NewLift[coreType, VersionedPackage, EnumType, flatType, Package, EnumType](tr)

	out, err := lift.Decl(testInterfaceDecl(pkg))
	if err != nil {
		t.Fatalf("Decl: %v", err)
	}
	if got := len(out.Interface.SubTypes); got != 2 {
		t.Fatalf("Expected 2 sub types, got %d", got)
	}
	if got := out.Interface.SubTypes[1].Tag(); got != "sq" {
		t.Errorf("Expected wire name preserved, got %q", got)
	}
	nested, ok := out.DeclByIdent("Color")
	if !ok {
		t.Fatal("Expected nested enum to survive translation")
	}
	if got := len(nested.Enum.Variants); got != 2 {
		t.Errorf("Expected 2 variants, got %d", got)
	}
	if got := nested.Enum.Variants[0].Name.Key(); got != "io.test::Shape.Color.Red" {
		t.Errorf("Expected io.test::Shape.Color.Red, got %q", got)
	}
}

func TestLiftRegAnchorsSubItems(t *testing.T) {
	pkg := testPackage("io.test", "")
	regs := testInterfaceDecl(pkg).ToReg()
	tr := &flattenTranslator{}
	lift := NewLift[coreType, VersionedPackage, EnumType, flatType, Package, EnumType](tr)

	sub, err := lift.Reg(regs[2])
	if err != nil {
		t.Fatalf("Reg: %v", err)
	}
	if sub.Kind != RegSubType {
		t.Fatalf("Expected subtype reg, got %v", sub.Kind)
	}
	if sub.Sub != &sub.Decl.Interface.SubTypes[1] {
		t.Error("Expected sub pointer anchored into the translated declaration")
	}

	variant, err := lift.Reg(regs[5])
	if err != nil {
		t.Fatalf("Reg: %v", err)
	}
	if variant.Kind != RegEnumVariant {
		t.Fatalf("Expected variant reg, got %v", variant.Kind)
	}
	if variant.Variant != &variant.Decl.Enum.Variants[1] {
		t.Error("Expected variant pointer anchored into the translated declaration")
	}
}

func TestLiftService(t *testing.T) {
	pkg := testPackage("io.test", "")
	reply := NewName(pkg, "Reply")
	decl := NewServiceDecl(&ServiceBody[coreType, VersionedPackage, EnumType]{
		DeclHeader: testHeader(pkg, "Api", "Api"),
		Endpoints: []Endpoint[coreType]{
			{
				Ident: "get",
				Name:  "get",
				Arguments: []Argument[coreType]{
					{Ident: "id", Channel: Channel[coreType]{Ty: NumberType[VersionedPackage](NumberU64, attrSpan(1))}},
				},
				Response: &Channel[coreType]{Ty: NameType(reply, attrSpan(2)), Streaming: true},
			},
		},
	})

	tr := &flattenTranslator{}
	lift := NewLift[coreType, VersionedPackage, EnumType, flatType, Package, EnumType](tr)
	out, err := lift.Decl(decl)
	if err != nil {
		t.Fatalf("Decl: %v", err)
	}
	ep := out.Service.Endpoints[0]
	if got := len(ep.Arguments); got != 1 {
		t.Fatalf("Expected 1 argument, got %d", got)
	}
	if ep.Response == nil || !ep.Response.Streaming {
		t.Fatal("Expected streaming response to survive")
	}
	if got := ep.Response.Ty.Ref.Parts[0]; got != "Reply" {
		t.Errorf("Expected Reply reference, got %q", got)
	}
	if len(tr.visited) != 1 {
		t.Errorf("Expected one visited reference, got %v", tr.visited)
	}
}
