package model

import (
	"testing"

	"ridl/internal/source"
)

type coreType = *Type[VersionedPackage]
type coreDecl = Decl[coreType, VersionedPackage, EnumType]

func testHeader(pkg VersionedPackage, ident string, parts ...string) DeclHeader[VersionedPackage] {
	return DeclHeader[VersionedPackage]{
		Name:  NewName(pkg, parts...),
		Ident: ident,
	}
}

func testInterfaceDecl(pkg VersionedPackage) coreDecl {
	return NewInterfaceDecl(&InterfaceBody[coreType, VersionedPackage, EnumType]{
		DeclHeader: testHeader(pkg, "Shape", "Shape"),
		SubTypes: []SubType[coreType, VersionedPackage]{
			{DeclHeader: testHeader(pkg, "Circle", "Shape", "Circle")},
			{DeclHeader: testHeader(pkg, "Square", "Shape", "Square"), WireName: "sq"},
		},
		Decls: []coreDecl{
			NewEnumDecl(&EnumBody[coreType, VersionedPackage, EnumType]{
				DeclHeader: testHeader(pkg, "Color", "Shape", "Color"),
				EnumType:   StringEnumType(),
				Variants: []Variant[VersionedPackage]{
					{Name: NewName(pkg, "Shape", "Color", "Red"), Ident: "Red"},
					{Name: NewName(pkg, "Shape", "Color", "Green"), Ident: "Green"},
				},
			}),
		},
	})
}

func TestToRegOrder(t *testing.T) {
	pkg := testPackage("io.test", "")
	regs := testInterfaceDecl(pkg).ToReg()

	want := []struct {
		kind  RegKind
		ident string
	}{
		{RegInterface, "Shape"},
		{RegSubType, "Circle"},
		{RegSubType, "Square"},
		{RegEnum, "Color"},
		{RegEnumVariant, "Red"},
		{RegEnumVariant, "Green"},
	}
	if len(regs) != len(want) {
		t.Fatalf("Expected %d regs, got %d", len(want), len(regs))
	}
	for i, w := range want {
		if regs[i].Kind != w.kind {
			t.Errorf("reg %d: expected kind %v, got %v", i, w.kind, regs[i].Kind)
		}
		if got := regs[i].Ident(); got != w.ident {
			t.Errorf("reg %d: expected ident %q, got %q", i, w.ident, got)
		}
	}
}

func TestToRegNestedType(t *testing.T) {
	pkg := testPackage("io.test", "")
	decl := NewTypeDecl(&TypeBody[coreType, VersionedPackage, EnumType]{
		DeclHeader: testHeader(pkg, "Outer", "Outer"),
		Decls: []coreDecl{
			NewTypeDecl(&TypeBody[coreType, VersionedPackage, EnumType]{
				DeclHeader: testHeader(pkg, "Inner", "Outer", "Inner"),
			}),
		},
	})

	regs := decl.ToReg()
	if len(regs) != 2 {
		t.Fatalf("Expected 2 regs, got %d", len(regs))
	}
	if got := regs[1].Name().Key(); got != "io.test::Outer.Inner" {
		t.Errorf("Expected nested key io.test::Outer.Inner, got %q", got)
	}
}

func TestToNamedParallelsToReg(t *testing.T) {
	pkg := testPackage("io.test", "")
	decl := testInterfaceDecl(pkg)

	regs := decl.ToReg()
	named := decl.ToNamed()
	if len(named) != len(regs) {
		t.Fatalf("Expected %d named items, got %d", len(regs), len(named))
	}
	for i := range regs {
		if named[i].Kind != regs[i].Kind {
			t.Errorf("item %d: expected kind %v, got %v", i, regs[i].Kind, named[i].Kind)
		}
		if got, want := named[i].Name().Key(), regs[i].Name().Key(); got != want {
			t.Errorf("item %d: expected name %q, got %q", i, want, got)
		}
	}

	if named[0].Interface != decl.Interface {
		t.Error("Expected the interface body on the first item")
	}
	if named[2].Sub == nil || named[2].Sub.WireName != "sq" {
		t.Error("Expected the Square sub type body with its wire name")
	}
	if named[3].Enum == nil || named[3].Enum.EnumType.Kind != EnumString {
		t.Error("Expected the Color enum body")
	}
}

func TestDeclByIdent(t *testing.T) {
	pkg := testPackage("io.test", "")
	decl := testInterfaceDecl(pkg)

	nested, ok := decl.DeclByIdent("Color")
	if !ok {
		t.Fatal("Expected to find nested declaration Color")
	}
	if nested.Kind != DeclEnum {
		t.Errorf("Expected enum, got %v", nested.Kind)
	}
	if _, ok := decl.DeclByIdent("Missing"); ok {
		t.Error("Expected lookup miss for unknown ident")
	}
}

func TestFieldName(t *testing.T) {
	plain := Field[coreType]{Ident: "engine_size"}
	if got := plain.Name(); got != "engine_size" {
		t.Errorf("Expected ident fallback, got %q", got)
	}
	renamed := Field[coreType]{Ident: "engine_size", WireName: "engineSize"}
	if got := renamed.Name(); got != "engineSize" {
		t.Errorf("Expected wire name, got %q", got)
	}
}

func TestSubTypeTag(t *testing.T) {
	pkg := testPackage("io.test", "")
	decl := testInterfaceDecl(pkg)

	if got := decl.Interface.SubTypes[0].Tag(); got != "Circle" {
		t.Errorf("Expected Circle, got %q", got)
	}
	if got := decl.Interface.SubTypes[1].Tag(); got != "sq" {
		t.Errorf("Expected sq, got %q", got)
	}
}

func TestVariantWireValue(t *testing.T) {
	pkg := testPackage("io.test", "")
	span := source.Span{File: 1, Start: 2, End: 5}

	implicit := Variant[VersionedPackage]{Name: NewName(pkg, "E", "A"), Ident: "A", Span: span}
	got := implicit.WireValue()
	if got.Kind != ValueString || got.Str != "A" {
		t.Errorf("Expected implicit string value A, got %v", got)
	}

	ordinal := NumberValue(3, span)
	explicit := Variant[VersionedPackage]{Name: NewName(pkg, "E", "B"), Ident: "B", Value: &ordinal}
	got = explicit.WireValue()
	if got.Kind != ValueNumber || got.Num != 3 {
		t.Errorf("Expected explicit number value 3, got %v", got)
	}
}

func TestDeclHeaderAccessors(t *testing.T) {
	pkg := testPackage("io.test", "1.0.0")
	span := source.Span{File: 2, Start: 10, End: 20}
	decl := NewTypeDecl(&TypeBody[coreType, VersionedPackage, EnumType]{
		DeclHeader: DeclHeader[VersionedPackage]{
			Name:    NewName(pkg, "Message"),
			Ident:   "Message",
			Comment: []string{"first", "second"},
			Span:    span,
		},
	})

	if got := decl.Ident(); got != "Message" {
		t.Errorf("Expected Message, got %q", got)
	}
	if got := decl.Span(); got != span {
		t.Errorf("Expected %v, got %v", span, got)
	}
	if got := len(decl.Comment()); got != 2 {
		t.Errorf("Expected 2 comment lines, got %d", got)
	}
	if got := decl.Name().Key(); got != "io.test@1.0.0::Message" {
		t.Errorf("Expected io.test@1.0.0::Message, got %q", got)
	}
}
