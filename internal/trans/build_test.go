package trans

import (
	"testing"

	"github.com/Masterminds/semver/v3"

	"ridl/internal/ast"
	"ridl/internal/diag"
	"ridl/internal/model"
	"ridl/internal/naming"
	"ridl/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func carsScope() *Scope {
	pkg := model.NewVersionedPackage(model.ParsePackage("io.cars"), semver.MustParse("1.0.0"))
	return NewScope(pkg, nil, nil, nil, nil)
}

func buildFile(t *testing.T, scope *Scope, f *ast.File) (CoreFile, *diag.Context) {
	t.Helper()
	ctx := diag.NewContext(0)
	rep := ctx.Reporter()
	modeled := newBuilder(scope, rep, 0).File(f)
	rep.Flush()
	return modeled, ctx
}

func hasCode(ctx *diag.Context, code diag.Code) bool {
	for _, d := range ctx.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestBuildNames(t *testing.T) {
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclType, Type: &ast.TypeDecl{
			Span: sp(0, 40),
			Name: "Car",
			Fields: []ast.FieldDecl{
				{Name: "wheels", Ty: ast.TypeRef{Kind: ast.RefU32}},
			},
			Decls: []ast.Decl{{Kind: ast.DeclEnum, Enum: &ast.EnumDecl{
				Name:     "Color",
				Ty:       ast.TypeRef{Kind: ast.RefString},
				Variants: []ast.VariantDecl{{Name: "Red"}},
			}}},
		}}},
	}
	modeled, ctx := buildFile(t, carsScope(), file)
	if ctx.Len() != 0 {
		t.Fatalf("Expected no diagnostics, got %v", ctx.Items())
	}
	if len(modeled.Decls) != 1 {
		t.Fatalf("Expected 1 declaration, got %d", len(modeled.Decls))
	}
	car := modeled.Decls[0]
	if got := car.Name().Key(); got != "io.cars@1.0.0::Car" {
		t.Errorf("Expected io.cars@1.0.0::Car, got %q", got)
	}
	if got := car.Type.Fields[0].WireName; got != "" {
		t.Errorf("Expected no wire name without a policy, got %q", got)
	}
	nested := car.Decls()
	if len(nested) != 1 {
		t.Fatalf("Expected 1 nested declaration, got %d", len(nested))
	}
	if got := nested[0].Name().Key(); got != "io.cars@1.0.0::Car.Color" {
		t.Errorf("Expected io.cars@1.0.0::Car.Color, got %q", got)
	}
	variant := nested[0].Enum.Variants[0]
	if got := variant.Name.Key(); got != "io.cars@1.0.0::Car.Color.Red" {
		t.Errorf("Expected the variant under the enum, got %q", got)
	}
}

func TestBuildKeywordRewrite(t *testing.T) {
	pkg := model.NewVersionedPackage(model.ParsePackage("io.cars"), nil)
	scope := NewScope(pkg, nil, map[string]string{"type": "type_"}, nil, nil)
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclType, Type: &ast.TypeDecl{Name: "type"}}},
	}
	modeled, ctx := buildFile(t, scope, file)
	if ctx.Len() != 0 {
		t.Fatalf("Expected no diagnostics, got %v", ctx.Items())
	}
	decl := modeled.Decls[0]
	if got := decl.Name().Parts[0]; got != "type_" {
		t.Errorf("Expected the rewritten name part type_, got %q", got)
	}
	if got := decl.Ident(); got != "type" {
		t.Errorf("Expected the declared ident to survive, got %q", got)
	}
}

func TestBuildSubTypes(t *testing.T) {
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclInterface, Interface: &ast.InterfaceDecl{
			Name: "Shape",
			SubTypes: []ast.SubTypeDecl{
				{Name: "Circle", Fields: []ast.FieldDecl{{Name: "radius", Ty: ast.TypeRef{Kind: ast.RefDouble}}}},
				{Name: "Square", WireName: "sq"},
			},
		}}},
	}
	modeled, ctx := buildFile(t, carsScope(), file)
	if ctx.Len() != 0 {
		t.Fatalf("Expected no diagnostics, got %v", ctx.Items())
	}
	subs := modeled.Decls[0].Interface.SubTypes
	if len(subs) != 2 {
		t.Fatalf("Expected 2 sub types, got %d", len(subs))
	}
	if got := subs[0].Name.Key(); got != "io.cars@1.0.0::Shape.Circle" {
		t.Errorf("Expected the sub type nested under the interface, got %q", got)
	}
	if got := subs[0].Tag(); got != "Circle" {
		t.Errorf("Expected the ident as tag, got %q", got)
	}
	if got := subs[1].Tag(); got != "sq" {
		t.Errorf("Expected the explicit tag sq, got %q", got)
	}
}

func TestBuildDuplicateField(t *testing.T) {
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclType, Type: &ast.TypeDecl{
			Name: "Car",
			Fields: []ast.FieldDecl{
				{Name: "wheels", NameSpan: sp(1, 2), Ty: ast.TypeRef{Kind: ast.RefU32}},
				{Name: "wheels", NameSpan: sp(3, 4), Ty: ast.TypeRef{Kind: ast.RefString}},
			},
		}}},
	}
	modeled, ctx := buildFile(t, carsScope(), file)
	var dup *diag.Diagnostic
	items := ctx.Items()
	for i := range items {
		if items[i].Code == diag.RegDuplicateField {
			dup = &items[i]
		}
	}
	if dup == nil {
		t.Fatal("Expected a duplicate-field diagnostic")
	}
	if len(dup.Notes) != 1 || dup.Notes[0].Span != sp(1, 2) {
		t.Errorf("Expected a note at the first field, got %v", dup.Notes)
	}
	fields := modeled.Decls[0].Type.Fields
	if len(fields) != 1 || fields[0].Ty.Kind != model.TypeNumber {
		t.Errorf("Expected the first field to win, got %v", fields)
	}
}

func TestBuildDuplicateVariant(t *testing.T) {
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclEnum, Enum: &ast.EnumDecl{
			Name: "Color",
			Ty:   ast.TypeRef{Kind: ast.RefString},
			Variants: []ast.VariantDecl{
				{Name: "Red", NameSpan: sp(1, 2)},
				{Name: "Red", NameSpan: sp(3, 4)},
			},
		}}},
	}
	modeled, ctx := buildFile(t, carsScope(), file)
	if !hasCode(ctx, diag.RegDuplicateVariant) {
		t.Fatal("Expected a duplicate-variant diagnostic")
	}
	if got := len(modeled.Decls[0].Enum.Variants); got != 1 {
		t.Errorf("Expected 1 variant, got %d", got)
	}
}

func TestBuildDuplicateEndpoint(t *testing.T) {
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclService, Service: &ast.ServiceDecl{
			Name: "Api",
			Endpoints: []ast.EndpointDecl{
				{Name: "get", NameSpan: sp(1, 2)},
				{Name: "get", NameSpan: sp(3, 4)},
			},
		}}},
	}
	modeled, ctx := buildFile(t, carsScope(), file)
	if !hasCode(ctx, diag.RegDuplicateEndpoint) {
		t.Fatal("Expected a duplicate-endpoint diagnostic")
	}
	if got := len(modeled.Decls[0].Service.Endpoints); got != 1 {
		t.Errorf("Expected 1 endpoint, got %d", got)
	}
}

func TestBuildDuplicateArgument(t *testing.T) {
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclService, Service: &ast.ServiceDecl{
			Name: "Api",
			Endpoints: []ast.EndpointDecl{{
				Name: "get",
				Arguments: []ast.ArgumentDecl{
					{Name: "id", Span: sp(1, 2), Channel: ast.ChannelDecl{Ty: ast.TypeRef{Kind: ast.RefU64}}},
					{Name: "id", Span: sp(3, 4), Channel: ast.ChannelDecl{Ty: ast.TypeRef{Kind: ast.RefString}}},
				},
			}},
		}}},
	}
	modeled, ctx := buildFile(t, carsScope(), file)
	if !hasCode(ctx, diag.RegDuplicateField) {
		t.Fatal("Expected a duplicate-argument diagnostic")
	}
	args := modeled.Decls[0].Service.Endpoints[0].Arguments
	if len(args) != 1 || args[0].Channel.Ty.Kind != model.TypeNumber {
		t.Errorf("Expected the first argument to win, got %v", args)
	}
}

func TestBuildEnumTypes(t *testing.T) {
	tests := []struct {
		name string
		ref  ast.TypeRef
		want model.EnumType
		bad  bool
	}{
		{"string", ast.TypeRef{Kind: ast.RefString}, model.StringEnumType(), false},
		{"u32", ast.TypeRef{Kind: ast.RefU32}, model.NumberEnumType(model.NumberU32), false},
		{"i64", ast.TypeRef{Kind: ast.RefI64}, model.NumberEnumType(model.NumberI64), false},
		{"boolean", ast.TypeRef{Kind: ast.RefBoolean}, model.EnumType{}, true},
		{"array", ast.TypeRef{Kind: ast.RefArray, Element: &ast.TypeRef{Kind: ast.RefString}}, model.EnumType{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := &ast.File{Decls: []ast.Decl{{Kind: ast.DeclEnum, Enum: &ast.EnumDecl{
				Name: "E", Ty: tt.ref,
			}}}}
			modeled, ctx := buildFile(t, carsScope(), file)
			if tt.bad {
				if !hasCode(ctx, diag.RegBadEnumType) {
					t.Fatal("Expected a bad-enum-type diagnostic")
				}
				if len(modeled.Decls) != 0 {
					t.Errorf("Expected the enum to drop, got %v", modeled.Decls)
				}
				return
			}
			if ctx.Len() != 0 {
				t.Fatalf("Expected no diagnostics, got %v", ctx.Items())
			}
			if got := modeled.Decls[0].Enum.EnumType; got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildEnumValues(t *testing.T) {
	number := func(n float64) *ast.Value { return &ast.Value{Kind: ast.ValueNumber, Num: n} }
	str := func(s string) *ast.Value { return &ast.Value{Kind: ast.ValueString, Str: s} }

	tests := []struct {
		name  string
		ty    ast.TypeRef
		value *ast.Value
		kept  bool
	}{
		{"string implicit", ast.TypeRef{Kind: ast.RefString}, nil, true},
		{"string explicit", ast.TypeRef{Kind: ast.RefString}, str("red"), true},
		{"string with number", ast.TypeRef{Kind: ast.RefString}, number(1), false},
		{"number explicit", ast.TypeRef{Kind: ast.RefU32}, number(1), true},
		{"number implicit", ast.TypeRef{Kind: ast.RefU32}, nil, false},
		{"number with string", ast.TypeRef{Kind: ast.RefU32}, str("one"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := &ast.File{Decls: []ast.Decl{{Kind: ast.DeclEnum, Enum: &ast.EnumDecl{
				Name:     "E",
				Ty:       tt.ty,
				Variants: []ast.VariantDecl{{Name: "V", Value: tt.value}},
			}}}}
			modeled, ctx := buildFile(t, carsScope(), file)
			variants := modeled.Decls[0].Enum.Variants
			if tt.kept {
				if ctx.Len() != 0 {
					t.Fatalf("Expected no diagnostics, got %v", ctx.Items())
				}
				if len(variants) != 1 {
					t.Fatalf("Expected the variant to survive, got %v", variants)
				}
				return
			}
			if !hasCode(ctx, diag.RegBadEnumValue) {
				t.Fatal("Expected a bad-enum-value diagnostic")
			}
			if len(variants) != 0 {
				t.Errorf("Expected the variant to drop, got %v", variants)
			}
		})
	}
}

func TestBuildPrefixes(t *testing.T) {
	engines := model.NewVersionedPackage(model.ParsePackage("io.engines"), semver.MustParse("1.2.0"))
	pkg := model.NewVersionedPackage(model.ParsePackage("io.cars"), nil)
	scope := NewScope(pkg, map[string]model.VersionedPackage{"eng": engines}, nil, nil, nil)

	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclType, Type: &ast.TypeDecl{
			Name: "Car",
			Fields: []ast.FieldDecl{
				{Name: "engine", Ty: ast.TypeRef{Kind: ast.RefName, Prefix: "eng", Path: []string{"Engine"}}},
				{Name: "spare", Ty: ast.TypeRef{Kind: ast.RefName, Prefix: "missing", Path: []string{"Engine"}}},
			},
		}}},
	}
	modeled, ctx := buildFile(t, scope, file)
	if !hasCode(ctx, diag.RegUnknownPrefix) {
		t.Fatal("Expected an unknown-prefix diagnostic")
	}
	fields := modeled.Decls[0].Type.Fields
	if len(fields) != 1 {
		t.Fatalf("Expected the unresolvable field to drop, got %v", fields)
	}
	ref := fields[0].Ty.Ref
	if got := ref.Key(); got != "io.engines@1.2.0::Engine" {
		t.Errorf("Expected the reference to land in io.engines, got %q", got)
	}
	if ref.Prefix != "eng" {
		t.Errorf("Expected the local alias to survive, got %q", ref.Prefix)
	}
}

func TestBuildFieldNaming(t *testing.T) {
	policy, ok := naming.ByName("upper_camel")
	if !ok {
		t.Fatal("Expected the upper_camel policy")
	}
	pkg := model.NewVersionedPackage(model.ParsePackage("io.cars"), nil)
	scope := NewScope(pkg, nil, nil, policy, nil)

	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclType, Type: &ast.TypeDecl{
			Name: "Car",
			Fields: []ast.FieldDecl{
				{Name: "wheel_count", Ty: ast.TypeRef{Kind: ast.RefU32}},
				{Name: "top_speed", WireName: "max", Ty: ast.TypeRef{Kind: ast.RefU32}},
			},
		}}},
	}
	modeled, _ := buildFile(t, scope, file)
	fields := modeled.Decls[0].Type.Fields
	if got := fields[0].WireName; got != "WheelCount" {
		t.Errorf("Expected WheelCount, got %q", got)
	}
	if got := fields[1].WireName; got != "max" {
		t.Errorf("Expected the explicit wire name to win, got %q", got)
	}
}

func TestBuildEndpointNaming(t *testing.T) {
	policy, ok := naming.ByName("lower_camel")
	if !ok {
		t.Fatal("Expected the lower_camel policy")
	}
	pkg := model.NewVersionedPackage(model.ParsePackage("io.cars"), nil)
	scope := NewScope(pkg, nil, nil, nil, policy)

	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclService, Service: &ast.ServiceDecl{
			Name: "Api",
			Endpoints: []ast.EndpointDecl{
				{Name: "get_car"},
				{Name: "put_car", WireName: "store"},
			},
		}}},
	}
	modeled, _ := buildFile(t, scope, file)
	eps := modeled.Decls[0].Service.Endpoints
	if got := eps[0].Name; got != "getCar" {
		t.Errorf("Expected getCar, got %q", got)
	}
	if got := eps[1].Name; got != "store" {
		t.Errorf("Expected the explicit wire name to win, got %q", got)
	}
}

func TestBuildBadResponseDropsEndpoint(t *testing.T) {
	file := &ast.File{
		Decls: []ast.Decl{{Kind: ast.DeclService, Service: &ast.ServiceDecl{
			Name: "Api",
			Endpoints: []ast.EndpointDecl{
				{Name: "broken", Response: &ast.ChannelDecl{Ty: ast.TypeRef{Kind: ast.RefInvalid}}},
				{Name: "fine"},
			},
		}}},
	}
	modeled, _ := buildFile(t, carsScope(), file)
	eps := modeled.Decls[0].Service.Endpoints
	if len(eps) != 1 || eps[0].Ident != "fine" {
		t.Errorf("Expected only the intact endpoint, got %v", eps)
	}
}
