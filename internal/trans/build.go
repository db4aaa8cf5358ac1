package trans

import (
	"fmt"

	"ridl/internal/ast"
	"ridl/internal/diag"
	"ridl/internal/model"
	"ridl/internal/source"
)

// builder models one parsed file into the core flavor. Shape problems are
// reported and the offending piece dropped, so one bad declaration never
// hides the rest of the file.
type builder struct {
	scope *Scope
	rep   *diag.Reporter
	src   source.FileID
}

func newBuilder(scope *Scope, rep *diag.Reporter, src source.FileID) *builder {
	return &builder{scope: scope, rep: rep, src: src}
}

// File models a whole parsed file.
func (b *builder) File(f *ast.File) CoreFile {
	return CoreFile{
		Source:  b.src,
		Comment: f.Comment,
		Decls:   b.decls(nil, f.Decls),
	}
}

func (b *builder) decls(path []string, decls []ast.Decl) []CoreDecl {
	var out []CoreDecl
	for _, d := range decls {
		modeled, ok := b.decl(path, d)
		if !ok {
			continue
		}
		out = append(out, modeled)
	}
	return out
}

func (b *builder) decl(path []string, d ast.Decl) (CoreDecl, bool) {
	switch d.Kind {
	case ast.DeclType:
		return b.typeDecl(path, d.Type)
	case ast.DeclTuple:
		return b.tupleDecl(path, d.Tuple)
	case ast.DeclInterface:
		return b.interfaceDecl(path, d.Interface)
	case ast.DeclEnum:
		return b.enumDecl(path, d.Enum)
	case ast.DeclService:
		return b.serviceDecl(path, d.Service)
	}
	return CoreDecl{}, false
}

// header assembles the common declaration header and returns the extended
// name path for nested declarations.
func (b *builder) header(path []string, name string, span source.Span, comment []string) (model.DeclHeader[model.VersionedPackage], []string) {
	full := make([]string, 0, len(path)+1)
	full = append(full, path...)
	full = append(full, name)
	return model.DeclHeader[model.VersionedPackage]{
		Name:    b.scope.Name(full...),
		Ident:   name,
		Comment: comment,
		Span:    span,
	}, full
}

func (b *builder) typeDecl(path []string, d *ast.TypeDecl) (CoreDecl, bool) {
	header, full := b.header(path, d.Name, d.Span, d.Comment)
	return model.NewTypeDecl(&model.TypeBody[CoreType, model.VersionedPackage, model.EnumType]{
		DeclHeader: header,
		Fields:     b.fields(d.Fields),
		Decls:      b.decls(full, d.Decls),
	}), true
}

func (b *builder) tupleDecl(path []string, d *ast.TupleDecl) (CoreDecl, bool) {
	header, full := b.header(path, d.Name, d.Span, d.Comment)
	return model.NewTupleDecl(&model.TupleBody[CoreType, model.VersionedPackage, model.EnumType]{
		DeclHeader: header,
		Fields:     b.fields(d.Fields),
		Decls:      b.decls(full, d.Decls),
	}), true
}

func (b *builder) interfaceDecl(path []string, d *ast.InterfaceDecl) (CoreDecl, bool) {
	header, full := b.header(path, d.Name, d.Span, d.Comment)
	body := &model.InterfaceBody[CoreType, model.VersionedPackage, model.EnumType]{
		DeclHeader: header,
		Fields:     b.fields(d.Fields),
		Decls:      b.decls(full, d.Decls),
	}
	for _, s := range d.SubTypes {
		subHeader, _ := b.header(full, s.Name, s.Span, s.Comment)
		body.SubTypes = append(body.SubTypes, model.SubType[CoreType, model.VersionedPackage]{
			DeclHeader: subHeader,
			WireName:   s.WireName,
			Fields:     b.fields(s.Fields),
		})
	}
	return model.NewInterfaceDecl(body), true
}

func (b *builder) enumDecl(path []string, d *ast.EnumDecl) (CoreDecl, bool) {
	enumTy, ok := b.enumType(&d.Ty)
	if !ok {
		return CoreDecl{}, false
	}
	header, _ := b.header(path, d.Name, d.Span, d.Comment)
	body := &model.EnumBody[CoreType, model.VersionedPackage, model.EnumType]{
		DeclHeader: header,
		EnumType:   enumTy,
	}
	seen := make(map[string]source.Span, len(d.Variants))
	for _, v := range d.Variants {
		if prev, dup := seen[v.Name]; dup {
			b.rep.Error(diag.RegDuplicateVariant, v.NameSpan,
				fmt.Sprintf("variant %q already declared", v.Name)).
				Note(prev, "previous variant")
			continue
		}
		seen[v.Name] = v.NameSpan
		value, ok := b.variantValue(enumTy, v)
		if !ok {
			continue
		}
		body.Variants = append(body.Variants, model.Variant[model.VersionedPackage]{
			Name:    header.Name.Push(b.scope.Ident(v.Name)),
			Ident:   v.Name,
			Comment: v.Comment,
			Value:   value,
			Span:    v.Span,
		})
	}
	return model.NewEnumDecl(body), true
}

// enumType restricts the enum domain to string or one of the number
// kinds.
func (b *builder) enumType(ref *ast.TypeRef) (model.EnumType, bool) {
	switch ref.Kind {
	case ast.RefString:
		return model.StringEnumType(), true
	case ast.RefU32:
		return model.NumberEnumType(model.NumberU32), true
	case ast.RefU64:
		return model.NumberEnumType(model.NumberU64), true
	case ast.RefI32:
		return model.NumberEnumType(model.NumberI32), true
	case ast.RefI64:
		return model.NumberEnumType(model.NumberI64), true
	}
	b.rep.Error(diag.RegBadEnumType, ref.Span,
		fmt.Sprintf("enum type must be string or a number, not %s", ref))
	return model.EnumType{}, false
}

// variantValue validates an explicit variant value against the enum
// domain. String enums default to the variant ident; number enums need an
// explicit value.
func (b *builder) variantValue(enumTy model.EnumType, v ast.VariantDecl) (*model.Value, bool) {
	if v.Value == nil {
		if enumTy.Kind == model.EnumNumber {
			b.rep.Error(diag.RegBadEnumValue, v.Span,
				fmt.Sprintf("variant %q of a number enum needs an explicit value", v.Name))
			return nil, false
		}
		return nil, true
	}
	value := buildValue(*v.Value)
	switch enumTy.Kind {
	case model.EnumString:
		if value.Kind != model.ValueString {
			b.rep.Error(diag.RegBadEnumValue, value.Span,
				fmt.Sprintf("string enum takes string values, not %s", value.Kind))
			return nil, false
		}
	case model.EnumNumber:
		if value.Kind != model.ValueNumber {
			b.rep.Error(diag.RegBadEnumValue, value.Span,
				fmt.Sprintf("number enum takes number values, not %s", value.Kind))
			return nil, false
		}
	}
	return &value, true
}

func (b *builder) serviceDecl(path []string, d *ast.ServiceDecl) (CoreDecl, bool) {
	header, _ := b.header(path, d.Name, d.Span, d.Comment)
	body := &model.ServiceBody[CoreType, model.VersionedPackage, model.EnumType]{
		DeclHeader: header,
	}
	seen := make(map[string]source.Span, len(d.Endpoints))
	for _, ep := range d.Endpoints {
		if prev, dup := seen[ep.Name]; dup {
			b.rep.Error(diag.RegDuplicateEndpoint, ep.NameSpan,
				fmt.Sprintf("endpoint %q already declared", ep.Name)).
				Note(prev, "previous endpoint")
			continue
		}
		seen[ep.Name] = ep.NameSpan
		modeled, ok := b.endpoint(ep)
		if !ok {
			continue
		}
		body.Endpoints = append(body.Endpoints, modeled)
	}
	return model.NewServiceDecl(body), true
}

func (b *builder) endpoint(ep ast.EndpointDecl) (model.Endpoint[CoreType], bool) {
	out := model.Endpoint[CoreType]{
		Ident:   ep.Name,
		Name:    b.scope.EndpointName(ep.Name, ep.WireName),
		Comment: ep.Comment,
		Span:    ep.Span,
	}
	seen := make(map[string]source.Span, len(ep.Arguments))
	for _, arg := range ep.Arguments {
		if prev, dup := seen[arg.Name]; dup {
			b.rep.Error(diag.RegDuplicateField, arg.Span,
				fmt.Sprintf("argument %q already declared", arg.Name)).
				Note(prev, "previous argument")
			continue
		}
		seen[arg.Name] = arg.Span
		ch, ok := b.channel(arg.Channel)
		if !ok {
			continue
		}
		out.Arguments = append(out.Arguments, model.Argument[CoreType]{
			Ident:   arg.Name,
			Channel: ch,
			Span:    arg.Span,
		})
	}
	if ep.Response != nil {
		ch, ok := b.channel(*ep.Response)
		if !ok {
			return model.Endpoint[CoreType]{}, false
		}
		out.Response = &ch
	}
	return out, true
}

func (b *builder) channel(ch ast.ChannelDecl) (model.Channel[CoreType], bool) {
	ty, ok := b.typeRef(&ch.Ty)
	if !ok {
		return model.Channel[CoreType]{}, false
	}
	return model.Channel[CoreType]{Ty: ty, Streaming: ch.Streaming}, true
}

func (b *builder) fields(fields []ast.FieldDecl) []model.Field[CoreType] {
	var out []model.Field[CoreType]
	seen := make(map[string]source.Span, len(fields))
	for _, f := range fields {
		if prev, dup := seen[f.Name]; dup {
			b.rep.Error(diag.RegDuplicateField, f.NameSpan,
				fmt.Sprintf("field %q already declared", f.Name)).
				Note(prev, "previous field")
			continue
		}
		seen[f.Name] = f.NameSpan
		ty, ok := b.typeRef(&f.Ty)
		if !ok {
			continue
		}
		out = append(out, model.Field[CoreType]{
			Ident:    f.Name,
			WireName: b.scope.FieldWireName(f.Name, f.WireName),
			Optional: f.Optional,
			Ty:       ty,
			Comment:  f.Comment,
			Span:     f.Span,
		})
	}
	return out
}

// typeRef converts a syntactic type use into the core flavor. Invalid
// references were already reported by the frontend and drop silently.
func (b *builder) typeRef(ref *ast.TypeRef) (CoreType, bool) {
	switch ref.Kind {
	case ast.RefDouble:
		return model.DoubleType[model.VersionedPackage](ref.Span), true
	case ast.RefFloat:
		return model.FloatType[model.VersionedPackage](ref.Span), true
	case ast.RefU32:
		return model.NumberType[model.VersionedPackage](model.NumberU32, ref.Span), true
	case ast.RefU64:
		return model.NumberType[model.VersionedPackage](model.NumberU64, ref.Span), true
	case ast.RefI32:
		return model.NumberType[model.VersionedPackage](model.NumberI32, ref.Span), true
	case ast.RefI64:
		return model.NumberType[model.VersionedPackage](model.NumberI64, ref.Span), true
	case ast.RefBoolean:
		return model.BooleanType[model.VersionedPackage](ref.Span), true
	case ast.RefString:
		return model.StringType[model.VersionedPackage](ref.Span), true
	case ast.RefDateTime:
		return model.DateTimeType[model.VersionedPackage](ref.Span), true
	case ast.RefBytes:
		return model.BytesType[model.VersionedPackage](ref.Span), true
	case ast.RefAny:
		return model.AnyType[model.VersionedPackage](ref.Span), true
	case ast.RefName:
		name, ok := b.nameRef(ref)
		if !ok {
			return nil, false
		}
		return model.NameType(name, ref.Span), true
	case ast.RefArray:
		inner, ok := b.typeRef(ref.Element)
		if !ok {
			return nil, false
		}
		return model.ArrayType(inner, ref.Span), true
	case ast.RefMap:
		key, ok := b.typeRef(ref.Key)
		if !ok {
			return nil, false
		}
		value, ok := b.typeRef(ref.Value)
		if !ok {
			return nil, false
		}
		return model.MapType(key, value, ref.Span), true
	}
	return nil, false
}

// nameRef resolves a name reference into an absolute name. A prefixed
// reference points into the package its use clause bound; a bare one
// names a declaration of this file's package.
func (b *builder) nameRef(ref *ast.TypeRef) (CoreName, bool) {
	pkg := b.scope.Package()
	if ref.Prefix != "" {
		resolved, ok := b.scope.Lookup(ref.Prefix)
		if !ok {
			b.rep.Error(diag.RegUnknownPrefix, ref.Span,
				fmt.Sprintf("unknown prefix %q", ref.Prefix))
			return CoreName{}, false
		}
		pkg = resolved
	}
	return b.scope.NameIn(pkg, ref.Path...).WithPrefix(ref.Prefix), true
}

// buildValue converts a literal from the syntax tree.
func buildValue(v ast.Value) model.Value {
	switch v.Kind {
	case ast.ValueString:
		return model.StringValue(v.Str, v.Span)
	case ast.ValueNumber:
		return model.NumberValue(v.Num, v.Span)
	case ast.ValueIdentifier:
		return model.IdentifierValue(v.Str, v.Span)
	case ast.ValueArray:
		list := make([]model.Value, 0, len(v.List))
		for _, item := range v.List {
			list = append(list, buildValue(item))
		}
		return model.ArrayValue(list, v.Span)
	}
	return model.Value{}
}
