package model

// Translator rewrites one flavor triple into another. TranslateType and
// TranslateField carry the type representation across, TranslatePackage
// and TranslateLocalName carry names, TranslateEnumType carries the enum
// domain. Visit fires on the first reference to a declaration name and
// drives reachability: an implementation that collects visited names ends
// up with exactly the declarations the translated graph can reach.
type Translator[T any, P PackageRepr[P], E any, T2 any, P2 PackageRepr[P2], E2 any] interface {
	TranslatePackage(pkg P) (P2, error)
	TranslateType(ty T) (T2, error)
	TranslateField(field Field[T]) (Field[T2], error)
	TranslateEndpoint(endpoint Endpoint[T]) (Endpoint[T2], error)
	TranslateLocalName(name Name[P]) (Name[P2], error)
	TranslateEnumType(enumType E) (E2, error)
	Visit(name Name[P]) error
}

// Lift extends a Translator across whole declarations. The translator
// supplies the leaf rules; Lift walks the structure.
type Lift[T any, P PackageRepr[P], E any, T2 any, P2 PackageRepr[P2], E2 any] struct {
	Tr Translator[T, P, E, T2, P2, E2]
}

// NewLift wraps a translator.
func NewLift[T any, P PackageRepr[P], E any, T2 any, P2 PackageRepr[P2], E2 any](
	tr Translator[T, P, E, T2, P2, E2],
) Lift[T, P, E, T2, P2, E2] {
	return Lift[T, P, E, T2, P2, E2]{Tr: tr}
}

// Name translates an absolute name.
func (l Lift[T, P, E, T2, P2, E2]) Name(n Name[P]) (Name[P2], error) {
	return l.Tr.TranslateLocalName(n)
}

func (l Lift[T, P, E, T2, P2, E2]) header(h DeclHeader[P]) (DeclHeader[P2], error) {
	name, err := l.Tr.TranslateLocalName(h.Name)
	if err != nil {
		return DeclHeader[P2]{}, err
	}
	return DeclHeader[P2]{Name: name, Ident: h.Ident, Comment: h.Comment, Span: h.Span}, nil
}

// Fields translates a field list.
func (l Lift[T, P, E, T2, P2, E2]) Fields(fields []Field[T]) ([]Field[T2], error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]Field[T2], 0, len(fields))
	for _, f := range fields {
		tf, err := l.Tr.TranslateField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, tf)
	}
	return out, nil
}

// Channel translates an endpoint channel.
func (l Lift[T, P, E, T2, P2, E2]) Channel(ch Channel[T]) (Channel[T2], error) {
	ty, err := l.Tr.TranslateType(ch.Ty)
	if err != nil {
		return Channel[T2]{}, err
	}
	return Channel[T2]{Ty: ty, Streaming: ch.Streaming}, nil
}

// Endpoints translates an endpoint list.
func (l Lift[T, P, E, T2, P2, E2]) Endpoints(endpoints []Endpoint[T]) ([]Endpoint[T2], error) {
	if len(endpoints) == 0 {
		return nil, nil
	}
	out := make([]Endpoint[T2], 0, len(endpoints))
	for _, ep := range endpoints {
		tep, err := l.Tr.TranslateEndpoint(ep)
		if err != nil {
			return nil, err
		}
		out = append(out, tep)
	}
	return out, nil
}

// Variant translates one enum variant.
func (l Lift[T, P, E, T2, P2, E2]) Variant(v Variant[P]) (Variant[P2], error) {
	name, err := l.Tr.TranslateLocalName(v.Name)
	if err != nil {
		return Variant[P2]{}, err
	}
	return Variant[P2]{Name: name, Ident: v.Ident, Comment: v.Comment, Value: v.Value, Span: v.Span}, nil
}

// SubType translates one interface sub type.
func (l Lift[T, P, E, T2, P2, E2]) SubType(s SubType[T, P]) (SubType[T2, P2], error) {
	header, err := l.header(s.DeclHeader)
	if err != nil {
		return SubType[T2, P2]{}, err
	}
	fields, err := l.Fields(s.Fields)
	if err != nil {
		return SubType[T2, P2]{}, err
	}
	return SubType[T2, P2]{DeclHeader: header, WireName: s.WireName, Fields: fields}, nil
}

func (l Lift[T, P, E, T2, P2, E2]) decls(decls []Decl[T, P, E]) ([]Decl[T2, P2, E2], error) {
	if len(decls) == 0 {
		return nil, nil
	}
	out := make([]Decl[T2, P2, E2], 0, len(decls))
	for _, d := range decls {
		td, err := l.Decl(d)
		if err != nil {
			return nil, err
		}
		out = append(out, td)
	}
	return out, nil
}

// Decl translates one declaration and everything nested in it.
func (l Lift[T, P, E, T2, P2, E2]) Decl(d Decl[T, P, E]) (Decl[T2, P2, E2], error) {
	var zero Decl[T2, P2, E2]
	switch d.Kind {
	case DeclType:
		header, err := l.header(d.Type.DeclHeader)
		if err != nil {
			return zero, err
		}
		fields, err := l.Fields(d.Type.Fields)
		if err != nil {
			return zero, err
		}
		nested, err := l.decls(d.Type.Decls)
		if err != nil {
			return zero, err
		}
		return NewTypeDecl(&TypeBody[T2, P2, E2]{DeclHeader: header, Fields: fields, Decls: nested}), nil

	case DeclTuple:
		header, err := l.header(d.Tuple.DeclHeader)
		if err != nil {
			return zero, err
		}
		fields, err := l.Fields(d.Tuple.Fields)
		if err != nil {
			return zero, err
		}
		nested, err := l.decls(d.Tuple.Decls)
		if err != nil {
			return zero, err
		}
		return NewTupleDecl(&TupleBody[T2, P2, E2]{DeclHeader: header, Fields: fields, Decls: nested}), nil

	case DeclInterface:
		header, err := l.header(d.Interface.DeclHeader)
		if err != nil {
			return zero, err
		}
		fields, err := l.Fields(d.Interface.Fields)
		if err != nil {
			return zero, err
		}
		var subTypes []SubType[T2, P2]
		for _, s := range d.Interface.SubTypes {
			ts, err := l.SubType(s)
			if err != nil {
				return zero, err
			}
			subTypes = append(subTypes, ts)
		}
		nested, err := l.decls(d.Interface.Decls)
		if err != nil {
			return zero, err
		}
		return NewInterfaceDecl(&InterfaceBody[T2, P2, E2]{
			DeclHeader: header,
			Fields:     fields,
			SubTypes:   subTypes,
			Decls:      nested,
		}), nil

	case DeclEnum:
		header, err := l.header(d.Enum.DeclHeader)
		if err != nil {
			return zero, err
		}
		enumType, err := l.Tr.TranslateEnumType(d.Enum.EnumType)
		if err != nil {
			return zero, err
		}
		var variants []Variant[P2]
		for _, v := range d.Enum.Variants {
			tv, err := l.Variant(v)
			if err != nil {
				return zero, err
			}
			variants = append(variants, tv)
		}
		return NewEnumDecl(&EnumBody[T2, P2, E2]{DeclHeader: header, EnumType: enumType, Variants: variants}), nil

	case DeclService:
		header, err := l.header(d.Service.DeclHeader)
		if err != nil {
			return zero, err
		}
		endpoints, err := l.Endpoints(d.Service.Endpoints)
		if err != nil {
			return zero, err
		}
		return NewServiceDecl(&ServiceBody[T2, P2, E2]{DeclHeader: header, Endpoints: endpoints}), nil
	}
	panic("model: declaration without a body")
}

// Reg translates one registration. The owning declaration is translated
// whole; sub type and variant pointers are re-anchored into the translated
// body by ident.
func (l Lift[T, P, E, T2, P2, E2]) Reg(r Reg[T, P, E]) (Reg[T2, P2, E2], error) {
	var zero Reg[T2, P2, E2]
	decl, err := l.Decl(r.Decl)
	if err != nil {
		return zero, err
	}
	out := Reg[T2, P2, E2]{Kind: r.Kind, Decl: decl}
	switch r.Kind {
	case RegSubType:
		for i := range decl.Interface.SubTypes {
			if decl.Interface.SubTypes[i].Ident == r.Sub.Ident {
				out.Sub = &decl.Interface.SubTypes[i]
				break
			}
		}
		if out.Sub == nil {
			panic("model: sub type lost in translation")
		}
	case RegEnumVariant:
		for i := range decl.Enum.Variants {
			if decl.Enum.Variants[i].Ident == r.Variant.Ident {
				out.Variant = &decl.Enum.Variants[i]
				break
			}
		}
		if out.Variant == nil {
			panic("model: variant lost in translation")
		}
	}
	return out, nil
}

// File translates a whole file payload.
func (l Lift[T, P, E, T2, P2, E2]) File(f File[T, P, E]) (File[T2, P2, E2], error) {
	decls, err := l.decls(f.Decls)
	if err != nil {
		return File[T2, P2, E2]{}, err
	}
	return File[T2, P2, E2]{Source: f.Source, Comment: f.Comment, Decls: decls}, nil
}
