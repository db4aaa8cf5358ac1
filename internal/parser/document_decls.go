package parser

import (
	"fmt"

	"ridl/internal/ast"
	"ridl/internal/diag"
	"ridl/internal/source"
)

func (d *docParser) parseDecls(out *[]ast.Decl) error {
	return d.array("decls", func() error {
		decl, ok, err := d.parseDecl()
		if err != nil {
			return err
		}
		if ok {
			*out = append(*out, decl)
		}
		return nil
	})
}

// declParts collects declaration keys before the kind is known; buildDecl
// assembles them once the object is complete.
type declParts struct {
	kind      string
	kindSpan  source.Span
	name      string
	nameSpan  source.Span
	nameSeen  bool
	comment   []string
	fields    []ast.FieldDecl
	decls     []ast.Decl
	subTypes  []ast.SubTypeDecl
	variants  []ast.VariantDecl
	endpoints []ast.EndpointDecl
	enumTy    ast.TypeRef
	enumSeen  bool
	enumOK    bool
	sections  map[string]source.Span
}

func (d *docParser) parseDecl() (ast.Decl, bool, error) {
	p := declParts{sections: make(map[string]source.Span)}
	span, ok, err := d.object("declaration", func(key string, keySpan source.Span) error {
		switch key {
		case "kind":
			s, sp, ok, err := d.parseString("kind")
			if err != nil {
				return err
			}
			if ok {
				p.kind, p.kindSpan = s, sp
			}
			return nil
		case "name":
			s, sp, ok, err := d.parseString("name")
			if err != nil {
				return err
			}
			if ok {
				p.name, p.nameSpan, p.nameSeen = s, sp, true
			}
			return nil
		case "comment":
			lines, err := d.parseStringList("comment")
			p.comment = lines
			return err
		case "fields":
			p.sections[key] = keySpan
			return d.parseFields(&p.fields)
		case "decls":
			p.sections[key] = keySpan
			return d.parseDecls(&p.decls)
		case "sub_types":
			p.sections[key] = keySpan
			return d.parseSubTypes(&p.subTypes)
		case "variants":
			p.sections[key] = keySpan
			return d.parseVariants(&p.variants)
		case "endpoints":
			p.sections[key] = keySpan
			return d.parseEndpoints(&p.endpoints)
		case "type":
			p.sections[key] = keySpan
			ty, ok, err := d.parseTypeRef()
			if err != nil {
				return err
			}
			p.enumSeen = true
			if ok {
				p.enumTy, p.enumOK = ty, true
			}
			return nil
		default:
			return d.unknownKey("declaration", key, keySpan)
		}
	})
	if err != nil {
		return ast.Decl{}, false, err
	}
	if !ok {
		return ast.Decl{}, false, nil
	}
	return d.buildDecl(span, &p)
}

func (d *docParser) buildDecl(span source.Span, p *declParts) (ast.Decl, bool, error) {
	if p.kind == "" {
		d.rep.Error(diag.SynMissingField, span, "declaration missing a kind")
		return ast.Decl{}, false, nil
	}
	if !p.nameSeen || p.name == "" {
		d.rep.Error(diag.SynMissingField, span, "declaration missing a name")
		return ast.Decl{}, false, nil
	}
	use := func(keys ...string) {
		for _, k := range keys {
			delete(p.sections, k)
		}
	}

	var decl ast.Decl
	switch p.kind {
	case "type":
		use("fields", "decls")
		decl = ast.Decl{Kind: ast.DeclType, Type: &ast.TypeDecl{
			Span: span, Name: p.name, NameSpan: p.nameSpan, Comment: p.comment,
			Fields: p.fields, Decls: p.decls,
		}}
	case "tuple":
		use("fields", "decls")
		decl = ast.Decl{Kind: ast.DeclTuple, Tuple: &ast.TupleDecl{
			Span: span, Name: p.name, NameSpan: p.nameSpan, Comment: p.comment,
			Fields: p.fields, Decls: p.decls,
		}}
	case "interface":
		use("fields", "sub_types", "decls")
		decl = ast.Decl{Kind: ast.DeclInterface, Interface: &ast.InterfaceDecl{
			Span: span, Name: p.name, NameSpan: p.nameSpan, Comment: p.comment,
			Fields: p.fields, SubTypes: p.subTypes, Decls: p.decls,
		}}
	case "enum":
		use("type", "variants")
		if !p.enumSeen {
			d.rep.Error(diag.SynMissingField, span, fmt.Sprintf("enum %q missing a type", p.name))
			return ast.Decl{}, false, nil
		}
		if !p.enumOK {
			return ast.Decl{}, false, nil
		}
		decl = ast.Decl{Kind: ast.DeclEnum, Enum: &ast.EnumDecl{
			Span: span, Name: p.name, NameSpan: p.nameSpan, Comment: p.comment,
			Ty: p.enumTy, Variants: p.variants,
		}}
	case "service":
		use("endpoints")
		decl = ast.Decl{Kind: ast.DeclService, Service: &ast.ServiceDecl{
			Span: span, Name: p.name, NameSpan: p.nameSpan, Comment: p.comment,
			Endpoints: p.endpoints,
		}}
	default:
		d.rep.Error(diag.SynUnexpectedValue, p.kindSpan, fmt.Sprintf("unknown declaration kind %q", p.kind))
		return ast.Decl{}, false, nil
	}

	for key, keySpan := range p.sections {
		d.rep.Warning(diag.SynUnexpectedValue, keySpan,
			fmt.Sprintf("key %q has no effect in a %s declaration", key, p.kind))
	}
	return decl, true, nil
}

func (d *docParser) parseFields(out *[]ast.FieldDecl) error {
	return d.array("fields", func() error {
		var f ast.FieldDecl
		var tySeen, tyOK bool
		span, ok, err := d.object("field", func(key string, keySpan source.Span) error {
			switch key {
			case "name":
				s, sp, ok, err := d.parseString("name")
				if err != nil {
					return err
				}
				if ok {
					f.Name, f.NameSpan = s, sp
				}
				return nil
			case "type":
				ty, ok, err := d.parseTypeRef()
				if err != nil {
					return err
				}
				tySeen = true
				if ok {
					f.Ty, tyOK = ty, true
				}
				return nil
			case "optional":
				b, ok, err := d.parseBool("optional")
				if err != nil {
					return err
				}
				if ok {
					f.Optional = b
				}
				return nil
			case "as":
				s, _, ok, err := d.parseString("as")
				if err != nil {
					return err
				}
				if ok {
					f.WireName = s
				}
				return nil
			case "comment":
				lines, err := d.parseStringList("comment")
				f.Comment = lines
				return err
			default:
				return d.unknownKey("field", key, keySpan)
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		f.Span = span
		if f.Name == "" {
			d.rep.Error(diag.SynMissingField, span, "field missing a name")
			return nil
		}
		if !tySeen {
			d.rep.Error(diag.SynMissingField, span, fmt.Sprintf("field %q missing a type", f.Name))
			return nil
		}
		if !tyOK {
			return nil
		}
		*out = append(*out, f)
		return nil
	})
}

func (d *docParser) parseSubTypes(out *[]ast.SubTypeDecl) error {
	return d.array("sub_types", func() error {
		var s ast.SubTypeDecl
		span, ok, err := d.object("sub type", func(key string, keySpan source.Span) error {
			switch key {
			case "name":
				v, sp, ok, err := d.parseString("name")
				if err != nil {
					return err
				}
				if ok {
					s.Name, s.NameSpan = v, sp
				}
				return nil
			case "as":
				v, _, ok, err := d.parseString("as")
				if err != nil {
					return err
				}
				if ok {
					s.WireName = v
				}
				return nil
			case "comment":
				lines, err := d.parseStringList("comment")
				s.Comment = lines
				return err
			case "fields":
				return d.parseFields(&s.Fields)
			default:
				return d.unknownKey("sub type", key, keySpan)
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		s.Span = span
		if s.Name == "" {
			d.rep.Error(diag.SynMissingField, span, "sub type missing a name")
			return nil
		}
		*out = append(*out, s)
		return nil
	})
}

func (d *docParser) parseVariants(out *[]ast.VariantDecl) error {
	return d.array("variants", func() error {
		var v ast.VariantDecl
		span, ok, err := d.object("variant", func(key string, keySpan source.Span) error {
			switch key {
			case "name":
				s, sp, ok, err := d.parseString("name")
				if err != nil {
					return err
				}
				if ok {
					v.Name, v.NameSpan = s, sp
				}
				return nil
			case "value":
				val, ok, err := d.parseValue()
				if err != nil {
					return err
				}
				if ok {
					v.Value = &val
				}
				return nil
			case "comment":
				lines, err := d.parseStringList("comment")
				v.Comment = lines
				return err
			default:
				return d.unknownKey("variant", key, keySpan)
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		v.Span = span
		if v.Name == "" {
			d.rep.Error(diag.SynMissingField, span, "variant missing a name")
			return nil
		}
		*out = append(*out, v)
		return nil
	})
}

func (d *docParser) parseEndpoints(out *[]ast.EndpointDecl) error {
	return d.array("endpoints", func() error {
		var ep ast.EndpointDecl
		var haveResponse bool
		var response ast.ChannelDecl
		span, ok, err := d.object("endpoint", func(key string, keySpan source.Span) error {
			switch key {
			case "name":
				s, sp, ok, err := d.parseString("name")
				if err != nil {
					return err
				}
				if ok {
					ep.Name, ep.NameSpan = s, sp
				}
				return nil
			case "as":
				s, _, ok, err := d.parseString("as")
				if err != nil {
					return err
				}
				if ok {
					ep.WireName = s
				}
				return nil
			case "comment":
				lines, err := d.parseStringList("comment")
				ep.Comment = lines
				return err
			case "arguments":
				return d.parseArguments(&ep.Arguments)
			case "returns":
				ch, ok, err := d.parseChannel("returns")
				if err != nil {
					return err
				}
				if ok {
					response, haveResponse = ch, true
				}
				return nil
			default:
				return d.unknownKey("endpoint", key, keySpan)
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		ep.Span = span
		if ep.Name == "" {
			d.rep.Error(diag.SynMissingField, span, "endpoint missing a name")
			return nil
		}
		if haveResponse {
			ep.Response = &response
		}
		*out = append(*out, ep)
		return nil
	})
}

func (d *docParser) parseArguments(out *[]ast.ArgumentDecl) error {
	return d.array("arguments", func() error {
		var arg ast.ArgumentDecl
		var tySeen, tyOK bool
		span, ok, err := d.object("argument", func(key string, keySpan source.Span) error {
			switch key {
			case "name":
				s, _, ok, err := d.parseString("name")
				if err != nil {
					return err
				}
				if ok {
					arg.Name = s
				}
				return nil
			case "type":
				ty, ok, err := d.parseTypeRef()
				if err != nil {
					return err
				}
				tySeen = true
				if ok {
					arg.Channel.Ty, tyOK = ty, true
				}
				return nil
			case "streaming":
				b, ok, err := d.parseBool("streaming")
				if err != nil {
					return err
				}
				if ok {
					arg.Channel.Streaming = b
				}
				return nil
			default:
				return d.unknownKey("argument", key, keySpan)
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		arg.Span = span
		arg.Channel.Span = span
		if arg.Name == "" {
			d.rep.Error(diag.SynMissingField, span, "argument missing a name")
			return nil
		}
		if !tySeen {
			d.rep.Error(diag.SynMissingField, span, fmt.Sprintf("argument %q missing a type", arg.Name))
			return nil
		}
		if !tyOK {
			return nil
		}
		*out = append(*out, arg)
		return nil
	})
}

func (d *docParser) parseChannel(what string) (ast.ChannelDecl, bool, error) {
	var ch ast.ChannelDecl
	var tySeen, tyOK bool
	span, ok, err := d.object(what, func(key string, keySpan source.Span) error {
		switch key {
		case "type":
			ty, ok, err := d.parseTypeRef()
			if err != nil {
				return err
			}
			tySeen = true
			if ok {
				ch.Ty, tyOK = ty, true
			}
			return nil
		case "streaming":
			b, ok, err := d.parseBool("streaming")
			if err != nil {
				return err
			}
			if ok {
				ch.Streaming = b
			}
			return nil
		default:
			return d.unknownKey(what, key, keySpan)
		}
	})
	if err != nil || !ok {
		return ch, false, err
	}
	ch.Span = span
	if !tySeen {
		d.rep.Error(diag.SynMissingField, span, fmt.Sprintf("%s missing a type", what))
		return ch, false, nil
	}
	if !tyOK {
		return ch, false, nil
	}
	return ch, true, nil
}
