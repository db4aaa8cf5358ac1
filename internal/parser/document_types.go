package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"ridl/internal/ast"
	"ridl/internal/diag"
	"ridl/internal/source"
)

// parseTypeRef reads a type reference. The compact string form covers
// scalars ("u32") and names ("Car", "eng::Engine", "Outer.Inner"); the
// object form adds arrays and maps: {"array": t}, {"map": [k, v]},
// {"name": "Engine", "prefix": "eng"}.
func (d *docParser) parseTypeRef() (ast.TypeRef, bool, error) {
	tok, span, err := d.next()
	if err != nil {
		return ast.TypeRef{}, false, err
	}
	switch v := tok.(type) {
	case string:
		ref, ok := d.typeRefFromString(v, span)
		return ref, ok, nil
	case json.Delim:
		if v == '{' {
			return d.typeRefFromObject(span)
		}
		d.rep.Error(diag.SynBadTypeRef, span, "expected a type reference")
		return ast.TypeRef{}, false, d.skipFrom(tok)
	default:
		d.rep.Error(diag.SynBadTypeRef, span, "expected a type reference")
		return ast.TypeRef{}, false, nil
	}
}

func (d *docParser) typeRefFromString(s string, span source.Span) (ast.TypeRef, bool) {
	if kind, ok := ast.ScalarRefKind(s); ok {
		return ast.TypeRef{Span: span, Kind: kind}, true
	}
	prefix := ""
	rest := s
	if i := strings.Index(s, "::"); i >= 0 {
		prefix, rest = s[:i], s[i+2:]
		if prefix == "" {
			d.rep.Error(diag.SynBadTypeRef, span, fmt.Sprintf("malformed type reference %q", s))
			return ast.TypeRef{}, false
		}
	}
	path, ok := splitNamePath(rest)
	if !ok {
		d.rep.Error(diag.SynBadTypeRef, span, fmt.Sprintf("malformed type reference %q", s))
		return ast.TypeRef{}, false
	}
	return ast.TypeRef{Span: span, Kind: ast.RefName, Prefix: prefix, Path: path}, true
}

// splitNamePath splits a dotted declaration path, rejecting empty parts.
func splitNamePath(s string) ([]string, bool) {
	if s == "" {
		return nil, false
	}
	path := strings.Split(s, ".")
	for _, part := range path {
		if part == "" {
			return nil, false
		}
	}
	return path, true
}

func (d *docParser) typeRefFromObject(openSpan source.Span) (ast.TypeRef, bool, error) {
	var ref ast.TypeRef
	var nameStr string
	var nameSeen bool
	forms := 0
	badForm := false

	span, err := d.objectBody(openSpan, func(key string, keySpan source.Span) error {
		switch key {
		case "name":
			s, _, ok, err := d.parseString("name")
			if err != nil {
				return err
			}
			if !ok {
				badForm = true
				return nil
			}
			nameStr, nameSeen = s, true
			forms++
			return nil
		case "prefix":
			s, _, ok, err := d.parseString("prefix")
			if err != nil {
				return err
			}
			if ok {
				ref.Prefix = s
			}
			return nil
		case "array":
			el, ok, err := d.parseTypeRef()
			if err != nil {
				return err
			}
			if !ok {
				badForm = true
				return nil
			}
			ref.Kind = ast.RefArray
			ref.Element = &el
			forms++
			return nil
		case "map":
			var kv []ast.TypeRef
			if err := d.array("map", func() error {
				t, ok, err := d.parseTypeRef()
				if err != nil {
					return err
				}
				if ok {
					kv = append(kv, t)
				}
				return nil
			}); err != nil {
				return err
			}
			if len(kv) != 2 {
				d.rep.Error(diag.SynBadTypeRef, keySpan, "map type takes exactly a key and a value")
				badForm = true
				return nil
			}
			ref.Kind = ast.RefMap
			ref.Key, ref.Value = &kv[0], &kv[1]
			forms++
			return nil
		default:
			return d.unknownKey("type reference", key, keySpan)
		}
	})
	if err != nil {
		return ast.TypeRef{}, false, err
	}
	ref.Span = span

	if forms != 1 {
		if !badForm {
			d.rep.Error(diag.SynBadTypeRef, span, "type reference must be exactly one of name, array, or map")
		}
		return ast.TypeRef{}, false, nil
	}
	if nameSeen {
		path, ok := splitNamePath(nameStr)
		if !ok {
			d.rep.Error(diag.SynBadTypeRef, span, fmt.Sprintf("malformed type reference %q", nameStr))
			return ast.TypeRef{}, false, nil
		}
		ref.Kind = ast.RefName
		ref.Path = path
	}
	if ref.Prefix != "" && ref.Kind != ast.RefName {
		d.rep.Error(diag.SynBadTypeRef, span, "prefix requires a name reference")
		return ast.TypeRef{}, false, nil
	}
	return ref, true, nil
}
