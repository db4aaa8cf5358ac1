package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"

	"ridl/internal/ast"
	"ridl/internal/diag"
	"ridl/internal/source"
)

// Document is the bundled frontend for .ridl schema documents.
type Document struct{}

// NewDocument creates the bundled document parser.
func NewDocument() *Document {
	return &Document{}
}

// errAbort stops the walk after a decode failure was reported.
var errAbort = errors.New("parser: document aborted")

// Parse decodes one document into a syntax tree. Spans come from the
// decoder's byte offsets, so they line up with the file set's normalized
// content.
func (p *Document) Parse(file *source.File, rep *diag.Reporter) (*ast.File, error) {
	d := &docParser{
		content: file.Content,
		file:    file.ID,
		rep:     rep,
		dec:     json.NewDecoder(bytes.NewReader(file.Content)),
	}
	out, err := d.parseFile()
	if err != nil {
		if errors.Is(err, errAbort) {
			return nil, diag.ErrReported
		}
		return nil, err
	}
	if rep.HasErrors() {
		return nil, diag.ErrReported
	}
	return out, nil
}

type docParser struct {
	content []byte
	file    source.FileID
	rep     *diag.Reporter
	dec     *json.Decoder
}

func (d *docParser) offset(v int64) uint32 {
	off, err := safecast.Conv[uint32](v)
	if err != nil {
		panic("parser: document offset overflow")
	}
	return off
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ',', ':':
		return true
	}
	return false
}

// span covers one token, with the separators before it trimmed off.
func (d *docParser) span(start, end int64) source.Span {
	for start < end && isSeparator(d.content[start]) {
		start++
	}
	return source.Span{File: d.file, Start: d.offset(start), End: d.offset(end)}
}

// pointSpan marks a single byte, clamped into the content.
func (d *docParser) pointSpan(off int64) source.Span {
	n := int64(len(d.content))
	if off >= n {
		off = n - 1
	}
	if off < 0 {
		off = 0
	}
	end := off + 1
	if end > n {
		end = n
	}
	return source.Span{File: d.file, Start: d.offset(off), End: d.offset(end)}
}

// fail reports a decode failure and aborts the walk.
func (d *docParser) fail(err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		d.rep.Error(diag.SynMalformedDocument, d.pointSpan(syn.Offset), syn.Error())
		return errAbort
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		d.rep.Error(diag.SynMalformedDocument, d.pointSpan(d.dec.InputOffset()), "unexpected end of document")
		return errAbort
	}
	d.rep.Error(diag.SynMalformedDocument, d.pointSpan(d.dec.InputOffset()), err.Error())
	return errAbort
}

func (d *docParser) next() (json.Token, source.Span, error) {
	start := d.dec.InputOffset()
	tok, err := d.dec.Token()
	if err != nil {
		return nil, source.Span{File: d.file}, d.fail(err)
	}
	return tok, d.span(start, d.dec.InputOffset()), nil
}

// skipValue consumes and discards the next value of any shape.
func (d *docParser) skipValue() error {
	tok, _, err := d.next()
	if err != nil {
		return err
	}
	return d.skipFrom(tok)
}

// skipFrom discards the remainder of a composite whose opening delimiter
// was already consumed. Primitives need no further reads.
func (d *docParser) skipFrom(tok json.Token) error {
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, _, err := d.next()
		if err != nil {
			return err
		}
		if dd, ok := t.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// object consumes one JSON object, dispatching every key to fn, which
// must consume the key's value. Duplicate keys are reported and their
// values skipped. Returns the span of the whole object; ok is false when
// the value was not an object (reported and consumed).
func (d *docParser) object(what string, fn func(key string, keySpan source.Span) error) (source.Span, bool, error) {
	tok, span, err := d.next()
	if err != nil {
		return span, false, err
	}
	if delim, isDelim := tok.(json.Delim); !isDelim || delim != '{' {
		d.rep.Error(diag.SynUnexpectedValue, span, fmt.Sprintf("expected %s object", what))
		return span, false, d.skipFrom(tok)
	}
	full, err := d.objectBody(span, fn)
	return full, err == nil, err
}

// objectBody walks the keys of an object whose opening brace was already
// consumed.
func (d *docParser) objectBody(openSpan source.Span, fn func(key string, keySpan source.Span) error) (source.Span, error) {
	seen := make(map[string]source.Span)
	for d.dec.More() {
		keyTok, keySpan, err := d.next()
		if err != nil {
			return openSpan, err
		}
		key, _ := keyTok.(string)
		if prev, dup := seen[key]; dup {
			d.rep.Error(diag.SynDuplicateField, keySpan, fmt.Sprintf("duplicate key %q", key)).
				Note(prev, "previous occurrence")
			if err := d.skipValue(); err != nil {
				return openSpan, err
			}
			continue
		}
		seen[key] = keySpan
		if err := fn(key, keySpan); err != nil {
			return openSpan, err
		}
	}
	_, endSpan, err := d.next()
	if err != nil {
		return openSpan, err
	}
	return source.Span{File: d.file, Start: openSpan.Start, End: endSpan.End}, nil
}

// array consumes one JSON array, calling fn before each element; fn must
// consume the element.
func (d *docParser) array(what string, fn func() error) error {
	tok, span, err := d.next()
	if err != nil {
		return err
	}
	if delim, isDelim := tok.(json.Delim); !isDelim || delim != '[' {
		d.rep.Error(diag.SynUnexpectedValue, span, fmt.Sprintf("expected %s array", what))
		return d.skipFrom(tok)
	}
	for d.dec.More() {
		if err := fn(); err != nil {
			return err
		}
	}
	_, _, err = d.next()
	return err
}

func (d *docParser) unknownKey(owner, key string, span source.Span) error {
	d.rep.Warning(diag.SynUnexpectedValue, span, fmt.Sprintf("unknown key %q in %s", key, owner))
	return d.skipValue()
}

func (d *docParser) parseString(what string) (string, source.Span, bool, error) {
	tok, span, err := d.next()
	if err != nil {
		return "", span, false, err
	}
	s, ok := tok.(string)
	if !ok {
		d.rep.Error(diag.SynUnexpectedValue, span, fmt.Sprintf("expected a string for %s", what))
		return "", span, false, d.skipFrom(tok)
	}
	return s, span, true, nil
}

func (d *docParser) parseBool(what string) (bool, bool, error) {
	tok, span, err := d.next()
	if err != nil {
		return false, false, err
	}
	b, ok := tok.(bool)
	if !ok {
		d.rep.Error(diag.SynUnexpectedValue, span, fmt.Sprintf("expected a boolean for %s", what))
		return false, false, d.skipFrom(tok)
	}
	return b, true, nil
}

func (d *docParser) parseStringList(what string) ([]string, error) {
	var out []string
	err := d.array(what, func() error {
		s, _, ok, err := d.parseString(what+" entry")
		if err != nil {
			return err
		}
		if ok {
			out = append(out, s)
		}
		return nil
	})
	return out, err
}

// parseValue reads one literal: a string, a number, or an array of
// literals.
func (d *docParser) parseValue() (ast.Value, bool, error) {
	tok, span, err := d.next()
	if err != nil {
		return ast.Value{}, false, err
	}
	switch v := tok.(type) {
	case string:
		return ast.Value{Span: span, Kind: ast.ValueString, Str: v}, true, nil
	case float64:
		return ast.Value{Span: span, Kind: ast.ValueNumber, Num: v}, true, nil
	case json.Delim:
		if v != '[' {
			d.rep.Error(diag.SynUnexpectedValue, span, "expected a literal value")
			return ast.Value{}, false, d.skipFrom(tok)
		}
		out := ast.Value{Span: span, Kind: ast.ValueArray}
		for d.dec.More() {
			el, ok, err := d.parseValue()
			if err != nil {
				return out, false, err
			}
			if ok {
				out.List = append(out.List, el)
			}
		}
		_, endSpan, err := d.next()
		if err != nil {
			return out, false, err
		}
		out.Span.End = endSpan.End
		return out, true, nil
	default:
		d.rep.Error(diag.SynUnexpectedValue, span, "expected a literal value")
		return ast.Value{}, false, nil
	}
}

func (d *docParser) parseFile() (*ast.File, error) {
	out := &ast.File{}
	span, ok, err := d.object("document", func(key string, keySpan source.Span) error {
		switch key {
		case "comment":
			lines, err := d.parseStringList("comment")
			out.Comment = lines
			return err
		case "attributes":
			return d.parseAttributes(&out.Attributes)
		case "uses":
			return d.parseUses(&out.Uses)
		case "decls":
			return d.parseDecls(&out.Decls)
		default:
			return d.unknownKey("document", key, keySpan)
		}
	})
	if err != nil {
		return nil, err
	}
	out.Span = span
	if !ok {
		return out, nil
	}
	return out, d.expectEnd()
}

// expectEnd flags trailing content after the document object.
func (d *docParser) expectEnd() error {
	start := d.dec.InputOffset()
	_, err := d.dec.Token()
	if err == nil {
		d.rep.Error(diag.SynMalformedDocument, d.span(start, d.dec.InputOffset()), "unexpected trailing content")
		return nil
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return d.fail(err)
}

func (d *docParser) parseUses(out *[]ast.UseDecl) error {
	return d.array("uses", func() error {
		var use ast.UseDecl
		var pkg string
		var pkgSeen bool
		span, ok, err := d.object("use", func(key string, keySpan source.Span) error {
			switch key {
			case "package":
				s, _, ok, err := d.parseString("package")
				if err != nil {
					return err
				}
				if ok {
					pkg, pkgSeen = s, true
				}
				return nil
			case "version":
				s, sp, ok, err := d.parseString("version")
				if err != nil {
					return err
				}
				if ok {
					use.Requirement, use.RequirementSpan = s, sp
				}
				return nil
			case "as":
				s, sp, ok, err := d.parseString("as")
				if err != nil {
					return err
				}
				if ok {
					use.Alias, use.AliasSpan = s, sp
				}
				return nil
			default:
				return d.unknownKey("use", key, keySpan)
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		use.Span = span
		if !pkgSeen || pkg == "" {
			d.rep.Error(diag.SynMissingField, span, "use clause missing a package")
			return nil
		}
		use.Package = strings.Split(pkg, ".")
		*out = append(*out, use)
		return nil
	})
}

func (d *docParser) parseAttributes(out *[]ast.Attribute) error {
	return d.array("attributes", func() error {
		var attr ast.Attribute
		var word, sel string
		var wordSeen, selSeen bool
		span, ok, err := d.object("attribute", func(key string, keySpan source.Span) error {
			switch key {
			case "word":
				s, _, ok, err := d.parseString("word")
				if err != nil {
					return err
				}
				if ok {
					word, wordSeen = s, true
				}
				return nil
			case "selection":
				s, _, ok, err := d.parseString("selection")
				if err != nil {
					return err
				}
				if ok {
					sel, selSeen = s, true
				}
				return nil
			case "words":
				return d.array("words", func() error {
					v, ok, err := d.parseValue()
					if err != nil {
						return err
					}
					if ok {
						attr.Words = append(attr.Words, v)
					}
					return nil
				})
			case "values":
				_, _, err := d.object("values", func(vkey string, vkeySpan source.Span) error {
					v, ok, err := d.parseValue()
					if err != nil {
						return err
					}
					if ok {
						attr.Values = append(attr.Values, ast.NamedValue{Span: vkeySpan, Key: vkey, Value: v})
					}
					return nil
				})
				return err
			default:
				return d.unknownKey("attribute", key, keySpan)
			}
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		attr.Span = span
		switch {
		case wordSeen && selSeen:
			d.rep.Error(diag.SynUnexpectedValue, span, "attribute cannot be both a word and a selection")
			return nil
		case wordSeen:
			attr.Kind = ast.AttrWord
			attr.Name = word
		case selSeen:
			attr.Kind = ast.AttrSelection
			attr.Name = sel
		default:
			d.rep.Error(diag.SynMissingField, span, "attribute missing a word or selection name")
			return nil
		}
		*out = append(*out, attr)
		return nil
	})
}
