// Package naming converts identifiers between the spelling conventions a
// schema can select through field_naming and endpoint_naming.
//
// Identifiers are split into lowercase sections on underscores, dashes,
// and lower-to-upper case boundaries, then rejoined by the policy.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Policy rewrites an identifier into one spelling convention.
type Policy interface {
	Convert(ident string) string
	Name() string
}

// ByName maps one of the four accepted spellings to its policy.
// lower_snake is the source convention and maps to a nil policy, meaning
// identifiers pass through unchanged. Unknown spellings return false.
func ByName(name string) (Policy, bool) {
	switch name {
	case "upper_camel":
		return UpperCamel(), true
	case "lower_camel":
		return LowerCamel(), true
	case "upper_snake":
		return UpperSnake(), true
	case "lower_snake":
		return nil, true
	}
	return nil, false
}

// UpperCamel renders sections as TitleCased and joined: foo_bar to FooBar.
func UpperCamel() Policy { return upperCamel{} }

// LowerCamel renders the first section as is and the rest TitleCased:
// foo_bar to fooBar.
func LowerCamel() Policy { return lowerCamel{} }

// UpperSnake renders sections uppercased and underscore-joined: foo_bar
// to FOO_BAR.
func UpperSnake() Policy { return upperSnake{} }

// LowerSnake renders sections lowercased and underscore-joined. It is the
// identity on conventionally spelled input.
func LowerSnake() Policy { return lowerSnake{} }

type upperCamel struct{}

func (upperCamel) Name() string { return "upper_camel" }

func (upperCamel) Convert(ident string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, part := range split(ident) {
		b.WriteString(title.String(part))
	}
	return b.String()
}

type lowerCamel struct{}

func (lowerCamel) Name() string { return "lower_camel" }

func (lowerCamel) Convert(ident string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for i, part := range split(ident) {
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(title.String(part))
	}
	return b.String()
}

type upperSnake struct{}

func (upperSnake) Name() string { return "upper_snake" }

func (upperSnake) Convert(ident string) string {
	upper := cases.Upper(language.Und)
	parts := split(ident)
	for i, part := range parts {
		parts[i] = upper.String(part)
	}
	return strings.Join(parts, "_")
}

type lowerSnake struct{}

func (lowerSnake) Name() string { return "lower_snake" }

func (lowerSnake) Convert(ident string) string {
	return strings.Join(split(ident), "_")
}

// split cuts an identifier into lowercase sections.
func split(ident string) []string {
	var parts []string
	var buf []rune
	flush := func() {
		if len(buf) > 0 {
			parts = append(parts, strings.ToLower(string(buf)))
			buf = buf[:0]
		}
	}
	prevLower := false
	for _, r := range ident {
		switch {
		case r == '_' || r == '-':
			flush()
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				flush()
			}
			buf = append(buf, r)
			prevLower = false
		default:
			buf = append(buf, r)
			prevLower = true
		}
	}
	flush()
	return parts
}
