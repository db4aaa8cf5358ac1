package ast

import (
	"fmt"

	"ridl/internal/source"
)

// AttributeKind discriminates attribute forms.
type AttributeKind uint8

const (
	// AttrWord is a bare marker: #[word].
	AttrWord AttributeKind = iota
	// AttrSelection is a named group: #[name(word, key: value)].
	AttrSelection
)

// Attribute is one attribute attached to a file or declaration.
type Attribute struct {
	Span   source.Span
	Kind   AttributeKind
	Name   string
	Words  []Value
	Values []NamedValue
}

// NamedValue is one key: value entry inside a selection.
type NamedValue struct {
	Span  source.Span
	Key   string
	Value Value
}

// ValueKind discriminates literal values.
type ValueKind uint8

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueIdentifier
	ValueArray
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueIdentifier:
		return "identifier"
	case ValueArray:
		return "array"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Value is a literal: a string, a number, an identifier, or an array of
// values.
type Value struct {
	Span source.Span
	Kind ValueKind
	Str  string
	Num  float64
	List []Value
}
