package model

import (
	"fmt"
	"strconv"

	"ridl/internal/source"
)

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

// Value is a literal appearing in an attribute or as an enum variant
// ordinal. Str holds strings and identifiers, Num holds numbers, List
// holds array elements.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	List []Value
	Span source.Span
}

func StringValue(s string, span source.Span) Value {
	return Value{Kind: ValueString, Str: s, Span: span}
}

func NumberValue(n float64, span source.Span) Value {
	return Value{Kind: ValueNumber, Num: n, Span: span}
}

func IdentifierValue(s string, span source.Span) Value {
	return Value{Kind: ValueIdentifier, Str: s, Span: span}
}

func ArrayValue(list []Value, span source.Span) Value {
	return Value{Kind: ValueArray, List: list, Span: span}
}

// AsString returns the textual payload of a string or identifier value.
func (v Value) AsString() (string, bool) {
	if v.Kind == ValueString || v.Kind == ValueIdentifier {
		return v.Str, true
	}
	return "", false
}

// AsNumber returns the numeric payload of a number value.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind == ValueNumber {
		return v.Num, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValueIdentifier:
		return v.Str
	case ValueArray:
		out := "["
		for i, el := range v.List {
			if i > 0 {
				out += ", "
			}
			out += el.String()
		}
		return out + "]"
	}
	return "<invalid>"
}
