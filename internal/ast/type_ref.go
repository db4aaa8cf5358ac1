package ast

import (
	"fmt"
	"strings"

	"ridl/internal/source"
)

// TypeRefKind discriminates type references.
type TypeRefKind uint8

const (
	RefInvalid TypeRefKind = iota
	RefDouble
	RefFloat
	RefU32
	RefU64
	RefI32
	RefI64
	RefBoolean
	RefString
	RefDateTime
	RefBytes
	RefAny
	RefName
	RefArray
	RefMap
)

var refKindNames = [...]string{
	RefInvalid:  "invalid",
	RefDouble:   "double",
	RefFloat:    "float",
	RefU32:      "u32",
	RefU64:      "u64",
	RefI32:      "i32",
	RefI64:      "i64",
	RefBoolean:  "boolean",
	RefString:   "string",
	RefDateTime: "datetime",
	RefBytes:    "bytes",
	RefAny:      "any",
	RefName:     "name",
	RefArray:    "array",
	RefMap:      "map",
}

func (k TypeRefKind) String() string {
	if int(k) < len(refKindNames) {
		return refKindNames[k]
	}
	return fmt.Sprintf("TypeRefKind(%d)", uint8(k))
}

// ScalarRefKind maps a scalar spelling to its kind. Composite spellings
// (name, array, map) are not scalars and return false.
func ScalarRefKind(spelling string) (TypeRefKind, bool) {
	switch spelling {
	case "double":
		return RefDouble, true
	case "float":
		return RefFloat, true
	case "u32":
		return RefU32, true
	case "u64":
		return RefU64, true
	case "i32":
		return RefI32, true
	case "i64":
		return RefI64, true
	case "boolean":
		return RefBoolean, true
	case "string":
		return RefString, true
	case "datetime":
		return RefDateTime, true
	case "bytes":
		return RefBytes, true
	case "any":
		return RefAny, true
	}
	return RefInvalid, false
}

// TypeRef is a syntactic type use. RefName sets Prefix (optional use
// alias) and Path; RefArray sets Element; RefMap sets Key and Value.
type TypeRef struct {
	Span    source.Span
	Kind    TypeRefKind
	Prefix  string
	Path    []string
	Element *TypeRef
	Key     *TypeRef
	Value   *TypeRef
}

func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case RefName:
		if t.Prefix != "" {
			return t.Prefix + "::" + strings.Join(t.Path, "::")
		}
		return strings.Join(t.Path, "::")
	case RefArray:
		return "[" + t.Element.String() + "]"
	case RefMap:
		return "{" + t.Key.String() + ": " + t.Value.String() + "}"
	default:
		return t.Kind.String()
	}
}
