package model

import (
	"fmt"

	"ridl/internal/source"
)

// TypeKind discriminates the type payload.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeDouble
	TypeFloat
	TypeNumber
	TypeBoolean
	TypeString
	TypeDateTime
	TypeBytes
	TypeAny
	TypeName
	TypeArray
	TypeMap
)

var typeKindNames = [...]string{
	TypeInvalid:  "invalid",
	TypeDouble:   "double",
	TypeFloat:    "float",
	TypeNumber:   "number",
	TypeBoolean:  "boolean",
	TypeString:   "string",
	TypeDateTime: "datetime",
	TypeBytes:    "bytes",
	TypeAny:      "any",
	TypeName:     "name",
	TypeArray:    "array",
	TypeMap:      "map",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", uint8(k))
}

// NumberKind narrows a TypeNumber to its wire width and signedness.
type NumberKind uint8

const (
	NumberU32 NumberKind = iota
	NumberU64
	NumberI32
	NumberI64
)

var numberKindNames = [...]string{
	NumberU32: "u32",
	NumberU64: "u64",
	NumberI32: "i32",
	NumberI64: "i64",
}

func (k NumberKind) String() string {
	if int(k) < len(numberKindNames) {
		return numberKindNames[k]
	}
	return fmt.Sprintf("NumberKind(%d)", uint8(k))
}

// Type is a use of a type. Exactly the fields implied by Kind are set:
// Number for TypeNumber, Ref for TypeName, Inner for TypeArray, Key and
// Value for TypeMap.
type Type[P PackageRepr[P]] struct {
	Kind   TypeKind
	Number NumberKind
	Ref    *Name[P]
	Inner  *Type[P]
	Key    *Type[P]
	Value  *Type[P]
	Span   source.Span
}

func DoubleType[P PackageRepr[P]](span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeDouble, Span: span}
}

func FloatType[P PackageRepr[P]](span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeFloat, Span: span}
}

func NumberType[P PackageRepr[P]](kind NumberKind, span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeNumber, Number: kind, Span: span}
}

func BooleanType[P PackageRepr[P]](span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeBoolean, Span: span}
}

func StringType[P PackageRepr[P]](span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeString, Span: span}
}

func DateTimeType[P PackageRepr[P]](span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeDateTime, Span: span}
}

func BytesType[P PackageRepr[P]](span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeBytes, Span: span}
}

func AnyType[P PackageRepr[P]](span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeAny, Span: span}
}

func NameType[P PackageRepr[P]](name Name[P], span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeName, Ref: &name, Span: span}
}

func ArrayType[P PackageRepr[P]](inner *Type[P], span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeArray, Inner: inner, Span: span}
}

func MapType[P PackageRepr[P]](key, value *Type[P], span source.Span) *Type[P] {
	return &Type[P]{Kind: TypeMap, Key: key, Value: value, Span: span}
}

func (t *Type[P]) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypeNumber:
		return t.Number.String()
	case TypeName:
		return t.Ref.String()
	case TypeArray:
		return "[" + t.Inner.String() + "]"
	case TypeMap:
		return "{" + t.Key.String() + ": " + t.Value.String() + "}"
	default:
		return t.Kind.String()
	}
}

// EnumTypeKind discriminates the value domain of an enum.
type EnumTypeKind uint8

const (
	EnumString EnumTypeKind = iota
	EnumNumber
)

func (k EnumTypeKind) String() string {
	switch k {
	case EnumString:
		return "string"
	case EnumNumber:
		return "number"
	}
	return fmt.Sprintf("EnumTypeKind(%d)", uint8(k))
}

// EnumType is the declared value domain of an enum body. Number is set for
// EnumNumber only.
type EnumType struct {
	Kind   EnumTypeKind
	Number NumberKind
}

func StringEnumType() EnumType {
	return EnumType{Kind: EnumString}
}

func NumberEnumType(kind NumberKind) EnumType {
	return EnumType{Kind: EnumNumber, Number: kind}
}

func (e EnumType) String() string {
	if e.Kind == EnumNumber {
		return e.Number.String()
	}
	return e.Kind.String()
}
