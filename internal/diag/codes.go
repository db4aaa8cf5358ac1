package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Schema document syntax
	SynInfo              Code = 1000
	SynMalformedDocument Code = 1001
	SynUnexpectedValue   Code = 1002
	SynMissingField      Code = 1003
	SynDuplicateField    Code = 1004
	SynBadTypeRef        Code = 1005
	SynBadVersion        Code = 1006

	// Imports and package resolution
	ImpInfo           Code = 2000
	ImpNoPackageFound Code = 2001
	ImpDuplicateAlias Code = 2002
	ImpBadRequirement Code = 2003
	ImpResolveFailed  Code = 2004
	ImpLoadFailed     Code = 2005

	// Registration and modeling
	RegInfo              Code = 3000
	RegConflictingDecl   Code = 3001
	RegUnknownAttribute  Code = 3002
	RegBadNamingPolicy   Code = 3003
	RegUnknownPrefix     Code = 3004
	RegDuplicateVariant  Code = 3005
	RegBadEnumValue      Code = 3006
	RegDuplicateField    Code = 3007
	RegDuplicateEndpoint Code = 3008
	RegBadEnumType       Code = 3009
	RegDuplicateAttr     Code = 3010

	// Translation
	TraInfo        Code = 4000
	TraMissingName Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	SynInfo:              "Syntax information",
	SynMalformedDocument: "Malformed schema document",
	SynUnexpectedValue:   "Unexpected value",
	SynMissingField:      "Missing required field",
	SynDuplicateField:    "Duplicate document field",
	SynBadTypeRef:        "Malformed type reference",
	SynBadVersion:        "Malformed version",
	ImpInfo:              "Import information",
	ImpNoPackageFound:    "No package found",
	ImpDuplicateAlias:    "Duplicate import alias",
	ImpBadRequirement:    "Malformed version requirement",
	ImpResolveFailed:     "Package resolution failed",
	ImpLoadFailed:        "Package load failed",
	RegInfo:              "Registration information",
	RegConflictingDecl:   "Conflicting declaration",
	RegUnknownAttribute:  "Unknown attribute",
	RegBadNamingPolicy:   "Unknown naming policy",
	RegUnknownPrefix:     "Unknown import prefix",
	RegDuplicateVariant:  "Duplicate enum variant",
	RegBadEnumValue:      "Invalid enum variant value",
	RegDuplicateField:    "Duplicate field",
	RegDuplicateEndpoint: "Duplicate endpoint",
	RegBadEnumType:       "Invalid enum type",
	RegDuplicateAttr:     "Duplicate attribute",
	TraInfo:              "Translation information",
	TraMissingName:       "Name does not exist",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IMP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("REG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TRA%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
