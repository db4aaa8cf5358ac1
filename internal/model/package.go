// Package model holds the flavored intermediate representation for ridl
// schemas.
//
// Every IR node is generic over a flavor triple [T, P, E]: the type
// representation, the package representation, and the enum-type
// representation. Loading produces the core flavor (types as *Type,
// packages as VersionedPackage); translation rewrites the triple for an
// output dialect without touching the node structure. The Registry is the
// append-only symbol table shared by loading and translation.
package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// PackageRepr constrains the package representation of a flavor. A package
// representation provides a stable identity key, a total order for
// deterministic output, and a display form.
type PackageRepr[P any] interface {
	Key() string
	Compare(P) int
	fmt.Stringer
}

// Package is a flat, dot-separated package path. The zero value is the
// empty package, which is valid throughout.
type Package struct {
	parts []string
}

// NewPackage creates a package from path segments.
func NewPackage(parts ...string) Package {
	return Package{parts: parts}
}

// ParsePackage splits a dotted package path. An empty string yields the
// empty package.
func ParsePackage(s string) Package {
	if s == "" {
		return Package{}
	}
	return Package{parts: strings.Split(s, ".")}
}

// Parts returns the path segments. Do not modify the returned slice.
func (p Package) Parts() []string {
	return p.parts
}

func (p Package) IsEmpty() bool {
	return len(p.parts) == 0
}

// Join returns a new package with one more trailing segment.
func (p Package) Join(part string) Package {
	parts := make([]string, 0, len(p.parts)+1)
	parts = append(parts, p.parts...)
	parts = append(parts, part)
	return Package{parts: parts}
}

// Key returns the stable identity of the package.
func (p Package) Key() string {
	return strings.Join(p.parts, ".")
}

func (p Package) String() string {
	return p.Key()
}

// Compare orders packages lexicographically by segment.
func (p Package) Compare(o Package) int {
	return slices.Compare(p.parts, o.parts)
}

// Equal reports segment-wise equality.
func (p Package) Equal(o Package) bool {
	return slices.Equal(p.parts, o.parts)
}

// WithReplacements rewrites every segment found in the keyword table. The
// table maps reserved words to their safe spellings.
func (p Package) WithReplacements(keywords map[string]string) Package {
	if len(keywords) == 0 || len(p.parts) == 0 {
		return p
	}
	parts := make([]string, len(p.parts))
	changed := false
	for i, part := range p.parts {
		if repl, ok := keywords[part]; ok {
			parts[i] = repl
			changed = true
			continue
		}
		parts[i] = part
	}
	if !changed {
		return p
	}
	return Package{parts: parts}
}

// WithNaming applies a segment naming function to every part.
func (p Package) WithNaming(naming func(string) string) Package {
	if naming == nil || len(p.parts) == 0 {
		return p
	}
	parts := make([]string, len(p.parts))
	for i, part := range p.parts {
		parts[i] = naming(part)
	}
	return Package{parts: parts}
}

// VersionedPackage is a package path together with an optional exact
// version. A nil version means the package was loaded without one.
type VersionedPackage struct {
	Package Package
	Version *semver.Version
}

// NewVersionedPackage pairs a package with a version. Version may be nil.
func NewVersionedPackage(pkg Package, version *semver.Version) VersionedPackage {
	return VersionedPackage{Package: pkg, Version: version}
}

// Key embeds the exact version so that two versions of one package stay
// distinct registry keys.
func (p VersionedPackage) Key() string {
	if p.Version == nil {
		return p.Package.Key()
	}
	return p.Package.Key() + "@" + p.Version.String()
}

func (p VersionedPackage) String() string {
	if p.Version == nil {
		return p.Package.String()
	}
	return p.Package.String() + "@" + p.Version.String()
}

// Compare orders by package path first, then by version with the
// unversioned entry first.
func (p VersionedPackage) Compare(o VersionedPackage) int {
	if c := p.Package.Compare(o.Package); c != 0 {
		return c
	}
	switch {
	case p.Version == nil && o.Version == nil:
		return 0
	case p.Version == nil:
		return -1
	case o.Version == nil:
		return 1
	}
	return p.Version.Compare(o.Version)
}

// WithReplacements rewrites the package path through the keyword table,
// keeping the version.
func (p VersionedPackage) WithReplacements(keywords map[string]string) VersionedPackage {
	return VersionedPackage{Package: p.Package.WithReplacements(keywords), Version: p.Version}
}

// WithNaming applies a segment naming function to the package path.
func (p VersionedPackage) WithNaming(naming func(string) string) VersionedPackage {
	return VersionedPackage{Package: p.Package.WithNaming(naming), Version: p.Version}
}

// AsPackage flattens into a plain package, appending one version segment
// rendered by versionFn when a version is present.
func (p VersionedPackage) AsPackage(versionFn func(*semver.Version) string) Package {
	parts := make([]string, 0, len(p.Package.parts)+1)
	parts = append(parts, p.Package.parts...)
	if p.Version != nil {
		parts = append(parts, versionFn(p.Version))
	}
	return Package{parts: parts}
}

// Range is a semver requirement. The zero value matches any version,
// including none at all.
type Range struct {
	constraints *semver.Constraints
	raw         string
}

// AnyRange returns the requirement that matches everything.
func AnyRange() Range {
	return Range{}
}

// ParseRange parses a semver requirement such as "^1.0" or ">=2.1 <3".
// Empty input and "*" yield the match-any range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return Range{}, nil
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return Range{}, fmt.Errorf("bad version requirement: %w", err)
	}
	return Range{constraints: c, raw: s}, nil
}

// IsAny reports whether the range matches any version.
func (r Range) IsAny() bool {
	return r.constraints == nil
}

// Matches checks a version against the requirement. A nil version only
// matches the any-range.
func (r Range) Matches(v *semver.Version) bool {
	if r.constraints == nil {
		return true
	}
	if v == nil {
		return false
	}
	return r.constraints.Check(v)
}

func (r Range) String() string {
	if r.constraints == nil {
		return "*"
	}
	return r.raw
}

// RequiredPackage names a package to import together with the acceptable
// version range.
type RequiredPackage struct {
	Package Package
	Range   Range
}

// NewRequiredPackage pairs a package with a requirement.
func NewRequiredPackage(pkg Package, rng Range) RequiredPackage {
	return RequiredPackage{Package: pkg, Range: rng}
}

// Key identifies the requirement: the same package under two different
// ranges resolves independently.
func (r RequiredPackage) Key() string {
	return r.Package.Key() + "@" + r.Range.String()
}

func (r RequiredPackage) String() string {
	if r.Range.IsAny() {
		return r.Package.String()
	}
	return r.Package.String() + "@" + r.Range.String()
}
