// Package resolver locates schema sources for required packages.
//
// A resolver turns a package requirement into candidate sources without
// reading any of them; the loader decides which candidate to take and when
// to read it. The bundled Paths resolver maps packages onto directory
// trees; Empty resolves nothing and serves single-file invocations.
package resolver

import (
	"github.com/Masterminds/semver/v3"

	"ridl/internal/model"
	"ridl/internal/source"
)

// Resolved is one candidate source for a requirement. A nil version means
// the source carries no version of its own.
type Resolved struct {
	Version *semver.Version
	Object  source.Object
}

// ResolvedPackage pairs a discovered package with its source, produced by
// prefix listing.
type ResolvedPackage struct {
	Package model.Package
	Resolved
}

// Resolver produces candidate sources for package requirements.
type Resolver interface {
	// Resolve returns every candidate matching the requirement in
	// ascending version order, unversioned candidates first. The last
	// entry is the best match. No candidates and no error means the
	// package does not exist.
	Resolve(required model.RequiredPackage) ([]Resolved, error)

	// ResolvePackages lists every package under the given prefix in
	// deterministic order.
	ResolvePackages(prefix model.Package) ([]ResolvedPackage, error)
}

// Empty is the resolver with nothing in it.
type Empty struct{}

func (Empty) Resolve(model.RequiredPackage) ([]Resolved, error) {
	return nil, nil
}

func (Empty) ResolvePackages(model.Package) ([]ResolvedPackage, error) {
	return nil, nil
}
