package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"ridl/internal/model"
	"ridl/internal/source"
)

// Ext is the file extension schema documents use on disk.
const Ext = ".ridl"

// Paths resolves packages against a list of root directories. The package
// io.engines maps to io/engines.ridl for the unversioned source and to
// io/engines-<version>.ridl for versioned ones, relative to each root.
// Roots are searched in order and all matches are collected.
type Paths struct {
	roots []string
}

// NewPaths creates a path resolver over the given root directories.
func NewPaths(roots []string) *Paths {
	return &Paths{roots: roots}
}

// Resolve finds every candidate for the requirement across all roots. An
// unversioned source only satisfies the match-any requirement.
func (p *Paths) Resolve(required model.RequiredPackage) ([]Resolved, error) {
	parts := required.Package.Parts()
	if len(parts) == 0 {
		return nil, nil
	}
	dirParts := parts[:len(parts)-1]
	base := parts[len(parts)-1]

	var out []Resolved
	for _, root := range p.roots {
		dir := joinParts(root, dirParts)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			version, ok := parseStem(entry.Name(), base)
			if !ok {
				continue
			}
			if !required.Range.Matches(version) {
				continue
			}
			out = append(out, Resolved{
				Version: version,
				Object:  source.NewPathObject(filepath.Join(dir, entry.Name())),
			})
		}
	}
	sortResolved(out)
	return out, nil
}

// ResolvePackages walks every root under the prefix and lists each schema
// document found, ordered by package and version.
func (p *Paths) ResolvePackages(prefix model.Package) ([]ResolvedPackage, error) {
	var out []ResolvedPackage
	for _, root := range p.roots {
		dir := joinParts(root, prefix.Parts())
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			stem, version, ok := splitStem(d.Name())
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			parts := append([]string{}, prefix.Parts()...)
			if relDir := filepath.ToSlash(filepath.Dir(rel)); relDir != "." {
				parts = append(parts, strings.Split(relDir, "/")...)
			}
			parts = append(parts, stem)
			out = append(out, ResolvedPackage{
				Package: model.NewPackage(parts...),
				Resolved: Resolved{
					Version: version,
					Object:  source.NewPathObject(path),
				},
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}
	slices.SortStableFunc(out, func(a, b ResolvedPackage) int {
		if c := a.Package.Compare(b.Package); c != 0 {
			return c
		}
		return compareVersions(a.Version, b.Version)
	})
	return out, nil
}

func joinParts(root string, parts []string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, root)
	elems = append(elems, parts...)
	return filepath.Join(elems...)
}

// parseStem matches a file name against the expected base. The bare stem
// is the unversioned source; base-<version> carries one. Anything else,
// including an unparseable version suffix, is not a candidate.
func parseStem(filename, base string) (*semver.Version, bool) {
	stem, found := strings.CutSuffix(filename, Ext)
	if !found {
		return nil, false
	}
	if stem == base {
		return nil, true
	}
	rest, found := strings.CutPrefix(stem, base+"-")
	if !found {
		return nil, false
	}
	v, err := semver.StrictNewVersion(rest)
	if err != nil {
		return nil, false
	}
	return v, true
}

// splitStem separates a file name into its package stem and version when
// no expected base is known. Dashes inside the stem are kept by trying
// every split point until a suffix parses as a version.
func splitStem(filename string) (string, *semver.Version, bool) {
	stem, found := strings.CutSuffix(filename, Ext)
	if !found {
		return "", nil, false
	}
	idx := strings.Index(stem, "-")
	for idx >= 0 {
		if v, err := semver.StrictNewVersion(stem[idx+1:]); err == nil {
			return stem[:idx], v, true
		}
		next := strings.Index(stem[idx+1:], "-")
		if next < 0 {
			break
		}
		idx += 1 + next
	}
	return stem, nil, true
}

func sortResolved(out []Resolved) {
	slices.SortStableFunc(out, func(a, b Resolved) int {
		return compareVersions(a.Version, b.Version)
	})
}

func compareVersions(a, b *semver.Version) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(b)
}
