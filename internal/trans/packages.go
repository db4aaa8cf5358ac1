package trans

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"ridl/internal/model"
)

// packages assigns every loaded package a flat output path. Versioned
// packages always carry a version segment; unversioned ones keep their
// bare path. Colliding assignments retry with progressively finer version
// detail, round by round, until everything is unique. The starting queue
// is sorted, so the whole assignment is deterministic.
func (e *Environment) packages() map[string]model.Package {
	type item struct {
		pkg   model.VersionedPackage
		level int
	}
	queue := make([]item, 0, len(e.files))
	for _, f := range e.sortedFiles() {
		queue = append(queue, item{pkg: f.pkg})
	}

	out := make(map[string]model.Package, len(queue))
	for len(queue) > 0 {
		groups := make(map[string][]item, len(queue))
		flats := make(map[string]model.Package, len(queue))
		order := make([]string, 0, len(queue))
		for ordinal, it := range queue {
			flat := flattenPackage(it.pkg, it.level, ordinal)
			key := flat.Key()
			if _, ok := groups[key]; !ok {
				order = append(order, key)
				flats[key] = flat
			}
			groups[key] = append(groups[key], it)
		}
		queue = queue[:0]
		for _, key := range order {
			members := groups[key]
			if len(members) == 1 {
				out[members[0].pkg.Key()] = flats[key]
				continue
			}
			for _, member := range members {
				queue = append(queue, item{pkg: member.pkg, level: member.level + 1})
			}
		}
	}
	return out
}

func flattenPackage(pkg model.VersionedPackage, level, ordinal int) model.Package {
	return pkg.AsPackage(func(v *semver.Version) string {
		return versionSegment(v, level, ordinal)
	})
}

// versionSegment renders one version as a package segment. Each level
// adds detail: the major alone, then minor, patch, prerelease, build
// metadata, and finally the queue ordinal, which cannot collide within a
// round.
func versionSegment(v *semver.Version, level, ordinal int) string {
	parts := []string{fmt.Sprintf("v%d", v.Major())}
	if level > 0 {
		parts = append(parts, strconv.FormatUint(v.Minor(), 10))
	}
	if level > 1 {
		parts = append(parts, strconv.FormatUint(v.Patch(), 10))
	}
	if level > 2 && v.Prerelease() != "" {
		for _, id := range strings.Split(v.Prerelease(), ".") {
			parts = append(parts, safeSegment(id))
		}
	}
	if level > 3 && v.Metadata() != "" {
		for _, id := range strings.Split(v.Metadata(), ".") {
			parts = append(parts, safeSegment(id))
		}
	}
	if level > 4 {
		parts = append(parts, strconv.Itoa(ordinal))
	}
	return strings.Join(parts, "_")
}

// safeSegment rewrites the characters a package segment cannot carry.
func safeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '.', '-', '~':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
