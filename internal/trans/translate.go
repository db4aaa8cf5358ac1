package trans

import (
	"errors"
	"fmt"

	"ridl/internal/diag"
	"ridl/internal/model"
)

// TranslateDefault consumes the environment, keeping versioned packages
// as they are.
func (e *Environment) TranslateDefault() (*Translated[model.VersionedPackage], error) {
	return translateEnv(e, func(pkg model.VersionedPackage) (model.VersionedPackage, error) {
		return pkg, nil
	})
}

// TranslateVersioned consumes the environment, flattening every package
// into a plain path. Versions become trailing segments, collisions
// disambiguate deterministically, and the configured prefix lands in
// front of everything.
func (e *Environment) TranslateVersioned() (*Translated[model.Package], error) {
	mapping := e.packages()
	prefix := e.prefix
	return translateEnv(e, func(pkg model.VersionedPackage) (model.Package, error) {
		flat, ok := mapping[pkg.Key()]
		if !ok {
			return model.Package{}, fmt.Errorf("no output package for %s", pkg)
		}
		return withPrefix(prefix, flat), nil
	})
}

func withPrefix(prefix, pkg model.Package) model.Package {
	if prefix.IsEmpty() {
		return pkg
	}
	parts := make([]string, 0, len(prefix.Parts())+len(pkg.Parts()))
	parts = append(parts, prefix.Parts()...)
	parts = append(parts, pkg.Parts()...)
	return model.NewPackage(parts...)
}

func (e *Environment) consume() {
	if e.consumed {
		panic("trans: environment already translated")
	}
	e.consumed = true
}

// translateEnv runs one pass. Files translate in package order; every
// referenced declaration follows in first-reference order. A declaration
// that fails to translate reports and drops so the rest of the output
// still materializes; the pass as a whole fails when anything reported.
func translateEnv[P2 model.PackageRepr[P2]](
	e *Environment,
	pkgFn func(model.VersionedPackage) (P2, error),
) (*Translated[P2], error) {
	e.consume()
	rep := e.ctx.Reporter()
	c := newContext(e.types, rep, pkgFn)
	lift := model.NewLift[
		CoreType, model.VersionedPackage, model.EnumType,
		*model.Type[P2], P2, model.EnumType,
	](c)

	var files []TranslatedFile[P2]
	for _, entry := range e.sortedFiles() {
		pkg, err := pkgFn(entry.pkg)
		if err != nil {
			return nil, err
		}
		out := model.File[*model.Type[P2], P2, model.EnumType]{
			Source:  entry.file.Source,
			Comment: entry.file.Comment,
		}
		for _, d := range entry.file.Decls {
			td, err := lift.Decl(d)
			if err != nil {
				if errors.Is(err, diag.ErrReported) {
					continue
				}
				return nil, err
			}
			out.Decls = append(out.Decls, td)
		}
		files = append(files, TranslatedFile[P2]{Package: pkg, File: out})
	}

	if err := c.drain(lift); err != nil {
		return nil, err
	}
	translated := c.intoTranslated(e.prefix, files)
	if err := rep.Close(); err != nil {
		return nil, err
	}
	return translated, nil
}
