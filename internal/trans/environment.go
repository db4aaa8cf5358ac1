package trans

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"ridl/internal/ast"
	"ridl/internal/diag"
	"ridl/internal/model"
	"ridl/internal/naming"
	"ridl/internal/parser"
	"ridl/internal/resolver"
	"ridl/internal/source"
)

// Options tune an environment beyond its collaborators.
type Options struct {
	// Prefix is prepended to every flattened output package.
	Prefix model.Package
	// Keywords rewrites reserved name and package segments into safe
	// spellings.
	Keywords map[string]string
	// PackageNaming recases package segments on load.
	PackageNaming naming.Policy
	// FieldNaming is the default field convention. A file overrides it
	// with a field_naming attribute.
	FieldNaming naming.Policy
	// EndpointNaming is the default endpoint convention. A file
	// overrides it with an endpoint_naming attribute.
	EndpointNaming naming.Policy
}

// Environment is one loading session. Imports feed files and declarations
// in; translation consumes the whole session exactly once.
type Environment struct {
	ctx      *diag.Context
	fset     *source.FileSet
	parser   parser.Parser
	resolver resolver.Resolver

	prefix         model.Package
	keywords       map[string]string
	packageNaming  naming.Policy
	fieldNaming    naming.Policy
	endpointNaming naming.Policy

	// visited caches requirement outcomes, nil for a requirement no
	// candidate satisfied.
	visited map[string]*model.VersionedPackage
	// loads caches load outcomes per package, so distinct requirements
	// landing on the same package parse it once.
	loads    map[string]error
	files    map[string]*loadedFile
	types    *CoreRegistry
	consumed bool
}

type loadedFile struct {
	pkg  model.VersionedPackage
	file CoreFile
}

// NewEnvironment creates an empty session over the given collaborators.
func NewEnvironment(
	ctx *diag.Context,
	fset *source.FileSet,
	p parser.Parser,
	r resolver.Resolver,
	opts Options,
) *Environment {
	return &Environment{
		ctx:            ctx,
		fset:           fset,
		parser:         p,
		resolver:       r,
		prefix:         opts.Prefix,
		keywords:       opts.Keywords,
		packageNaming:  opts.PackageNaming,
		fieldNaming:    opts.FieldNaming,
		endpointNaming: opts.EndpointNaming,
		visited:        make(map[string]*model.VersionedPackage),
		loads:          make(map[string]error),
		files:          make(map[string]*loadedFile),
		types:          model.NewRegistry[CoreType, model.VersionedPackage, model.EnumType](),
	}
}

// Types returns the shared declaration registry.
func (e *Environment) Types() *CoreRegistry {
	return e.types
}

// Packages returns every loaded package in deterministic order.
func (e *Environment) Packages() []model.VersionedPackage {
	files := e.sortedFiles()
	out := make([]model.VersionedPackage, 0, len(files))
	for _, f := range files {
		out = append(out, f.pkg)
	}
	return out
}

// Import resolves a requirement, loads the best candidate, and returns
// its versioned package. A nil result with a nil error means no candidate
// matched; that outcome caches like a successful one, so a requirement is
// resolved at most once per session.
func (e *Environment) Import(required model.RequiredPackage) (*model.VersionedPackage, error) {
	e.ensure()
	key := required.Key()
	if cached, ok := e.visited[key]; ok {
		return cached, nil
	}
	candidates, err := e.resolver.Resolve(required)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", required, err)
	}
	if len(candidates) == 0 {
		e.visited[key] = nil
		return nil, nil
	}
	chosen := candidates[len(candidates)-1]
	pkg := model.NewVersionedPackage(e.canonicalPackage(required.Package), chosen.Version)
	if err := e.loadOnce(chosen.Object, pkg); err != nil {
		return nil, err
	}
	result := &pkg
	e.visited[key] = result
	return result, nil
}

// loadOnce parses each named package at most once per session, whatever
// the outcome. A requirement landing on an already-failed package replays
// the original failure.
func (e *Environment) loadOnce(obj source.Object, pkg model.VersionedPackage) error {
	key := pkg.Key()
	if outcome, cached := e.loads[key]; cached {
		return outcome
	}
	err := e.load(obj, pkg)
	e.loads[key] = err
	return err
}

// ImportFile loads one schema document from disk into the anonymous
// package, optionally under a version.
func (e *Environment) ImportFile(path string, version *semver.Version) (model.VersionedPackage, error) {
	return e.ImportObject(source.NewPathObject(path), version)
}

// ImportObject loads one schema source directly, outside any requirement.
func (e *Environment) ImportObject(obj source.Object, version *semver.Version) (model.VersionedPackage, error) {
	e.ensure()
	pkg := model.NewVersionedPackage(model.Package{}, version)
	if err := e.load(obj, pkg); err != nil {
		return model.VersionedPackage{}, err
	}
	return pkg, nil
}

// Verify reports whether everything imported so far held up, without
// translating anything.
func (e *Environment) Verify() error {
	return e.ctx.Err()
}

func (e *Environment) ensure() {
	if e.consumed {
		panic("trans: environment used after translation")
	}
}

// canonicalPackage applies the session package conventions. Every package
// entering the environment passes through here, so registered names and
// prefix bindings always agree.
func (e *Environment) canonicalPackage(pkg model.Package) model.Package {
	if e.packageNaming != nil {
		pkg = pkg.WithNaming(e.packageNaming.Convert)
	}
	return pkg.WithReplacements(e.keywords)
}

func (e *Environment) load(obj source.Object, pkg model.VersionedPackage) error {
	id, err := e.fset.AddObject(obj)
	if err != nil {
		return fmt.Errorf("load %s: %w", obj.Path(), err)
	}
	file, err := e.loadFile(e.fset.Get(id), pkg)
	if err != nil {
		return err
	}
	return e.processFile(pkg, file)
}

// loadFile parses and models one file under its own reporter. Uses are
// imported first so that the scope can resolve prefixes; file attributes
// are folded before modeling so conventions apply to every declaration.
func (e *Environment) loadFile(file *source.File, pkg model.VersionedPackage) (CoreFile, error) {
	rep := e.ctx.Reporter()
	astFile, err := e.parser.Parse(file, rep)
	if err != nil {
		rep.Flush()
		return CoreFile{}, err
	}

	prefixes := e.processUses(astFile, rep)

	attrs := buildAttributes(astFile.Attributes, rep)
	fieldNaming := e.fieldNaming
	if policy, ok := takeNaming(attrs, "field_naming", rep); ok {
		fieldNaming = policy
	}
	endpointNaming := e.endpointNaming
	if policy, ok := takeNaming(attrs, "endpoint_naming", rep); ok {
		endpointNaming = policy
	}
	for _, span := range attrs.Unused() {
		rep.Error(diag.RegUnknownAttribute, span, "unknown attribute")
	}

	scope := NewScope(pkg, prefixes, e.keywords, fieldNaming, endpointNaming)
	modeled := newBuilder(scope, rep, file.ID).File(astFile)
	if err := rep.Close(); err != nil {
		return CoreFile{}, err
	}
	return modeled, nil
}

// processUses imports every use clause and builds the file's prefix
// table. A failing clause reports at its own span and leaves the prefix
// unbound; the remaining clauses still process.
func (e *Environment) processUses(file *ast.File, rep *diag.Reporter) map[string]model.VersionedPackage {
	prefixes := make(map[string]model.VersionedPackage, len(file.Uses))
	aliasSpans := make(map[string]source.Span, len(file.Uses))
	for _, use := range file.Uses {
		rng := model.AnyRange()
		if use.Requirement != "" {
			parsed, err := model.ParseRange(use.Requirement)
			if err != nil {
				rep.Error(diag.ImpBadRequirement, use.RequirementSpan, err.Error())
				continue
			}
			rng = parsed
		}
		required := model.NewRequiredPackage(model.NewPackage(use.Package...), rng)
		result, err := e.Import(required)
		if err != nil {
			if !errors.Is(err, diag.ErrReported) {
				rep.Error(diag.ImpLoadFailed, use.Span, err.Error())
			}
			continue
		}
		if result == nil {
			rep.Error(diag.ImpNoPackageFound, use.Span,
				fmt.Sprintf("no package found: %s", required))
			continue
		}

		alias := use.Alias
		aliasSpan := use.AliasSpan
		if alias == "" {
			alias = use.Package[len(use.Package)-1]
			aliasSpan = use.Span
		}
		if prev, dup := aliasSpans[alias]; dup {
			rep.Error(diag.ImpDuplicateAlias, aliasSpan,
				fmt.Sprintf("alias %q already in use", alias)).
				Note(prev, "previous use of this alias")
			continue
		}
		aliasSpans[alias] = aliasSpan
		prefixes[alias] = *result
	}
	return prefixes
}

// processFile registers a modeled file. The first file of a package wins;
// later loads of the same package drop silently since requirements may
// legitimately resolve to one package more than once.
func (e *Environment) processFile(pkg model.VersionedPackage, file CoreFile) error {
	key := pkg.Key()
	if _, ok := e.files[key]; ok {
		return nil
	}
	e.files[key] = &loadedFile{pkg: pkg, file: file}

	rep := e.ctx.Reporter()
	for _, decl := range file.Decls {
		for _, reg := range decl.ToReg() {
			if existing, added := e.types.Put(reg); !added {
				rep.Error(diag.RegConflictingDecl, reg.Span(),
					fmt.Sprintf("conflicting declaration of %s", reg.Name())).
					Note(existing.Span(), "previous declaration")
				continue
			}
			rep.Symbol(reg.Kind.String(), reg.Span(), reg.Name().String())
		}
	}
	return rep.Close()
}

func (e *Environment) sortedFiles() []*loadedFile {
	out := make([]*loadedFile, 0, len(e.files))
	for _, f := range e.files {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b *loadedFile) int {
		if c := a.pkg.Compare(b.pkg); c != 0 {
			return c
		}
		// semver comparison ignores build metadata; the key does not
		return strings.Compare(a.pkg.Key(), b.pkg.Key())
	})
	return out
}

// buildAttributes folds syntax attributes into the consumable set,
// reporting duplicates.
func buildAttributes(attrs []ast.Attribute, rep *diag.Reporter) *model.Attributes {
	out := model.NewAttributes()
	for _, a := range attrs {
		switch a.Kind {
		case ast.AttrWord:
			if prev, dup := out.AddWord(a.Name, a.Span); dup {
				rep.Error(diag.RegDuplicateAttr, a.Span,
					fmt.Sprintf("attribute %q already set", a.Name)).
					Note(prev, "previous attribute")
			}
		case ast.AttrSelection:
			sel := model.NewSelection(a.Span)
			for _, w := range a.Words {
				sel.AddWord(buildValue(w))
			}
			for _, nv := range a.Values {
				if prev, dup := sel.AddValue(nv.Key, buildValue(nv.Value)); dup {
					rep.Error(diag.RegDuplicateAttr, nv.Span,
						fmt.Sprintf("attribute value %q already set", nv.Key)).
						Note(prev, "previous value")
				}
			}
			if prev, dup := out.AddSelection(a.Name, sel); dup {
				rep.Error(diag.RegDuplicateAttr, a.Span,
					fmt.Sprintf("attribute %q already set", a.Name)).
					Note(prev, "previous attribute")
			}
		}
	}
	return out
}

// takeNaming consumes a naming selection such as field_naming("upper_camel")
// and resolves its policy. The boolean reports whether the attribute was
// present and valid; the policy itself may be nil, since lower_snake means
// pass-through.
func takeNaming(attrs *model.Attributes, name string, rep *diag.Reporter) (naming.Policy, bool) {
	sel, ok := attrs.TakeSelection(name)
	if !ok {
		return nil, false
	}
	defer func() {
		for _, span := range sel.Unused() {
			rep.Error(diag.RegUnknownAttribute, span, "unknown attribute")
		}
	}()
	word, ok := sel.TakeWord()
	if !ok {
		rep.Error(diag.RegBadNamingPolicy, sel.Span, "expected argument")
		return nil, false
	}
	spelling, ok := word.AsString()
	if !ok {
		rep.Error(diag.RegBadNamingPolicy, word.Span, "illegal value")
		return nil, false
	}
	policy, ok := naming.ByName(spelling)
	if !ok {
		rep.Error(diag.RegBadNamingPolicy, word.Span, "illegal value")
		return nil, false
	}
	return policy, true
}
