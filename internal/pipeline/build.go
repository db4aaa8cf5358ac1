package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ridl/internal/diag"
	"ridl/internal/ircache"
	"ridl/internal/irdump"
	"ridl/internal/manifest"
	"ridl/internal/model"
	"ridl/internal/parser"
	"ridl/internal/resolver"
	"ridl/internal/source"
	"ridl/internal/trans"
)

// Flavors select the output package representation.
const (
	FlavorDefault   = "default"
	FlavorVersioned = "versioned"
)

// Formats select the artifact encoding.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Request configures one manifest-driven build.
type Request struct {
	Manifest *manifest.Manifest
	// Flavor keeps versioned package identity ("default") or flattens
	// packages into disambiguated paths ("versioned").
	Flavor string
	Format string
	// Cache holds previously translated documents. Nil disables caching.
	Cache    *ircache.Cache
	Progress Sink
	// Diagnostics and FileSet are created on demand when nil. The result
	// carries whichever instances the build used.
	Diagnostics *diag.Context
	FileSet     *source.FileSet
}

// Result captures the build artifacts and timings.
type Result struct {
	Document    *irdump.Document
	OutputPath  string
	CacheHit    bool
	Packages    int
	SourceFiles int
	Symbols     int
	Timings     Timings
	Diagnostics *diag.Context
	FileSet     *source.FileSet
}

// NewEnvironment builds a translation environment wired to the manifest
// search paths, package prefix, keywords and naming policies.
func NewEnvironment(m *manifest.Manifest, dctx *diag.Context, fset *source.FileSet) *trans.Environment {
	return trans.NewEnvironment(dctx, fset, parser.NewDocument(), resolver.NewPaths(m.SearchPaths()), trans.Options{
		Prefix:         model.ParsePackage(m.Config.Project.PackagePrefix),
		Keywords:       m.Config.Keywords,
		FieldNaming:    m.FieldNaming(),
		EndpointNaming: m.EndpointNaming(),
	})
}

// Build loads every target the manifest names, translates the session
// under the requested flavor, and writes the document artifact. Schema
// problems accumulate in the diagnostics context; Build reports them
// through the returned error without rendering them.
func Build(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	m := req.Manifest
	if m == nil {
		return result, fmt.Errorf("missing manifest")
	}

	flavor := req.Flavor
	if flavor == "" {
		flavor = FlavorDefault
	}
	if flavor != FlavorDefault && flavor != FlavorVersioned {
		return result, fmt.Errorf("unsupported flavor: %s (supported: default, versioned)", flavor)
	}
	format := req.Format
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatMsgpack {
		return result, fmt.Errorf("unsupported format: %s (supported: json, msgpack)", format)
	}

	dctx := req.Diagnostics
	if dctx == nil {
		dctx = diag.NewContext(0)
	}
	fset := req.FileSet
	if fset == nil {
		fset = source.NewFileSet()
	}
	result.Diagnostics = dctx
	result.FileSet = fset

	env := NewEnvironment(m, dctx, fset)

	resolveStart := time.Now()
	emit(req.Progress, Event{Stage: StageResolve, Status: StatusWorking})
	for _, target := range m.Targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		emit(req.Progress, Event{Stage: StageResolve, Status: StatusWorking, Detail: target.String()})
		loaded, err := env.Import(target)
		if err != nil {
			emit(req.Progress, Event{Stage: StageResolve, Status: StatusError, Detail: target.String(), Err: err})
			return result, err
		}
		if loaded == nil {
			err := fmt.Errorf("no package found: %s", target)
			emit(req.Progress, Event{Stage: StageResolve, Status: StatusError, Detail: target.String(), Err: err})
			return result, err
		}
	}
	result.Packages = len(env.Packages())
	result.SourceFiles = fset.Len()
	result.Symbols = env.Types().Len()
	resolveElapsed := time.Since(resolveStart)
	result.Timings.Set(StageResolve, resolveElapsed)
	emit(req.Progress, Event{Stage: StageResolve, Status: StatusDone, Detail: fmt.Sprintf("%d packages", result.Packages), Elapsed: resolveElapsed})
	emit(req.Progress, Event{Stage: StageParse, Status: StatusDone, Detail: fmt.Sprintf("%d files", result.SourceFiles)})
	emit(req.Progress, Event{Stage: StageModel, Status: StatusDone, Detail: fmt.Sprintf("%d declarations", countDeclarations(env.Types()))})
	emit(req.Progress, Event{Stage: StageRegister, Status: StatusDone, Detail: fmt.Sprintf("%d symbols", result.Symbols)})

	if err := env.Verify(); err != nil {
		emit(req.Progress, Event{Stage: StageTranslate, Status: StatusError, Err: err})
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	cacheKey := buildCacheKey(m.Path, flavor, fset)
	doc, hit := loadCached(req.Cache, cacheKey)
	if hit {
		result.Document = doc
		result.CacheHit = true
		emit(req.Progress, Event{Stage: StageTranslate, Status: StatusDone, Detail: "cached"})
	} else {
		translateStart := time.Now()
		emit(req.Progress, Event{Stage: StageTranslate, Status: StatusWorking, Detail: flavor})
		doc, err := translate(env, flavor)
		if err != nil {
			emit(req.Progress, Event{Stage: StageTranslate, Status: StatusError, Err: err})
			return result, err
		}
		result.Document = doc
		translateElapsed := time.Since(translateStart)
		result.Timings.Set(StageTranslate, translateElapsed)
		emit(req.Progress, Event{Stage: StageTranslate, Status: StatusDone, Detail: flavor, Elapsed: translateElapsed})

		if req.Cache != nil && dctx.Len() == 0 {
			// A failed cache write never fails the build.
			_ = req.Cache.Store(cacheKey, doc)
		}
	}

	emitStart := time.Now()
	outPath := filepath.Join(m.OutputDir(), m.Config.Project.Name+artifactExt(format))
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusWorking, Detail: outPath})
	if err := writeArtifact(outPath, result.Document, format); err != nil {
		emit(req.Progress, Event{Stage: StageEmit, Status: StatusError, Detail: outPath, Err: err})
		return result, err
	}
	result.OutputPath = outPath
	emitElapsed := time.Since(emitStart)
	result.Timings.Set(StageEmit, emitElapsed)
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusDone, Detail: outPath, Elapsed: emitElapsed})

	return result, nil
}

func translate(env *trans.Environment, flavor string) (*irdump.Document, error) {
	if flavor == FlavorVersioned {
		out, err := env.TranslateVersioned()
		if err != nil {
			return nil, err
		}
		return irdump.Capture(out, flavor), nil
	}
	out, err := env.TranslateDefault()
	if err != nil {
		return nil, err
	}
	return irdump.Capture(out, flavor), nil
}

// buildCacheKey digests every loaded source plus the manifest itself, so
// both schema edits and option edits invalidate the entry.
func buildCacheKey(manifestPath, flavor string, fset *source.FileSet) string {
	digests := make([]string, 0, fset.Len()+1)
	if raw, err := os.ReadFile(manifestPath); err == nil {
		digests = append(digests, ircache.Digest(raw))
	}
	for i, n := 0, fset.Len(); i < n; i++ {
		sum := fset.Digest(source.FileID(i))
		digests = append(digests, hex.EncodeToString(sum[:]))
	}
	return ircache.Key(flavor, digests)
}

func loadCached(cache *ircache.Cache, key string) (*irdump.Document, bool) {
	if cache == nil {
		return nil, false
	}
	return cache.Load(key)
}

func writeArtifact(path string, doc *irdump.Document, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	if format == FormatMsgpack {
		err = doc.EncodeMsgpack(f)
	} else {
		err = doc.EncodeJSON(f)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

func artifactExt(format string) string {
	if format == FormatMsgpack {
		return ".mp"
	}
	return ".json"
}

// countDeclarations counts registered declarations, leaving out the
// sub type and variant entries that ride along with their owners.
func countDeclarations(reg *trans.CoreRegistry) int {
	n := 0
	for _, entry := range reg.Entries() {
		switch entry.Reg.Kind {
		case model.RegSubType, model.RegEnumVariant:
		default:
			n++
		}
	}
	return n
}
