package trans

import (
	"errors"
	"fmt"

	"ridl/internal/diag"
	"ridl/internal/model"
)

// Context drives one translation pass over the environment's registry.
// It implements model.Translator from the core flavor into a target that
// keeps the type structure and maps packages through pkgFn. Every name
// reference is checked against the registry and queued on first sight;
// drain then materializes the queue until it empties.
type Context[P2 model.PackageRepr[P2]] struct {
	types *CoreRegistry
	rep   *diag.Reporter
	pkgFn func(model.VersionedPackage) (P2, error)
	seen  map[string]struct{}
	queue []CoreName
	decls *model.Registry[*model.Type[P2], P2, model.EnumType]
	moved bool
}

func newContext[P2 model.PackageRepr[P2]](
	types *CoreRegistry,
	rep *diag.Reporter,
	pkgFn func(model.VersionedPackage) (P2, error),
) *Context[P2] {
	return &Context[P2]{
		types: types,
		rep:   rep,
		pkgFn: pkgFn,
		seen:  make(map[string]struct{}),
		decls: model.NewRegistry[*model.Type[P2], P2, model.EnumType](),
	}
}

func (c *Context[P2]) ensure() {
	if c.moved {
		panic("trans: translation context used after its output moved")
	}
}

// TranslatePackage maps one package into the target flavor.
func (c *Context[P2]) TranslatePackage(pkg model.VersionedPackage) (P2, error) {
	return c.pkgFn(pkg)
}

// TranslateLocalName carries a name across, mapping only its package.
func (c *Context[P2]) TranslateLocalName(n CoreName) (model.Name[P2], error) {
	pkg, err := c.pkgFn(n.Package)
	if err != nil {
		var zero model.Name[P2]
		return zero, err
	}
	return model.Name[P2]{Prefix: n.Prefix, Package: pkg, Parts: n.Parts}, nil
}

// TranslateEnumType keeps the enum domain as is.
func (c *Context[P2]) TranslateEnumType(e model.EnumType) (model.EnumType, error) {
	return e, nil
}

// Visit queues a referenced name for materialization. Each name queues at
// most once per pass.
func (c *Context[P2]) Visit(n CoreName) error {
	c.ensure()
	key := n.Key()
	if _, ok := c.seen[key]; ok {
		return nil
	}
	c.seen[key] = struct{}{}
	c.queue = append(c.queue, n.WithoutPrefix())
	return nil
}

// TranslateType rewrites one type tree, resolving name leaves against the
// registry.
func (c *Context[P2]) TranslateType(ty CoreType) (*model.Type[P2], error) {
	c.ensure()
	if ty == nil {
		return nil, nil
	}
	switch ty.Kind {
	case model.TypeName:
		return c.nameType(ty)
	case model.TypeArray:
		inner, err := c.TranslateType(ty.Inner)
		if err != nil {
			return nil, err
		}
		return model.ArrayType(inner, ty.Span), nil
	case model.TypeMap:
		key, err := c.TranslateType(ty.Key)
		if err != nil {
			return nil, err
		}
		value, err := c.TranslateType(ty.Value)
		if err != nil {
			return nil, err
		}
		return model.MapType(key, value, ty.Span), nil
	}
	return &model.Type[P2]{Kind: ty.Kind, Number: ty.Number, Span: ty.Span}, nil
}

func (c *Context[P2]) nameType(ty CoreType) (*model.Type[P2], error) {
	name := *ty.Ref
	if _, ok := c.types.Get(name); !ok {
		c.rep.Error(diag.TraMissingName, ty.Span,
			fmt.Sprintf("`%s` does not exist", name))
		return nil, diag.ErrReported
	}
	if err := c.Visit(name); err != nil {
		return nil, err
	}
	translated, err := c.TranslateLocalName(name)
	if err != nil {
		return nil, err
	}
	return model.NameType(translated, ty.Span), nil
}

// TranslateField carries one field across.
func (c *Context[P2]) TranslateField(f model.Field[CoreType]) (model.Field[*model.Type[P2]], error) {
	ty, err := c.TranslateType(f.Ty)
	if err != nil {
		var zero model.Field[*model.Type[P2]]
		return zero, err
	}
	return model.Field[*model.Type[P2]]{
		Ident:    f.Ident,
		WireName: f.WireName,
		Optional: f.Optional,
		Ty:       ty,
		Comment:  f.Comment,
		Span:     f.Span,
	}, nil
}

// TranslateEndpoint carries one endpoint across.
func (c *Context[P2]) TranslateEndpoint(ep model.Endpoint[CoreType]) (model.Endpoint[*model.Type[P2]], error) {
	var zero model.Endpoint[*model.Type[P2]]
	out := model.Endpoint[*model.Type[P2]]{
		Ident:   ep.Ident,
		Name:    ep.Name,
		Comment: ep.Comment,
		Span:    ep.Span,
	}
	for _, arg := range ep.Arguments {
		ch, err := c.channel(arg.Channel)
		if err != nil {
			return zero, err
		}
		out.Arguments = append(out.Arguments, model.Argument[*model.Type[P2]]{
			Ident:   arg.Ident,
			Channel: ch,
			Span:    arg.Span,
		})
	}
	if ep.Response != nil {
		ch, err := c.channel(*ep.Response)
		if err != nil {
			return zero, err
		}
		out.Response = &ch
	}
	return out, nil
}

func (c *Context[P2]) channel(ch model.Channel[CoreType]) (model.Channel[*model.Type[P2]], error) {
	ty, err := c.TranslateType(ch.Ty)
	if err != nil {
		var zero model.Channel[*model.Type[P2]]
		return zero, err
	}
	return model.Channel[*model.Type[P2]]{Ty: ty, Streaming: ch.Streaming}, nil
}

// drain materializes every queued declaration, following the references
// each translation adds until the queue empties. A declaration whose
// translation already reported skips; the rest still materialize.
func (c *Context[P2]) drain(
	lift model.Lift[CoreType, model.VersionedPackage, model.EnumType, *model.Type[P2], P2, model.EnumType],
) error {
	c.ensure()
	for len(c.queue) > 0 {
		name := c.queue[0]
		c.queue = c.queue[1:]
		reg, ok := c.types.Get(name)
		if !ok {
			panic("trans: queued name missing from the registry")
		}
		translated, err := lift.Reg(reg)
		if err != nil {
			if errors.Is(err, diag.ErrReported) {
				continue
			}
			return err
		}
		if _, added := c.decls.Put(translated); !added {
			panic("trans: output package collision in the declaration cache")
		}
	}
	return nil
}

// intoTranslated hands the accumulated output over. The context keeps no
// access to it and must not be used afterwards.
func (c *Context[P2]) intoTranslated(prefix model.Package, files []TranslatedFile[P2]) *Translated[P2] {
	c.ensure()
	c.moved = true
	out := &Translated[P2]{prefix: prefix, decls: c.decls, files: files}
	c.decls = nil
	return out
}
