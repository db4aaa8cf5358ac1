package trans

import "ridl/internal/model"

// TranslatedFile is one schema file in the output flavor.
type TranslatedFile[P2 model.PackageRepr[P2]] struct {
	Package P2
	File    model.File[*model.Type[P2], P2, model.EnumType]
}

// Translated is the result of one translation pass: every file in package
// order, plus the registry of declarations the output actually reaches.
type Translated[P2 model.PackageRepr[P2]] struct {
	prefix model.Package
	decls  *model.Registry[*model.Type[P2], P2, model.EnumType]
	files  []TranslatedFile[P2]
}

// Prefix returns the configured output package prefix.
func (t *Translated[P2]) Prefix() model.Package {
	return t.prefix
}

// Files returns the translated files in package order.
func (t *Translated[P2]) Files() []TranslatedFile[P2] {
	return t.files
}

// Decls returns every reachable declaration in first-reference order.
func (t *Translated[P2]) Decls() []model.RegEntry[*model.Type[P2], P2, model.EnumType] {
	return t.decls.Entries()
}

// DeclFor looks up a reachable declaration by name key.
func (t *Translated[P2]) DeclFor(key string) (model.Reg[*model.Type[P2], P2, model.EnumType], bool) {
	return t.decls.GetKey(key)
}
