package model

import "ridl/internal/source"

// File is the payload one loaded schema document contributes to its
// package: the file comment and the top level declarations.
type File[T any, P PackageRepr[P], E any] struct {
	Source  source.FileID
	Comment []string
	Decls   []Decl[T, P, E]
}

// ForEachDecl visits every declaration in the file depth first, parents
// before children. The walk stops when fn returns false.
func (f *File[T, P, E]) ForEachDecl(fn func(Decl[T, P, E]) bool) {
	walkDecls(f.Decls, fn)
}

func walkDecls[T any, P PackageRepr[P], E any](decls []Decl[T, P, E], fn func(Decl[T, P, E]) bool) bool {
	for _, d := range decls {
		if !fn(d) {
			return false
		}
		if !walkDecls(d.Decls(), fn) {
			return false
		}
	}
	return true
}
