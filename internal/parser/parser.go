// Package parser turns schema documents into syntax trees.
//
// The Parser interface is the seam for external frontends: anything that
// can produce an ast.File with real spans plugs in here. The bundled
// implementation reads .ridl documents, a JSON encoding of the syntax
// tree that plays the same role a protobuf descriptor set does.
package parser

import (
	"ridl/internal/ast"
	"ridl/internal/diag"
	"ridl/internal/source"
)

// Parser produces a syntax tree from one loaded file. Syntax problems are
// reported through rep positioned inside the file; when any of them were
// errors the returned error is diag.ErrReported and the tree is nil.
type Parser interface {
	Parse(file *source.File, rep *diag.Reporter) (*ast.File, error)
}
