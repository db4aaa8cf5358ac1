package diag

import (
	"ridl/internal/source"
)

// Note is a secondary span attached to a diagnostic, adding context such as
// "first declared here".
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is the central record produced by every pipeline phase.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Symbol records a declaration position for tooling (symbol listings,
// editor integration). Symbols travel alongside diagnostics but never
// affect error state.
type Symbol struct {
	Kind string
	Span source.Span
	Name string
}
