// Package diag defines the diagnostic model shared by all compiler phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by
//     the document parser, the import resolver, registration, and
//     translation.
//   - Offer a Context that accumulates findings for a whole session and a
//     scoped Reporter that phases use to batch and deliver them.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary span: the canonical source.Span pointing to the issue.
//   - Notes: optional secondary spans/messages for additional context.
//
// Symbol is a sibling record for tooling: it marks where a declaration
// lives without affecting error state.
//
// # Emitting diagnostics
//
// Phases open a Reporter from the shared Context, report entries, and close
// it:
//
//	rep := ctx.Reporter()
//	defer rep.Close()
//	rep.Error(diag.RegConflictingDecl, span, "conflicting declaration").
//		Note(firstSpan, "first declared here")
//
// Close (or Flush) guarantees every buffered entry reaches the Context
// exactly once. Close returns ErrReported when the batch carried errors;
// warnings and infos never convert into a failure.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
