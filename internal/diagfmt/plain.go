package diagfmt

import (
	"fmt"
	"io"

	"ridl/internal/diag"
	"ridl/internal/source"
)

// Plain renders one line per diagnostic with no color and no excerpts, for
// pipes and logs. Notes indent under their diagnostic.
func Plain(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, max int) {
	shown := items
	if max > 0 && len(items) > max {
		shown = items[:max]
	}
	for i := range shown {
		d := &shown[i]
		if loc, ok := locate(fs, d.Primary); ok {
			fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
				loc.path, loc.start.Line, loc.start.Col, d.Severity, d.Code.ID(), d.Message)
		} else {
			fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code.ID(), d.Message)
		}
		for _, n := range d.Notes {
			if loc, ok := locate(fs, n.Span); ok {
				fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", loc.path, loc.start.Line, loc.start.Col, n.Msg)
			} else {
				fmt.Fprintf(w, "  note: %s\n", n.Msg)
			}
		}
	}
	if rest := len(items) - len(shown); rest > 0 {
		fmt.Fprintf(w, "... and %d more\n", rest)
	}
}
