package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ridl/internal/diag"
	"ridl/internal/source"
)

var (
	errorStyle    = color.New(color.FgRed, color.Bold)
	warningStyle  = color.New(color.FgYellow, color.Bold)
	infoStyle     = color.New(color.FgCyan, color.Bold)
	positionStyle = color.New(color.Bold)
	gutterStyle   = color.New(color.FgBlue)
	noteStyle     = color.New(color.FgCyan)
)

type painter struct {
	enabled bool
}

func (p painter) paint(st *color.Color, s string) string {
	if !p.enabled {
		return s
	}
	return st.Sprint(s)
}

// Pretty renders diagnostics in a human-readable form. Each item prints as
// <path>:<line>:<col>: <SEVERITY> <CODE>: <message>, followed by the source
// line with an underline, followed by its notes. Items are expected sorted
// (Context.Sort) beforehand.
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := painter{enabled: opts.Color}
	shown := items
	if opts.Max > 0 && len(items) > opts.Max {
		shown = items[:opts.Max]
	}
	for i := range shown {
		prettyOne(w, &shown[i], fs, opts, p)
	}
	if rest := len(items) - len(shown); rest > 0 {
		fmt.Fprintf(w, "... and %d more\n", rest)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p painter) {
	st := severityStyle(d.Severity)
	head := p.paint(st, d.Severity.String()) + " " + p.paint(st, d.Code.ID())
	if loc, ok := locate(fs, d.Primary); ok {
		pos := fmt.Sprintf("%s:%d:%d", displayPath(loc.path, opts.PathMode), loc.start.Line, loc.start.Col)
		fmt.Fprintf(w, "%s: %s: %s\n", p.paint(positionStyle, pos), head, d.Message)
		writeExcerpt(w, fs, d.Primary, loc, st, p)
	} else {
		fmt.Fprintf(w, "%s: %s\n", head, d.Message)
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		if loc, ok := locate(fs, n.Span); ok {
			pos := fmt.Sprintf("%s:%d:%d", displayPath(loc.path, opts.PathMode), loc.start.Line, loc.start.Col)
			fmt.Fprintf(w, "  %s %s: %s\n", p.paint(noteStyle, "note:"), pos, n.Msg)
			writeExcerpt(w, fs, n.Span, loc, noteStyle, p)
		} else {
			fmt.Fprintf(w, "  %s %s\n", p.paint(noteStyle, "note:"), n.Msg)
		}
	}
}

// writeExcerpt prints the first line the span touches with a caret marker
// underneath. Spans reaching past the line underline to its end.
func writeExcerpt(w io.Writer, fs *source.FileSet, span source.Span, loc location, st *color.Color, p painter) {
	file := fs.Get(span.File)
	line := file.GetLine(loc.start.Line)
	if line == "" && loc.start.Col > 1 {
		return
	}

	col := int(loc.start.Col)
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	prefix := line[:col-1]

	marked := line[col-1:]
	if loc.end.Line == loc.start.Line && int(loc.end.Col) >= col && int(loc.end.Col)-1 <= len(line) {
		marked = line[col-1 : loc.end.Col-1]
	}
	width := runewidth.StringWidth(marked)
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}

	gutter := fmt.Sprintf("%4d | ", loc.start.Line)
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
	fmt.Fprintf(w, "%s%s\n", p.paint(gutterStyle, gutter), line)
	fmt.Fprintf(w, "%s%s%s\n", p.paint(gutterStyle, "     | "), pad, p.paint(st, marker))
}

type location struct {
	path  string
	start source.LineCol
	end   source.LineCol
}

func locate(fs *source.FileSet, span source.Span) (location, bool) {
	if fs == nil || int(span.File) >= fs.Len() {
		return location{}, false
	}
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	return location{path: file.Path, start: start, end: end}, true
}

func severityStyle(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorStyle
	case diag.SevWarning:
		return warningStyle
	default:
		return infoStyle
	}
}
