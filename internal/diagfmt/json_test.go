package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"ridl/internal/diag"
	"ridl/internal/source"
)

func jsonFixture(t *testing.T) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("vehicles.ridl", []byte("first line\nsecond line\n"))

	d := diag.New(
		diag.SevError,
		diag.RegConflictingDecl,
		source.Span{File: fileID, Start: 11, End: 17},
		"conflicting declaration of Car",
	)
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 5}, "previous declaration")
	return fs, []diag.Diagnostic{d}
}

func TestJSONOutput(t *testing.T) {
	fs, items := jsonFixture(t)

	var buf bytes.Buffer
	err := JSON(&buf, items, fs, JSONOpts{IncludePositions: true, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, got %+v", out)
	}

	d := out.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("Expected ERROR severity, got %q", d.Severity)
	}
	if d.Code != "REG3001" {
		t.Errorf("Expected REG3001, got %q", d.Code)
	}
	if d.Location.File != "vehicles.ridl" {
		t.Errorf("Expected the file path, got %q", d.Location.File)
	}
	if d.Location.StartByte != 11 || d.Location.EndByte != 17 {
		t.Errorf("Expected byte range 11..17, got %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Errorf("Expected line 2 col 1, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "previous declaration" {
		t.Fatalf("Expected the note, got %+v", d.Notes)
	}
	if d.Notes[0].Location.StartLine != 1 {
		t.Errorf("Expected the note on line 1, got %d", d.Notes[0].Location.StartLine)
	}
}

func TestJSONOmitsPositionsAndNotes(t *testing.T) {
	fs, items := jsonFixture(t)

	out := BuildDiagnosticsOutput(items, fs, JSONOpts{})
	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Location.StartCol != 0 {
		t.Errorf("Expected no positions, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 0 {
		t.Errorf("Expected no notes, got %+v", d.Notes)
	}
}

func TestJSONMax(t *testing.T) {
	fs, items := jsonFixture(t)
	items = append(items, items[0])

	out := BuildDiagnosticsOutput(items, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Errorf("Expected truncation to one item, got %d", out.Count)
	}
}
