package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("vehicles.ridl", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("vehicles.ridl")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	id2 := fs.Add("vehicles.ridl", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists = fs.GetLatest("vehicles.ridl")
	if !exists {
		t.Error("Expected file to exist after second Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// Older IDs stay valid; the set is append-only.
	file1 := fs.Get(id1)
	if string(file1.Content) != "hello world" {
		t.Errorf("Expected first file content to be 'hello world', got '%s'", string(file1.Content))
	}

	file2 := fs.Get(id2)
	if string(file2.Content) != "hello universe" {
		t.Errorf("Expected second file content to be 'hello universe', got '%s'", string(file2.Content))
	}

	if file1.Path != "vehicles.ridl" || file2.Path != "vehicles.ridl" {
		t.Error("Expected both files to have the same path")
	}

	if fs.Len() != 2 {
		t.Errorf("Expected Len to be 2, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.ridl", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Errorf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}

	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}

	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestNormalizeContent(t *testing.T) {
	content, flags := normalizeContent([]byte("\xEF\xBB\xBFa\r\nb\r\n"))
	if string(content) != "a\nb\n" {
		t.Errorf("Expected normalized content %q, got %q", "a\nb\n", string(content))
	}
	if flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
	if flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}

	content, flags = normalizeContent([]byte("plain\n"))
	if string(content) != "plain\n" {
		t.Errorf("Expected content unchanged, got %q", string(content))
	}
	if flags != 0 {
		t.Errorf("Expected no flags, got %v", flags)
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()

	// α takes 2 bytes; columns are byte-based.
	content := []byte("α\n")
	id := fs.AddVirtual("vehicles.ridl", content)

	span := Span{File: id, Start: 0, End: 1}
	start, end := fs.Resolve(span)

	expectedStart := LineCol{Line: 1, Col: 1}
	expectedEnd := LineCol{Line: 1, Col: 2}

	if start != expectedStart {
		t.Errorf("Expected start %+v, got %+v", expectedStart, start)
	}

	if end != expectedEnd {
		t.Errorf("Expected end %+v, got %+v", expectedEnd, end)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.ridl", []byte("first\nsecond\nthird"))
	file := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tc := range cases {
		if got := file.GetLine(tc.line); got != tc.want {
			t.Errorf("GetLine(%d): expected %q, got %q", tc.line, tc.want, got)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.AddVirtual("empty.ridl", []byte{})
	file1 := fs.Get(id1)
	if len(file1.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for empty file, got length %d", len(file1.LineIdx))
	}

	id2 := fs.AddVirtual("no_newlines.ridl", []byte("hello"))
	file2 := fs.Get(id2)
	if len(file2.LineIdx) != 0 {
		t.Errorf("Expected empty LineIdx for file without newlines, got length %d", len(file2.LineIdx))
	}

	id3 := fs.AddVirtual("only_newline.ridl", []byte("\n"))
	file3 := fs.Get(id3)
	if len(file3.LineIdx) != 1 || file3.LineIdx[0] != 0 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", file3.LineIdx)
	}
}

func TestLoadNormalizes(t *testing.T) {
	fs := NewFileSet()
	dir := t.TempDir()
	path := filepath.Join(dir, "bom_crlf.ridl")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", string(file.Content))
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
	if file.LineIdx[0] != 1 || file.LineIdx[1] != 3 {
		t.Errorf("Expected LineIdx [1 3], got %v", file.LineIdx)
	}
}

func TestDigestDiffers(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.AddVirtual("a.ridl", []byte("one"))
	id2 := fs.AddVirtual("b.ridl", []byte("two"))
	if fs.Digest(id1) == fs.Digest(id2) {
		t.Error("Expected different digests for different content")
	}
	id3 := fs.AddVirtual("c.ridl", []byte("one"))
	if fs.Digest(id1) != fs.Digest(id3) {
		t.Error("Expected equal digests for equal content")
	}
}
