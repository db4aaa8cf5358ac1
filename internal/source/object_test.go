package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBytesObject(t *testing.T) {
	obj := NewBytesObject("", []byte("content"))
	if obj.Path() != "<bytes>" {
		t.Errorf("Expected default path \"<bytes>\", got %q", obj.Path())
	}

	content, err := obj.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(content) != "content" {
		t.Errorf("Expected %q, got %q", "content", string(content))
	}

	named := NewBytesObject("virtual.ridl", nil)
	if named.Path() != "virtual.ridl" {
		t.Errorf("Expected %q, got %q", "virtual.ridl", named.Path())
	}
}

func TestPathObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.ridl")
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	obj := NewPathObject(path)
	if obj.Path() != path {
		t.Errorf("Expected path %q, got %q", path, obj.Path())
	}

	content, err := obj.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(content) != "data" {
		t.Errorf("Expected %q, got %q", "data", string(content))
	}

	if _, err := NewPathObject(filepath.Join(dir, "missing.ridl")).Read(); err == nil {
		t.Error("Expected error for missing file")
	}
}
