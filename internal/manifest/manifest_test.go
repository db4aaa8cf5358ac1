package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadFileComplete(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[project]
name = "vehicles"
paths = ["schemas", "vendor/schemas"]
output = "gen"
packages = ["io.cars@^1.0", "io.common"]
package_prefix = "gen"

[keywords]
type = "type_"

[naming]
field = "upper_camel"
endpoint = "lower_camel"
`)

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m.Config.Project.Name != "vehicles" {
		t.Errorf("Expected name vehicles, got %q", m.Config.Project.Name)
	}
	if m.Root != dir {
		t.Errorf("Expected root %q, got %q", dir, m.Root)
	}
	if len(m.Targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(m.Targets))
	}
	if got := m.Targets[0].Key(); got != "io.cars@^1.0" {
		t.Errorf("Expected target io.cars@^1.0, got %q", got)
	}
	if got := m.Targets[1].Key(); got != "io.common@*" {
		t.Errorf("Expected target io.common@*, got %q", got)
	}
	if got := m.Config.Keywords["type"]; got != "type_" {
		t.Errorf("Expected keyword rewrite type_, got %q", got)
	}
	if m.FieldNaming() == nil || m.FieldNaming().Name() != "upper_camel" {
		t.Errorf("Expected upper_camel field naming, got %v", m.FieldNaming())
	}
	if m.EndpointNaming() == nil || m.EndpointNaming().Name() != "lower_camel" {
		t.Errorf("Expected lower_camel endpoint naming, got %v", m.EndpointNaming())
	}
	paths := m.SearchPaths()
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "schemas") {
		t.Errorf("Expected search paths under %q, got %v", dir, paths)
	}
	if got := m.OutputDir(); got != filepath.Join(dir, "gen") {
		t.Errorf("Expected output dir under %q, got %q", dir, got)
	}
}

func TestLoadFileDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[project]\nname = \"minimal\"\n")

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(m.Targets) != 0 {
		t.Errorf("Expected no targets, got %d", len(m.Targets))
	}
	paths := m.SearchPaths()
	if len(paths) != 1 || paths[0] != dir {
		t.Errorf("Expected the manifest directory as the search path, got %v", paths)
	}
	if got := m.OutputDir(); got != filepath.Join(dir, "out") {
		t.Errorf("Expected default output dir, got %q", got)
	}
	if m.FieldNaming() != nil {
		t.Errorf("Expected pass-through field naming, got %v", m.FieldNaming())
	}
}

func TestLoadFileErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"missing project", "[keywords]\n", "missing [project]"},
		{"missing name", "[project]\npaths = [\".\"]\n", "missing [project].name"},
		{"unknown key", "[project]\nname = \"x\"\ncolour = \"red\"\n", "unknown key"},
		{"bad requirement", "[project]\nname = \"x\"\npackages = [\"io.cars@bananas\"]\n", "bad version requirement"},
		{"empty package name", "[project]\nname = \"x\"\npackages = [\"@1.0\"]\n", "empty package name"},
		{"bad field naming", "[project]\nname = \"x\"\n[naming]\nfield = \"kebab\"\n", "unknown naming policy"},
		{"bad endpoint naming", "[project]\nname = \"x\"\n[naming]\nendpoint = \"kebab\"\n", "unknown naming policy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.content)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatalf("Expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error containing %q, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeManifest(t, dir, "[project]\nname = \"x\"\n")

	path, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatalf("Expected to find a manifest from %q", nested)
	}
	if path != want {
		t.Errorf("Expected %q, got %q", want, path)
	}
}

func TestLoadNotFound(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || m != nil {
		t.Errorf("Expected no manifest, got ok=%v manifest=%v", ok, m)
	}
}

func TestLoadFindsNested(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeManifest(t, dir, "[project]\nname = \"x\"\npackages = [\"io.cars@1.0.0\"]\n")

	m, ok, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatalf("Expected to load the manifest above %q", nested)
	}
	if m.Root != dir {
		t.Errorf("Expected root %q, got %q", dir, m.Root)
	}
	if len(m.Targets) != 1 || m.Targets[0].Key() != "io.cars@1.0.0" {
		t.Errorf("Expected the io.cars target, got %v", m.Targets)
	}
}
