// Package manifest loads ridl.toml, the build manifest that names the
// schema packages to compile and the conventions to compile them under.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ridl/internal/model"
	"ridl/internal/naming"
)

// FileName is the manifest file a build looks for.
const FileName = "ridl.toml"

// Manifest is a loaded and validated build manifest. Relative paths inside
// the config resolve against Root.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Targets holds the parsed [project].packages entries.
	Targets []model.RequiredPackage
}

type Config struct {
	Project  ProjectConfig     `toml:"project"`
	Keywords map[string]string `toml:"keywords"`
	Naming   NamingConfig      `toml:"naming"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
	// Paths lists the directories the path resolver searches for schema
	// sources. Defaults to the manifest directory.
	Paths  []string `toml:"paths"`
	Output string   `toml:"output"`
	// Packages lists the build roots as "name" or "name@requirement"
	// entries, e.g. "io.cars@^1.0".
	Packages []string `toml:"packages"`
	// PackagePrefix is prepended to every flattened output package.
	PackagePrefix string `toml:"package_prefix"`
}

type NamingConfig struct {
	Field    string `toml:"field"`
	Endpoint string `toml:"endpoint"`
}

// Find walks from startDir up toward the filesystem root and reports the
// first ridl.toml it sees.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the manifest governing startDir. The boolean
// reports whether a manifest was found at all.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile decodes and validates a single manifest file.
func LoadFile(path string) (*Manifest, error) {
	cfg, err := decodeConfig(path)
	if err != nil {
		return nil, err
	}
	targets, err := parseTargets(path, cfg.Project.Packages)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &Manifest{
		Path:    abs,
		Root:    filepath.Dir(abs),
		Config:  cfg,
		Targets: targets,
	}, nil
}

func decodeConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, keys[0].String())
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [project].name", path)
	}
	if cfg.Naming.Field != "" {
		if _, ok := naming.ByName(cfg.Naming.Field); !ok {
			return Config{}, fmt.Errorf("%s: unknown naming policy %q in [naming].field", path, cfg.Naming.Field)
		}
	}
	if cfg.Naming.Endpoint != "" {
		if _, ok := naming.ByName(cfg.Naming.Endpoint); !ok {
			return Config{}, fmt.Errorf("%s: unknown naming policy %q in [naming].endpoint", path, cfg.Naming.Endpoint)
		}
	}
	if len(cfg.Project.Paths) == 0 {
		cfg.Project.Paths = []string{"."}
	}
	if strings.TrimSpace(cfg.Project.Output) == "" {
		cfg.Project.Output = "out"
	}
	return cfg, nil
}

func parseTargets(path string, entries []string) ([]model.RequiredPackage, error) {
	targets := make([]model.RequiredPackage, 0, len(entries))
	for _, entry := range entries {
		name, req := entry, ""
		if at := strings.LastIndex(entry, "@"); at >= 0 {
			name, req = entry[:at], entry[at+1:]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%s: empty package name in %q", path, entry)
		}
		rng, err := model.ParseRange(req)
		if err != nil {
			return nil, fmt.Errorf("%s: package %q: %w", path, entry, err)
		}
		targets = append(targets, model.NewRequiredPackage(model.ParsePackage(name), rng))
	}
	return targets, nil
}

// SearchPaths resolves [project].paths against the manifest root.
func (m *Manifest) SearchPaths() []string {
	paths := make([]string, len(m.Config.Project.Paths))
	for i, p := range m.Config.Project.Paths {
		paths[i] = m.resolve(p)
	}
	return paths
}

// OutputDir resolves [project].output against the manifest root.
func (m *Manifest) OutputDir() string {
	return m.resolve(m.Config.Project.Output)
}

func (m *Manifest) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// FieldNaming returns the default field policy, or nil for pass-through.
// Unknown spellings were rejected at load.
func (m *Manifest) FieldNaming() naming.Policy {
	policy, _ := naming.ByName(m.Config.Naming.Field)
	return policy
}

// EndpointNaming returns the default endpoint policy, or nil for
// pass-through.
func (m *Manifest) EndpointNaming() naming.Policy {
	policy, _ := naming.ByName(m.Config.Naming.Endpoint)
	return policy
}
