package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ridl/internal/manifest"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new ridl project",
	Long: `Initialize a new ridl project by creating a project manifest (ridl.toml)
and an example schema package (schemas/example/api.ridl). If [path|name] is
omitted, initializes the current directory. If a non-existing name is
provided, a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit initializes a ridl project at the target path by writing a
// ridl.toml manifest and an example schema. It refuses to initialize a
// directory that already carries a manifest.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := filepath.Base(target)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "ridl-project"
	}

	// Create manifest file if not exists
	manifestPath := filepath.Join(target, manifest.FileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Create the example schema if not exists
	schemaPath := filepath.Join(target, "schemas", "example", "api.ridl")
	createdSchema := false
	if _, err := os.Stat(schemaPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(schemaPath), 0o755); err != nil {
			return fmt.Errorf("failed to create schema directory: %w", err)
		}
		if err := os.WriteFile(schemaPath, []byte(defaultSchema()), 0o600); err != nil {
			return fmt.Errorf("failed to write example schema: %w", err)
		}
		createdSchema = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized ridl project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", manifest.FileName)
	if createdSchema {
		fmt.Fprintf(os.Stdout, "  - schemas/example/api.ridl\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - schemas/example/api.ridl (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a minimal TOML manifest for a ridl project
// using the provided project name. The example package has no version
// suffix, so the match-any requirement picks it up.
func buildDefaultManifest(name string) string {
	return fmt.Sprintf(`# ridl project manifest
[project]
name = "%s"
paths = ["schemas"]
output = "out"
packages = ["example.api"]
`, name)
}

// defaultSchema returns the example schema document used when
// initializing a new project.
func defaultSchema() string {
	return `{
  "comment": ["Example api package, replace with your own schemas."],
  "decls": [
    {
      "kind": "type",
      "name": "Greeting",
      "fields": [
        {"name": "message", "type": "string"},
        {"name": "sent_at", "type": "datetime", "optional": true}
      ]
    },
    {
      "kind": "service",
      "name": "Hello",
      "endpoints": [
        {
          "name": "greet",
          "arguments": [{"name": "who", "type": "string"}],
          "returns": {"type": "Greeting"}
        }
      ]
    }
  ]
}
`
}
