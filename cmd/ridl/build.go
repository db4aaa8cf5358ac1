package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ridl/internal/diag"
	"ridl/internal/ircache"
	"ridl/internal/manifest"
	"ridl/internal/pipeline"
	"ridl/internal/source"
)

const noRidlTomlMessage = "no ridl.toml found\nrun from a project directory or pass its path, e.g.:\n  ridl build path/to/project"

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Build a ridl project",
	Long:  "Build a ridl project using ridl.toml as the entrypoint definition.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().String("flavor", pipeline.FlavorDefault, "output flavor (default, versioned)")
	buildCmd.Flags().String("format", pipeline.FormatJSON, "artifact format (json, msgpack)")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().Bool("no-cache", false, "disable the translation disk cache")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	flavor, err := cmd.Flags().GetString("flavor")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	if flavor != pipeline.FlavorDefault && flavor != pipeline.FlavorVersioned {
		return usagef("unsupported flavor: %s (supported: default, versioned)", flavor)
	}
	if format != pipeline.FormatJSON && format != pipeline.FormatMsgpack {
		return usagef("unsupported format: %s (supported: json, msgpack)", format)
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}
	m, found, err := manifest.Load(startDir)
	if err != nil {
		return err
	}
	if !found {
		return errors.New(noRidlTomlMessage)
	}

	var cache *ircache.Cache
	if !noCache {
		// Builds proceed uncached when the cache dir is unavailable.
		cache, _ = ircache.OpenDefault()
	}

	dctx := diag.NewContext(maxDiagnostics)
	fset := source.NewFileSet()
	req := &pipeline.Request{
		Manifest:    m,
		Flavor:      flavor,
		Format:      format,
		Cache:       cache,
		Diagnostics: dctx,
		FileSet:     fset,
	}

	var res pipeline.Result
	useTUI := shouldUseTUI(uiModeValue) && !quiet
	if useTUI {
		res, err = runBuildWithUI(cmd.Context(), "ridl build "+m.Config.Project.Name, req)
	} else {
		res, err = pipeline.Build(cmd.Context(), req)
	}

	if renderErr := renderDiagnostics(cmd, dctx, fset); renderErr != nil {
		return renderErr
	}
	if err != nil {
		if errors.Is(err, diag.ErrReported) {
			// Diagnostics already printed, suppress cobra output.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return fmt.Errorf("")
		}
		return err
	}

	if showTimings && !quiet {
		printStageTimings(os.Stdout, res.Timings)
	}
	if !quiet {
		_, fprintfErr := fmt.Fprintf(os.Stdout, "built %s\n", formatPathForOutput(m.Root, res.OutputPath))
		if fprintfErr != nil {
			return fprintfErr
		}
	}
	return nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
