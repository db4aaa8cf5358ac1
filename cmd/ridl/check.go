package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ridl/internal/diag"
	"ridl/internal/diagfmt"
	"ridl/internal/manifest"
	"ridl/internal/model"
	"ridl/internal/pipeline"
	"ridl/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Check every package the manifest names",
	Long:  "Load and verify every target package from ridl.toml without emitting artifacts.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("format", "plain", "diagnostic output format (plain|pretty|json)")
}

type checkResult struct {
	diagnostics *diag.Context
	fileSet     *source.FileSet
	err         error
}

func runCheck(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "plain", "pretty", "json":
	default:
		return usagef("invalid --format value %q (expected plain|pretty|json)", format)
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
	if len(m.Targets) == 0 {
		if !quiet {
			fmt.Fprintln(os.Stdout, "no packages to check")
		}
		return nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each target verifies in its own environment, so goroutines share
	// nothing and result slots are indexed per target.
	results := make([]checkResult, len(m.Targets))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(m.Targets)))

	for i, target := range m.Targets {
		i, target := i, target
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			dctx := diag.NewContext(maxDiagnostics)
			fset := source.NewFileSet()
			env := pipeline.NewEnvironment(m, dctx, fset)

			res := checkResult{diagnostics: dctx, fileSet: fset}
			loaded, importErr := env.Import(target)
			switch {
			case importErr != nil:
				res.err = importErr
			case loaded == nil:
				res.err = fmt.Errorf("no package found: %s", target)
			default:
				res.err = env.Verify()
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
		}
	}

	if format == "json" {
		if err := writeCheckReport(m.Targets, results, maxDiagnostics); err != nil {
			return err
		}
	} else {
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
		for i, res := range results {
			if res.err == nil {
				continue
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", m.Targets[i].String())
			switch {
			case res.diagnostics.Len() == 0:
				fmt.Fprintf(os.Stdout, "error: %v\n", res.err)
			case format == "pretty":
				res.diagnostics.Sort()
				diagfmt.Pretty(os.Stdout, res.diagnostics.Items(), res.fileSet, diagfmt.PrettyOpts{
					Color:     useColor,
					ShowNotes: true,
					Max:       maxDiagnostics,
				})
			default:
				res.diagnostics.Sort()
				diagfmt.Plain(os.Stdout, res.diagnostics.Items(), res.fileSet, maxDiagnostics)
			}
		}
	}

	if failed > 0 {
		// Diagnostics already printed, suppress cobra output.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	if !quiet && format != "json" {
		fmt.Fprintf(os.Stdout, "checked %d packages\n", len(m.Targets))
	}
	return nil
}

// writeCheckReport emits one JSON document covering every target, clean
// ones included. Failures that produced no diagnostics go to stderr so
// stdout stays valid JSON.
func writeCheckReport(targets []model.RequiredPackage, results []checkResult, maxDiagnostics int) error {
	report := make(map[string]diagfmt.DiagnosticsOutput, len(results))
	for i, res := range results {
		res.diagnostics.Sort()
		report[targets[i].String()] = diagfmt.BuildDiagnosticsOutput(
			res.diagnostics.Items(), res.fileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
				Max:              maxDiagnostics,
			})
		if res.err != nil && res.diagnostics.Len() == 0 {
			fmt.Fprintf(os.Stderr, "%s: %v\n", targets[i].String(), res.err)
		}
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	return nil
}
