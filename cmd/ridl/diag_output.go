package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ridl/internal/diag"
	"ridl/internal/diagfmt"
	"ridl/internal/source"
)

// renderDiagnostics pretty-prints whatever the context accumulated,
// sorted by file position. Quiet builds still show them.
func renderDiagnostics(cmd *cobra.Command, dctx *diag.Context, fset *source.FileSet) error {
	if dctx == nil || dctx.Len() == 0 {
		return nil
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	dctx.Sort()
	diagfmt.Pretty(os.Stdout, dctx.Items(), fset, diagfmt.PrettyOpts{
		Color:     useColor,
		ShowNotes: true,
		Max:       maxDiagnostics,
	})
	return nil
}
