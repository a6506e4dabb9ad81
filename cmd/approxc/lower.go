package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"approxc/internal/diagfmt"
	"approxc/internal/driver"
	"approxc/internal/mir"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <file.c>",
	Short: "Print the tagged lowered form of an accepted unit",
	Long: `Lower checks a single unit and prints its lowered instructions, each tagged
with the qualifier bitmask derived from the checked types. A unit with errors
is not lowered; its diagnostics are printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().Bool("spans", false, "annotate instructions with source offsets")
}

func runLower(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	target := args[0]
	spans, err := cmd.Flags().GetBool("spans")
	if err != nil {
		return fmt.Errorf("failed to get spans flag: %w", err)
	}
	globals, err := loadGlobals(cmd, target)
	if err != nil {
		return err
	}
	opts := globals.driverOptions()
	opts.BaseDir = baseDirFor(target, globals.manifest)

	unit, res, err := driver.LowerFile(cmd.Context(), target, opts)
	if res != nil && res.Bag().Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag(), res.FileSet, diagfmt.PrettyOpts{
			Color:     globals.color,
			Context:   2,
			ShowNotes: true,
			ShowQual:  true,
		})
	}
	if errors.Is(err, mir.ErrRejected) {
		return errRejected
	}
	if err != nil {
		return err
	}

	if err := mir.DumpModule(cmd.OutOrStdout(), unit.Module, unit.Sema.TypeInterner, mir.DumpOptions{Spans: spans}); err != nil {
		return err
	}
	if globals.timings {
		printTimings(cmd.ErrOrStderr(), opts.Timer)
	}
	return nil
}
