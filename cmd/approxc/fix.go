package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"approxc/internal/diag"
	"approxc/internal/driver"
	"approxc/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.c|directory>",
	Short: "Apply suggested ENDORSE(...) wraps",
	Long: `Fix checks the input and applies the edits suggested by the diagnostics,
such as wrapping an APPROX value that flows into PRECISE storage in ENDORSE(...).
Every applied wrap is an explicit relaxation that shows up in 'approxc audit'.
Without --all or --id only the first suggestion is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting suggestion")
	fixCmd.Flags().String("id", "", "apply the suggestion with this id (see --list)")
	fixCmd.Flags().Bool("list", false, "list available suggestions and their ids")
	fixCmd.Flags().Bool("dry-run", false, "report the changes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	target := args[0]
	fl := cmd.Flags()
	all, err := fl.GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	id, err := fl.GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	list, err := fl.GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	dryRun, err := fl.GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	if all && id != "" {
		return fmt.Errorf("--all and --id cannot be used together")
	}

	globals, err := loadGlobals(cmd, target)
	if err != nil {
		return err
	}
	opts := globals.driverOptions()
	opts.BaseDir = baseDirFor(target, globals.manifest)
	paths, err := inputPaths(target, opts)
	if err != nil {
		return err
	}
	res, err := driver.CheckPaths(cmd.Context(), paths, opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	diags := res.Bag().Items()
	out := cmd.OutOrStdout()

	if list {
		listFixes(out, res, diags)
		return nil
	}

	mode := fix.ApplyModeOnce
	switch {
	case all:
		mode = fix.ApplyModeAll
	case id != "":
		mode = fix.ApplyModeID
	}
	result, err := fix.Apply(res.FileSet, diags, fix.ApplyOptions{Mode: mode, TargetID: id, DryRun: dryRun})
	if errors.Is(err, fix.ErrNoFixes) {
		if !globals.quiet {
			fmt.Fprintln(out, "no applicable fixes")
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "skipped %s: %s\n", s.ID, s.Reason)
		}
		return nil
	}
	if err != nil {
		return err
	}

	verb := "applied"
	if dryRun {
		verb = "would apply"
	}
	for _, a := range result.Applied {
		fmt.Fprintf(out, "%s %s:%d:%d %s (%s)\n", verb, a.PrimaryPath, a.Line, a.Col, a.Title, a.Code.ID())
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(out, "skipped %s: %s\n", s.ID, s.Reason)
	}
	if !globals.quiet {
		for _, fc := range result.FileChanges {
			fmt.Fprintf(out, "%s: %d edit(s)\n", fc.Path, fc.EditCount)
		}
	}
	return nil
}

func listFixes(out io.Writer, res *driver.CheckResult, diags []diag.Diagnostic) {
	n := 0
	for _, d := range diags {
		start, _ := res.FileSet.Resolve(d.Primary)
		path := ""
		if f := res.FileSet.Get(d.Primary.File); f != nil {
			path = f.FormatPath("relative", res.FileSet.BaseDir())
		}
		for idx, f := range d.Fixes {
			fmt.Fprintf(out, "%s  %s:%d:%d  %s\n", fix.FixID(d, idx), path, start.Line, start.Col, f.Title)
			n++
		}
	}
	if n == 0 {
		fmt.Fprintln(out, "no suggestions")
	}
}
