package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"approxc/internal/buildpipeline"
	"approxc/internal/diag"
	"approxc/internal/diagfmt"
	"approxc/internal/driver"
	"approxc/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.c|directory>",
	Short: "Check APPROX qualifier rules in a file or directory",
	Long: `Check parses every translation unit, computes qualified types and reports
approximate data flowing into precise contexts. Directories are checked in
parallel; --link additionally compares external declarations across units.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().String("ui", "off", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().Bool("link", false, "check qualifier consistency of external declarations across units")
	checkCmd.Flags().Int("jobs", 0, "max parallel units (0=auto)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse verdicts of unchanged units from the user cache directory")
	checkCmd.Flags().String("cache-dir", "", "disk cache location (implies --disk-cache)")
	checkCmd.Flags().String("path-mode", "auto", "file paths in output (auto|relative|absolute|basename)")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions")
	checkCmd.Flags().Bool("preview", false, "show a preview of every suggested edit")
	checkCmd.Flags().Bool("no-warnings", false, "drop warnings from the output")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

type checkFlags struct {
	format           string
	ui               uiMode
	link             bool
	jobs             int
	diskCache        bool
	cacheDir         string
	pathMode         diagfmt.PathMode
	withNotes        bool
	suggest          bool
	preview          bool
	noWarnings       bool
	warningsAsErrors bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	fl := cmd.Flags()
	if f.format, err = fl.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	uiValue, err := fl.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.link, err = fl.GetBool("link"); err != nil {
		return f, fmt.Errorf("failed to get link flag: %w", err)
	}
	if f.jobs, err = fl.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.diskCache, err = fl.GetBool("disk-cache"); err != nil {
		return f, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if f.cacheDir, err = fl.GetString("cache-dir"); err != nil {
		return f, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	pathMode, err := fl.GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	f.pathMode = diagfmt.ParsePathMode(pathMode)
	if f.withNotes, err = fl.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = fl.GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = fl.GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.noWarnings, err = fl.GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = fl.GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.noWarnings && f.warningsAsErrors {
		return f, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	return f, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	target := args[0]
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	globals, err := loadGlobals(cmd, target)
	if err != nil {
		return err
	}

	opts := globals.driverOptions()
	opts.Link = flags.link
	opts.Jobs = flags.jobs
	opts.BaseDir = baseDirFor(target, globals.manifest)
	if flags.diskCache || flags.cacheDir != "" {
		if opts.Cache, err = openCache(flags.cacheDir); err != nil {
			return err
		}
	}

	paths, err := inputPaths(target, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var res *driver.CheckResult
	if flags.format == "pretty" && len(paths) > 1 && shouldUseTUI(flags.ui, out) {
		files := make([]string, len(paths))
		for i, p := range paths {
			files[i] = buildpipeline.DisplayPath(p, opts.BaseDir)
		}
		res, err = runCheckWithUI(cmd.Context(), "approxc check", files, paths, opts)
	} else {
		res, err = driver.CheckPaths(cmd.Context(), paths, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	bag := res.Bag()
	applyWarningPolicy(bag, flags)
	if err := writeDiagnostics(out, bag, res, flags, globals); err != nil {
		return err
	}
	if flags.format == "pretty" && !globals.quiet {
		fmt.Fprintln(out, checkSummary(res, bag))
	}
	if globals.timings {
		printTimings(cmd.ErrOrStderr(), opts.Timer)
	}
	if bag.HasErrors() {
		return errRejected
	}
	return nil
}

func openCache(dir string) (*driver.DiskCache, error) {
	if dir != "" {
		return driver.NewDiskCache(dir)
	}
	return driver.OpenDiskCache("approxc")
}

// inputPaths expands target into the list of units to check.
func inputPaths(target string, opts driver.Options) ([]string, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{target}, nil
	}
	paths, err := driver.ListSources(target, opts.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source files under %s (extensions: %s)", target,
			strings.Join(opts.Config.Sources.Extensions, ", "))
	}
	return paths, nil
}

func applyWarningPolicy(bag *diag.Bag, flags checkFlags) {
	switch {
	case flags.noWarnings:
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	case flags.warningsAsErrors:
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
}

func writeDiagnostics(out io.Writer, bag *diag.Bag, res *driver.CheckResult, flags checkFlags, globals *globalOptions) error {
	switch flags.format {
	case "short":
		_, err := io.WriteString(out, diag.FormatShortDiagnostics(bag.Items(), res.FileSet, flags.withNotes))
		return err
	case "json":
		return diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         flags.pathMode,
			IncludeNotes:     flags.withNotes,
			IncludeFixes:     flags.suggest,
			IncludePreviews:  flags.preview,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "approxc",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			PathMode:       flags.pathMode,
		})
	default:
		diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       globals.color,
			Context:     2,
			PathMode:    flags.pathMode,
			ShowNotes:   flags.withNotes,
			ShowFixes:   flags.suggest || flags.preview,
			ShowPreview: flags.preview,
			ShowQual:    true,
		})
		return nil
	}
}

func checkSummary(res *driver.CheckResult, bag *diag.Bag) string {
	warnings := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			warnings++
		}
	}
	cached := 0
	for _, u := range res.Units {
		if u.Cached {
			cached++
		}
	}
	s := fmt.Sprintf("checked %d unit(s): %d rejected, %d error(s), %d warning(s)",
		len(res.Units), res.Rejected(), bag.ErrorCount(), warnings)
	if cached > 0 {
		s += fmt.Sprintf(", %d cached", cached)
	}
	if res.LinkErrors > 0 {
		s += fmt.Sprintf(", %d link mismatch(es)", res.LinkErrors)
	}
	return s
}
