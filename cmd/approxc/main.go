package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"approxc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "approxc",
	Short: "APPROX type-qualifier checker",
	Long: `approxc checks that approximate (APPROX) data never reaches precise storage,
control flow or calls without an explicit ENDORSE/DEDORSE.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

// exitError carries a non-zero status without an extra message: the
// diagnostics already explain the failure.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

var errRejected = &exitError{code: 1}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per unit (overrides approx.toml)")
	rootCmd.PersistentFlags().String("config", "", "path to approx.toml (default: search upwards from the input)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, .ndjson for NDJSON)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for ring/both trace modes")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

func preRun(cmd *cobra.Command, args []string) error {
	if err := startTracing(cmd, args); err != nil {
		return err
	}
	return startProfiling(cmd)
}

func main() {
	os.Exit(execute(rootCmd, os.Stderr))
}

// execute runs root and maps the outcome onto a process status.
func execute(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	stopProfiling(stderr)
	stopTracing(stderr)
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "approxc: %v\n", err)
	return 1
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
