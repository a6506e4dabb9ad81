package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"approxc/internal/driver"
	"approxc/internal/observ"
	"approxc/internal/project"
)

// globalOptions are the persistent flags resolved against approx.toml.
type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	manifest       *project.Manifest
}

func readColorMode(value string, out io.Writer) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		return isTerminal(out), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// loadGlobals reads persistent flags; target is the input path used to
// discover approx.toml when --config is not given.
func loadGlobals(cmd *cobra.Command, target string) (*globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	opts := &globalOptions{quiet: quiet, timings: timings}
	if opts.color, err = readColorMode(colorFlag, cmd.OutOrStdout()); err != nil {
		return nil, err
	}

	if configPath != "" {
		cfg, err := project.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		opts.manifest = &project.Manifest{Path: configPath, Root: filepath.Dir(configPath), Config: cfg}
	} else {
		m, _, err := project.Load(target)
		if err != nil {
			return nil, err
		}
		opts.manifest = m
	}

	opts.maxDiagnostics = opts.manifest.Config.Check.MaxDiagnostics
	if flags.Changed("max-diagnostics") || opts.maxDiagnostics == 0 {
		if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	return opts, nil
}

func (g *globalOptions) driverOptions() driver.Options {
	opts := driver.Options{
		MaxDiagnostics: g.maxDiagnostics,
		Config:         g.manifest.Config,
	}
	if g.timings {
		opts.Timer = observ.NewTimer()
	}
	return opts
}

// baseDirFor picks the directory diagnostics paths are shown relative to.
func baseDirFor(target string, m *project.Manifest) string {
	if m != nil && m.Root != "" {
		if abs, err := filepath.Abs(m.Root); err == nil {
			return abs
		}
	}
	if st, err := os.Stat(target); err == nil && st.IsDir() {
		return target
	}
	return filepath.Dir(target)
}

func printTimings(w io.Writer, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(w, timer.Summary())
}
