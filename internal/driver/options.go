package driver

import (
	"approxc/internal/buildpipeline"
	"approxc/internal/observ"
	"approxc/internal/project"
)

// Options configure a check run over one or more translation units.
type Options struct {
	// MaxDiagnostics caps diagnostics per unit (0 = unlimited).
	MaxDiagnostics int
	Config         project.Config
	// Jobs limits parallel units; <= 0 means GOMAXPROCS.
	Jobs int
	// Link runs the cross-unit signature check after all units.
	Link bool
	// Lower keeps the lowered module of every accepted unit.
	Lower bool
	// Cache, when set, restores verdicts of unchanged units.
	Cache *DiskCache
	// Timer accumulates per-phase durations across units.
	Timer    *observ.Timer
	Progress buildpipeline.ProgressSink
	// BaseDir is used for display paths in progress events.
	BaseDir string
}

func (o Options) maxErrors() uint {
	if o.MaxDiagnostics <= 0 {
		return 0
	}
	return uint(o.MaxDiagnostics)
}
