package diagfmt

import (
	"path/filepath"
	"strings"

	"approxc/internal/source"
)

// autoPathLimit: длиннее этого auto-режим показывает только basename.
const autoPathLimit = 48

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	// auto
	if f.Flags&source.FileVirtual != 0 || !filepath.IsAbs(f.Path) {
		if len(f.Path) > autoPathLimit {
			return f.FormatPath("basename", "")
		}
		return f.Path
	}
	rel := f.FormatPath("relative", fs.BaseDir())
	if !strings.HasPrefix(rel, "..") && len(rel) <= autoPathLimit {
		return rel
	}
	return f.FormatPath("basename", "")
}
