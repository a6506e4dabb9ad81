package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"approxc/internal/project"
)

// forEachUnit runs fn for indices [0, n) with at most jobs goroutines.
// Results are written by index, so fn needs no locking.
func forEachUnit(ctx context.Context, n, jobs int, fn func(context.Context, int) error) error {
	if n == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, n))
	for i := range n {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// ListSources returns the sorted source files under dir accepted by cfg.
func ListSources(dir string, cfg project.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.Includes(dir, path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every source file under dir in parallel.
func CheckDir(ctx context.Context, dir string, opts Options) (*CheckResult, error) {
	files, err := ListSources(dir, opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.BaseDir == "" {
		opts.BaseDir = dir
	}
	return CheckPaths(ctx, files, opts)
}
