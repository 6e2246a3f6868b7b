package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// scanExtensions is the fixed allow-list of file types a scan considers.
var scanExtensions = map[string]struct{}{
	".cbz":  {},
	".cbr":  {},
	".zip":  {},
	".rar":  {},
	".epub": {},
	".pdf":  {},
}

// Walker enumerates scannable files under library roots. The filesystem is
// injected so scans can run against an in-memory tree in tests.
type Walker struct {
	fs afero.Fs
}

func NewWalker(fsys afero.Fs) *Walker {
	return &Walker{fs: fsys}
}

// Scan returns every supported file under root, recursively, applying the
// ignore matcher to both directories and files. Directories that match are
// pruned entirely. A missing root yields an empty slice, not an error.
func (w *Walker) Scan(ctx context.Context, root string, matcher *IgnoreMatcher) ([]string, error) {
	exists, err := afero.DirExists(w.fs, root)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return []string{}, nil
	}

	log := logger.FromContext(ctx)
	files := make([]string, 0)
	err = afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// A directory entry that can't be read shouldn't sink the whole
			// traversal.
			log.Err(err).Error("traversal error", logger.Data{"path": path})
			return nil
		}
		if info.IsDir() {
			if path != root && matcher.Matches(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Matches(path) {
			return nil
		}
		if _, ok := scanExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return files, nil
}

// TraverseParallel invokes onFile for every supported file under root using a
// bounded worker pool. An error from one file's callback is logged and does
// not abort the siblings.
func (w *Walker) TraverseParallel(ctx context.Context, root string, matcher *IgnoreMatcher, workers int, onFile func(path string) error) error {
	files, err := w.Scan(ctx, root, matcher)
	if err != nil {
		return errors.WithStack(err)
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}

	log := logger.FromContext(ctx)
	p := pool.New().WithMaxGoroutines(workers)
	for _, path := range files {
		p.Go(func() {
			if err := onFile(path); err != nil {
				log.Err(err).Error("file callback error", logger.Data{"path": path})
			}
		})
	}
	p.Wait()
	return nil
}
