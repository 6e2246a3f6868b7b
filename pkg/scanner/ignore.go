package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/spf13/afero"
)

// IgnoreFileName is the optional per-root exclusion file: one glob pattern
// per line, # for comments.
const IgnoreFileName = ".hondanaignore"

// IgnoreMatcher decides whether a path is excluded from a scan. A nil
// matcher matches nothing, so callers never need to branch on its presence.
type IgnoreMatcher struct {
	patterns []string
}

// LoadIgnoreMatcher reads the ignore file in dir, if any. A missing file
// yields a nil matcher; a present-but-empty file logs a warning and yields
// nil as well.
func LoadIgnoreMatcher(ctx context.Context, fsys afero.Fs, dir string) (*IgnoreMatcher, error) {
	path := filepath.Join(dir, IgnoreFileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	patterns := make([]string, 0)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		logger.FromContext(ctx).Warn("ignore file is present but has no patterns", logger.Data{"path": path})
		return nil, nil
	}

	return &IgnoreMatcher{patterns: patterns}, nil
}

// Matches reports whether path matches one of the loaded patterns. Patterns
// are tried against both the full slash-separated path and the base name, so
// "*.tmp" and "cache/**" both behave the way their authors expect.
func (m *IgnoreMatcher) Matches(path string) bool {
	if m == nil {
		return false
	}
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range m.patterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
