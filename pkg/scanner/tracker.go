package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hondana/hondana/pkg/mediafile"
	"github.com/hondana/hondana/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

// SeriesTracker aggregates parsed files into series groups. One tracker is
// created per scan and discarded after the snapshot is taken. It is safe for
// concurrent Track calls from traversal workers.
type SeriesTracker struct {
	mu     sync.Mutex
	series map[models.SeriesKey][]*mediafile.ParsedFile
}

func NewSeriesTracker() *SeriesTracker {
	return &SeriesTracker{
		series: make(map[models.SeriesKey][]*mediafile.ParsedFile),
	}
}

// Track adds record to the series it belongs to, creating the series when no
// existing one matches. A record with an empty series name is dropped
// silently; that's an expected outcome for some inputs, not an error. The
// whole resolve-then-insert sequence runs under one lock so two concurrent
// calls can never both decide "no match, create new" for the same series.
//
// A record whose normalized names match more than one existing key is a
// data-integrity fault: every conflicting key is logged and the record is
// not aggregated, because picking a merge direction here could corrupt
// groups that are already built.
func (t *SeriesTracker) Track(ctx context.Context, record *mediafile.ParsedFile) {
	if record == nil || record.Series == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	log := logger.FromContext(ctx)

	// Collapse near-duplicate spellings onto the name the series was first
	// seen under.
	matches := t.matchingKeys(record.Format, record.Series, record.LocalizedSeries)
	if len(matches) > 1 {
		t.logDuplicateFault(log, record, matches)
		return
	}
	if len(matches) == 1 {
		record.Series = matches[0].Name
	}

	matches = t.matchingKeys(record.Format, record.Series, record.LocalizedSeries, record.SortSeries)
	if len(matches) > 1 {
		t.logDuplicateFault(log, record, matches)
		return
	}

	var key models.SeriesKey
	if len(matches) == 1 {
		key = matches[0]
	} else {
		key = models.SeriesKey{
			Name:           record.Series,
			NormalizedName: Normalize(record.Series),
			Format:         record.Format,
			FolderPath:     filepath.Dir(record.Path),
		}
	}

	for _, existing := range t.series[key] {
		if existing == record || existing.Path == record.Path {
			return
		}
	}
	t.series[key] = append(t.series[key], record)
}

// matchingKeys returns every key of the given format whose normalized name
// equals the normalized form of any of the given names. Names are normalized
// here, on every call, because records can be rewritten mid-scan.
func (t *SeriesTracker) matchingKeys(format string, names ...string) []models.SeriesKey {
	keys := make([]models.SeriesKey, 0, 1)
	for key := range t.series {
		if key.Format != format {
			continue
		}
		for _, name := range names {
			if name != "" && Normalize(name) == key.NormalizedName {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}

func (t *SeriesTracker) logDuplicateFault(log logger.Logger, record *mediafile.ParsedFile, matches []models.SeriesKey) {
	conflicts := make([]string, len(matches))
	for i, key := range matches {
		conflicts[i] = fmt.Sprintf("%s (%s)", key.Name, key.FolderPath)
	}
	log.Error("multiple series keys match one record; skipping aggregation", logger.Data{
		"fault":     "duplicate_series_key",
		"series":    record.Series,
		"localized": record.LocalizedSeries,
		"path":      record.Path,
		"format":    record.Format,
		"conflicts": strings.Join(conflicts, "; "),
	})
}

// Snapshot returns a copy of the aggregated mapping, dropping any series
// that ended up with no records.
func (t *SeriesTracker) Snapshot() map[models.SeriesKey][]*mediafile.ParsedFile {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make(map[models.SeriesKey][]*mediafile.ParsedFile, len(t.series))
	for key, records := range t.series {
		if len(records) == 0 {
			continue
		}
		snapshot[key] = append([]*mediafile.ParsedFile(nil), records...)
	}
	return snapshot
}
