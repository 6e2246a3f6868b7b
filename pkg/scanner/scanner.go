package scanner

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/hondana/hondana/pkg/events"
	"github.com/hondana/hondana/pkg/mediafile"
	"github.com/hondana/hondana/pkg/models"
	"github.com/hondana/hondana/pkg/parser"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/spf13/afero"
)

// FileParser extracts a structured record from a single file. Parse returns
// nil when the file cannot be parsed as part of a series; GetEmbeddedMetadata
// returns nil when the file carries no embedded metadata.
type FileParser interface {
	Parse(path, root, libraryType string) *mediafile.ParsedFile
	GetEmbeddedMetadata(path string) *mediafile.EmbeddedMetadata
}

// expectedMimeTypes maps scan extensions to the mime types we expect to sniff
// from their content. Since files can have any extension, a mismatch is worth
// a warning, but not an exclusion.
var expectedMimeTypes = map[string]map[string]struct{}{
	".cbz":  {"application/zip": {}, "application/vnd.comicbook+zip": {}},
	".zip":  {"application/zip": {}},
	".cbr":  {"application/x-rar-compressed": {}, "application/vnd.comicbook-rar": {}},
	".rar":  {"application/x-rar-compressed": {}},
	".epub": {"application/epub+zip": {}},
	".pdf":  {"application/pdf": {}},
}

// Scanner drives a full scan of a library: traversal, parsing and
// enrichment, localized-name reconciliation, and series aggregation, with
// progress events along the way.
type Scanner struct {
	fs      afero.Fs
	walker  *Walker
	parser  FileParser
	sink    events.Sink
	workers int
}

func New(fsys afero.Fs, fileParser FileParser, sink events.Sink, workers int) *Scanner {
	return &Scanner{
		fs:      fsys,
		walker:  NewWalker(fsys),
		parser:  fileParser,
		sink:    sink,
		workers: workers,
	}
}

// ScanLibrary scans every root of the library and returns the aggregated
// series mapping, containing only series with at least one record. Faults on
// individual roots and files are logged and skipped; only unexpected
// traversal failures abort the scan. The mapping is built fresh per call and
// never shared across scans.
func (s *Scanner) ScanLibrary(ctx context.Context, library models.Library) (map[models.SeriesKey][]*mediafile.ParsedFile, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	log := logger.FromContext(ctx).Data(logger.Data{"scan_id": id.String(), "library": library.Name})
	ctx = log.WithContext(ctx)

	log.Info("starting library scan", logger.Data{"type": library.Type, "roots": len(library.Roots)})
	tracker := NewSeriesTracker()
	s.publishProgress(ctx, library.Name, "", events.ProgressStarted)

	for _, root := range library.Roots {
		exists, err := afero.DirExists(s.fs, root)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !exists {
			log.Error("library root does not exist; skipping", logger.Data{"root": root})
			continue
		}

		matcher, err := LoadIgnoreMatcher(ctx, s.fs, root)
		if err != nil {
			log.Err(err).Error("ignore rules load error", logger.Data{"root": root})
		}

		// Parse phase: every file is parsed and enriched independently, and
		// the records are grouped by folder so reconciliation can run on
		// whole folders at a time.
		var mu sync.Mutex
		batches := make(map[string][]*mediafile.ParsedFile)
		err = s.walker.TraverseParallel(ctx, root, matcher, s.workers, func(path string) error {
			record := s.parseFile(ctx, path, root, library.Type)
			if record == nil {
				return nil
			}
			folder := filepath.Dir(path)
			mu.Lock()
			batches[folder] = append(batches[folder], record)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}

		folders := make([]string, 0, len(batches))
		for folder := range batches {
			folders = append(folders, folder)
		}
		sort.Strings(folders)

		for _, folder := range folders {
			batch := batches[folder]
			reconcileLocalizedSeries(batch)
			for _, record := range batch {
				tracker.Track(ctx, record)
			}
			s.publishProgress(ctx, library.Name, folder, events.ProgressUpdated)
		}
	}

	s.publishProgress(ctx, library.Name, "", events.ProgressEnded)

	snapshot := tracker.Snapshot()
	log.Info("finished library scan", logger.Data{"series": len(snapshot)})
	return snapshot, nil
}

// parseFile parses and enriches one file into a record. It returns nil for
// expected skips (images and covers), unparseable files (logged at warning),
// and files that vanished between enumeration and parsing (logged at error).
// Tracking the record is a separate, caller-chosen step.
func (s *Scanner) parseFile(ctx context.Context, path, root, libraryType string) *mediafile.ParsedFile {
	log := logger.FromContext(ctx)

	if parser.IsImage(path) {
		return nil
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil || !exists {
		log.Error("file no longer exists; skipping", logger.Data{"path": path})
		return nil
	}

	s.checkMimeType(ctx, path)

	record := s.parser.Parse(path, root, libraryType)
	if record == nil {
		log.Warn("unable to parse file into a series", logger.Data{"path": path})
		return nil
	}

	// Epub naming often disagrees with the library-level classification: when
	// the parsed series still carries a volume marker, the book rules get a
	// second pass, winning for the fields they fill.
	if record.Format == models.FormatEPUB && libraryType != models.LibraryTypeBook &&
		parser.ParseVolume(record.Series) != models.DefaultVolume {
		if reparsed := s.parser.Parse(path, root, models.LibraryTypeBook); reparsed != nil {
			reparsed.Merge(record)
			record = reparsed
		}
	}

	if embedded := s.parser.GetEmbeddedMetadata(path); embedded != nil {
		record.ApplyEmbedded(embedded)
	}

	return record
}

func (s *Scanner) checkMimeType(ctx context.Context, path string) {
	expected, ok := expectedMimeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		logger.FromContext(ctx).Warn("can't detect the mime type of a file with a valid extension", logger.Data{"path": path, "err": err.Error()})
		return
	}
	if _, ok := expected[mtype.String()]; !ok {
		logger.FromContext(ctx).Warn("mime type is not expected for extension", logger.Data{"path": path, "mimetype": mtype.String()})
	}
}

func (s *Scanner) publishProgress(ctx context.Context, libraryName, path, eventType string) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(ctx, events.ScanProgress, events.ScanProgressPayload{
		Path:        path,
		LibraryName: libraryName,
		EventType:   eventType,
	})
}
