package mediafile

import (
	"fmt"
	"strings"

	"github.com/hondana/hondana/pkg/models"
)

// ParsedFile is the structured result of parsing one file's name and
// metadata. It is mutable during the short enrichment phase (embedded
// metadata overrides, localized-name reconciliation) and must be treated as
// read-only once handed to the series tracker.
type ParsedFile struct {
	Path            string
	Filename        string
	Series          string
	LocalizedSeries string
	SortSeries      string
	Title           string
	Volumes         string
	Chapters        string
	// Format is one of the models format constants.
	Format    string
	IsSpecial bool
}

// EmbeddedMetadata carries the series-relevant fields read from metadata
// embedded in the file itself (ComicInfo.xml and friends). An empty field
// means the metadata did not carry it.
type EmbeddedMetadata struct {
	Series          string
	LocalizedSeries string
	SortSeries      string
	Number          string
	Volume          string
	Title           string
	Special         bool
}

// Merge fills any unset or sentinel fields on p from other. Fields already
// set on p survive, so the receiver's values take precedence. Used when a
// file is parsed a second time under different library type rules.
func (p *ParsedFile) Merge(other *ParsedFile) {
	if other == nil {
		return
	}
	if p.Series == "" {
		p.Series = other.Series
	}
	if p.LocalizedSeries == "" {
		p.LocalizedSeries = other.LocalizedSeries
	}
	if p.SortSeries == "" {
		p.SortSeries = other.SortSeries
	}
	if p.Title == "" {
		p.Title = other.Title
	}
	if p.Volumes == "" || p.Volumes == models.DefaultVolume {
		p.Volumes = other.Volumes
	}
	if p.Chapters == "" || p.Chapters == models.DefaultChapter {
		p.Chapters = other.Chapters
	}
	p.IsSpecial = p.IsSpecial || other.IsSpecial
}

// ApplyEmbedded overrides filename-derived fields with embedded metadata.
// Each field is applied only when the embedded value is non-empty, and the
// order matters: the special flag resets volume and chapter to their
// sentinels after both have been applied.
func (p *ParsedFile) ApplyEmbedded(m *EmbeddedMetadata) {
	if m == nil {
		return
	}
	if m.Volume != "" {
		p.Volumes = m.Volume
	}
	if series := strings.TrimSpace(m.Series); series != "" {
		p.Series = series
	}
	if m.Number != "" {
		p.Chapters = m.Number
	}
	if m.SortSeries != "" {
		p.SortSeries = m.SortSeries
	}
	if m.Special {
		p.IsSpecial = true
		p.Volumes = models.DefaultVolume
		p.Chapters = models.DefaultChapter
	}
	if m.LocalizedSeries != "" {
		p.LocalizedSeries = m.LocalizedSeries
	}
}

func (p *ParsedFile) String() string {
	return fmt.Sprintf("Series: %s, Localized: %s, Volumes: %s, Chapters: %s, Format: %s, Special: %v, Path: %s",
		p.Series, p.LocalizedSeries, p.Volumes, p.Chapters, p.Format, p.IsSpecial, p.Path)
}
