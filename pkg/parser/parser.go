package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hondana/hondana/pkg/comicinfo"
	"github.com/hondana/hondana/pkg/mediafile"
	"github.com/hondana/hondana/pkg/models"
	"github.com/spf13/afero"
)

// Shared matching primitives. All of them are stateless: a name or path in,
// an answer out, no ambient configuration.
var (
	volumeRE     = regexp.MustCompile(`(?i)(?:\b|_)v(?:ol(?:ume)?)?[.\s_]*(\d+(?:[-.]\d+)?)\b`)
	chapterRE    = regexp.MustCompile(`(?i)(?:\b|_)(?:ch(?:ap(?:ter)?)?|c)[.\s_]*(\d+(?:\.\d+)?(?:-\d+(?:\.\d+)?)?)\b`)
	bookVolumeRE = regexp.MustCompile(`(?i)\b(?:book|novel|tome)[.\s_]*(\d+(?:\.\d+)?)\b`)
	specialRE    = regexp.MustCompile(`(?i)(?:\b|_)(?:specials?|omake|one[-_ ]?shot|extras?|bonus|prologue|epilogue)(?:\b|_)`)
	coverRE      = regexp.MustCompile(`(?i)(?:\b|_)!?(?:cover|folder|poster|backcover)(?:\b|_)`)
	bracketRE    = regexp.MustCompile(`[\[({][^\[\](){}]*[\])}]`)
	spaceRE      = regexp.MustCompile(`\s+`)
)

// IsImage reports whether path points at an image file.
func IsImage(path string) bool {
	return models.FormatFromPath(path) == models.FormatImage
}

// IsCoverImage reports whether path looks like a cover or folder image.
func IsCoverImage(path string) bool {
	return IsImage(path) && coverRE.MatchString(filepath.Base(path))
}

// HasSpecialMarker reports whether name carries a special/one-shot marker.
func HasSpecialMarker(name string) bool {
	return specialRE.MatchString(name)
}

// ParseVolume extracts the volume designator from name, or DefaultVolume when
// name carries none.
func ParseVolume(name string) string {
	if m := volumeRE.FindStringSubmatch(name); m != nil {
		return normalizeDesignator(m[1])
	}
	return models.DefaultVolume
}

// ParseChapter extracts the chapter designator from name, or DefaultChapter
// when name carries none.
func ParseChapter(name string) string {
	if m := chapterRE.FindStringSubmatch(name); m != nil {
		return normalizeDesignator(m[1])
	}
	return models.DefaultChapter
}

// ParseBookVolume extracts the volume designator using book naming ("Book 3",
// "Novel 12") before falling back to the generic volume markers.
func ParseBookVolume(name string) string {
	if m := bookVolumeRE.FindStringSubmatch(name); m != nil {
		return normalizeDesignator(m[1])
	}
	return ParseVolume(name)
}

// ParseSeries derives the series name from a filename without its extension:
// bracketed release tags are stripped and the name is cut at the first
// volume, chapter, or special marker.
func ParseSeries(name string) string {
	cleaned := bracketRE.ReplaceAllString(name, "")
	cleaned = cutAt(cleaned, volumeRE)
	cleaned = cutAt(cleaned, chapterRE)
	cleaned = cutAt(cleaned, specialRE)
	return CleanTitle(cleaned)
}

// ParseBookSeries derives the series name for book libraries, where volume
// markers follow "Book N" conventions and chapter markers are not cut, since
// a book title can legitimately contain one.
func ParseBookSeries(name string) string {
	cleaned := bracketRE.ReplaceAllString(name, "")
	cleaned = cutAt(cleaned, bookVolumeRE)
	cleaned = cutAt(cleaned, volumeRE)
	return CleanTitle(cleaned)
}

// CleanTitle collapses whitespace and trims the separator punctuation left
// behind by marker removal.
func CleanTitle(name string) string {
	cleaned := strings.ReplaceAll(name, "_", " ")
	cleaned = spaceRE.ReplaceAllString(cleaned, " ")
	return strings.Trim(cleaned, " -,.~")
}

func cutAt(name string, re *regexp.Regexp) string {
	if loc := re.FindStringIndex(name); loc != nil {
		return name[:loc[0]]
	}
	return name
}

// normalizeDesignator strips leading zeroes so "01" and "1" compare equal,
// while keeping fractional designators like "0.5" intact.
func normalizeDesignator(value string) string {
	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" {
		return "0"
	}
	if trimmed[0] == '.' || trimmed[0] == '-' {
		return "0" + trimmed
	}
	return trimmed
}

// Parser is the default file parser: filename heuristics plus embedded
// archive metadata.
type Parser struct {
	fs afero.Fs
}

func New(fsys afero.Fs) *Parser {
	return &Parser{fs: fsys}
}

// Parse builds a record for path from its filename, falling back to the
// parent folder name when the filename alone carries no series. It returns
// nil when the file cannot be parsed as part of a series.
func (p *Parser) Parse(path, root, libraryType string) *mediafile.ParsedFile {
	format := models.FormatFromPath(path)
	if format == models.FormatImage || format == models.FormatUnknown {
		return nil
	}

	filename := filepath.Base(path)
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	record := &mediafile.ParsedFile{
		Path:     path,
		Filename: filename,
		Format:   format,
		Volumes:  models.DefaultVolume,
		Chapters: models.DefaultChapter,
	}

	if libraryType == models.LibraryTypeBook {
		record.Series = ParseBookSeries(base)
		record.Volumes = ParseBookVolume(base)
	} else {
		record.Series = ParseSeries(base)
		record.Volumes = ParseVolume(base)
		record.Chapters = ParseChapter(base)
	}

	if HasSpecialMarker(base) {
		record.IsSpecial = true
		record.Volumes = models.DefaultVolume
		record.Chapters = models.DefaultChapter
	}

	// Files named with a bare volume or chapter marker inherit their series
	// from the folder they sit in.
	if record.Series == "" {
		dir := filepath.Dir(path)
		if dir != "." && dir != filepath.Clean(root) {
			record.Series = CleanTitle(filepath.Base(dir))
		}
	}

	if record.Series == "" {
		return nil
	}
	return record
}

// GetEmbeddedMetadata reads ComicInfo.xml out of zip-based archives. Other
// formats carry no embedded series metadata this pipeline consumes, and an
// unreadable archive is treated as having none.
func (p *Parser) GetEmbeddedMetadata(path string) *mediafile.EmbeddedMetadata {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbz", ".zip":
	default:
		return nil
	}
	metadata, err := comicinfo.ParseArchive(p.fs, path)
	if err != nil {
		return nil
	}
	return metadata
}
