package comicinfo

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"github.com/hondana/hondana/pkg/mediafile"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ComicInfo mirrors the ComicInfo.xml schema, limited to the fields the scan
// pipeline consumes.
type ComicInfo struct {
	XMLName         xml.Name `xml:"ComicInfo"`
	Title           string   `xml:"Title"`
	Series          string   `xml:"Series"`
	LocalizedSeries string   `xml:"LocalizedSeries"`
	SeriesSort      string   `xml:"SeriesSort"`
	Number          string   `xml:"Number"`
	Volume          string   `xml:"Volume"`
	Count           string   `xml:"Count"`
	Format          string   `xml:"Format"`
	Summary         string   `xml:"Summary"`
	Writer          string   `xml:"Writer"`
	Publisher       string   `xml:"Publisher"`
	LanguageISO     string   `xml:"LanguageISO"`
}

// Format values that mark a file as a special/one-shot release.
var specialFormats = map[string]struct{}{
	"special":  {},
	"one-shot": {},
	"one shot": {},
	"oneshot":  {},
	"omake":    {},
}

// ParseArchive reads ComicInfo.xml out of a zip-based archive. It returns
// (nil, nil) when the archive has no ComicInfo.xml.
func ParseArchive(fsys afero.Fs, path string) (*mediafile.EmbeddedMetadata, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	stats, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	zipReader, err := zip.NewReader(f, stats.Size())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, file := range zipReader.File {
		if strings.ToLower(file.Name) != "comicinfo.xml" {
			continue
		}
		r, err := file.Open()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer r.Close()
		info, err := Parse(r)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return info.Embedded(), nil
	}

	return nil, nil
}

// Parse decodes a ComicInfo.xml document.
func Parse(r io.Reader) (*ComicInfo, error) {
	info := &ComicInfo{}
	if err := xml.NewDecoder(r).Decode(info); err != nil {
		return nil, errors.WithStack(err)
	}
	return info, nil
}

// Embedded converts the raw document into the fields the pipeline overrides
// filename-derived values with.
func (ci *ComicInfo) Embedded() *mediafile.EmbeddedMetadata {
	_, special := specialFormats[strings.ToLower(strings.TrimSpace(ci.Format))]
	return &mediafile.EmbeddedMetadata{
		Series:          ci.Series,
		LocalizedSeries: ci.LocalizedSeries,
		SortSeries:      ci.SeriesSort,
		Number:          ci.Number,
		Volume:          ci.Volume,
		Title:           ci.Title,
		Special:         special,
	}
}
