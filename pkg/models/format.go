package models

import (
	"path/filepath"
	"strings"
)

const (
	FormatUnknown = "unknown"
	FormatArchive = "archive"
	FormatEPUB    = "epub"
	FormatPDF     = "pdf"
	FormatImage   = "image"
)

// Sentinel designators for files that carry no volume or chapter marker.
const (
	DefaultVolume  = "0"
	DefaultChapter = "0"
)

var formatsByExtension = map[string]string{
	".cbz":  FormatArchive,
	".cbr":  FormatArchive,
	".zip":  FormatArchive,
	".rar":  FormatArchive,
	".7z":   FormatArchive,
	".epub": FormatEPUB,
	".pdf":  FormatPDF,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".png":  FormatImage,
	".webp": FormatImage,
	".gif":  FormatImage,
}

// FormatFromPath maps a file path to its broad media format based on the
// extension alone.
func FormatFromPath(path string) string {
	if format, ok := formatsByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return format
	}
	return FormatUnknown
}
