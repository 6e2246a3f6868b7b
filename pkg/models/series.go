package models

// SeriesKey is the aggregation key for one logical series: a format plus the
// canonical normalized name the series is grouped under. FolderPath records
// where the first file of the series was found. At most one key may exist per
// (format, normalized-name cluster) at any time; a record matching more than
// one key is a data-integrity fault, never an automatic merge.
type SeriesKey struct {
	Name           string
	NormalizedName string
	Format         string
	FolderPath     string
}
