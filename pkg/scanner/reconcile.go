package scanner

import (
	"github.com/hondana/hondana/pkg/mediafile"
)

// reconcileLocalizedSeries unifies records published under a translated title
// with their canonical-title group, so the tracker never sees the split. It
// runs once per folder batch, before tracking, and is a no-op when no record
// in the batch carries a localized name.
func reconcileLocalizedSeries(batch []*mediafile.ParsedFile) {
	localized := ""
	for _, record := range batch {
		if record.LocalizedSeries != "" {
			localized = record.LocalizedSeries
			break
		}
	}
	if localized == "" {
		return
	}

	normalizedLocalized := Normalize(localized)

	// The canonical label is the title the group collapses to. When a sibling
	// file is actually named with the localized title, that spelling wins;
	// otherwise the first title differing from the localized one is kept and
	// the localized title is recorded alongside it.
	canonical := ""
	for _, record := range batch {
		if record.Series != "" && Normalize(record.Series) == normalizedLocalized {
			canonical = record.Series
			break
		}
	}
	if canonical == "" {
		for _, record := range batch {
			if record.Series != "" && record.Series != localized {
				canonical = record.Series
				break
			}
		}
	}
	if canonical == "" {
		return
	}

	normalizedCanonical := Normalize(canonical)
	for _, record := range batch {
		if Normalize(record.Series) == normalizedCanonical {
			continue
		}
		record.Series = canonical
		record.LocalizedSeries = localized
	}
}
