package scanner

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var normalizeStripRE = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize maps a title to its canonical comparison key: transliterate to
// ASCII, lowercase, and strip everything that is not a letter or digit. It is
// deterministic, total (the empty string maps to the empty key), and
// idempotent. Callers must normalize at every comparison site instead of
// caching keys, because series names can be rewritten while a scan is still
// in flight.
func Normalize(text string) string {
	return normalizeStripRE.ReplaceAllString(strings.ToLower(unidecode.Unidecode(text)), "")
}
