package scanner

import (
	"testing"

	"github.com/hondana/hondana/pkg/mediafile"
	"github.com/stretchr/testify/assert"
)

func TestReconcileLocalizedSeries(t *testing.T) {
	t.Run("records split by translated title collapse onto the canonical one", func(t *testing.T) {
		batch := []*mediafile.ParsedFile{
			{Series: "Accel World", Path: "library/Accel World/v01.cbz"},
			{Series: "World of Acceleration", LocalizedSeries: "Accel World", Path: "library/Accel World/v02.cbz"},
		}

		reconcileLocalizedSeries(batch)

		assert.Equal(t, "Accel World", batch[0].Series)
		assert.Equal(t, "Accel World", batch[1].Series)
		assert.Equal(t, "Accel World", batch[1].LocalizedSeries)
	})

	t.Run("no localized name means no rewrites", func(t *testing.T) {
		batch := []*mediafile.ParsedFile{
			{Series: "Naruto", Path: "library/Naruto/v01.cbz"},
			{Series: "naruto", Path: "library/Naruto/v02.cbz"},
		}

		reconcileLocalizedSeries(batch)

		assert.Equal(t, "Naruto", batch[0].Series)
		assert.Equal(t, "naruto", batch[1].Series)
	})

	t.Run("first differing title is canonical when none matches the localized one", func(t *testing.T) {
		batch := []*mediafile.ParsedFile{
			{Series: "Shingeki no Kyojin", LocalizedSeries: "Attack on Titan", Path: "library/SnK/v01.cbz"},
			{Series: "Shingeki no Kyoujin", Path: "library/SnK/v02.cbz"},
		}

		reconcileLocalizedSeries(batch)

		assert.Equal(t, "Shingeki no Kyojin", batch[0].Series)
		assert.Equal(t, "Shingeki no Kyojin", batch[1].Series)
		assert.Equal(t, "Attack on Titan", batch[1].LocalizedSeries)
	})

	t.Run("records already matching the canonical name keep their spelling", func(t *testing.T) {
		batch := []*mediafile.ParsedFile{
			{Series: "Accel World", Path: "library/Accel World/v01.cbz"},
			{Series: "accel world", Path: "library/Accel World/v02.cbz"},
			{Series: "World of Acceleration", LocalizedSeries: "Accel World", Path: "library/Accel World/v03.cbz"},
		}

		reconcileLocalizedSeries(batch)

		assert.Equal(t, "Accel World", batch[0].Series)
		assert.Equal(t, "accel world", batch[1].Series)
		assert.Equal(t, "Accel World", batch[2].Series)
	})
}
