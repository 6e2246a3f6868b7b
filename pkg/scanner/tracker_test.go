package scanner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hondana/hondana/pkg/mediafile"
	"github.com/hondana/hondana/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(series, path string) *mediafile.ParsedFile {
	return &mediafile.ParsedFile{
		Path:     path,
		Series:   series,
		Volumes:  models.DefaultVolume,
		Chapters: models.DefaultChapter,
		Format:   models.FormatArchive,
	}
}

func singleKey(t *testing.T, tracker *SeriesTracker) models.SeriesKey {
	t.Helper()
	snapshot := tracker.Snapshot()
	require.Len(t, snapshot, 1)
	for key := range snapshot {
		return key
	}
	return models.SeriesKey{}
}

func TestTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("spelling variants collapse onto the first-seen name", func(t *testing.T) {
		tracker := NewSeriesTracker()
		tracker.Track(ctx, record("One Piece", "library/One Piece/v01.cbz"))
		tracker.Track(ctx, record("One-Piece", "library/One Piece/v02.cbz"))
		tracker.Track(ctx, record("one piece", "library/One Piece/v03.cbz"))

		key := singleKey(t, tracker)
		assert.Equal(t, "One Piece", key.Name)
		assert.Equal(t, "onepiece", key.NormalizedName)
		assert.Equal(t, "library/One Piece", key.FolderPath)
		assert.Len(t, tracker.Snapshot()[key], 3)
	})

	t.Run("empty series is dropped silently", func(t *testing.T) {
		tracker := NewSeriesTracker()
		tracker.Track(ctx, record("", "library/v01.cbz"))
		tracker.Track(ctx, nil)

		assert.Empty(t, tracker.Snapshot())
	})

	t.Run("same record tracked twice is stored once", func(t *testing.T) {
		tracker := NewSeriesTracker()
		r := record("Naruto", "library/Naruto/v01.cbz")
		tracker.Track(ctx, r)
		tracker.Track(ctx, r)

		key := singleKey(t, tracker)
		assert.Len(t, tracker.Snapshot()[key], 1)
	})

	t.Run("distinct records with the same path are stored once", func(t *testing.T) {
		tracker := NewSeriesTracker()
		tracker.Track(ctx, record("Naruto", "library/Naruto/v01.cbz"))
		tracker.Track(ctx, record("Naruto", "library/Naruto/v01.cbz"))

		key := singleKey(t, tracker)
		assert.Len(t, tracker.Snapshot()[key], 1)
	})

	t.Run("formats aggregate separately", func(t *testing.T) {
		tracker := NewSeriesTracker()
		archive := record("Overlord", "library/Overlord/Overlord v01.cbz")
		epub := record("Overlord", "library/Overlord/Overlord v02.epub")
		epub.Format = models.FormatEPUB
		tracker.Track(ctx, archive)
		tracker.Track(ctx, epub)

		assert.Len(t, tracker.Snapshot(), 2)
	})

	t.Run("localized name matches an existing key", func(t *testing.T) {
		tracker := NewSeriesTracker()
		tracker.Track(ctx, record("Accel World", "library/Accel World/v01.cbz"))

		r := record("World of Acceleration", "library/Accel World/v02.cbz")
		r.LocalizedSeries = "Accel World"
		tracker.Track(ctx, r)

		key := singleKey(t, tracker)
		assert.Equal(t, "Accel World", key.Name)
		assert.Len(t, tracker.Snapshot()[key], 2)
	})

	t.Run("a record matching multiple keys is not aggregated", func(t *testing.T) {
		tracker := NewSeriesTracker()
		first := record("Accel World", "library/Accel World/v01.cbz")
		second := record("World of Acceleration", "library/World of Acceleration/v01.cbz")
		tracker.Track(ctx, first)
		tracker.Track(ctx, second)
		require.Len(t, tracker.Snapshot(), 2)

		conflicted := record("accel world", "library/Mixed/v02.cbz")
		conflicted.LocalizedSeries = "World of Acceleration"
		tracker.Track(ctx, conflicted)

		snapshot := tracker.Snapshot()
		require.Len(t, snapshot, 2)
		for _, records := range snapshot {
			assert.Len(t, records, 1)
		}
	})

	t.Run("concurrent tracking of one series creates one key", func(t *testing.T) {
		tracker := NewSeriesTracker()
		variants := []string{"One Piece", "one piece", "One-Piece", "ONE PIECE"}

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				path := fmt.Sprintf("library/One Piece/v%02d.cbz", i)
				tracker.Track(ctx, record(variants[i%len(variants)], path))
			}(i)
		}
		wg.Wait()

		key := singleKey(t, tracker)
		assert.Equal(t, "onepiece", key.NormalizedName)
		assert.Len(t, tracker.Snapshot()[key], 32)
	})
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("empty series are dropped", func(t *testing.T) {
		tracker := NewSeriesTracker()
		tracker.Track(ctx, record("Naruto", "library/Naruto/v01.cbz"))
		tracker.series[models.SeriesKey{Name: "Ghost", NormalizedName: "ghost", Format: models.FormatArchive}] = nil

		snapshot := tracker.Snapshot()
		require.Len(t, snapshot, 1)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		tracker := NewSeriesTracker()
		tracker.Track(ctx, record("Naruto", "library/Naruto/v01.cbz"))

		snapshot := tracker.Snapshot()
		key := singleKey(t, tracker)
		snapshot[key] = append(snapshot[key], record("Naruto", "library/Naruto/v02.cbz"))

		assert.Len(t, tracker.Snapshot()[key], 1)
	})
}
