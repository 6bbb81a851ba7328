package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track(5339, "a.txt"))
	require.NoError(t, tracker.Track(5440, "b.txt"))
	require.Equal(t, 2, tracker.Count())
}

func TestTracker_SameSourceRepeated(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track(53393599, "a.txt"))
	require.NoError(t, tracker.Track(53393599, "a.txt"))
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Overlap(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track(5339, "a.txt"))
	err := tracker.Track(5339, "b.txt")
	require.ErrorIs(t, err, errs.ErrTileSourceOverlap)
	require.Contains(t, err.Error(), "tile 5339 from a.txt and b.txt")
	require.Equal(t, 1, tracker.Count())
}
