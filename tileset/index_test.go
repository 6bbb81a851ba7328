package tileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

func TestBuildIndex(t *testing.T) {
	body, err := BuildIndex([]uint64{5340, 5339})
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, 5339.0, first.Properties["meshcode"])
	assert.Equal(t, "5339.tile", first.Properties["file"])
	assert.Equal(t, 5340.0, fc.Features[1].Properties["meshcode"])

	b := first.Geometry.Bound()
	assert.InDelta(t, 139.0, b.Min.Lon(), 1e-9)
	assert.InDelta(t, 140.0, b.Max.Lon(), 1e-9)
	assert.InDelta(t, 53.0*2/3, b.Min.Lat(), 1e-9)
	assert.InDelta(t, 36.0, b.Max.Lat(), 1e-9)
}

func TestBuildIndex_Empty(t *testing.T) {
	body, err := BuildIndex(nil)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestBuildIndex_NonStandardCode(t *testing.T) {
	_, err := BuildIndex([]uint64{53394})
	require.ErrorIs(t, err, errs.ErrNonStandardLevel)
}

func TestWriter_WriteIndex(t *testing.T) {
	w := newTestWriter(t, &recordingCodec{})
	require.NoError(t, w.WriteIndex([]uint64{53393599}))

	body, err := os.ReadFile(filepath.Join(w.Dir(), IndexFileName))
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
}
