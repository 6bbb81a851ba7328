package tileset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotobaMedia/jp-estat-to-sql/accumulate"
	"github.com/KotobaMedia/jp-estat-to-sql/bands"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
)

func sampleMetadataInput() MetadataInput {
	return MetadataInput{
		Survey:      "人口及び世帯",
		Year:        2020,
		StatsID:     "T001140",
		DataLevel:   3,
		TileLevel:   1,
		RowsPerAxis: 80,
		Bands: []bands.Band{
			{SourceIndex: 4, Name: "人口（総数）"},
			{SourceIndex: 5, Name: "人口（男）"},
		},
		Compression: format.CompressionDeflateRaw,
		NoData:      accumulate.NoData,
	}
}

func TestNewMetadata(t *testing.T) {
	md, err := NewMetadata(sampleMetadataInput())
	require.NoError(t, err)

	assert.Equal(t, Metadata{
		Format:            "MTI1",
		TileFilePattern:   "{meshcode}.tile",
		MeshKind:          "jis-x0410",
		DataMeshLevel:     3,
		TileMeshLevel:     1,
		DataMeshLevelName: "Lv3",
		TileMeshLevelName: "Lv1",
		Year:              2020,
		Survey:            "人口及び世帯",
		StatsID:           "T001140",
		Rows:              80,
		Cols:              80,
		Bands:             2,
		DType:             "int32",
		Endianness:        "little",
		Compression:       "deflate-raw",
		NoData:            -2147483648,
		BandColumns: []BandColumn{
			{Band: 1, Name: "人口（総数）"},
			{Band: 2, Name: "人口（男）"},
		},
	}, md)
}

func TestNewMetadata_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*MetadataInput)
		want   error
	}{
		{"data level", func(in *MetadataInput) { in.DataLevel = 7 }, errs.ErrUnsupportedLevel},
		{"tile level", func(in *MetadataInput) { in.TileLevel = 0 }, errs.ErrUnsupportedLevel},
		{"rows", func(in *MetadataInput) { in.RowsPerAxis = 0 }, errs.ErrResolutionOverflow},
		{"no bands", func(in *MetadataInput) { in.Bands = nil }, errs.ErrEmptyBandList},
		{"too many bands", func(in *MetadataInput) { in.Bands = make([]bands.Band, 256) }, errs.ErrTooManyBands},
		{"compression", func(in *MetadataInput) { in.Compression = 0 }, errs.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleMetadataInput()
			tt.modify(&in)
			_, err := NewMetadata(in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMetadata_Marshal(t *testing.T) {
	md, err := NewMetadata(sampleMetadataInput())
	require.NoError(t, err)

	body, err := md.Marshal()
	require.NoError(t, err)
	text := string(body)

	assert.True(t, strings.HasPrefix(text, "{\n  \"format\": \"MTI1\",\n  \"tile_file_pattern\": \"{meshcode}.tile\","), text)
	assert.Contains(t, text, `"no_data": -2147483648`)
	assert.Contains(t, text, `"name": "人口（総数）"`)

	// field order is part of the file format
	keys := []string{"format", "tile_file_pattern", "mesh_kind", "data_mesh_level", "tile_mesh_level",
		"data_mesh_level_name", "tile_mesh_level_name", "year", "survey", "stats_id", "rows", "cols",
		"bands", "dtype", "endianness", "compression", "no_data", "band_columns"}
	last := -1
	for _, k := range keys {
		idx := strings.Index(text, "\n  \""+k+"\":")
		require.Greater(t, idx, last, k)
		last = idx
	}

	parsed, err := ReadMetadata(body)
	require.NoError(t, err)
	assert.Equal(t, md, parsed)
}

func TestReadMetadata_Invalid(t *testing.T) {
	_, err := ReadMetadata([]byte("{"))
	require.Error(t, err)
}
