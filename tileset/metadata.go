package tileset

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/KotobaMedia/jp-estat-to-sql/bands"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/meshgrid"
)

const (
	MetadataFileName = "metadata.json"
	IndexFileName    = "tiles.geojson"
	TileExtension    = ".tile"
	FormatName       = "MTI1"
	TileFilePattern  = "{meshcode}" + TileExtension
)

// Metadata is the metadata.json record. Field order is the output order.
type Metadata struct {
	Format            string       `json:"format"`
	TileFilePattern   string       `json:"tile_file_pattern"`
	MeshKind          string       `json:"mesh_kind"`
	DataMeshLevel     uint8        `json:"data_mesh_level"`
	TileMeshLevel     uint8        `json:"tile_mesh_level"`
	DataMeshLevelName string       `json:"data_mesh_level_name"`
	TileMeshLevelName string       `json:"tile_mesh_level_name"`
	Year              uint16       `json:"year"`
	Survey            string       `json:"survey"`
	StatsID           string       `json:"stats_id"`
	Rows              uint32       `json:"rows"`
	Cols              uint32       `json:"cols"`
	Bands             uint8        `json:"bands"`
	DType             string       `json:"dtype"`
	Endianness        string       `json:"endianness"`
	Compression       string       `json:"compression"`
	NoData            int32        `json:"no_data"`
	BandColumns       []BandColumn `json:"band_columns"`
}

// BandColumn names one band. Band numbers start at 1.
type BandColumn struct {
	Band uint16 `json:"band"`
	Name string `json:"name"`
}

// MetadataInput is the run identity a Metadata record is built from.
type MetadataInput struct {
	Survey      string
	Year        uint16
	StatsID     string
	DataLevel   meshgrid.Level
	TileLevel   meshgrid.Level
	RowsPerAxis int
	Bands       []bands.Band
	Compression format.CompressionType
	NoData      int32
}

// NewMetadata builds the metadata record of a run.
func NewMetadata(in MetadataInput) (Metadata, error) {
	if err := in.DataLevel.Validate(); err != nil {
		return Metadata{}, err
	}
	if err := in.TileLevel.Validate(); err != nil {
		return Metadata{}, err
	}
	if in.RowsPerAxis <= 0 || in.RowsPerAxis > math.MaxUint32 {
		return Metadata{}, fmt.Errorf("%w: %d rows per axis", errs.ErrResolutionOverflow, in.RowsPerAxis)
	}
	if len(in.Bands) == 0 {
		return Metadata{}, errs.ErrEmptyBandList
	}
	if len(in.Bands) > bands.MaxBands {
		return Metadata{}, fmt.Errorf("%w: %d > %d", errs.ErrTooManyBands, len(in.Bands), bands.MaxBands)
	}
	if !in.Compression.Valid() {
		return Metadata{}, fmt.Errorf("%w: compression 0x%02x", errs.ErrInvalidOption, uint8(in.Compression))
	}

	columns := make([]BandColumn, len(in.Bands))
	for i, b := range in.Bands {
		columns[i] = BandColumn{Band: uint16(i + 1), Name: b.Name} //nolint: gosec
	}

	return Metadata{
		Format:            FormatName,
		TileFilePattern:   TileFilePattern,
		MeshKind:          format.MeshKindJISX0410.Tag(),
		DataMeshLevel:     uint8(in.DataLevel),
		TileMeshLevel:     uint8(in.TileLevel),
		DataMeshLevelName: in.DataLevel.Name(),
		TileMeshLevelName: in.TileLevel.Name(),
		Year:              in.Year,
		Survey:            in.Survey,
		StatsID:           in.StatsID,
		Rows:              uint32(in.RowsPerAxis), //nolint: gosec
		Cols:              uint32(in.RowsPerAxis), //nolint: gosec
		Bands:             uint8(len(in.Bands)),   //nolint: gosec
		DType:             format.DTypeInt32.Tag(),
		Endianness:        format.LittleEndian.Tag(),
		Compression:       in.Compression.Tag(),
		NoData:            in.NoData,
		BandColumns:       columns,
	}, nil
}

// Marshal renders the record as indented JSON.
func (m Metadata) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ReadMetadata parses a metadata.json body.
func ReadMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("parsing %s: %w", MetadataFileName, err)
	}

	return m, nil
}
