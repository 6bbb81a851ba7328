package tileset

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/paulmach/orb/geojson"

	"github.com/KotobaMedia/jp-estat-to-sql/jismesh"
)

// BuildIndex returns a GeoJSON FeatureCollection with one polygon per tile
// code, in ascending code order. Each feature carries the "meshcode" and
// "file" properties.
func BuildIndex(codes []uint64) ([]byte, error) {
	sorted := slices.Clone(codes)
	slices.Sort(sorted)

	fc := geojson.NewFeatureCollection()
	for _, code := range sorted {
		bound, err := jismesh.Bounds(code)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", code, err)
		}

		f := geojson.NewFeature(bound.ToPolygon())
		f.BBox = geojson.NewBBox(bound)
		f.Properties["meshcode"] = code
		f.Properties["file"] = TileFileName(code)
		fc.Append(f)
	}

	return fc.MarshalJSON()
}

// WriteIndex writes tiles.geojson for the given tile codes.
func (w *Writer) WriteIndex(codes []uint64) error {
	body, err := BuildIndex(codes)
	if err != nil {
		return fmt.Errorf("building %s: %w", IndexFileName, err)
	}

	path := filepath.Join(w.dir, IndexFileName)
	if err := os.WriteFile(path, body, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
