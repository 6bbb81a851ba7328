// Package accumulate folds mesh statistics rows into per-tile value buffers.
//
// Files are added one at a time. The first file fixes the header and the band
// selection; every later file must carry an identical header. Each data row is
// mapped to its tile with meshgrid.MapMeshCodeToTile and its band values are
// written into the tile buffer, replacing any earlier value for the same cell.
//
// Buffers stay in memory until the caller drains the TileSet, which visits
// tiles in ascending code order so that output is deterministic.
//
// An Accumulator is not safe for concurrent use.
package accumulate
