// Package tileset writes a directory of MTI1 tiles.
//
// A tile set directory holds:
//
//	metadata.json   run identity, dimensions and the band name table
//	<code>.tile     one encoded tile per tile code
//	tiles.geojson   optional footprint index of the written tiles
//
// The metadata must be written before any tile so that a consumer watching
// the directory can discover the schema first.
package tileset
