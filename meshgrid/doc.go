// Package meshgrid maps JIS X0410 mesh codes onto tile rasters.
//
// A mesh code at level N is a decimal number whose digits address a cell by
// successive subdivision:
//
//	Level  Digits  Split from parent   Sub-digits
//	1      4       -                   lat(2) lng(2)
//	2      6       8 × 8               row, col at positions 4, 5 (0-7)
//	3      8       10 × 10             row, col at positions 6, 7 (0-9)
//	4      9       2 × 2               quadrant at position 8 (1-4)
//	5      10      2 × 2               quadrant at position 9 (1-4)
//	6      11      2 × 2               quadrant at position 10 (1-4)
//
// Quadrant digits select 1=SW, 2=SE, 3=NW, 4=NE.
//
// A tile is one cell at the tile level, rasterized into rowsPerAxis × rowsPerAxis
// cells at the data level. Mesh rows count northward from the south edge, so
// MapMeshCodeToTile flips them to raster rows counted from the top.
//
// All arithmetic is exact integer math on the digits; no coordinates are involved.
package meshgrid
